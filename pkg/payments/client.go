package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sq "github.com/square/square-go-sdk"
	sqclient "github.com/square/square-go-sdk/client"
	sqcore "github.com/square/square-go-sdk/core"
	sqoption "github.com/square/square-go-sdk/option"

	"github.com/obinnaeze/renthaven-backend/pkg/config"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

const (
	sandboxEnv    = "sandbox"
	productionEnv = "production"
)

var (
	errAccessTokenRequired = errors.New("square access token is required")
	errLocationRequired    = errors.New("square location id is required")
	errInvalidEnv          = fmt.Errorf("square environment must be %q or %q", sandboxEnv, productionEnv)
)

var baseURLs = map[string]string{
	sandboxEnv:    "https://connect.squareupsandbox.com",
	productionEnv: "https://connect.squareup.com",
}

// TransactionRecord is the gateway-agnostic view of a payment. Card data
// never enters this system; the record carries only references and totals.
type TransactionRecord struct {
	ID        string          `json:"id"`
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

// InitParams are the inputs for starting a payment.
type InitParams struct {
	AmountMinorUnits int64
	Currency         string
	SourceID         string
	Reference        string
	Note             string
}

// Client wraps the Square SDK behind the narrow gateway surface the
// application consumes.
type Client struct {
	sdk         *sqclient.Client
	locationID  string
	environment string
	currency    string
	logger      *logger.Logger
}

// NewClient initializes the gateway wrapper and validates credentials.
func NewClient(cfg config.SquareConfig, logg *logger.Logger) (*Client, error) {
	env := cfg.Environment()
	if env == "" {
		env = sandboxEnv
	}
	baseURL, ok := baseURLs[env]
	if !ok {
		return nil, errInvalidEnv
	}

	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errAccessTokenRequired
	}
	locationID := strings.TrimSpace(cfg.LocationID)
	if locationID == "" {
		return nil, errLocationRequired
	}

	sdk := sqclient.NewClient(
		sqoption.WithBaseURL(baseURL),
		sqoption.WithToken(accessToken),
	)

	return &Client{
		sdk:         sdk,
		locationID:  locationID,
		environment: env,
		currency:    strings.ToUpper(strings.TrimSpace(cfg.Currency)),
		logger:      logg,
	}, nil
}

// Environment reports the normalized gateway environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// InitPayment creates a payment at the gateway and returns its record.
func (c *Client) InitPayment(ctx context.Context, params InitParams) (*TransactionRecord, error) {
	if params.AmountMinorUnits <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(params.SourceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment source is required")
	}

	currency := params.Currency
	if currency == "" {
		currency = c.currency
	}

	req := &sq.CreatePaymentRequest{
		IdempotencyKey: fmt.Sprintf("payment-%s", uuid.NewString()),
		LocationID:     ptrString(c.locationID),
		SourceID:       params.SourceID,
		AmountMoney:    moneyPtr(params.AmountMinorUnits, currency),
	}
	if trimmed := strings.TrimSpace(params.Reference); trimmed != "" {
		req.ReferenceID = ptrString(trimmed)
	}
	if trimmed := strings.TrimSpace(params.Note); trimmed != "" {
		req.Note = ptrString(trimmed)
	}

	resp, err := c.sdk.Payments.Create(ctx, req)
	if err != nil {
		return nil, c.mapGatewayError(err, "create payment")
	}

	return recordFromPayment(resp.GetPayment()), nil
}

// VerifyTransaction looks up a payment by gateway id. A missing payment is
// reported as (nil, nil): absence is an answer, not a failure.
func (c *Client) VerifyTransaction(ctx context.Context, paymentID string) (*TransactionRecord, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}

	resp, err := c.sdk.Payments.Get(ctx, &sq.GetPaymentsRequest{PaymentID: paymentID})
	if err != nil {
		var apiErr *sqcore.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, c.mapGatewayError(err, "get payment")
	}

	return recordFromPayment(resp.GetPayment()), nil
}

func (c *Client) mapGatewayError(err error, op string) error {
	var apiErr *sqcore.APIError
	if errors.As(err, &apiErr) {
		code := pkgerrors.CodeDependency
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			code = pkgerrors.CodeUnauthorized
		case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
			code = pkgerrors.CodeValidation
		}
		return pkgerrors.Wrap(code, err, fmt.Sprintf("gateway %s failed", op))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("gateway %s failed", op))
}

func recordFromPayment(payment *sq.Payment) *TransactionRecord {
	if payment == nil {
		return nil
	}
	record := &TransactionRecord{
		ID:        stringValue(payment.GetID()),
		Reference: stringValue(payment.GetReferenceID()),
		Status:    stringValue(payment.GetStatus()),
	}
	if money := payment.GetAmountMoney(); money != nil {
		if amount := money.GetAmount(); amount != nil {
			record.Amount = decimal.New(*amount, -2)
		}
		if currency := money.GetCurrency(); currency != nil {
			record.Currency = string(*currency)
		}
	}
	return record
}

func ptrString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func moneyPtr(amount int64, currency string) *sq.Money {
	if amount == 0 {
		return nil
	}
	code := sq.Currency(strings.ToUpper(strings.TrimSpace(currency)))
	return &sq.Money{
		Amount:   &amount,
		Currency: &code,
	}
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
