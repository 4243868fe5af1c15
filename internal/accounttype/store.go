package accounttype

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	redisclient "github.com/obinnaeze/renthaven-backend/pkg/redis"
)

// CookieName is the request-visible mirror of the durable store. The gate
// reads it on every navigation without a round trip.
const CookieName = "userAccountType"

const cookieMaxAge = int(365 * 24 * time.Hour / time.Second)

type typeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type typeKeyer interface {
	AccountTypeKey(userID string) string
}

// Store maps a signed-in identity to its chosen account type. Every write
// lands in both the durable backend and the mirrored cookie in the same
// logical operation; the invariant lives here, not at call sites.
type Store struct {
	store typeStore
	keyer typeKeyer
}

// NewStore constructs an account-type store backed by Redis.
func NewStore(client *redisclient.Client) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Store{store: client, keyer: client}, nil
}

// Get reads the current value. Absence is a valid state, not a failure:
// a never-written identity reads as unset.
func (s *Store) Get(ctx context.Context, userID string) (enums.AccountType, error) {
	if strings.TrimSpace(userID) == "" {
		return enums.AccountTypeUnset, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	value, err := s.store.Get(ctx, s.keyer.AccountTypeKey(userID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return enums.AccountTypeUnset, nil
		}
		return enums.AccountTypeUnset, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read account type")
	}
	return enums.ParseAccountType(value), nil
}

// Set writes the durable record and the cookie mirror together. The backend
// write goes first so a failure leaves both locations on the old value
// rather than a split pair.
func (s *Store) Set(ctx context.Context, w http.ResponseWriter, userID string, accountType enums.AccountType) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !accountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "account type must be renter or owner").
			WithDetails(map[string]any{"field": "accountType"})
	}
	if err := s.store.Set(ctx, s.keyer.AccountTypeKey(userID), string(accountType), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write account type")
	}
	writeCookie(w, string(accountType), cookieMaxAge)
	return nil
}

// Clear resets both locations to unset.
func (s *Store) Clear(ctx context.Context, w http.ResponseWriter, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.store.Del(ctx, s.keyer.AccountTypeKey(userID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear account type")
	}
	writeCookie(w, "", -1)
	return nil
}

// FromRequest reads the cookie mirror. Tampered or missing values read as
// unset, the most restrictive state.
func FromRequest(r *http.Request) enums.AccountType {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return enums.AccountTypeUnset
	}
	return enums.ParseAccountType(cookie.Value)
}

// RedirectTargetFor maps an account type to its home route. Total: every
// input has an answer.
func RedirectTargetFor(accountType enums.AccountType) string {
	switch accountType {
	case enums.AccountTypeRenter:
		return "/listings"
	case enums.AccountTypeOwner:
		return "/dashboard/owner"
	}
	return "/get-started"
}

func writeCookie(w http.ResponseWriter, value string, maxAge int) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	})
}
