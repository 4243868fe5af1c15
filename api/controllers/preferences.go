package controllers

import (
	"context"
	"net/http"

	"github.com/obinnaeze/renthaven-backend/api/responses"
	"github.com/obinnaeze/renthaven-backend/api/validators"
	"github.com/obinnaeze/renthaven-backend/internal/accounttype"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

// accountTypeStore is the full dual-write surface behind user preferences.
type accountTypeStore interface {
	Get(ctx context.Context, userID string) (enums.AccountType, error)
	Set(ctx context.Context, w http.ResponseWriter, userID string, accountType enums.AccountType) error
	Clear(ctx context.Context, w http.ResponseWriter, userID string) error
}

type setPreferencesRequest struct {
	AccountType string `json:"accountType" validate:"required"`
}

type preferencesResponse struct {
	AccountType    string `json:"accountType"`
	RedirectTarget string `json:"redirectTarget"`
}

// GetPreferences reads the account type. Absence is a valid answer, not an
// error: an unset type comes back with the get-started target.
func GetPreferences(store accountTypeStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accountType, err := store.Get(r.Context(), userID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read account type"))
			return
		}
		responses.WriteSuccess(w, preferencesResponse{
			AccountType:    string(accountType),
			RedirectTarget: accounttype.RedirectTargetFor(accountType),
		})
	}
}

func SetPreferences(store accountTypeStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req setPreferencesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accountType := enums.ParseAccountType(req.AccountType)
		if !accountType.IsSet() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "accountType must be renter or owner"))
			return
		}

		if err := store.Set(r.Context(), w, userID.String(), accountType); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preferencesResponse{
			AccountType:    string(accountType),
			RedirectTarget: accounttype.RedirectTargetFor(accountType),
		})
	}
}

// ClearPreferences resets the account type in both the store and the cookie.
func ClearPreferences(store accountTypeStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Clear(r.Context(), w, userID.String()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preferencesResponse{
			AccountType:    "",
			RedirectTarget: accounttype.RedirectTargetFor(enums.AccountTypeUnset),
		})
	}
}
