package controllers

import (
	"context"
	"net/http"

	"github.com/obinnaeze/renthaven-backend/api/responses"
	"github.com/obinnaeze/renthaven-backend/api/validators"
	"github.com/obinnaeze/renthaven-backend/internal/onboarding"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

// accountTypeWriter is the dual-write store surface the onboarding flow
// needs when a completed record carries the chosen type.
type accountTypeWriter interface {
	Set(ctx context.Context, w http.ResponseWriter, userID string, accountType enums.AccountType) error
}

type saveOnboardingRequest struct {
	Step *int `json:"step,omitempty" validate:"omitempty,min=1,max=5"`
	onboarding.StepData
}

func GetOnboarding(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func SaveOnboarding(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req saveOnboardingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		step := 0
		if req.Step != nil {
			step = *req.Step
		}
		record, err := svc.Save(r.Context(), userID, req.StepData, step)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// CompleteOnboarding finalizes the record and, because completion always
// carries a chosen type, sets the account type in the same request so the
// next navigation sees it.
func CompleteOnboarding(svc onboarding.Service, types accountTypeWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var data onboarding.StepData
		if err := validators.DecodeJSONBody(r, &data); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Complete(r.Context(), userID, data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if types != nil {
			accountType := enums.ParseAccountType(record.UserType)
			if accountType.IsSet() {
				if err := types.Set(r.Context(), w, userID.String(), accountType); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
		}
		responses.WriteSuccess(w, record)
	}
}

func OnboardingProgress(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		progress, err := svc.Progress(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, progress)
	}
}
