package controllers

import (
	"net/http"

	"github.com/obinnaeze/renthaven-backend/api/responses"
	"github.com/obinnaeze/renthaven-backend/api/validators"
	"github.com/obinnaeze/renthaven-backend/internal/support"
	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

// WhatsAppLink hands the client a prefilled deep link. The conversation
// itself happens off-platform; nothing here round-trips.
func WhatsAppLink(cfg config.SupportConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUserID(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		text := r.URL.Query().Get("text")
		responses.WriteSuccess(w, map[string]string{
			"link": support.BuildWhatsAppLink(cfg.WhatsAppNumber, text),
		})
	}
}

type contactSupportRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

func ContactSupport(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req contactSupportRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Contact(r.Context(), userID, req.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func SupportHistory(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.History(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"messages": rows})
	}
}
