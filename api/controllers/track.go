package controllers

import (
	"net/http"
	"time"

	"github.com/obinnaeze/renthaven-backend/api/responses"
	"github.com/obinnaeze/renthaven-backend/api/validators"
	"github.com/obinnaeze/renthaven-backend/internal/analytics"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

type trackInteractionRequest struct {
	EventType  string            `json:"eventType" validate:"required,max=100"`
	Page       string            `json:"page" validate:"omitempty,max=500"`
	Metadata   map[string]string `json:"metadata"`
	OccurredAt *time.Time        `json:"occurredAt"`
}

func TrackInteraction(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req trackInteractionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event := analytics.InteractionEvent{
			UserID:    userID,
			EventType: req.EventType,
			Page:      req.Page,
			Metadata:  req.Metadata,
		}
		if req.OccurredAt != nil {
			event.OccurredAt = *req.OccurredAt
		}

		messageID, err := svc.Track(r.Context(), event)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"messageId": messageID})
	}
}
