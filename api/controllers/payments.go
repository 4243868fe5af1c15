package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/obinnaeze/renthaven-backend/api/responses"
	"github.com/obinnaeze/renthaven-backend/api/validators"
	"github.com/obinnaeze/renthaven-backend/internal/payments"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

type payBookingRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid4"`
	SourceID  string `json:"sourceId" validate:"required"`
}

func PayForBooking(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renterID, err := currentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req payBookingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookingID, err := validators.ParseUUIDParam(req.BookingID, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.PayForBooking(r.Context(), renterID, bookingID, req.SourceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func VerifyPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUserID(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentID := chi.URLParam(r, "paymentID")
		record, err := svc.Verify(r.Context(), paymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}
