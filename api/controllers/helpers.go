package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/api/middleware"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
)

// currentUserID resolves the authenticated user from the request context.
func currentUserID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	return parsed, nil
}
