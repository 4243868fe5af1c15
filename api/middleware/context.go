package middleware

import (
	"context"

	"github.com/obinnaeze/renthaven-backend/pkg/enums"
)

// AccountTypeReader resolves a user's account type from its store.
type AccountTypeReader interface {
	Get(ctx context.Context, userID string) (enums.AccountType, error)
}

type contextKey string

const (
	ctxUserID      contextKey = "user_id"
	ctxAccountType contextKey = "account_type"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func AccountTypeFromContext(ctx context.Context) enums.AccountType {
	if ctx == nil {
		return enums.AccountTypeUnset
	}
	if v, ok := ctx.Value(ctxAccountType).(enums.AccountType); ok {
		return v
	}
	return enums.AccountTypeUnset
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithAccountType injects the resolved account type for downstream handlers.
func WithAccountType(ctx context.Context, accountType enums.AccountType) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccountType, accountType)
}
