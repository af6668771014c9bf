package auth

import (
	"context"

	"github.com/videotube/backend/internal/models"
)

// ctxKey is an unexported type for context keys defined in this package.
type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity attaches the authenticated user to the context.
func WithIdentity(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// IdentityFromContext retrieves the authenticated user placed on the context
// by the auth gate.
func IdentityFromContext(ctx context.Context) (models.User, bool) {
	if ctx == nil {
		return models.User{}, false
	}
	user, ok := ctx.Value(identityKey).(models.User)
	return user, ok
}
