package handlers

import (
	"net/http"
	"strings"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/logging"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// AuthGate verifies the caller's access token and resolves it to a live user
// before any protected handler runs. It never mutates state and never logs
// token values.
type AuthGate struct {
	Users  UserStore
	Tokens TokenService
}

// Require wraps a handler, rejecting requests that do not carry a valid
// access token for an existing user. The resolved identity is attached to the
// request context.
func (g AuthGate) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := bearerToken(r)
		if token == "" {
			respondError(ctx, w, apperr.Authentication("authentication required"))
			return
		}

		claims, err := g.Tokens.Verify(token, auth.TokenKindAccess)
		if err != nil {
			respondError(ctx, w, apperr.Authentication("invalid or expired access token"))
			return
		}

		user, err := g.Users.FindByID(ctx, claims.Subject)
		if err != nil {
			logging.FromContext(ctx).Warn("access token references unknown user", "userId", claims.Subject)
			respondError(ctx, w, apperr.Authentication("invalid or expired access token"))
			return
		}

		next(w, r.WithContext(auth.WithIdentity(ctx, user)))
	}
}

// bearerToken extracts the access token from the auth cookie or, failing
// that, an Authorization bearer header.
func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}
