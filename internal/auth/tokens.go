package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/models"
)

var (
	// ErrTokenExpired indicates the token's signature is valid but its
	// lifetime has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid indicates the token is malformed, carries a bad
	// signature, or was presented as the wrong kind.
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenKind distinguishes the two classes of issued tokens. Each kind is
// signed with its own secret, so an access token can never verify as a
// refresh token or vice versa.
type TokenKind string

const (
	// TokenKindAccess is the short-lived per-request credential.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long-lived credential persisted on the user
	// record.
	TokenKindRefresh TokenKind = "refresh"
)

// Claims embeds the identity attributes carried inside every issued token.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the signed, time-limited tokens used for
// authentication. Access tokens are never persisted; refresh tokens are
// additionally checked against the value stored on the user record by the
// callers of Verify.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	now func() time.Time
}

// NewTokenService constructs a TokenService from the token configuration.
func NewTokenService(cfg config.TokenConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// IssueAccessToken signs a short-lived access token for the user.
func (s *TokenService) IssueAccessToken(user models.User) (string, error) {
	return s.issue(user, TokenKindAccess)
}

// IssueRefreshToken signs a long-lived refresh token for the user.
func (s *TokenService) IssueRefreshToken(user models.User) (string, error) {
	return s.issue(user, TokenKindRefresh)
}

// IssuePair signs a fresh access and refresh token pair for the user.
func (s *TokenService) IssuePair(user models.User) (models.TokenPair, error) {
	access, err := s.IssueAccessToken(user)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := s.IssueRefreshToken(user)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify parses and validates a token of the given kind, returning its claims.
func (s *TokenService) Verify(token string, kind TokenKind) (Claims, error) {
	secret, _, err := s.material(kind)
	if err != nil {
		return Claims{}, err
	}

	var claims Claims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	return claims, nil
}

func (s *TokenService) issue(user models.User, kind TokenKind) (string, error) {
	if user.ID == "" {
		return "", errors.New("user id must be provided")
	}

	secret, ttl, err := s.material(kind)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	claims := Claims{
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (s *TokenService) material(kind TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case TokenKindAccess:
		return s.accessSecret, s.accessTTL, nil
	case TokenKindRefresh:
		return s.refreshSecret, s.refreshTTL, nil
	default:
		return nil, 0, fmt.Errorf("unknown token kind %q", kind)
	}
}

// WithNowFunc overrides the time source, for tests.
func (s *TokenService) WithNowFunc(now func() time.Time) {
	s.now = now
}
