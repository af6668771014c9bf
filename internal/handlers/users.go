package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

const maxUploadMemory = 64 << 20

// UserHandler implements registration, authentication, and account endpoints.
type UserHandler struct {
	Users         UserStore
	Tokens        TokenService
	Media         MediaStore
	History       WatchHistoryStore
	Subscriptions SubscriptionStore
	Limiter       RateLimiter
	NowFunc       func() time.Time
}

type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullname"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
		CreatedAt:  user.CreatedAt,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User   userResponse     `json:"user"`
	Tokens models.TokenPair `json:"tokens"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

// Register handles POST /api/v1/users/register. The request is a multipart
// form carrying the account fields, a required avatar file, and an optional
// cover image.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respondJSON(ctx, w, http.StatusTooManyRequests, nil, "too many requests")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, apperr.Validation("a multipart form with account details and an avatar is required"))
		return
	}

	username := strings.ToLower(strings.TrimSpace(r.FormValue("username")))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	fullName := strings.TrimSpace(r.FormValue("fullname"))
	password := r.FormValue("password")

	switch {
	case username == "":
		respondError(ctx, w, apperr.Validation("username is required"))
		return
	case email == "":
		respondError(ctx, w, apperr.Validation("email is required"))
		return
	case fullName == "":
		respondError(ctx, w, apperr.Validation("fullname is required"))
		return
	case password == "":
		respondError(ctx, w, apperr.Validation("password is required"))
		return
	}

	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, apperr.Validation("invalid email address"))
		return
	}
	if len(password) < 8 {
		respondError(ctx, w, apperr.Validation("password must be at least 8 characters"))
		return
	}

	avatarFile, avatarHeader, err := r.FormFile("avatar")
	if err != nil {
		respondError(ctx, w, apperr.Validation("avatar is required"))
		return
	}
	defer avatarFile.Close()

	avatarURL, err := h.Media.Save(ctx, mediaKey("avatars", avatarHeader.Filename), avatarFile)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to store avatar", err))
		return
	}

	coverURL := ""
	if coverFile, coverHeader, err := r.FormFile("coverImage"); err == nil {
		defer coverFile.Close()
		coverURL, err = h.Media.Save(ctx, mediaKey("covers", coverHeader.Filename), coverFile)
		if err != nil {
			h.deleteMedia(ctx, avatarURL)
			respondError(ctx, w, apperr.Internal("failed to store cover image", err))
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to secure password", err))
		return
	}

	now := h.now()
	user := models.User{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   string(hashed),
		Avatar:     avatarURL,
		CoverImage: coverURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		h.deleteMedia(ctx, avatarURL, coverURL)
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, apperr.Conflict("username or email already exists"))
			return
		}
		respondError(ctx, w, apperr.Internal("failed to create account", err))
		return
	}

	logger.Info("user registered", "userId", user.ID, "username", user.Username)
	respondJSON(ctx, w, http.StatusCreated, newUserResponse(user), "user created successfully")
}

// Login handles POST /api/v1/users/login. Either username or email may
// identify the account.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondJSON(ctx, w, http.StatusTooManyRequests, nil, "too many requests")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Username))
	if identifier == "" {
		identifier = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if identifier == "" || req.Password == "" {
		respondError(ctx, w, apperr.Validation("username or email, and password are required"))
		return
	}

	user, err := h.Users.FindByLogin(ctx, identifier)
	if err != nil {
		respondError(ctx, w, apperr.Authentication("invalid login credentials"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		logger.Warn("login password mismatch", "userId", user.ID)
		respondError(ctx, w, apperr.Authentication("invalid login credentials"))
		return
	}

	tokens, err := h.issueSession(r, w, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info("user logged in", "userId", user.ID)
	respondJSON(ctx, w, http.StatusOK, loginResponse{User: newUserResponse(user), Tokens: tokens}, "logged in successfully")
}

// Logout handles POST /api/v1/users/logout. Clearing the stored refresh token
// revokes any outstanding refresh token immediately.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	if err := h.Users.SetRefreshToken(ctx, identity.ID, ""); err != nil {
		respondError(ctx, w, apperr.Internal("failed to log out", err))
		return
	}

	clearAuthCookies(w)
	respondJSON(ctx, w, http.StatusOK, nil, "logged out successfully")
}

// RefreshAccessToken handles POST /api/v1/users/refresh-access-token. The
// refresh token must be signature-valid AND equal to the value currently
// stored on the user record; rotation replaces the stored value.
func (h UserHandler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !allowRequest(h.Limiter, r, "refresh") {
		respondJSON(ctx, w, http.StatusTooManyRequests, nil, "too many requests")
		return
	}

	token := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := decodeJSON(r, &req); err == nil {
			token = strings.TrimSpace(req.RefreshToken)
		}
	}
	if token == "" {
		respondError(ctx, w, apperr.Authentication("refresh token is required"))
		return
	}

	claims, err := h.Tokens.Verify(token, auth.TokenKindRefresh)
	if err != nil {
		respondError(ctx, w, apperr.Authentication("invalid or expired refresh token"))
		return
	}

	user, err := h.Users.FindByID(ctx, claims.Subject)
	if err != nil {
		respondError(ctx, w, apperr.Authentication("invalid or expired refresh token"))
		return
	}

	if user.RefreshToken == "" || user.RefreshToken != token {
		respondError(ctx, w, apperr.Authentication("refresh token is expired or has been revoked"))
		return
	}

	tokens, err := h.issueSession(r, w, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, tokens, "access token refreshed successfully")
}

// ChangePassword handles POST /api/v1/users/change-password. A successful
// change also revokes the stored refresh token.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		respondError(ctx, w, apperr.Validation("old and new passwords are required"))
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(ctx, w, apperr.Validation("password must be at least 8 characters"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.Password), []byte(req.OldPassword)) != nil {
		respondError(ctx, w, apperr.Authentication("incorrect old password"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to secure password", err))
		return
	}

	identity.Password = string(hashed)
	identity.RefreshToken = ""
	identity.UpdatedAt = h.now()

	if err := h.Users.Update(ctx, identity); err != nil {
		respondError(ctx, w, apperr.Internal("failed to update password", err))
		return
	}

	clearAuthCookies(w)
	respondJSON(ctx, w, http.StatusOK, nil, "password updated successfully")
}

// CurrentUser handles GET /api/v1/users/current.
func (h UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)
	respondJSON(ctx, w, http.StatusOK, newUserResponse(identity), "current user fetched successfully")
}

// WatchHistory handles GET /api/v1/users/history.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	entries, err := h.History.ListForUser(ctx, identity.ID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch watch history", err))
		return
	}

	payload := make([]watchEntryResponse, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, watchEntryResponse{
			Video:     newVideoResponse(entry.Video),
			Owner:     entry.Owner,
			WatchedAt: entry.WatchedAt,
		})
	}

	respondJSON(ctx, w, http.StatusOK, payload, "watch history fetched successfully")
}

// UpdateAccount handles PATCH /api/v1/users/update-account.
func (h UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		respondError(ctx, w, apperr.Validation("fullname and email fields are required"))
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, apperr.Validation("invalid email address"))
		return
	}

	identity.FullName = fullName
	identity.Email = email
	identity.UpdatedAt = h.now()

	if err := h.Users.Update(ctx, identity); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, apperr.Conflict("email already in use"))
			return
		}
		respondError(ctx, w, apperr.Internal("failed to update account", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, newUserResponse(identity), "account details updated successfully")
}

// UpdateAvatar handles PATCH /api/v1/users/update-avatar.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", "avatars")
}

// UpdateCoverImage handles PATCH /api/v1/users/update-cover-image.
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", "covers")
}

func (h UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field, folder string) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, apperr.Validation("a multipart form with a "+field+" file is required"))
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		respondError(ctx, w, apperr.Validation(field+" is required"))
		return
	}
	defer file.Close()

	url, err := h.Media.Save(ctx, mediaKey(folder, header.Filename), file)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to store "+field, err))
		return
	}

	var old string
	if field == "avatar" {
		old, identity.Avatar = identity.Avatar, url
	} else {
		old, identity.CoverImage = identity.CoverImage, url
	}
	identity.UpdatedAt = h.now()

	if err := h.Users.Update(ctx, identity); err != nil {
		h.deleteMedia(ctx, url)
		respondError(ctx, w, apperr.Internal("failed to update "+field, err))
		return
	}

	h.deleteMedia(ctx, old)
	respondJSON(ctx, w, http.StatusOK, newUserResponse(identity), field+" updated successfully")
}

// ChannelProfile handles GET /api/v1/users/c/{username}.
func (h UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	username := strings.ToLower(strings.TrimSpace(r.PathValue("username")))
	if username == "" {
		respondError(ctx, w, apperr.Validation("username is required"))
		return
	}

	channel, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		respondError(ctx, w, apperr.NotFound("channel does not exist"))
		return
	}

	subscribers, err := h.Subscriptions.CountSubscribers(ctx, channel.ID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch channel profile", err))
		return
	}
	subscribedTo, err := h.Subscriptions.CountSubscriptions(ctx, channel.ID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch channel profile", err))
		return
	}
	isSubscribed, err := h.Subscriptions.IsSubscribed(ctx, identity.ID, channel.ID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch channel profile", err))
		return
	}

	profile := models.ChannelProfile{
		ID:              channel.ID,
		Username:        channel.Username,
		FullName:        channel.FullName,
		Email:           channel.Email,
		Avatar:          channel.Avatar,
		CoverImage:      channel.CoverImage,
		SubscriberCount: subscribers,
		SubscribedCount: subscribedTo,
		IsSubscribed:    isSubscribed,
	}

	respondJSON(ctx, w, http.StatusOK, profile, "channel profile fetched successfully")
}

// issueSession mints a fresh token pair, persists the rotated refresh token,
// and sets the auth cookies.
func (h UserHandler) issueSession(r *http.Request, w http.ResponseWriter, user models.User) (models.TokenPair, error) {
	ctx := r.Context()

	tokens, err := h.Tokens.IssuePair(user)
	if err != nil {
		return models.TokenPair{}, apperr.Internal("failed to issue session", err)
	}

	if err := h.Users.SetRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return models.TokenPair{}, apperr.Internal("failed to persist session", err)
	}

	setAuthCookies(w, tokens)
	return tokens, nil
}

func (h UserHandler) deleteMedia(ctx context.Context, locations ...string) {
	for _, location := range locations {
		if location == "" {
			continue
		}
		if err := h.Media.Delete(ctx, location); err != nil {
			logging.FromContext(ctx).Warn("failed to delete media object", "location", location, "error", err)
		}
	}
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

func setAuthCookies(w http.ResponseWriter, tokens models.TokenPair) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, Value: tokens.AccessToken, Path: "/", HttpOnly: true, Secure: true, SameSite: http.SameSiteLaxMode})
	http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, Value: tokens.RefreshToken, Path: "/", HttpOnly: true, Secure: true, SameSite: http.SameSiteLaxMode})
}

func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: true, SameSite: http.SameSiteLaxMode})
	http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: true, SameSite: http.SameSiteLaxMode})
}
