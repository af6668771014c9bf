package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

// TweetHandler implements the short-post endpoints.
type TweetHandler struct {
	Tweets  TweetStore
	Users   UserStore
	NowFunc func() time.Time
}

type tweetRequest struct {
	Content string `json:"content"`
}

type tweetResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newTweetResponse(tweet models.Tweet) tweetResponse {
	return tweetResponse{
		ID:        tweet.ID,
		OwnerID:   tweet.OwnerID,
		Content:   tweet.Content,
		CreatedAt: tweet.CreatedAt,
		UpdatedAt: tweet.UpdatedAt,
	}
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, apperr.Validation("content is required"))
		return
	}

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   identity.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		respondError(ctx, w, apperr.Internal("failed to create tweet", err))
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newTweetResponse(tweet), "tweet created successfully")
}

// ListForUser handles GET /api/v1/tweets/user/{userId}.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := strings.TrimSpace(r.PathValue("userId"))
	if userID == "" {
		respondError(ctx, w, apperr.Validation("user id is required"))
		return
	}

	if _, err := h.Users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperr.NotFound("user does not exist"))
			return
		}
		respondError(ctx, w, apperr.Internal("failed to fetch user", err))
		return
	}

	tweets, err := h.Tweets.ListByOwner(ctx, userID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch tweets", err))
		return
	}

	payload := make([]tweetResponse, 0, len(tweets))
	for _, tweet := range tweets {
		payload = append(payload, newTweetResponse(tweet))
	}

	respondJSON(ctx, w, http.StatusOK, payload, "tweets fetched successfully")
}

// Update handles PATCH /api/v1/tweets/{tweetId}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	tweet, err := h.findTweet(ctx, r.PathValue("tweetId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := requireOwner(tweet.OwnerID, identity.ID, "tweets"); err != nil {
		respondError(ctx, w, err)
		return
	}

	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, apperr.Validation("content is required"))
		return
	}

	tweet.Content = content
	tweet.UpdatedAt = h.now()

	if err := h.Tweets.Update(ctx, tweet); err != nil {
		respondError(ctx, w, apperr.Internal("failed to update tweet", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, newTweetResponse(tweet), "tweet updated successfully")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	tweet, err := h.findTweet(ctx, r.PathValue("tweetId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := requireOwner(tweet.OwnerID, identity.ID, "tweets"); err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		respondError(ctx, w, apperr.Internal("failed to delete tweet", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "tweet deleted successfully")
}

func (h TweetHandler) findTweet(ctx context.Context, id string) (models.Tweet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Tweet{}, apperr.Validation("tweet id is required")
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Tweet{}, apperr.NotFound("tweet does not exist")
		}
		return models.Tweet{}, apperr.Internal("failed to fetch tweet", err)
	}

	return tweet, nil
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
