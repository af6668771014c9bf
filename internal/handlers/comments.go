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

// CommentHandler implements the comment endpoints on videos.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	NowFunc  func() time.Time
}

type commentRequest struct {
	Content string `json:"content"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCommentResponse(comment models.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		OwnerID:   comment.OwnerID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// ListForVideo handles GET /api/v1/comments/{videoId}.
func (h CommentHandler) ListForVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID := strings.TrimSpace(r.PathValue("videoId"))
	if videoID == "" {
		respondError(ctx, w, apperr.Validation("video id is required"))
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperr.NotFound("video does not exist"))
			return
		}
		respondError(ctx, w, apperr.Internal("failed to fetch video", err))
		return
	}

	q := r.URL.Query()
	comments, err := h.Comments.ListByVideo(ctx, videoID, queryInt(q.Get("page"), 1), queryInt(q.Get("limit"), 10))
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch comments", err))
		return
	}

	payload := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		payload = append(payload, newCommentResponse(comment))
	}

	respondJSON(ctx, w, http.StatusOK, payload, "comments fetched successfully")
}

// Create handles POST /api/v1/comments/{videoId}.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	videoID := strings.TrimSpace(r.PathValue("videoId"))
	if videoID == "" {
		respondError(ctx, w, apperr.Validation("video id is required"))
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, apperr.Validation("content is required"))
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperr.NotFound("video does not exist"))
			return
		}
		respondError(ctx, w, apperr.Internal("failed to fetch video", err))
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   identity.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondError(ctx, w, apperr.Internal("failed to add comment", err))
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newCommentResponse(comment), "comment added successfully")
}

// Update handles PATCH /api/v1/comments/c/{commentId}.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	comment, err := h.findComment(ctx, r.PathValue("commentId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := requireOwner(comment.OwnerID, identity.ID, "comments"); err != nil {
		respondError(ctx, w, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, apperr.Validation("content is required"))
		return
	}

	comment.Content = content
	comment.UpdatedAt = h.now()

	if err := h.Comments.Update(ctx, comment); err != nil {
		respondError(ctx, w, apperr.Internal("failed to update comment", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, newCommentResponse(comment), "comment updated successfully")
}

// Delete handles DELETE /api/v1/comments/c/{commentId}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	comment, err := h.findComment(ctx, r.PathValue("commentId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := requireOwner(comment.OwnerID, identity.ID, "comments"); err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		respondError(ctx, w, apperr.Internal("failed to delete comment", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "comment deleted successfully")
}

func (h CommentHandler) findComment(ctx context.Context, id string) (models.Comment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Comment{}, apperr.Validation("comment id is required")
	}

	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Comment{}, apperr.NotFound("comment does not exist")
		}
		return models.Comment{}, apperr.Internal("failed to fetch comment", err)
	}

	return comment, nil
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
