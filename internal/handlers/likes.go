package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/repositories"
)

// LikeHandler implements the like toggles and the liked-videos listing.
type LikeHandler struct {
	Likes    LikeStore
	Videos   VideoStore
	Comments CommentStore
	Tweets   TweetStore
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	videoID := strings.TrimSpace(r.PathValue("videoId"))
	if videoID == "" {
		respondError(ctx, w, apperr.Validation("video id is required"))
		return
	}
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, targetError(err, "video"))
		return
	}

	liked, err := h.Likes.ToggleVideo(ctx, identity.ID, videoID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to toggle like", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"isLiked": liked}, likeMessage(liked))
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	commentID := strings.TrimSpace(r.PathValue("commentId"))
	if commentID == "" {
		respondError(ctx, w, apperr.Validation("comment id is required"))
		return
	}
	if _, err := h.Comments.FindByID(ctx, commentID); err != nil {
		respondError(ctx, w, targetError(err, "comment"))
		return
	}

	liked, err := h.Likes.ToggleComment(ctx, identity.ID, commentID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to toggle like", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"isLiked": liked}, likeMessage(liked))
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	tweetID := strings.TrimSpace(r.PathValue("tweetId"))
	if tweetID == "" {
		respondError(ctx, w, apperr.Validation("tweet id is required"))
		return
	}
	if _, err := h.Tweets.FindByID(ctx, tweetID); err != nil {
		respondError(ctx, w, targetError(err, "tweet"))
		return
	}

	liked, err := h.Likes.ToggleTweet(ctx, identity.ID, tweetID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to toggle like", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"isLiked": liked}, likeMessage(liked))
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	videos, err := h.Likes.ListLikedVideos(ctx, identity.ID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch liked videos", err))
		return
	}

	payload := make([]videoResponse, 0, len(videos))
	for _, video := range videos {
		payload = append(payload, newVideoResponse(video))
	}

	respondJSON(ctx, w, http.StatusOK, payload, "liked videos fetched successfully")
}

func likeMessage(liked bool) string {
	if liked {
		return "liked successfully"
	}
	return "like removed successfully"
}

// targetError translates a lookup failure on the like target into the error
// returned to the client.
func targetError(err error, resource string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(resource + " does not exist")
	}
	return apperr.Internal("failed to fetch "+resource, err)
}
