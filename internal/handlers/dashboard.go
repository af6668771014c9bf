package handlers

import (
	"net/http"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/auth"
)

// DashboardHandler implements the channel dashboard endpoints. Both routes
// operate on the authenticated caller's own channel.
type DashboardHandler struct {
	Dashboard DashboardStore
	Videos    VideoStore
}

// Stats handles GET /api/v1/dashboard/stats.
func (h DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	stats, err := h.Dashboard.Stats(ctx, identity.ID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch channel stats", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, stats, "channel stats fetched successfully")
}

// Videos handles GET /api/v1/dashboard/videos, listing every video on the
// caller's channel including unpublished ones.
func (h DashboardHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	videos, err := h.Videos.ListByOwner(ctx, identity.ID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch channel videos", err))
		return
	}

	payload := make([]videoResponse, 0, len(videos))
	for _, video := range videos {
		payload = append(payload, newVideoResponse(video))
	}

	respondJSON(ctx, w, http.StatusOK, payload, "channel videos fetched successfully")
}
