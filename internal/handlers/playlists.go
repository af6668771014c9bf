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

// PlaylistHandler implements the playlist endpoints.
type PlaylistHandler struct {
	Playlists PlaylistStore
	Videos    VideoStore
	Users     UserStore
	NowFunc   func() time.Time
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type playlistResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VideoIDs    []string  `json:"videos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newPlaylistResponse(playlist models.Playlist) playlistResponse {
	videoIDs := playlist.VideoIDs
	if videoIDs == nil {
		videoIDs = []string{}
	}
	return playlistResponse{
		ID:          playlist.ID,
		OwnerID:     playlist.OwnerID,
		Name:        playlist.Name,
		Description: playlist.Description,
		VideoIDs:    videoIDs,
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
	}
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(ctx, w, apperr.Validation("name is required"))
		return
	}

	now := h.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     identity.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		respondError(ctx, w, apperr.Internal("failed to create playlist", err))
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newPlaylistResponse(playlist), "playlist created successfully")
}

// Get handles GET /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.findPlaylist(ctx, r.PathValue("playlistId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newPlaylistResponse(playlist), "playlist fetched successfully")
}

// ListForUser handles GET /api/v1/playlists/user/{userId}.
func (h PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := strings.TrimSpace(r.PathValue("userId"))
	if userID == "" {
		respondError(ctx, w, apperr.Validation("user id is required"))
		return
	}
	if _, err := h.Users.FindByID(ctx, userID); err != nil {
		respondError(ctx, w, targetError(err, "user"))
		return
	}

	playlists, err := h.Playlists.ListByOwner(ctx, userID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch playlists", err))
		return
	}

	payload := make([]playlistResponse, 0, len(playlists))
	for _, playlist := range playlists {
		payload = append(payload, newPlaylistResponse(playlist))
	}

	respondJSON(ctx, w, http.StatusOK, payload, "playlists fetched successfully")
}

// Update handles PATCH /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	playlist, err := h.findPlaylist(ctx, r.PathValue("playlistId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := requireOwner(playlist.OwnerID, identity.ID, "playlists"); err != nil {
		respondError(ctx, w, err)
		return
	}

	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		playlist.Name = name
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		playlist.Description = description
	}
	playlist.UpdatedAt = h.now()

	if err := h.Playlists.Update(ctx, playlist); err != nil {
		respondError(ctx, w, apperr.Internal("failed to update playlist", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, newPlaylistResponse(playlist), "playlist updated successfully")
}

// Delete handles DELETE /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	playlist, err := h.findPlaylist(ctx, r.PathValue("playlistId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := requireOwner(playlist.OwnerID, identity.ID, "playlists"); err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		respondError(ctx, w, apperr.Internal("failed to delete playlist", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "playlist deleted successfully")
}

// AddVideo handles PATCH /api/v1/playlists/add/{videoId}/{playlistId}. Adding
// a video already present is a conflict.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	playlist, videoID, err := h.resolvePair(ctx, r, identity.ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlist.ID, videoID, h.now()); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, apperr.Conflict("video is already in the playlist"))
			return
		}
		respondError(ctx, w, apperr.Internal("failed to add video to playlist", err))
		return
	}

	playlist.VideoIDs = append(playlist.VideoIDs, videoID)
	respondJSON(ctx, w, http.StatusOK, newPlaylistResponse(playlist), "video added to playlist successfully")
}

// RemoveVideo handles PATCH /api/v1/playlists/remove/{videoId}/{playlistId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	playlist, videoID, err := h.resolvePair(ctx, r, identity.ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Playlists.RemoveVideo(ctx, playlist.ID, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperr.NotFound("video is not in the playlist"))
			return
		}
		respondError(ctx, w, apperr.Internal("failed to remove video from playlist", err))
		return
	}

	remaining := playlist.VideoIDs[:0]
	for _, id := range playlist.VideoIDs {
		if id != videoID {
			remaining = append(remaining, id)
		}
	}
	playlist.VideoIDs = remaining
	respondJSON(ctx, w, http.StatusOK, newPlaylistResponse(playlist), "video removed from playlist successfully")
}

// resolvePair loads and authorises the playlist, then confirms the video
// exists. Existence failures surface before ownership failures.
func (h PlaylistHandler) resolvePair(ctx context.Context, r *http.Request, callerID string) (models.Playlist, string, error) {
	playlist, err := h.findPlaylist(ctx, r.PathValue("playlistId"))
	if err != nil {
		return models.Playlist{}, "", err
	}

	videoID := strings.TrimSpace(r.PathValue("videoId"))
	if videoID == "" {
		return models.Playlist{}, "", apperr.Validation("video id is required")
	}
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		return models.Playlist{}, "", targetError(err, "video")
	}

	if err := requireOwner(playlist.OwnerID, callerID, "playlists"); err != nil {
		return models.Playlist{}, "", err
	}

	return playlist, videoID, nil
}

func (h PlaylistHandler) findPlaylist(ctx context.Context, id string) (models.Playlist, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Playlist{}, apperr.Validation("playlist id is required")
	}

	playlist, err := h.Playlists.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Playlist{}, apperr.NotFound("playlist does not exist")
		}
		return models.Playlist{}, apperr.Internal("failed to fetch playlist", err)
	}

	return playlist, nil
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
