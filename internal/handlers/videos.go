package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

// VideoHandler implements video listing, publishing, and lifecycle endpoints.
type VideoHandler struct {
	Videos  VideoStore
	Users   UserStore
	Media   MediaStore
	History WatchHistoryStore
	NowFunc func() time.Time
}

type videoResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newVideoResponse(video models.Video) videoResponse {
	return videoResponse{
		ID:          video.ID,
		OwnerID:     video.OwnerID,
		VideoFile:   video.VideoFile,
		Thumbnail:   video.Thumbnail,
		Title:       video.Title,
		Description: video.Description,
		Duration:    video.Duration,
		Views:       video.Views,
		IsPublished: video.IsPublished,
		CreatedAt:   video.CreatedAt,
		UpdatedAt:   video.UpdatedAt,
	}
}

type videoDetailResponse struct {
	videoResponse
	Owner models.UserSummary `json:"owner"`
}

type watchEntryResponse struct {
	Video     videoResponse      `json:"video"`
	Owner     models.UserSummary `json:"owner"`
	WatchedAt time.Time          `json:"watchedAt"`
}

type updateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// List handles GET /api/v1/videos. Supported query parameters are page, limit,
// query, userId, sortBy, and sortType; sortBy defaults to duration and
// sortType to asc.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	opts := repositories.ListVideosOptions{
		Page:     queryInt(q.Get("page"), 1),
		Limit:    queryInt(q.Get("limit"), 10),
		Query:    strings.TrimSpace(q.Get("query")),
		OwnerID:  strings.TrimSpace(q.Get("userId")),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
	}
	if opts.SortBy == "" {
		opts.SortBy = repositories.SortByDuration
	}
	if opts.SortType == "" {
		opts.SortType = repositories.SortAscending
	}

	switch opts.SortBy {
	case repositories.SortByDuration, repositories.SortByUploadDate, repositories.SortByViewCount:
	default:
		respondError(ctx, w, apperr.Validation("sortBy must be one of duration, uploadDate, viewCount"))
		return
	}
	switch opts.SortType {
	case repositories.SortAscending, repositories.SortDescending:
	default:
		respondError(ctx, w, apperr.Validation("sortType must be asc or desc"))
		return
	}

	videos, err := h.Videos.List(ctx, opts)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch videos", err))
		return
	}

	payload := make([]videoResponse, 0, len(videos))
	for _, video := range videos {
		payload = append(payload, newVideoResponse(video))
	}

	respondJSON(ctx, w, http.StatusOK, payload, "videos fetched successfully")
}

// Publish handles POST /api/v1/videos. The multipart form must carry the
// video file, a thumbnail, a title, and the duration in seconds.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	identity, _ := auth.IdentityFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, apperr.Validation("a multipart form with the video, thumbnail, and details is required"))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		respondError(ctx, w, apperr.Validation("title is required"))
		return
	}

	durationValue, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("duration")), 64)
	if err != nil || durationValue <= 0 {
		respondError(ctx, w, apperr.Validation("duration must be a positive number of seconds"))
		return
	}
	duration := int(math.Round(durationValue))

	videoFile, videoHeader, err := r.FormFile("videoFile")
	if err != nil {
		respondError(ctx, w, apperr.Validation("videoFile is required"))
		return
	}
	defer videoFile.Close()

	thumbFile, thumbHeader, err := r.FormFile("thumbnail")
	if err != nil {
		respondError(ctx, w, apperr.Validation("thumbnail is required"))
		return
	}
	defer thumbFile.Close()

	videoURL, err := h.Media.Save(ctx, mediaKey("videos", videoHeader.Filename), videoFile)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to store video file", err))
		return
	}

	thumbURL, err := h.Media.Save(ctx, mediaKey("thumbnails", thumbHeader.Filename), thumbFile)
	if err != nil {
		h.deleteMedia(ctx, videoURL)
		respondError(ctx, w, apperr.Internal("failed to store thumbnail", err))
		return
	}

	now := h.now()
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     identity.ID,
		VideoFile:   videoURL,
		Thumbnail:   thumbURL,
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		Duration:    duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		h.deleteMedia(ctx, videoURL, thumbURL)
		respondError(ctx, w, apperr.Internal("failed to publish video", err))
		return
	}

	logger.Info("video published", "videoId", video.ID, "ownerId", identity.ID)
	respondJSON(ctx, w, http.StatusCreated, newVideoResponse(video), "video published successfully")
}

// Get handles GET /api/v1/videos/{videoId}. Fetching a video counts a view
// and records the watch in the caller's history.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	identity, _ := auth.IdentityFromContext(ctx)

	video, err := h.findVideo(ctx, r.PathValue("videoId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Videos.IncrementViews(ctx, video.ID); err != nil {
		logger.Warn("failed to increment view count", "videoId", video.ID, "error", err)
	} else {
		video.Views++
	}

	if err := h.History.Record(ctx, identity.ID, video.ID, h.now()); err != nil {
		logger.Warn("failed to record watch history", "videoId", video.ID, "error", err)
	}

	owner, err := h.Users.FindByID(ctx, video.OwnerID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch video owner", err))
		return
	}

	detail := videoDetailResponse{videoResponse: newVideoResponse(video), Owner: owner.Summary()}
	respondJSON(ctx, w, http.StatusOK, detail, "video fetched successfully")
}

// Update handles PATCH /api/v1/videos/{videoId}. Title and description come
// from the JSON body; a replacement thumbnail may be sent as multipart
// instead.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	video, err := h.findVideo(ctx, r.PathValue("videoId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := requireOwner(video.OwnerID, identity.ID, "videos"); err != nil {
		respondError(ctx, w, err)
		return
	}

	oldThumbnail, newThumbnail := "", ""
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			respondError(ctx, w, apperr.Validation("malformed multipart form"))
			return
		}
		if title := strings.TrimSpace(r.FormValue("title")); title != "" {
			video.Title = title
		}
		if description := strings.TrimSpace(r.FormValue("description")); description != "" {
			video.Description = description
		}
		if thumbFile, thumbHeader, err := r.FormFile("thumbnail"); err == nil {
			defer thumbFile.Close()
			url, err := h.Media.Save(ctx, mediaKey("thumbnails", thumbHeader.Filename), thumbFile)
			if err != nil {
				respondError(ctx, w, apperr.Internal("failed to store thumbnail", err))
				return
			}
			oldThumbnail, newThumbnail = video.Thumbnail, url
			video.Thumbnail = url
		}
	} else {
		var req updateVideoRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(ctx, w, err)
			return
		}
		if title := strings.TrimSpace(req.Title); title != "" {
			video.Title = title
		}
		if description := strings.TrimSpace(req.Description); description != "" {
			video.Description = description
		}
	}

	video.UpdatedAt = h.now()
	if err := h.Videos.Update(ctx, video); err != nil {
		h.deleteMedia(ctx, newThumbnail)
		respondError(ctx, w, apperr.Internal("failed to update video", err))
		return
	}

	h.deleteMedia(ctx, oldThumbnail)
	respondJSON(ctx, w, http.StatusOK, newVideoResponse(video), "video updated successfully")
}

// Delete handles DELETE /api/v1/videos/{videoId}. The stored media objects
// are removed best effort after the record is gone.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	identity, _ := auth.IdentityFromContext(ctx)

	video, err := h.findVideo(ctx, r.PathValue("videoId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := requireOwner(video.OwnerID, identity.ID, "videos"); err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		respondError(ctx, w, apperr.Internal("failed to delete video", err))
		return
	}

	h.deleteMedia(ctx, video.VideoFile, video.Thumbnail)
	logger.Info("video deleted", "videoId", video.ID, "ownerId", identity.ID)
	respondJSON(ctx, w, http.StatusOK, nil, "video deleted successfully")
}

// TogglePublish handles PATCH /api/v1/videos/{videoId}/toggle-publish.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	video, err := h.findVideo(ctx, r.PathValue("videoId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := requireOwner(video.OwnerID, identity.ID, "videos"); err != nil {
		respondError(ctx, w, err)
		return
	}

	video.IsPublished = !video.IsPublished
	video.UpdatedAt = h.now()
	if err := h.Videos.Update(ctx, video); err != nil {
		respondError(ctx, w, apperr.Internal("failed to toggle publish state", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"isPublished": video.IsPublished}, "publish state toggled successfully")
}

func (h VideoHandler) findVideo(ctx context.Context, id string) (models.Video, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Video{}, apperr.Validation("video id is required")
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Video{}, apperr.NotFound("video does not exist")
		}
		return models.Video{}, apperr.Internal("failed to fetch video", err)
	}

	return video, nil
}

func (h VideoHandler) deleteMedia(ctx context.Context, locations ...string) {
	for _, location := range locations {
		if location == "" {
			continue
		}
		if err := h.Media.Delete(ctx, location); err != nil {
			logging.FromContext(ctx).Warn("failed to delete media object", "location", location, "error", err)
		}
	}
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

// queryInt parses a positive integer query parameter, falling back when the
// value is absent or malformed.
func queryInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
