package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/videotube/backend/internal/models"
)

type stubDashboardStore struct {
	stats models.ChannelStats
}

func (s stubDashboardStore) Stats(_ context.Context, _ string) (models.ChannelStats, error) {
	return s.stats, nil
}

func TestDashboardHandlerStats(t *testing.T) {
	users := newMemUserStore()
	owner := seedUser(users, "user-1", "alice")

	handler := DashboardHandler{
		Dashboard: stubDashboardStore{stats: models.ChannelStats{TotalVideos: 3, TotalSubscribers: 12, TotalLikes: 40, TotalViews: 900}},
		Videos:    newMemVideoStore(),
	}

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil), owner)
	rec := httptest.NewRecorder()

	handler.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var stats models.ChannelStats
	decodeEnvelope(t, rec, &stats)

	if stats.TotalViews != 900 || stats.TotalVideos != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestDashboardHandlerVideosIncludesUnpublished(t *testing.T) {
	users := newMemUserStore()
	owner := seedUser(users, "user-1", "alice")

	videos := newMemVideoStore()
	videos.videos["vid-1"] = models.Video{ID: "vid-1", OwnerID: owner.ID, IsPublished: true}
	videos.videos["vid-2"] = models.Video{ID: "vid-2", OwnerID: owner.ID, IsPublished: false}
	videos.videos["vid-3"] = models.Video{ID: "vid-3", OwnerID: "user-2", IsPublished: true}

	handler := DashboardHandler{Dashboard: stubDashboardStore{}, Videos: videos}

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/videos", nil), owner)
	rec := httptest.NewRecorder()

	handler.ListVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var listed []videoResponse
	decodeEnvelope(t, rec, &listed)

	if len(listed) != 2 {
		t.Fatalf("expected the owner's two videos, got %+v", listed)
	}
}
