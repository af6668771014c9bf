package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/videotube/backend/internal/models"
)

func TestPlaylistHandlerCreate(t *testing.T) {
	users := newMemUserStore()
	owner := seedUser(users, "user-1", "alice")

	playlists := newMemPlaylistStore()
	handler := PlaylistHandler{Playlists: playlists, Videos: newMemVideoStore(), Users: users}

	body, _ := json.Marshal(playlistRequest{Name: "Favourites", Description: "good stuff"})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/playlists", bytes.NewReader(body)), owner)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created playlistResponse
	decodeEnvelope(t, rec, &created)

	if created.Name != "Favourites" || created.OwnerID != owner.ID {
		t.Fatalf("unexpected playlist %+v", created)
	}
	if created.VideoIDs == nil {
		t.Fatal("expected videos to serialize as an empty list")
	}
}

func TestPlaylistHandlerAddVideoRejectsDuplicate(t *testing.T) {
	users := newMemUserStore()
	owner := seedUser(users, "user-1", "alice")

	videos := newMemVideoStore()
	videos.videos["vid-1"] = models.Video{ID: "vid-1", OwnerID: owner.ID}

	playlists := newMemPlaylistStore()
	playlists.playlists["pl-1"] = models.Playlist{ID: "pl-1", OwnerID: owner.ID, Name: "Mix"}

	handler := PlaylistHandler{Playlists: playlists, Videos: videos, Users: users}

	add := func() *httptest.ResponseRecorder {
		req := authedRequest(httptest.NewRequest(http.MethodPatch, "/api/v1/playlists/add/vid-1/pl-1", nil), owner)
		req.SetPathValue("videoId", "vid-1")
		req.SetPathValue("playlistId", "pl-1")
		rec := httptest.NewRecorder()
		handler.AddVideo(rec, req)
		return rec
	}

	if rec := add(); rec.Code != http.StatusOK {
		t.Fatalf("first add: expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if rec := add(); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate add: expected status %d got %d", http.StatusConflict, rec.Code)
	}
	if got := playlists.playlists["pl-1"].VideoIDs; len(got) != 1 {
		t.Fatalf("expected one entry in playlist, got %v", got)
	}
}

func TestPlaylistHandlerRemoveVideoNotPresent(t *testing.T) {
	users := newMemUserStore()
	owner := seedUser(users, "user-1", "alice")

	videos := newMemVideoStore()
	videos.videos["vid-1"] = models.Video{ID: "vid-1", OwnerID: owner.ID}

	playlists := newMemPlaylistStore()
	playlists.playlists["pl-1"] = models.Playlist{ID: "pl-1", OwnerID: owner.ID, Name: "Mix"}

	handler := PlaylistHandler{Playlists: playlists, Videos: videos, Users: users}

	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/api/v1/playlists/remove/vid-1/pl-1", nil), owner)
	req.SetPathValue("videoId", "vid-1")
	req.SetPathValue("playlistId", "pl-1")
	rec := httptest.NewRecorder()

	handler.RemoveVideo(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestPlaylistHandlerAddVideoRejectsNonOwner(t *testing.T) {
	users := newMemUserStore()
	seedUser(users, "user-1", "alice")
	intruder := seedUser(users, "user-2", "bob")

	videos := newMemVideoStore()
	videos.videos["vid-1"] = models.Video{ID: "vid-1", OwnerID: "user-1"}

	playlists := newMemPlaylistStore()
	playlists.playlists["pl-1"] = models.Playlist{ID: "pl-1", OwnerID: "user-1", Name: "Mix"}

	handler := PlaylistHandler{Playlists: playlists, Videos: videos, Users: users}

	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/api/v1/playlists/add/vid-1/pl-1", nil), intruder)
	req.SetPathValue("videoId", "vid-1")
	req.SetPathValue("playlistId", "pl-1")
	rec := httptest.NewRecorder()

	handler.AddVideo(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
}

func TestPlaylistHandlerDeleteRejectsNonOwner(t *testing.T) {
	users := newMemUserStore()
	seedUser(users, "user-1", "alice")
	intruder := seedUser(users, "user-2", "bob")

	playlists := newMemPlaylistStore()
	playlists.playlists["pl-1"] = models.Playlist{ID: "pl-1", OwnerID: "user-1", Name: "Mix"}

	handler := PlaylistHandler{Playlists: playlists, Videos: newMemVideoStore(), Users: users}

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/pl-1", nil), intruder)
	req.SetPathValue("playlistId", "pl-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
	if _, ok := playlists.playlists["pl-1"]; !ok {
		t.Fatal("expected playlist to survive")
	}
}
