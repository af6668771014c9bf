package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/videotube/backend/internal/models"
)

func TestCommentHandlerCreate(t *testing.T) {
	users := newMemUserStore()
	author := seedUser(users, "user-1", "alice")

	videos := newMemVideoStore()
	videos.videos["vid-1"] = models.Video{ID: "vid-1", OwnerID: "user-2"}

	comments := newMemCommentStore()
	handler := CommentHandler{Comments: comments, Videos: videos}

	body, _ := json.Marshal(commentRequest{Content: "great video"})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/comments/vid-1", bytes.NewReader(body)), author)
	req.SetPathValue("videoId", "vid-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created commentResponse
	decodeEnvelope(t, rec, &created)

	if created.Content != "great video" || created.OwnerID != author.ID || created.VideoID != "vid-1" {
		t.Fatalf("unexpected comment %+v", created)
	}
}

func TestCommentHandlerCreateUnknownVideo(t *testing.T) {
	users := newMemUserStore()
	author := seedUser(users, "user-1", "alice")

	handler := CommentHandler{Comments: newMemCommentStore(), Videos: newMemVideoStore()}

	body, _ := json.Marshal(commentRequest{Content: "hello?"})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/comments/missing", bytes.NewReader(body)), author)
	req.SetPathValue("videoId", "missing")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestCommentHandlerUpdateRejectsNonOwner(t *testing.T) {
	users := newMemUserStore()
	seedUser(users, "user-1", "alice")
	intruder := seedUser(users, "user-2", "bob")

	comments := newMemCommentStore()
	comments.comments["com-1"] = models.Comment{ID: "com-1", VideoID: "vid-1", OwnerID: "user-1", Content: "original"}

	handler := CommentHandler{Comments: comments, Videos: newMemVideoStore()}

	body, _ := json.Marshal(commentRequest{Content: "edited"})
	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/api/v1/comments/c/com-1", bytes.NewReader(body)), intruder)
	req.SetPathValue("commentId", "com-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
	if comments.comments["com-1"].Content != "original" {
		t.Fatal("expected comment to be unchanged")
	}
}

func TestCommentHandlerDelete(t *testing.T) {
	users := newMemUserStore()
	author := seedUser(users, "user-1", "alice")

	comments := newMemCommentStore()
	comments.comments["com-1"] = models.Comment{ID: "com-1", VideoID: "vid-1", OwnerID: author.ID}

	handler := CommentHandler{Comments: comments, Videos: newMemVideoStore()}

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/v1/comments/c/com-1", nil), author)
	req.SetPathValue("commentId", "com-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if _, ok := comments.comments["com-1"]; ok {
		t.Fatal("expected comment to be removed")
	}
}

func TestCommentHandlerListForVideo(t *testing.T) {
	users := newMemUserStore()
	viewer := seedUser(users, "user-1", "alice")

	videos := newMemVideoStore()
	videos.videos["vid-1"] = models.Video{ID: "vid-1", OwnerID: "user-2"}

	comments := newMemCommentStore()
	comments.comments["com-1"] = models.Comment{ID: "com-1", VideoID: "vid-1", OwnerID: "user-2", Content: "first"}
	comments.comments["com-2"] = models.Comment{ID: "com-2", VideoID: "other", OwnerID: "user-2", Content: "elsewhere"}

	handler := CommentHandler{Comments: comments, Videos: videos}

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/v1/comments/vid-1", nil), viewer)
	req.SetPathValue("videoId", "vid-1")
	rec := httptest.NewRecorder()

	handler.ListForVideo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var listed []commentResponse
	decodeEnvelope(t, rec, &listed)

	if len(listed) != 1 || listed[0].ID != "com-1" {
		t.Fatalf("expected only the video's comments, got %+v", listed)
	}
}
