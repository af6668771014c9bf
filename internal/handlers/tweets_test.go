package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/videotube/backend/internal/models"
)

func TestTweetHandlerCreate(t *testing.T) {
	users := newMemUserStore()
	author := seedUser(users, "user-1", "alice")

	tweets := newMemTweetStore()
	handler := TweetHandler{Tweets: tweets, Users: users}

	body, _ := json.Marshal(tweetRequest{Content: "shipping a new video tonight"})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/tweets", bytes.NewReader(body)), author)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created tweetResponse
	decodeEnvelope(t, rec, &created)

	if created.Content != "shipping a new video tonight" || created.OwnerID != author.ID {
		t.Fatalf("unexpected tweet %+v", created)
	}
}

func TestTweetHandlerCreateRequiresContent(t *testing.T) {
	users := newMemUserStore()
	author := seedUser(users, "user-1", "alice")

	handler := TweetHandler{Tweets: newMemTweetStore(), Users: users}

	body, _ := json.Marshal(tweetRequest{Content: "   "})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/tweets", bytes.NewReader(body)), author)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestTweetHandlerListForUnknownUser(t *testing.T) {
	users := newMemUserStore()
	viewer := seedUser(users, "user-1", "alice")

	handler := TweetHandler{Tweets: newMemTweetStore(), Users: users}

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/v1/tweets/user/ghost", nil), viewer)
	req.SetPathValue("userId", "ghost")
	rec := httptest.NewRecorder()

	handler.ListForUser(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestTweetHandlerDeleteRejectsNonOwner(t *testing.T) {
	users := newMemUserStore()
	seedUser(users, "user-1", "alice")
	intruder := seedUser(users, "user-2", "bob")

	tweets := newMemTweetStore()
	tweets.tweets["tweet-1"] = models.Tweet{ID: "tweet-1", OwnerID: "user-1", Content: "mine"}

	handler := TweetHandler{Tweets: tweets, Users: users}

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/v1/tweets/tweet-1", nil), intruder)
	req.SetPathValue("tweetId", "tweet-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
	if _, ok := tweets.tweets["tweet-1"]; !ok {
		t.Fatal("expected tweet to survive")
	}
}
