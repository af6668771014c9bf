package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubscriptionHandlerToggleSequence(t *testing.T) {
	users := newMemUserStore()
	viewer := seedUser(users, "user-1", "alice")
	seedUser(users, "user-2", "bob")

	handler := SubscriptionHandler{Subscriptions: newMemSubscriptionStore(), Users: users}

	toggle := func() bool {
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/user-2", nil), viewer)
		req.SetPathValue("channelId", "user-2")
		rec := httptest.NewRecorder()

		handler.Toggle(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}

		var result map[string]bool
		decodeEnvelope(t, rec, &result)
		return result["isSubscribed"]
	}

	if !toggle() {
		t.Fatal("first toggle should subscribe")
	}
	if toggle() {
		t.Fatal("second toggle should unsubscribe")
	}
}

func TestSubscriptionHandlerRejectsSelfSubscribe(t *testing.T) {
	users := newMemUserStore()
	viewer := seedUser(users, "user-1", "alice")

	handler := SubscriptionHandler{Subscriptions: newMemSubscriptionStore(), Users: users}

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/user-1", nil), viewer)
	req.SetPathValue("channelId", "user-1")
	rec := httptest.NewRecorder()

	handler.Toggle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestSubscriptionHandlerToggleUnknownChannel(t *testing.T) {
	users := newMemUserStore()
	viewer := seedUser(users, "user-1", "alice")

	handler := SubscriptionHandler{Subscriptions: newMemSubscriptionStore(), Users: users}

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/ghost", nil), viewer)
	req.SetPathValue("channelId", "ghost")
	rec := httptest.NewRecorder()

	handler.Toggle(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}
