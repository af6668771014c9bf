package handlers

import (
	"net/http"
	"strings"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/auth"
)

// SubscriptionHandler implements the channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}. Subscribing to
// your own channel is rejected.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := auth.IdentityFromContext(ctx)

	channelID := strings.TrimSpace(r.PathValue("channelId"))
	if channelID == "" {
		respondError(ctx, w, apperr.Validation("channel id is required"))
		return
	}
	if channelID == identity.ID {
		respondError(ctx, w, apperr.Validation("you cannot subscribe to your own channel"))
		return
	}

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondError(ctx, w, targetError(err, "channel"))
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, identity.ID, channelID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to toggle subscription", err))
		return
	}

	message := "unsubscribed successfully"
	if subscribed {
		message = "subscribed successfully"
	}
	respondJSON(ctx, w, http.StatusOK, map[string]bool{"isSubscribed": subscribed}, message)
}

// Subscribers handles GET /api/v1/subscriptions/c/{channelId}/subscribers,
// listing the users subscribed to a channel.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID := strings.TrimSpace(r.PathValue("channelId"))
	if channelID == "" {
		respondError(ctx, w, apperr.Validation("channel id is required"))
		return
	}
	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondError(ctx, w, targetError(err, "channel"))
		return
	}

	subscribers, err := h.Subscriptions.ListSubscribers(ctx, channelID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch subscribers", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, subscribers, "subscribers fetched successfully")
}

// Subscribed handles GET /api/v1/subscriptions/u/{subscriberId}, listing the
// channels a user is subscribed to.
func (h SubscriptionHandler) Subscribed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriberID := strings.TrimSpace(r.PathValue("subscriberId"))
	if subscriberID == "" {
		respondError(ctx, w, apperr.Validation("subscriber id is required"))
		return
	}
	if _, err := h.Users.FindByID(ctx, subscriberID); err != nil {
		respondError(ctx, w, targetError(err, "user"))
		return
	}

	channels, err := h.Subscriptions.ListSubscribedChannels(ctx, subscriberID)
	if err != nil {
		respondError(ctx, w, apperr.Internal("failed to fetch subscribed channels", err))
		return
	}

	respondJSON(ctx, w, http.StatusOK, channels, "subscribed channels fetched successfully")
}
