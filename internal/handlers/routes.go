package handlers

import (
	"net/http"
	"time"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Likes         LikeStore
	Subscriptions SubscriptionStore
	Playlists     PlaylistStore
	History       WatchHistoryStore
	Dashboard     DashboardStore
	Tokens        TokenService
	Media         MediaStore
	AuthLimiter   RateLimiter
	NowFunc       func() time.Time
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux. Everything
// except registration, login, token refresh, and the health probe sits behind
// the auth gate.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	gate := AuthGate{Users: deps.Users, Tokens: deps.Tokens}
	users := UserHandler{
		Users:         deps.Users,
		Tokens:        deps.Tokens,
		Media:         deps.Media,
		History:       deps.History,
		Subscriptions: deps.Subscriptions,
		Limiter:       deps.AuthLimiter,
		NowFunc:       deps.NowFunc,
	}
	videos := VideoHandler{Videos: deps.Videos, Users: deps.Users, Media: deps.Media, History: deps.History, NowFunc: deps.NowFunc}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, NowFunc: deps.NowFunc}
	tweets := TweetHandler{Tweets: deps.Tweets, Users: deps.Users, NowFunc: deps.NowFunc}
	likes := LikeHandler{Likes: deps.Likes, Videos: deps.Videos, Comments: deps.Comments, Tweets: deps.Tweets}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions, Users: deps.Users}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Videos: deps.Videos, Users: deps.Users, NowFunc: deps.NowFunc}
	dashboard := DashboardHandler{Dashboard: deps.Dashboard, Videos: deps.Videos}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/users/register", users.Register)
	mux.HandleFunc("POST /api/v1/users/login", users.Login)
	mux.HandleFunc("POST /api/v1/users/refresh-access-token", users.RefreshAccessToken)
	mux.HandleFunc("POST /api/v1/users/logout", gate.Require(users.Logout))
	mux.HandleFunc("POST /api/v1/users/change-password", gate.Require(users.ChangePassword))
	mux.HandleFunc("GET /api/v1/users/current", gate.Require(users.CurrentUser))
	mux.HandleFunc("GET /api/v1/users/history", gate.Require(users.WatchHistory))
	mux.HandleFunc("PATCH /api/v1/users/update-account", gate.Require(users.UpdateAccount))
	mux.HandleFunc("PATCH /api/v1/users/update-avatar", gate.Require(users.UpdateAvatar))
	mux.HandleFunc("PATCH /api/v1/users/update-cover-image", gate.Require(users.UpdateCoverImage))
	mux.HandleFunc("GET /api/v1/users/c/{username}", gate.Require(users.ChannelProfile))

	mux.HandleFunc("GET /api/v1/videos", gate.Require(videos.List))
	mux.HandleFunc("POST /api/v1/videos", gate.Require(videos.Publish))
	mux.HandleFunc("GET /api/v1/videos/{videoId}", gate.Require(videos.Get))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}", gate.Require(videos.Update))
	mux.HandleFunc("DELETE /api/v1/videos/{videoId}", gate.Require(videos.Delete))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}/toggle-publish", gate.Require(videos.TogglePublish))

	mux.HandleFunc("GET /api/v1/comments/{videoId}", gate.Require(comments.ListForVideo))
	mux.HandleFunc("POST /api/v1/comments/{videoId}", gate.Require(comments.Create))
	mux.HandleFunc("PATCH /api/v1/comments/c/{commentId}", gate.Require(comments.Update))
	mux.HandleFunc("DELETE /api/v1/comments/c/{commentId}", gate.Require(comments.Delete))

	mux.HandleFunc("POST /api/v1/likes/toggle/v/{videoId}", gate.Require(likes.ToggleVideo))
	mux.HandleFunc("POST /api/v1/likes/toggle/c/{commentId}", gate.Require(likes.ToggleComment))
	mux.HandleFunc("POST /api/v1/likes/toggle/t/{tweetId}", gate.Require(likes.ToggleTweet))
	mux.HandleFunc("GET /api/v1/likes/videos", gate.Require(likes.LikedVideos))

	mux.HandleFunc("POST /api/v1/subscriptions/c/{channelId}", gate.Require(subscriptions.Toggle))
	mux.HandleFunc("GET /api/v1/subscriptions/c/{channelId}/subscribers", gate.Require(subscriptions.Subscribers))
	mux.HandleFunc("GET /api/v1/subscriptions/u/{subscriberId}", gate.Require(subscriptions.Subscribed))

	mux.HandleFunc("POST /api/v1/tweets", gate.Require(tweets.Create))
	mux.HandleFunc("GET /api/v1/tweets/user/{userId}", gate.Require(tweets.ListForUser))
	mux.HandleFunc("PATCH /api/v1/tweets/{tweetId}", gate.Require(tweets.Update))
	mux.HandleFunc("DELETE /api/v1/tweets/{tweetId}", gate.Require(tweets.Delete))

	mux.HandleFunc("POST /api/v1/playlists", gate.Require(playlists.Create))
	mux.HandleFunc("GET /api/v1/playlists/user/{userId}", gate.Require(playlists.ListForUser))
	mux.HandleFunc("GET /api/v1/playlists/{playlistId}", gate.Require(playlists.Get))
	mux.HandleFunc("PATCH /api/v1/playlists/{playlistId}", gate.Require(playlists.Update))
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistId}", gate.Require(playlists.Delete))
	mux.HandleFunc("PATCH /api/v1/playlists/add/{videoId}/{playlistId}", gate.Require(playlists.AddVideo))
	mux.HandleFunc("PATCH /api/v1/playlists/remove/{videoId}/{playlistId}", gate.Require(playlists.RemoveVideo))

	mux.HandleFunc("GET /api/v1/dashboard/stats", gate.Require(dashboard.Stats))
	mux.HandleFunc("GET /api/v1/dashboard/videos", gate.Require(dashboard.ListVideos))
}
