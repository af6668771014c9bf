package models

import "time"

// User represents a registered account (and its channel) on the platform.
// Password holds the bcrypt hash; RefreshToken holds the single currently
// valid refresh token, empty once the user logs out.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Password     string
	Avatar       string
	CoverImage   string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Video is a published upload owned by a single user. VideoFile and Thumbnail
// are opaque URLs pointing at the external media host. Duration is whole
// seconds, rounded at publish time.
type Video struct {
	ID          string
	OwnerID     string
	VideoFile   string
	Thumbnail   string
	Title       string
	Description string
	Duration    int
	Views       int64
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment is user-authored text attached to a video.
type Comment struct {
	ID        string
	VideoID   string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tweet is a short standalone post on a user's channel.
type Tweet struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Like records that a user liked exactly one of a video, comment, or tweet.
// The existence of the row is the "liked" state; exactly one target field is
// non-empty.
type Like struct {
	ID        string
	LikedBy   string
	VideoID   string
	CommentID string
	TweetID   string
	CreatedAt time.Time
}

// Subscription records that Subscriber follows Channel. Existence of the pair
// is the "subscribed" state.
type Subscription struct {
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// Playlist is an ordered, duplicate-free sequence of video references owned
// by a single user.
type Playlist struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	VideoIDs    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WatchEntry records that a user watched a video, most recent watch wins.
type WatchEntry struct {
	Video     Video
	Owner     UserSummary
	WatchedAt time.Time
}

// UserSummary is the public subset of a user embedded in other payloads.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

// ChannelProfile aggregates the public view of a user's channel.
type ChannelProfile struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	FullName         string `json:"fullname"`
	Email            string `json:"email"`
	Avatar           string `json:"avatar"`
	CoverImage       string `json:"coverImage"`
	SubscriberCount  int64  `json:"subscribersCount"`
	SubscribedCount  int64  `json:"channelsSubscribedToCount"`
	IsSubscribed     bool   `json:"isSubscribed"`
}

// ChannelStats summarises a channel for its dashboard.
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalViews       int64 `json:"totalViews"`
}

// TokenPair groups the bearer credentials issued to authenticated users.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Summary returns the public subset of the user.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}
