package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

// Shared in-memory fakes for handler tests. Each fake mirrors the sentinel
// errors of the real repositories so handlers exercise the same branches.

type memUserStore struct {
	users map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User)}
}

func (s *memUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memUserStore) FindByLogin(_ context.Context, identifier string) (models.User, error) {
	for _, user := range s.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	for _, existing := range s.users {
		if existing.ID != user.ID && existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) SetRefreshToken(_ context.Context, userID, token string) error {
	user, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = token
	s.users[userID] = user
	return nil
}

type memVideoStore struct {
	videos map[string]models.Video
}

func newMemVideoStore() *memVideoStore {
	return &memVideoStore{videos: make(map[string]models.Video)}
}

func (s *memVideoStore) Create(_ context.Context, video models.Video) error {
	s.videos[video.ID] = video
	return nil
}

func (s *memVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *memVideoStore) List(_ context.Context, opts repositories.ListVideosOptions) ([]models.Video, error) {
	var videos []models.Video
	for _, video := range s.videos {
		if opts.OwnerID != "" && video.OwnerID != opts.OwnerID {
			continue
		}
		videos = append(videos, video)
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].ID < videos[j].ID })
	return videos, nil
}

func (s *memVideoStore) ListByOwner(_ context.Context, ownerID string) ([]models.Video, error) {
	var videos []models.Video
	for _, video := range s.videos {
		if video.OwnerID == ownerID {
			videos = append(videos, video)
		}
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].ID < videos[j].ID })
	return videos, nil
}

func (s *memVideoStore) Update(_ context.Context, video models.Video) error {
	if _, ok := s.videos[video.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.videos[video.ID] = video
	return nil
}

func (s *memVideoStore) Delete(_ context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *memVideoStore) IncrementViews(_ context.Context, id string) error {
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	s.videos[id] = video
	return nil
}

type memCommentStore struct {
	comments map[string]models.Comment
}

func newMemCommentStore() *memCommentStore {
	return &memCommentStore{comments: make(map[string]models.Comment)}
}

func (s *memCommentStore) Create(_ context.Context, comment models.Comment) error {
	s.comments[comment.ID] = comment
	return nil
}

func (s *memCommentStore) FindByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *memCommentStore) ListByVideo(_ context.Context, videoID string, _, _ int) ([]models.Comment, error) {
	var comments []models.Comment
	for _, comment := range s.comments {
		if comment.VideoID == videoID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (s *memCommentStore) Update(_ context.Context, comment models.Comment) error {
	if _, ok := s.comments[comment.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.comments[comment.ID] = comment
	return nil
}

func (s *memCommentStore) Delete(_ context.Context, id string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

type memTweetStore struct {
	tweets map[string]models.Tweet
}

func newMemTweetStore() *memTweetStore {
	return &memTweetStore{tweets: make(map[string]models.Tweet)}
}

func (s *memTweetStore) Create(_ context.Context, tweet models.Tweet) error {
	s.tweets[tweet.ID] = tweet
	return nil
}

func (s *memTweetStore) FindByID(_ context.Context, id string) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (s *memTweetStore) ListByOwner(_ context.Context, ownerID string) ([]models.Tweet, error) {
	var tweets []models.Tweet
	for _, tweet := range s.tweets {
		if tweet.OwnerID == ownerID {
			tweets = append(tweets, tweet)
		}
	}
	sort.Slice(tweets, func(i, j int) bool { return tweets[i].ID < tweets[j].ID })
	return tweets, nil
}

func (s *memTweetStore) Update(_ context.Context, tweet models.Tweet) error {
	if _, ok := s.tweets[tweet.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.tweets[tweet.ID] = tweet
	return nil
}

func (s *memTweetStore) Delete(_ context.Context, id string) error {
	if _, ok := s.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.tweets, id)
	return nil
}

type memLikeStore struct {
	likes map[string]struct{}
}

func newMemLikeStore() *memLikeStore {
	return &memLikeStore{likes: make(map[string]struct{})}
}

func (s *memLikeStore) toggle(key string) bool {
	if _, ok := s.likes[key]; ok {
		delete(s.likes, key)
		return false
	}
	s.likes[key] = struct{}{}
	return true
}

func (s *memLikeStore) ToggleVideo(_ context.Context, userID, videoID string) (bool, error) {
	return s.toggle("v:" + userID + ":" + videoID), nil
}

func (s *memLikeStore) ToggleComment(_ context.Context, userID, commentID string) (bool, error) {
	return s.toggle("c:" + userID + ":" + commentID), nil
}

func (s *memLikeStore) ToggleTweet(_ context.Context, userID, tweetID string) (bool, error) {
	return s.toggle("t:" + userID + ":" + tweetID), nil
}

func (s *memLikeStore) ListLikedVideos(_ context.Context, _ string) ([]models.Video, error) {
	return nil, nil
}

type memSubscriptionStore struct {
	pairs map[string]struct{}
}

func newMemSubscriptionStore() *memSubscriptionStore {
	return &memSubscriptionStore{pairs: make(map[string]struct{})}
}

func (s *memSubscriptionStore) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	key := subscriberID + ":" + channelID
	if _, ok := s.pairs[key]; ok {
		delete(s.pairs, key)
		return false, nil
	}
	s.pairs[key] = struct{}{}
	return true, nil
}

func (s *memSubscriptionStore) IsSubscribed(_ context.Context, subscriberID, channelID string) (bool, error) {
	_, ok := s.pairs[subscriberID+":"+channelID]
	return ok, nil
}

func (s *memSubscriptionStore) CountSubscribers(_ context.Context, channelID string) (int64, error) {
	var count int64
	for key := range s.pairs {
		if _, channel, ok := strings.Cut(key, ":"); ok && channel == channelID {
			count++
		}
	}
	return count, nil
}

func (s *memSubscriptionStore) CountSubscriptions(_ context.Context, subscriberID string) (int64, error) {
	var count int64
	for key := range s.pairs {
		if subscriber, _, ok := strings.Cut(key, ":"); ok && subscriber == subscriberID {
			count++
		}
	}
	return count, nil
}

func (s *memSubscriptionStore) ListSubscribers(_ context.Context, _ string) ([]models.UserSummary, error) {
	return nil, nil
}

func (s *memSubscriptionStore) ListSubscribedChannels(_ context.Context, _ string) ([]models.UserSummary, error) {
	return nil, nil
}

type memPlaylistStore struct {
	playlists map[string]models.Playlist
}

func newMemPlaylistStore() *memPlaylistStore {
	return &memPlaylistStore{playlists: make(map[string]models.Playlist)}
}

func (s *memPlaylistStore) Create(_ context.Context, playlist models.Playlist) error {
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *memPlaylistStore) FindByID(_ context.Context, id string) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *memPlaylistStore) ListByOwner(_ context.Context, ownerID string) ([]models.Playlist, error) {
	var playlists []models.Playlist
	for _, playlist := range s.playlists {
		if playlist.OwnerID == ownerID {
			playlists = append(playlists, playlist)
		}
	}
	return playlists, nil
}

func (s *memPlaylistStore) Update(_ context.Context, playlist models.Playlist) error {
	if _, ok := s.playlists[playlist.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *memPlaylistStore) Delete(_ context.Context, id string) error {
	if _, ok := s.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.playlists, id)
	return nil
}

func (s *memPlaylistStore) AddVideo(_ context.Context, playlistID, videoID string, _ time.Time) error {
	playlist, ok := s.playlists[playlistID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, id := range playlist.VideoIDs {
		if id == videoID {
			return repositories.ErrConflict
		}
	}
	playlist.VideoIDs = append(playlist.VideoIDs, videoID)
	s.playlists[playlistID] = playlist
	return nil
}

func (s *memPlaylistStore) RemoveVideo(_ context.Context, playlistID, videoID string) error {
	playlist, ok := s.playlists[playlistID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i, id := range playlist.VideoIDs {
		if id == videoID {
			playlist.VideoIDs = append(playlist.VideoIDs[:i], playlist.VideoIDs[i+1:]...)
			s.playlists[playlistID] = playlist
			return nil
		}
	}
	return repositories.ErrNotFound
}

type memWatchHistoryStore struct {
	watches map[string]time.Time
}

func newMemWatchHistoryStore() *memWatchHistoryStore {
	return &memWatchHistoryStore{watches: make(map[string]time.Time)}
}

func (s *memWatchHistoryStore) Record(_ context.Context, userID, videoID string, watchedAt time.Time) error {
	s.watches[userID+":"+videoID] = watchedAt
	return nil
}

func (s *memWatchHistoryStore) ListForUser(_ context.Context, _ string) ([]models.WatchEntry, error) {
	return nil, nil
}

type memMediaStore struct {
	saved   []string
	deleted []string
}

func (s *memMediaStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	location := "https://media.test/" + name
	s.saved = append(s.saved, location)
	return location, nil
}

func (s *memMediaStore) Delete(_ context.Context, location string) error {
	s.deleted = append(s.deleted, location)
	return nil
}

func testTokenService() *auth.TokenService {
	return auth.NewTokenService(config.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

// authedRequest attaches an authenticated identity the way the auth gate
// would after verifying a token.
func authedRequest(r *http.Request, user models.User) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), user))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) apiResponse {
	t.Helper()

	var raw struct {
		Status  int             `json:"status"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if data != nil && len(raw.Data) > 0 && string(raw.Data) != "null" {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("decode envelope data: %v", err)
		}
	}

	return apiResponse{Status: raw.Status, Message: raw.Message}
}

func seedUser(store *memUserStore, id, username string) models.User {
	user := models.User{
		ID:       id,
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		FullName: "Test User",
	}
	store.users[id] = user
	return user
}
