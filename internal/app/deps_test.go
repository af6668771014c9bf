package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/backend/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		Tokens: config.TokenConfig{
			AccessSecret:  "access",
			RefreshSecret: "refresh",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
		},
		ObjectStore: config.ObjectStoreConfig{Bucket: "test-bucket", Endpoint: "http://localhost:9000", Region: "us-east-1"},
		AuthRateLimit: config.RateLimitConfig{
			Requests: 10,
			Window:   time.Minute,
			Burst:    5,
			TTL:      time.Minute,
		},
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, err := buildDependencies(context.Background(), fakePool{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deps.Users == nil {
		t.Fatal("expected user repository to be configured")
	}
	if deps.Videos == nil {
		t.Fatal("expected video repository to be configured")
	}
	if deps.Comments == nil || deps.Tweets == nil {
		t.Fatal("expected comment and tweet repositories to be configured")
	}
	if deps.Likes == nil || deps.Subscriptions == nil {
		t.Fatal("expected like and subscription repositories to be configured")
	}
	if deps.Playlists == nil || deps.History == nil || deps.Dashboard == nil {
		t.Fatal("expected playlist, history, and dashboard repositories to be configured")
	}
	if deps.Tokens == nil {
		t.Fatal("expected token service to be configured")
	}
	if deps.Media == nil {
		t.Fatal("expected media store to be configured")
	}
	if deps.AuthLimiter == nil {
		t.Fatal("expected auth rate limiter to be configured")
	}
}
