package repositories

import (
	"context"
	"fmt"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/models"
)

// PostgresDashboardRepository aggregates channel statistics.
type PostgresDashboardRepository struct {
	pool db.Pool
}

// NewPostgresDashboardRepository constructs a dashboard repository backed by PostgreSQL.
func NewPostgresDashboardRepository(pool db.Pool) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{pool: pool}
}

// Stats summarises a channel: total videos, subscribers, likes received
// across the channel's videos, and total views.
func (r *PostgresDashboardRepository) Stats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var stats models.ChannelStats

	row := conn.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(SUM(views), 0)
        FROM videos
        WHERE owner_id = $1
    `, channelID)
	if err := row.Scan(&stats.TotalVideos, &stats.TotalViews); err != nil {
		return models.ChannelStats{}, fmt.Errorf("count channel videos: %w", err)
	}

	row = conn.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM subscriptions
        WHERE channel_id = $1
    `, channelID)
	if err := row.Scan(&stats.TotalSubscribers); err != nil {
		return models.ChannelStats{}, fmt.Errorf("count channel subscribers: %w", err)
	}

	row = conn.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        WHERE v.owner_id = $1
    `, channelID)
	if err := row.Scan(&stats.TotalLikes); err != nil {
		return models.ChannelStats{}, fmt.Errorf("count channel likes: %w", err)
	}

	return stats, nil
}
