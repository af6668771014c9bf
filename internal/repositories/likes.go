package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/models"
)

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
// The (liked_by, target) uniqueness invariant is enforced by partial unique
// indexes, so toggles stay correct under concurrent double-submission.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// ToggleVideo flips the caller's like on a video and reports the new state.
func (r *PostgresLikeRepository) ToggleVideo(ctx context.Context, userID, videoID string) (bool, error) {
	return r.toggle(ctx, userID, "video_id", videoID)
}

// ToggleComment flips the caller's like on a comment and reports the new state.
func (r *PostgresLikeRepository) ToggleComment(ctx context.Context, userID, commentID string) (bool, error) {
	return r.toggle(ctx, userID, "comment_id", commentID)
}

// ToggleTweet flips the caller's like on a tweet and reports the new state.
func (r *PostgresLikeRepository) ToggleTweet(ctx context.Context, userID, tweetID string) (bool, error) {
	return r.toggle(ctx, userID, "tweet_id", tweetID)
}

// toggle performs an atomic create-if-absent / delete-if-present against a
// single target column. The insert relies on ON CONFLICT DO NOTHING against
// the partial unique index; if nothing was inserted the pair already existed
// and is removed instead.
func (r *PostgresLikeRepository) toggle(ctx context.Context, userID, column, targetID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	insert := fmt.Sprintf(`
        INSERT INTO likes (id, liked_by, %s, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT DO NOTHING
    `, column)

	tag, err := conn.Exec(ctx, insert, uuid.NewString(), userID, targetID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	del := fmt.Sprintf(`DELETE FROM likes WHERE liked_by = $1 AND %s = $2`, column)
	if _, err := conn.Exec(ctx, del, userID, targetID); err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	return false, nil
}

// ListLikedVideos returns the videos the user currently likes, most recently
// liked first.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, userID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views, v.is_published, v.created_at, v.updated_at
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        WHERE l.liked_by = $1 AND l.video_id IS NOT NULL
        ORDER BY l.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}
