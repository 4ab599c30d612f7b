package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
)

// RateLimitRepository provides an atomic way to check and increment rate limit counters.
type RateLimitRepository interface {
	// IncrementAndCheck atomically increments a counter for the given key and checks if it exceeds the limit.
	// It returns true if the request is allowed (count <= limit), and false otherwise.
	IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	// CleanupExpired removes all counter keys that have expired.
	CleanupExpired(ctx context.Context) error
}

type rateLimitRepository struct {
	db DB
}

func NewRateLimitRepository(db DB) RateLimitRepository {
	return &rateLimitRepository{db: db}
}

func (r *rateLimitRepository) IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	query := `
        INSERT INTO sms_rate_limits (key, attempt_count, expires_at)
        VALUES ($1, 1, NOW() + $2::interval)
        ON CONFLICT (key) DO UPDATE
        SET attempt_count = CASE
            WHEN sms_rate_limits.expires_at < NOW() THEN 1
            ELSE sms_rate_limits.attempt_count + 1
        END,
        expires_at = CASE
            WHEN sms_rate_limits.expires_at < NOW() THEN NOW() + $2::interval
            ELSE sms_rate_limits.expires_at
        END
        RETURNING attempt_count;
    `

	var currentCount int
	err := r.db.QueryRow(ctx, query, key, window).Scan(&currentCount)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	return currentCount <= limit, nil
}

func (r *rateLimitRepository) CleanupExpired(ctx context.Context) error {
	query := `DELETE FROM sms_rate_limits WHERE expires_at < NOW()`
	_, err := r.db.Exec(ctx, query)
	return err
}
