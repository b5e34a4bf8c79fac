package billing

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/redis/go-redis/v9"
)

// Sequence hands out monotonically increasing numbers per calendar day.
type Sequence interface {
	Next(ctx context.Context, day time.Time) (int64, error)
}

// formatInvoiceNumber builds INV-YYYYMMDD-NNNN; the counter widens past 9999.
func formatInvoiceNumber(day time.Time, n int64) string {
	return fmt.Sprintf("INV-%s-%04d", day.UTC().Format("20060102"), n)
}

// RedisSequence counts with INCR on one key per day. Keys expire after two
// days so the keyspace does not grow.
type RedisSequence struct {
	client redis.Cmdable
	prefix string
}

func NewRedisSequence(client redis.Cmdable) *RedisSequence {
	return &RedisSequence{client: client, prefix: "invoice:seq:"}
}

func (s *RedisSequence) Next(ctx context.Context, day time.Time) (int64, error) {
	key := s.prefix + day.UTC().Format("20060102")
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if n == 1 {
		if err := s.client.Expire(ctx, key, 48*time.Hour).Err(); err != nil {
			return 0, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return n, nil
}

// PostgresSequence keeps the per-day counter in the invoice_counters table.
type PostgresSequence struct{ db *sql.DB }

func NewPostgresSequence(db *sql.DB) *PostgresSequence { return &PostgresSequence{db: db} }

func (s *PostgresSequence) Next(ctx context.Context, day time.Time) (int64, error) {
	var n int64
	err := database.Conn(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO invoice_counters (day, value) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET value = invoice_counters.value + 1
		RETURNING value`, day.UTC().Format("2006-01-02")).Scan(&n)
	return n, err
}
