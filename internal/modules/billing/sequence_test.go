package billing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInvoiceNumber(t *testing.T) {
	day := time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-20260102-0007", formatInvoiceNumber(day, 7))
	assert.Regexp(t, `^INV-\d{8}-\d{4,}$`, formatInvoiceNumber(day, 123456))
}

func TestRedisSequence(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	seq := NewRedisSequence(client)

	ctx := context.Background()
	day := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	for want := int64(1); want <= 3; want++ {
		n, err := seq.Next(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err := seq.Next(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "each day starts over")

	assert.True(t, mr.TTL("invoice:seq:20260314") > 0, "counter key should expire")
}

func TestRedisSequenceUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.SetError("ERR server unavailable")

	_, err := NewRedisSequence(client).Next(context.Background(), time.Now())
	assert.ErrorContains(t, err, "incr invoice:seq:")
}

// memorySequence is a process-local Sequence.
type memorySequence struct {
	mu   sync.Mutex
	days map[string]int64
}

func newMemorySequence() *memorySequence { return &memorySequence{days: map[string]int64{}} }

func (s *memorySequence) Next(_ context.Context, day time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := day.UTC().Format("20060102")
	s.days[key]++
	return s.days[key], nil
}

func TestRedisSequenceIsUniqueUnderContention(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	seq := NewRedisSequence(client)
	day := time.Now()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int64]bool{}
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := seq.Next(context.Background(), day)
			assert.NoError(t, err)
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
	assert.True(t, seen[1] && seen[50])
}
