package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	mu      sync.Mutex
	calls   []time.Duration
	deleted int64
	err     error
}

func (p *fakePurger) PurgeStaleAnonymousCarts(_ context.Context, idleFor time.Duration) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, idleFor)
	return p.deleted, p.err
}

func (p *fakePurger) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func TestCartCleanupScheduler_RunOnce(t *testing.T) {
	t.Run("reports deleted carts", func(t *testing.T) {
		purger := &fakePurger{deleted: 3}
		s := NewCartCleanupScheduler(purger, "0 3 * * *", 48*time.Hour)

		assert.Equal(t, int64(3), s.RunOnce(context.Background()))
		assert.Equal(t, []time.Duration{48 * time.Hour}, purger.calls)
	})

	t.Run("purge failure is swallowed", func(t *testing.T) {
		purger := &fakePurger{deleted: 3, err: errors.New("db down")}
		s := NewCartCleanupScheduler(purger, "0 3 * * *", time.Hour)

		assert.Zero(t, s.RunOnce(context.Background()))
		assert.Equal(t, 1, purger.callCount())
	})
}

func TestCartCleanupScheduler_Start(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		s := NewCartCleanupScheduler(&fakePurger{}, "not a cron spec", time.Hour)
		assert.Error(t, s.Start())
	})

	t.Run("runs on schedule", func(t *testing.T) {
		purger := &fakePurger{}
		s := NewCartCleanupScheduler(purger, "@every 1s", time.Hour)
		require.NoError(t, s.Start())
		defer s.Stop()

		assert.Eventually(t, func() bool {
			return purger.callCount() > 0
		}, 3*time.Second, 50*time.Millisecond)
	})
}
