package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// StaleCartPurger deletes anonymous carts idle for longer than idleFor.
type StaleCartPurger interface {
	PurgeStaleAnonymousCarts(ctx context.Context, idleFor time.Duration) (int64, error)
}

// CartCleanupScheduler periodically removes abandoned guest carts
type CartCleanupScheduler struct {
	cron     *cron.Cron
	purger   StaleCartPurger
	schedule string
	idleFor  time.Duration
	timeout  time.Duration
}

func NewCartCleanupScheduler(purger StaleCartPurger, schedule string, idleFor time.Duration) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:     cron.New(),
		purger:   purger,
		schedule: schedule,
		idleFor:  idleFor,
		timeout:  5 * time.Minute,
	}
}

// Start registers the purge job and starts the cron runner.
func (s *CartCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started", map[string]interface{}{
		"schedule": s.schedule,
		"idle_for": s.idleFor.String(),
	})
	return nil
}

// RunOnce purges stale anonymous carts and returns how many were deleted.
func (s *CartCleanupScheduler) RunOnce(ctx context.Context) int64 {
	logger.Info("Starting scheduled cart cleanup")

	deleted, err := s.purger.PurgeStaleAnonymousCarts(ctx, s.idleFor)
	if err != nil {
		logger.Error("Failed to purge stale anonymous carts", err)
		return 0
	}

	logger.Info("Stale anonymous carts purged", map[string]interface{}{
		"deleted": deleted,
	})
	return deleted
}

// Stop waits for a running purge to finish.
func (s *CartCleanupScheduler) Stop() {
	logger.Info("Stopping cart cleanup scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Cart cleanup scheduler stopped")
}
