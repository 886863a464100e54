package scheduler

import (
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Sweeper drops idle entries and reports how many it removed
type Sweeper interface {
	Sweep() int
}

// RateLimitSweeper periodically evicts expired windows from the in-memory rate limiter
type RateLimitSweeper struct {
	cron     *cron.Cron
	sweeper  Sweeper
	schedule string
}

// NewRateLimitSweeper accepts any cron spec, including descriptors such as "@every 1m"
func NewRateLimitSweeper(sweeper Sweeper, schedule string) *RateLimitSweeper {
	return &RateLimitSweeper{
		cron:     cron.New(),
		sweeper:  sweeper,
		schedule: schedule,
	}
}

func (s *RateLimitSweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		logger.Error("Failed to add cron job for rate limit sweep", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Rate limit sweeper started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

func (s *RateLimitSweeper) run() {
	removed := s.sweeper.Sweep()
	logger.Debug("Rate limit sweep finished", map[string]interface{}{
		"removed": removed,
	})
}

// Stop waits for a running sweep to finish
func (s *RateLimitSweeper) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Rate limit sweeper stopped")
}
