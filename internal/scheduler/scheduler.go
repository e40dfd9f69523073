package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rebanho/rebanho-backend/internal/config"
	"github.com/rebanho/rebanho-backend/pkg/cache"
	"github.com/rebanho/rebanho-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic maintenance jobs.
// Open days grow by one every midnight, so cached summaries are flushed
// once a day in the farm timezone.
type Scheduler struct {
	cron  *cron.Cron
	cache cache.Service
	expr  string
}

// New builds a scheduler for cfg. An unknown timezone is an error.
func New(cfg config.SchedulerConfig, cacheSvc cache.Service) (*Scheduler, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("scheduler timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(loc)),
		cache: cacheSvc,
		expr:  cfg.CacheFlushCron,
	}, nil
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.expr, s.FlushSummaries); err != nil {
		return fmt.Errorf("schedule summary flush %q: %w", s.expr, err)
	}
	logger.GetLogger().Info().Str("cron", s.expr).Msg("scheduler started")
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.GetLogger().Info().Msg("scheduler stopped")
}

// FlushSummaries drops every cached genetics summary
func (s *Scheduler) FlushSummaries() {
	if s.cache == nil || !s.cache.IsAvailable() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.cache.FlushSummaries(ctx)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("summary cache flush failed")
		return
	}
	logger.GetLogger().Info().Int("keys", n).Msg("summary cache flushed")
}
