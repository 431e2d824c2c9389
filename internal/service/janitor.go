package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionJanitor periodically drops quiz sessions nobody touched for a while.
type SessionJanitor struct {
	sessions SessionStorage
	ttl      time.Duration
	schedule string
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionJanitor(sessions SessionStorage, ttl time.Duration, schedule string, logger *zap.Logger) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		ttl:      ttl,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the cleanup on schedule until ctx is done.
func (j *SessionJanitor) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(j.schedule, func() {
		j.Sweep()
	})
	if err != nil {
		j.logger.Error("failed to add cron job",
			zap.String("schedule", j.schedule),
			zap.Error(err),
		)
		return
	}

	c.Start()
	j.logger.Info("session janitor started", zap.String("schedule", j.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("session janitor stopped")
}

// Sweep evicts idle sessions once and returns how many were removed.
func (j *SessionJanitor) Sweep() int {
	n := j.sessions.EvictIdle(j.now().Add(-j.ttl))
	if n > 0 {
		j.logger.Info("idle quiz sessions evicted", zap.Int("count", n))
	}
	return n
}
