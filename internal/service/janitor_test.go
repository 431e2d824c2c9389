package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/geoquiz-bot/internal/storage"
)

func TestSessionJanitor_Sweep(t *testing.T) {
	sessions := storage.NewQuizStorage()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	idle := entities.NewQuizSession(1)
	idle.UpdatedAt = now.Add(-time.Hour)
	active := entities.NewQuizSession(2)
	active.UpdatedAt = now.Add(-time.Minute)
	sessions.Store(1, idle)
	sessions.Store(2, active)

	j := NewSessionJanitor(sessions, 30*time.Minute, "@every 1m", zap.NewNop())
	j.now = func() time.Time { return now }

	assert.Equal(t, 1, j.Sweep())
	_, ok := sessions.Get(1)
	assert.False(t, ok)
	_, ok = sessions.Get(2)
	assert.True(t, ok)
}

func TestSessionJanitor_StartStopsWithContext(t *testing.T) {
	j := NewSessionJanitor(storage.NewQuizStorage(), time.Minute, "@every 1h", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "janitor did not stop")
	}
}

func TestSessionJanitor_InvalidSchedule(t *testing.T) {
	j := NewSessionJanitor(storage.NewQuizStorage(), time.Minute, "not a schedule", zap.NewNop())

	done := make(chan struct{})
	go func() {
		j.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "janitor should return on a bad schedule")
	}
}
