package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/geoquiz-bot/internal/repository"
)

var (
	ErrHintUnavailable = errors.New("hint generation is not configured")
	ErrHintDiscarded   = errors.New("hint request was dismissed")
)

const defaultHintTimeout = 15 * time.Second

type hintKey struct {
	userID int64
	key    string
}

type pendingHint struct {
	seq    uint64
	cancel context.CancelFunc
}

// HintService asks the hint generator for mnemonic cues. It keeps track of
// in-flight requests so a dismissed request's late result is dropped.
// It never reads or writes quiz or memorization state.
type HintService struct {
	catalog   CatalogRepository
	generator HintGenerator
	timeout   time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	seq     uint64
	pending map[hintKey]pendingHint
}

// NewHintService creates a hint service. A nil generator makes every
// request fail with ErrHintUnavailable.
func NewHintService(catalog CatalogRepository, generator HintGenerator, timeout time.Duration, logger *zap.Logger) *HintService {
	if timeout <= 0 {
		timeout = defaultHintTimeout
	}
	return &HintService{
		catalog:   catalog,
		generator: generator,
		timeout:   timeout,
		logger:    logger,
		pending:   make(map[hintKey]pendingHint),
	}
}

// Enabled reports whether a generator is configured.
func (s *HintService) Enabled() bool {
	return s.generator != nil
}

// Request generates a cue for the entity. key identifies the request within
// the user's scope (e.g. the message that will display it); a new request
// with the same key supersedes the old one.
func (s *HintService) Request(ctx context.Context, userID int64, entityID, key string) (*entities.Entity, entities.Hint, error) {
	entity, err := s.catalog.GetByID(ctx, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return nil, entities.Hint{}, fmt.Errorf("%w: %s", ErrUnknownEntity, entityID)
		}
		return nil, entities.Hint{}, err
	}

	if s.generator == nil {
		return entity, entities.Hint{}, ErrHintUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	k := hintKey{userID: userID, key: key}
	seq := s.register(k, cancel)

	hint, err := s.generator.GenerateCue(ctx, entities.HintRequest{
		SubjectName:  entity.SubjectName,
		CorrectValue: entity.CorrectValue,
	})

	if !s.finish(k, seq) {
		s.logger.Debug("hint discarded",
			zap.Int64("user_id", userID),
			zap.String("entity_id", entityID),
		)
		return entity, entities.Hint{}, ErrHintDiscarded
	}

	if err != nil {
		s.logger.Warn("hint generation failed",
			zap.Int64("user_id", userID),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
		return entity, entities.Hint{}, fmt.Errorf("%w: %w", entities.ErrHintGeneration, err)
	}

	return entity, hint, nil
}

// Dismiss cancels the pending request, if any. Its result will be discarded.
func (s *HintService) Dismiss(userID int64, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := hintKey{userID: userID, key: key}
	if p, ok := s.pending[k]; ok {
		p.cancel()
		delete(s.pending, k)
	}
}

// Pending returns the number of in-flight requests.
func (s *HintService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *HintService) register(k hintKey, cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.pending[k]; ok {
		prev.cancel()
	}
	s.seq++
	s.pending[k] = pendingHint{seq: s.seq, cancel: cancel}
	return s.seq
}

// finish removes the request and reports whether it was still current.
func (s *HintService) finish(k hintKey, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[k]
	if !ok || p.seq != seq {
		return false
	}
	delete(s.pending, k)
	return true
}
