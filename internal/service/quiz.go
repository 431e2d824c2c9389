package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
)

var ErrSessionNotFound = errors.New("quiz session not found")

// MemorizedSource lists the ids a user marked as known.
type MemorizedSource interface {
	All(ctx context.Context, userID int64) ([]string, error)
}

// QuizService runs quiz sessions, one per user. Every operation holds the
// service lock, so transitions on a session never interleave.
type QuizService struct {
	catalog   CatalogRepository
	memorized MemorizedSource
	generator *QuizGenerator
	sessions  SessionStorage
	cfg       QuizConfig
	logger    *zap.Logger

	mu sync.Mutex
}

func NewQuizService(
	catalog CatalogRepository,
	memorized MemorizedSource,
	generator *QuizGenerator,
	sessions SessionStorage,
	cfg QuizConfig,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		catalog:   catalog,
		memorized: memorized,
		generator: generator,
		sessions:  sessions,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start replaces any existing session of the user with a freshly generated one.
// When nothing is memorized the returned session is in NoContent state and the
// error is entities.ErrNoContent.
func (s *QuizService) Start(ctx context.Context, userID int64) (*entities.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.start(ctx, userID)
}

// Restart discards the current session and starts a new, independently sampled one.
func (s *QuizService) Restart(ctx context.Context, userID int64) (*entities.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions.Delete(userID)
	return s.start(ctx, userID)
}

func (s *QuizService) start(ctx context.Context, userID int64) (*entities.QuizSession, error) {
	session := entities.NewQuizSession(userID)
	s.sessions.Store(userID, session)

	catalog, err := s.catalog.GetAll(ctx)
	if err != nil {
		s.sessions.Delete(userID)
		return nil, fmt.Errorf("get catalog: %w", err)
	}

	ids, err := s.memorized.All(ctx, userID)
	if err != nil {
		s.sessions.Delete(userID)
		return nil, fmt.Errorf("get memorized: %w", err)
	}

	questions, err := s.generator.Generate(catalog, ids, s.cfg)
	if err != nil {
		if errors.Is(err, entities.ErrNoContent) {
			session.MarkNoContent()
			s.logger.Info("quiz has no content", zap.Int64("user_id", userID))
			return snapshot(session), err
		}
		s.sessions.Delete(userID)
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	if err := session.Begin(questions); err != nil {
		return snapshot(session), err
	}

	s.logger.Info("quiz started",
		zap.Int64("user_id", userID),
		zap.String("session_id", session.ID.String()),
		zap.Int("questions", session.Total()),
	)

	return snapshot(session), nil
}

// Current returns the user's session.
func (s *QuizService) Current(userID int64) (*entities.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get(userID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// SelectAnswer records the chosen option of the current question.
func (s *QuizService) SelectAnswer(userID int64, sessionID uuid.UUID, value string) (*entities.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.SelectAnswer(value); err != nil {
		return snapshot(session), err
	}
	return snapshot(session), nil
}

// Submit locks in the selected answer and reports whether it was correct.
func (s *QuizService) Submit(userID int64, sessionID uuid.UUID) (bool, *entities.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return false, nil, err
	}

	correct, err := session.Submit()
	if err != nil {
		return false, snapshot(session), err
	}

	s.logger.Debug("quiz answer submitted",
		zap.Int64("user_id", userID),
		zap.Int("question", session.CurrentIndex+1),
		zap.Bool("correct", correct),
	)

	return correct, snapshot(session), nil
}

// Advance moves to the next question or completes the session.
func (s *QuizService) Advance(userID int64, sessionID uuid.UUID) (*entities.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Advance(); err != nil {
		return snapshot(session), err
	}

	if session.Status == entities.QuizStatusCompleted {
		s.logger.Info("quiz completed",
			zap.Int64("user_id", userID),
			zap.String("session_id", session.ID.String()),
			zap.Int("score", session.Score),
			zap.Int("total", session.Total()),
		)
	}

	return snapshot(session), nil
}

// Result returns the final score of a completed session.
func (s *QuizService) Result(userID int64, sessionID uuid.UUID) (entities.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return entities.QuizResult{}, err
	}
	return session.Result()
}

// Abandon drops the user's session, if any.
func (s *QuizService) Abandon(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions.Delete(userID)
}

func (s *QuizService) lookup(userID int64, sessionID uuid.UUID) (*entities.QuizSession, error) {
	session, ok := s.sessions.Get(userID)
	if !ok || session.ID != sessionID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// snapshot returns a copy that callers can read without holding the lock.
// Questions are never mutated after generation and are shared.
func snapshot(session *entities.QuizSession) *entities.QuizSession {
	cp := *session
	return &cp
}
