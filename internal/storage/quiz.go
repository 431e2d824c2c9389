package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
)

// QuizStorage provides in-memory storage for quiz sessions by user ID.
// Each user has at most one session; storing a new one replaces the old.
type QuizStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.QuizSession
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		sessions: make(map[int64]*entities.QuizSession),
	}
}

// Store saves the session for the given user.
func (s *QuizStorage) Store(userID int64, session *entities.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
}

// Get retrieves the session of the given user.
func (s *QuizStorage) Get(userID int64) (*entities.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	return session, ok
}

// Delete removes the session of the given user.
func (s *QuizStorage) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// EvictIdle removes sessions not updated since before and returns how many were removed.
func (s *QuizStorage) EvictIdle(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for userID, session := range s.sessions {
		if session.UpdatedAt.Before(before) {
			delete(s.sessions, userID)
			n++
		}
	}
	return n
}
