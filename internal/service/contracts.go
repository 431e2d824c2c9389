package service

import (
	"context"
	"time"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
)

type CatalogRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Entity, error)
	GetAll(ctx context.Context) ([]*entities.Entity, error)
	Search(ctx context.Context, term string) ([]*entities.Entity, error)
	FindBySubject(ctx context.Context, name string) (*entities.Entity, error)
}

// KeyValueStore is the persistence collaborator of the memorization store.
// Get returns repository.ErrKeyNotFound for keys that were never written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// SessionStorage keeps at most one quiz session per user.
type SessionStorage interface {
	Store(userID int64, session *entities.QuizSession)
	Get(userID int64) (*entities.QuizSession, bool)
	Delete(userID int64)
	EvictIdle(before time.Time) int
}

// HintGenerator produces mnemonic cues for a subject/value pair.
type HintGenerator interface {
	GenerateCue(ctx context.Context, req entities.HintRequest) (entities.Hint, error)
}
