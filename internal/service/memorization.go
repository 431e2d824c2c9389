package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/geoquiz-bot/internal/repository"
)

// MemorizedKeyPrefix namespaces the per-user key of the memorized set.
const MemorizedKeyPrefix = "geoquiz-memorized"

var ErrUnknownEntity = errors.New("unknown entity")

// MemorizedKey returns the persistence key for a user's memorized set.
func MemorizedKey(userID int64) string {
	return MemorizedKeyPrefix + ":" + strconv.FormatInt(userID, 10)
}

// MemorizationService tracks which catalog entities each user marked as known.
// A user's set is read from the key-value store on first access and cached;
// every mutation rewrites the full set before the next one is accepted.
type MemorizationService struct {
	catalog CatalogRepository
	kv      KeyValueStore
	logger  *zap.Logger

	mu   sync.Mutex
	sets map[int64]map[string]struct{}
}

func NewMemorizationService(catalog CatalogRepository, kv KeyValueStore, logger *zap.Logger) *MemorizationService {
	return &MemorizationService{
		catalog: catalog,
		kv:      kv,
		logger:  logger,
		sets:    make(map[int64]map[string]struct{}),
	}
}

// IsMemorized reports whether the user marked the entity as known.
func (s *MemorizationService) IsMemorized(ctx context.Context, userID int64, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	_, ok := set[id]
	return ok, nil
}

// Toggle flips the membership of the entity and returns the new state.
// The in-memory set is rolled back if persisting fails.
func (s *MemorizationService) Toggle(ctx context.Context, userID int64, id string) (bool, error) {
	if _, err := s.catalog.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return false, fmt.Errorf("%w: %s", ErrUnknownEntity, id)
		}
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}

	_, was := set[id]
	if was {
		delete(set, id)
	} else {
		set[id] = struct{}{}
	}

	if err := s.persist(ctx, userID, set); err != nil {
		if was {
			set[id] = struct{}{}
		} else {
			delete(set, id)
		}
		return was, err
	}

	s.logger.Debug("memorized set toggled",
		zap.Int64("user_id", userID),
		zap.String("entity_id", id),
		zap.Bool("memorized", !was),
	)

	return !was, nil
}

// All returns the user's memorized ids in catalog order.
func (s *MemorizationService) All(ctx context.Context, userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ordered(ctx, set)
}

// Count returns the size of the user's memorized set.
func (s *MemorizationService) Count(ctx context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(set), nil
}

// Clear empties the user's memorized set.
func (s *MemorizationService) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := map[string]struct{}{}
	if err := s.persist(ctx, userID, empty); err != nil {
		return err
	}
	s.sets[userID] = empty
	return nil
}

// load returns the cached set, reading it from the store on first access.
// Callers must hold s.mu.
func (s *MemorizationService) load(ctx context.Context, userID int64) (map[string]struct{}, error) {
	if set, ok := s.sets[userID]; ok {
		return set, nil
	}

	set := make(map[string]struct{})

	raw, err := s.kv.Get(ctx, MemorizedKey(userID))
	switch {
	case errors.Is(err, repository.ErrKeyNotFound):
	case err != nil:
		return nil, fmt.Errorf("load memorized set: %w", err)
	default:
		var stored []string
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, fmt.Errorf("decode memorized set: %w", err)
		}
		for _, id := range stored {
			set[id] = struct{}{}
		}
	}

	s.sets[userID] = set
	return set, nil
}

func (s *MemorizationService) persist(ctx context.Context, userID int64, set map[string]struct{}) error {
	list, err := s.ordered(ctx, set)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode memorized set: %w", err)
	}

	if err := s.kv.Put(ctx, MemorizedKey(userID), raw); err != nil {
		return fmt.Errorf("save memorized set: %w", err)
	}
	return nil
}

// ordered lists set members in catalog order. Ids no longer in the catalog are dropped.
func (s *MemorizationService) ordered(ctx context.Context, set map[string]struct{}) ([]string, error) {
	all, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(set))
	for _, e := range all {
		if _, ok := set[e.ID]; ok {
			out = append(out, e.ID)
		}
	}
	return out, nil
}
