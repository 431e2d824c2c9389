package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
)

var (
	ErrEntityNotFound = errors.New("entity not found")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// CatalogRepository provides read-only access to the entity catalog.
// The catalog is loaded once and never mutated afterwards.
type CatalogRepository struct {
	entities []*entities.Entity
	byID     map[string]*entities.Entity
}

// NewCatalogRepository loads the catalog from a JSON file.
func NewCatalogRepository(path string) (*CatalogRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var wrapper struct {
		Entities []*entities.Entity `json:"entities"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
	}

	return NewCatalogFromEntities(wrapper.Entities)
}

// NewCatalogFromEntities builds a catalog from an in-memory list.
func NewCatalogFromEntities(list []*entities.Entity) (*CatalogRepository, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidCatalog)
	}

	byID := make(map[string]*entities.Entity, len(list))
	for i, e := range list {
		if e == nil || e.ID == "" || e.SubjectName == "" || e.CorrectValue == "" {
			return nil, fmt.Errorf("%w: entity #%d has empty fields", ErrInvalidCatalog, i)
		}
		if _, ok := byID[e.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, e.ID)
		}
		byID[e.ID] = e
	}

	return &CatalogRepository{
		entities: list,
		byID:     byID,
	}, nil
}

// GetByID retrieves an entity by its identifier.
func (r *CatalogRepository) GetByID(_ context.Context, id string) (*entities.Entity, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, ErrEntityNotFound
	}
	return e, nil
}

// GetAll returns the full catalog in file order.
func (r *CatalogRepository) GetAll(_ context.Context) ([]*entities.Entity, error) {
	return r.entities, nil
}

// Search returns entities whose subject or value contains term, case-insensitively.
// An empty term matches everything.
func (r *CatalogRepository) Search(_ context.Context, term string) ([]*entities.Entity, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return r.entities, nil
	}

	out := make([]*entities.Entity, 0)
	for _, e := range r.entities {
		if strings.Contains(strings.ToLower(e.SubjectName), term) ||
			strings.Contains(strings.ToLower(e.CorrectValue), term) {
			out = append(out, e)
		}
	}
	return out, nil
}

// FindBySubject returns the entity whose subject matches name exactly, ignoring case.
func (r *CatalogRepository) FindBySubject(_ context.Context, name string) (*entities.Entity, error) {
	name = strings.TrimSpace(name)
	for _, e := range r.entities {
		if strings.EqualFold(e.SubjectName, name) {
			return e, nil
		}
	}
	return nil, ErrEntityNotFound
}
