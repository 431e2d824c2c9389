package service

import (
	"context"
	"sort"
	"strings"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
)

// CatalogItem is a catalog entity annotated with the user's memorized flag.
type CatalogItem struct {
	Entity    *entities.Entity
	Memorized bool
}

// CatalogListing is one filtered view of the catalog.
type CatalogListing struct {
	Items          []CatalogItem
	MemorizedCount int // over the whole catalog, not just the filtered items
}

type CatalogService struct {
	catalog   CatalogRepository
	memorized MemorizedSource
}

func NewCatalogService(catalog CatalogRepository, memorized MemorizedSource) *CatalogService {
	return &CatalogService{catalog: catalog, memorized: memorized}
}

// List returns entities matching term, memorized ones first, then by subject name.
func (s *CatalogService) List(ctx context.Context, userID int64, term string) (*CatalogListing, error) {
	found, err := s.catalog.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	ids, err := s.memorized.All(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	items := make([]CatalogItem, 0, len(found))
	for _, e := range found {
		_, ok := set[e.ID]
		items = append(items, CatalogItem{Entity: e, Memorized: ok})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Memorized != items[j].Memorized {
			return items[i].Memorized
		}
		return strings.ToLower(items[i].Entity.SubjectName) < strings.ToLower(items[j].Entity.SubjectName)
	})

	return &CatalogListing{Items: items, MemorizedCount: len(ids)}, nil
}

// GetByID returns a single catalog entity.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*entities.Entity, error) {
	return s.catalog.GetByID(ctx, id)
}

// FindBySubject looks an entity up by its subject name.
func (s *CatalogService) FindBySubject(ctx context.Context, name string) (*entities.Entity, error) {
	return s.catalog.FindBySubject(ctx, name)
}
