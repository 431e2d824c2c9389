package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/geoquiz-bot/internal/repository"
)

func TestNewCatalogRepository(t *testing.T) {
	repo, err := repository.NewCatalogRepository("testdata/catalog.json")
	require.NoError(t, err)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "FR", all[0].ID)
	assert.Equal(t, "Paris", all[0].CorrectValue)
}

func TestNewCatalogRepository_Errors(t *testing.T) {
	_, err := repository.NewCatalogRepository("testdata/missing.json")
	assert.Error(t, err)

	_, err = repository.NewCatalogRepository("testdata/duplicate.json")
	assert.ErrorIs(t, err, repository.ErrInvalidCatalog)

	_, err = repository.NewCatalogFromEntities(nil)
	assert.ErrorIs(t, err, repository.ErrInvalidCatalog)

	_, err = repository.NewCatalogFromEntities([]*entities.Entity{{ID: "X", SubjectName: "Nowhere"}})
	assert.ErrorIs(t, err, repository.ErrInvalidCatalog)
}

func TestBundledCatalogIsValid(t *testing.T) {
	repo, err := repository.NewCatalogRepository("../../assets/data/countries.json")
	require.NoError(t, err)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Greater(t, len(all), 100)
}

func TestCatalogRepository_GetByID(t *testing.T) {
	repo, err := repository.NewCatalogRepository("testdata/catalog.json")
	require.NoError(t, err)
	ctx := context.Background()

	e, err := repo.GetByID(ctx, "DE")
	require.NoError(t, err)
	assert.Equal(t, "Germany", e.SubjectName)

	_, err = repo.GetByID(ctx, "ES")
	assert.ErrorIs(t, err, repository.ErrEntityNotFound)
}

func TestCatalogRepository_Search(t *testing.T) {
	repo, err := repository.NewCatalogRepository("testdata/catalog.json")
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "empty term matches all", term: "  ", want: []string{"FR", "DE", "IT"}},
		{name: "subject match", term: "germ", want: []string{"DE"}},
		{name: "value match ignores case", term: "ROME", want: []string{"IT"}},
		{name: "matches subject or value", term: "r", want: []string{"FR", "DE", "IT"}},
		{name: "no match", term: "madrid", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.term)
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCatalogRepository_FindBySubject(t *testing.T) {
	repo, err := repository.NewCatalogRepository("testdata/catalog.json")
	require.NoError(t, err)
	ctx := context.Background()

	e, err := repo.FindBySubject(ctx, " italy ")
	require.NoError(t, err)
	assert.Equal(t, "IT", e.ID)

	_, err = repo.FindBySubject(ctx, "Ital")
	assert.ErrorIs(t, err, repository.ErrEntityNotFound)
}
