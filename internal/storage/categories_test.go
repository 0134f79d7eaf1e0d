package storage

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financebook/financebook/internal/model"
)

func TestSeedDefaultCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds full taxonomy into empty store", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		require.NoError(t, store.SeedDefaultCategories(ctx))

		categories, err := store.GetCategories(ctx, true)
		require.NoError(t, err)
		assert.Len(t, categories, len(model.DefaultCategories))
	})

	t.Run("children reference their declared parents", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		require.NoError(t, store.SeedDefaultCategories(ctx))

		categories, err := store.GetCategories(ctx, true)
		require.NoError(t, err)

		byID := make(map[int64]model.Category)
		byName := make(map[string]model.Category)
		for _, cat := range categories {
			byID[cat.ID] = cat
			byName[cat.Name] = cat
		}

		bus, ok := byName["Bus"]
		require.True(t, ok)
		require.NotNil(t, bus.ParentID)
		assert.Equal(t, "Transportation", byID[*bus.ParentID].Name)

		lunch, ok := byName["Lunch"]
		require.True(t, ok)
		require.NotNil(t, lunch.ParentID)
		assert.Equal(t, "Food & Dining", byID[*lunch.ParentID].Name)

		salary, ok := byName["Salary"]
		require.True(t, ok)
		assert.True(t, salary.IsTopLevel())
	})

	t.Run("runs only once", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		require.NoError(t, store.SeedDefaultCategories(ctx))
		require.NoError(t, store.SeedDefaultCategories(ctx))

		categories, err := store.GetCategories(ctx, true)
		require.NoError(t, err)
		assert.Len(t, categories, len(model.DefaultCategories))
	})

	t.Run("skips a store that already has categories", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		createTestCategory(t, store, "Custom")
		require.NoError(t, store.SeedDefaultCategories(ctx))

		categories, err := store.GetCategories(ctx, true)
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})
}

func TestSaveCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("insert assigns id", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat := &model.Category{Name: "Pets", IsActive: true}
		require.NoError(t, store.SaveCategory(ctx, cat))
		assert.Positive(t, cat.ID)
	})

	t.Run("re-saving the same entity is idempotent", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat := &model.Category{Name: "Pets", IsActive: true}
		require.NoError(t, store.SaveCategory(ctx, cat))

		// Save again with the id set: must update in place, not duplicate.
		require.NoError(t, store.SaveCategory(ctx, cat))
		require.NoError(t, store.SaveCategory(ctx, cat))

		categories, err := store.GetCategories(ctx, true)
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, *cat, categories[0])
	})

	t.Run("update replaces fields", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat := createTestCategory(t, store, "Hobbies")
		cat.Name = "Crafts"
		cat.IsActive = false
		require.NoError(t, store.SaveCategory(ctx, cat))

		got, err := store.GetCategory(ctx, cat.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Crafts", got.Name)
		assert.False(t, got.IsActive)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		err := store.SaveCategory(ctx, &model.Category{Name: "  "})
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})
}

func TestGetCategories(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	createTestCategory(t, store, "Zoo")
	createTestCategory(t, store, "Art")
	inactive := createTestCategory(t, store, "Museum")
	inactive.IsActive = false
	require.NoError(t, store.SaveCategory(ctx, inactive))

	t.Run("active only, ordered by name", func(t *testing.T) {
		categories, err := store.GetCategories(ctx, true)
		require.NoError(t, err)
		require.Len(t, categories, 2)

		names := []string{categories[0].Name, categories[1].Name}
		assert.True(t, sort.StringsAreSorted(names))
		assert.NotContains(t, names, "Museum")
	})

	t.Run("all includes inactive", func(t *testing.T) {
		categories, err := store.GetCategories(ctx, false)
		require.NoError(t, err)
		assert.Len(t, categories, 3)
	})
}

func TestGetCategoryResolvesInactive(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	cat := createTestCategory(t, store, "Legacy")
	cat.IsActive = false
	require.NoError(t, store.SaveCategory(ctx, cat))

	got, err := store.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Legacy", got.Name)
	assert.False(t, got.IsActive)

	missing, err := store.GetCategory(ctx, 99999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
