package memstore

import (
	"context"
	"testing"

	"sunami_park/internal/domain/models"
	"sunami_park/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Settings(t *testing.T) {
	ctx := context.Background()
	store := New()

	t.Run("empty store reports not found", func(t *testing.T) {
		_, err := store.GetSettings(ctx)
		require.ErrorIs(t, err, storage.ErrSettingsNotFound)
	})

	defaults := models.DefaultParkSettings()

	t.Run("create and read back", func(t *testing.T) {
		created, err := store.CreateSettings(ctx, defaults)
		require.NoError(t, err)
		assert.Equal(t, defaults.ID, created.ID)

		got, err := store.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, defaults.Prices, got.Prices)
	})

	t.Run("partial update", func(t *testing.T) {
		updated, err := store.UpdateSettings(ctx, defaults.ID, models.SettingsUpdate{
			Facilities: &models.Facilities{LockerRoom: 75, SwimmingCostumes: 150},
		})
		require.NoError(t, err)
		assert.Equal(t, 75, updated.Facilities.LockerRoom)
		assert.Equal(t, defaults.Timings, updated.Timings)
		assert.True(t, updated.UpdatedAt.After(defaults.UpdatedAt) || updated.UpdatedAt.Equal(defaults.UpdatedAt))
	})

	t.Run("update with wrong id", func(t *testing.T) {
		_, err := store.UpdateSettings(ctx, uuid.New(), models.SettingsUpdate{
			Prices: &models.Prices{Weekday: 1, Weekend: 2},
		})
		require.ErrorIs(t, err, storage.ErrSettingsNotFound)
	})
}

func TestStore_Gallery(t *testing.T) {
	ctx := context.Background()
	store := New()

	t.Run("empty gallery lists nothing", func(t *testing.T) {
		items, err := store.ListGalleryItems(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	first, err := store.InsertGalleryItem(ctx, models.NewGalleryItem("/1.jpeg", "first", models.FileTypeImage))
	require.NoError(t, err)
	second, err := store.InsertGalleryItem(ctx, models.NewGalleryItem("/2.jpeg", "second", models.FileTypeImage))
	require.NoError(t, err)

	t.Run("display order is max plus one", func(t *testing.T) {
		assert.Equal(t, 1, first.DisplayOrder)
		assert.Equal(t, 2, second.DisplayOrder)
	})

	t.Run("deleting in the middle never reuses an order", func(t *testing.T) {
		require.NoError(t, store.DeleteGalleryItem(ctx, first.ID))

		third, err := store.InsertGalleryItem(ctx, models.NewGalleryItem("/3.jpeg", "third", models.FileTypeImage))
		require.NoError(t, err)
		assert.Equal(t, 3, third.DisplayOrder)
	})

	t.Run("list is sorted by display order", func(t *testing.T) {
		items, err := store.ListGalleryItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, second.ID, items[0].ID)
	})

	t.Run("rename and reorder", func(t *testing.T) {
		name := "renamed"
		order := 9
		updated, err := store.UpdateGalleryItem(ctx, second.ID, models.GalleryItemUpdate{
			FileName:     &name,
			DisplayOrder: &order,
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.FileName)
		assert.Equal(t, 9, updated.DisplayOrder)
	})

	t.Run("unknown ids surface not found", func(t *testing.T) {
		_, err := store.GetGalleryItem(ctx, uuid.New())
		assert.ErrorIs(t, err, storage.ErrItemNotFound)

		name := "ghost"
		_, err = store.UpdateGalleryItem(ctx, uuid.New(), models.GalleryItemUpdate{FileName: &name})
		assert.ErrorIs(t, err, storage.ErrItemNotFound)

		assert.ErrorIs(t, store.DeleteGalleryItem(ctx, uuid.New()), storage.ErrItemNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.ListGalleryItems(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
