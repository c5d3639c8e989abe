package services

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"testing"
	"time"

	"sunami_park/internal/domain/models"
	"sunami_park/internal/realtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContentProvider struct {
	mock.Mock
}

func (m *MockContentProvider) GetOrCreateSettings(ctx context.Context) (*models.ParkSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ParkSettings), args.Error(1)
}

func (m *MockContentProvider) ListGalleryItems(ctx context.Context) ([]models.GalleryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GalleryItem), args.Error(1)
}

func (m *MockContentProvider) UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (*models.ParkSettings, error) {
	args := m.Called(ctx, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ParkSettings), args.Error(1)
}

func (m *MockContentProvider) AddGalleryUpload(ctx context.Context, file *multipart.FileHeader) (*models.GalleryItem, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GalleryItem), args.Error(1)
}

func (m *MockContentProvider) AddGalleryURL(ctx context.Context, fileURL, fileName string, fileType models.FileType) (*models.GalleryItem, error) {
	args := m.Called(ctx, fileURL, fileName, fileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GalleryItem), args.Error(1)
}

func (m *MockContentProvider) UpdateGalleryItem(ctx context.Context, id uuid.UUID, upd models.GalleryItemUpdate) (*models.GalleryItem, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GalleryItem), args.Error(1)
}

func (m *MockContentProvider) RemoveGalleryItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestStateService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("successful load mirrors settings and sorted gallery", func(t *testing.T) {
		content := new(MockContentProvider)
		svc := NewStateService(slog.Default(), content, realtime.NewBroker(slog.Default()), false)

		settings := models.DefaultParkSettings()
		items := []models.GalleryItem{
			{ID: uuid.New(), DisplayOrder: 3},
			{ID: uuid.New(), DisplayOrder: 1},
			{ID: uuid.New(), DisplayOrder: 2},
		}
		content.On("GetOrCreateSettings", ctx).Return(&settings, nil)
		content.On("ListGalleryItems", ctx).Return(items, nil)

		require.NoError(t, svc.Load(ctx))

		assert.True(t, svc.Loaded())
		assert.False(t, svc.Loading())
		assert.NoError(t, svc.Err())
		require.NotNil(t, svc.Settings())

		mirrored := svc.Items()
		require.Len(t, mirrored, 3)
		assert.Equal(t, 1, mirrored[0].DisplayOrder)
		assert.Equal(t, 2, mirrored[1].DisplayOrder)
		assert.Equal(t, 3, mirrored[2].DisplayOrder)
	})

	t.Run("failed load keeps previous state", func(t *testing.T) {
		content := new(MockContentProvider)
		svc := NewStateService(slog.Default(), content, realtime.NewBroker(slog.Default()), false)

		settings := models.DefaultParkSettings()
		content.On("GetOrCreateSettings", ctx).Return(&settings, nil).Once()
		content.On("ListGalleryItems", ctx).Return([]models.GalleryItem{{ID: uuid.New()}}, nil).Once()
		require.NoError(t, svc.Load(ctx))

		content.On("GetOrCreateSettings", ctx).Return(nil, errors.New("db down")).Once()
		content.On("ListGalleryItems", ctx).Return(nil, errors.New("db down")).Once()
		require.Error(t, svc.Load(ctx))

		// The first load's mirror is still there.
		assert.True(t, svc.Loaded())
		assert.Error(t, svc.Err())
		assert.NotNil(t, svc.Settings())
		assert.Len(t, svc.Items(), 1)
	})

	t.Run("settings are nil before the first load", func(t *testing.T) {
		svc := NewStateService(slog.Default(), new(MockContentProvider), realtime.NewBroker(slog.Default()), false)

		assert.Nil(t, svc.Settings())
		assert.Empty(t, svc.Items())
		assert.False(t, svc.Loaded())
	})
}

func TestStateService_UpdateSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("mutation before load is rejected without I/O", func(t *testing.T) {
		content := new(MockContentProvider)
		svc := NewStateService(slog.Default(), content, realtime.NewBroker(slog.Default()), false)

		_, err := svc.UpdateSettings(ctx, models.SettingsUpdate{
			Prices: &models.Prices{Weekday: 1, Weekend: 2},
		})
		require.ErrorIs(t, err, ErrNotLoaded)
		content.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything)
	})

	t.Run("without realtime the confirmed state is applied directly", func(t *testing.T) {
		content := new(MockContentProvider)
		svc := NewStateService(slog.Default(), content, realtime.NewBroker(slog.Default()), false)
		loadState(t, ctx, svc, content)

		upd := models.SettingsUpdate{Prices: &models.Prices{Weekday: 350, Weekend: 450}}
		updated := upd.Apply(*svc.Settings())
		content.On("UpdateSettings", ctx, upd).Return(&updated, nil)

		_, err := svc.UpdateSettings(ctx, upd)
		require.NoError(t, err)
		assert.Equal(t, 350, svc.Settings().Prices.Weekday)
	})

	t.Run("with realtime the feed is the only writer", func(t *testing.T) {
		content := new(MockContentProvider)
		broker := realtime.NewBroker(slog.Default())
		svc := NewStateService(slog.Default(), content, broker, true)
		loadState(t, ctx, svc, content)

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go svc.Run(runCtx)

		// Run subscribes asynchronously; publishing before that would drop
		// the event.
		require.Eventually(t, func() bool {
			return broker.SubscriberCount() == 1
		}, time.Second, 10*time.Millisecond)

		upd := models.SettingsUpdate{Prices: &models.Prices{Weekday: 350, Weekend: 450}}
		updated := upd.Apply(*svc.Settings())
		content.On("UpdateSettings", ctx, upd).Return(&updated, nil)

		_, err := svc.UpdateSettings(ctx, upd)
		require.NoError(t, err)

		// Until the event arrives, the mirror still shows the old price.
		assert.Equal(t, 400, svc.Settings().Prices.Weekday)

		broker.Publish(realtime.Event{Type: realtime.EventUpdate, Settings: &updated})

		require.Eventually(t, func() bool {
			return svc.Settings().Prices.Weekday == 350
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("failed write leaves the mirror untouched", func(t *testing.T) {
		content := new(MockContentProvider)
		svc := NewStateService(slog.Default(), content, realtime.NewBroker(slog.Default()), false)
		loadState(t, ctx, svc, content)

		upd := models.SettingsUpdate{Prices: &models.Prices{Weekday: 350, Weekend: 450}}
		content.On("UpdateSettings", ctx, upd).Return(nil, errors.New("db down"))

		_, err := svc.UpdateSettings(ctx, upd)
		require.Error(t, err)
		assert.Equal(t, 400, svc.Settings().Prices.Weekday)
	})
}

func TestStateService_GalleryMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("removal refreshes the mirror", func(t *testing.T) {
		content := new(MockContentProvider)
		svc := NewStateService(slog.Default(), content, realtime.NewBroker(slog.Default()), false)

		item := models.GalleryItem{ID: uuid.New(), DisplayOrder: 1}
		settings := models.DefaultParkSettings()
		content.On("GetOrCreateSettings", ctx).Return(&settings, nil)
		content.On("ListGalleryItems", ctx).Return([]models.GalleryItem{item}, nil).Once()
		require.NoError(t, svc.Load(ctx))

		content.On("RemoveGalleryItem", ctx, item.ID).Return(nil)
		content.On("ListGalleryItems", ctx).Return([]models.GalleryItem{}, nil).Once()

		require.NoError(t, svc.RemoveGalleryItem(ctx, item.ID))
		assert.Empty(t, svc.Items())
	})

	t.Run("failed removal keeps the mirror", func(t *testing.T) {
		content := new(MockContentProvider)
		svc := NewStateService(slog.Default(), content, realtime.NewBroker(slog.Default()), false)

		item := models.GalleryItem{ID: uuid.New(), DisplayOrder: 1}
		settings := models.DefaultParkSettings()
		content.On("GetOrCreateSettings", ctx).Return(&settings, nil)
		content.On("ListGalleryItems", ctx).Return([]models.GalleryItem{item}, nil)
		require.NoError(t, svc.Load(ctx))

		content.On("RemoveGalleryItem", ctx, item.ID).Return(errors.New("db down"))

		require.Error(t, svc.RemoveGalleryItem(ctx, item.ID))
		assert.Len(t, svc.Items(), 1)
	})

	t.Run("added url lands in the mirror sorted", func(t *testing.T) {
		content := new(MockContentProvider)
		svc := NewStateService(slog.Default(), content, realtime.NewBroker(slog.Default()), false)

		existing := models.GalleryItem{ID: uuid.New(), DisplayOrder: 1}
		settings := models.DefaultParkSettings()
		content.On("GetOrCreateSettings", ctx).Return(&settings, nil)
		content.On("ListGalleryItems", ctx).Return([]models.GalleryItem{existing}, nil).Once()
		require.NoError(t, svc.Load(ctx))

		added := models.GalleryItem{ID: uuid.New(), DisplayOrder: 2}
		content.On("AddGalleryURL", ctx, "https://cdn.example.com/wave.jpg", "wave", models.FileTypeImage).
			Return(&added, nil)
		content.On("ListGalleryItems", ctx).Return([]models.GalleryItem{added, existing}, nil).Once()

		_, err := svc.AddGalleryURL(ctx, "https://cdn.example.com/wave.jpg", "wave", models.FileTypeImage)
		require.NoError(t, err)

		items := svc.Items()
		require.Len(t, items, 2)
		assert.Equal(t, existing.ID, items[0].ID)
		assert.Equal(t, added.ID, items[1].ID)
	})
}

func loadState(t *testing.T, ctx context.Context, svc *StateService, content *MockContentProvider) {
	t.Helper()

	settings := models.DefaultParkSettings()
	content.On("GetOrCreateSettings", ctx).Return(&settings, nil).Once()
	content.On("ListGalleryItems", ctx).Return([]models.GalleryItem{}, nil).Once()
	require.NoError(t, svc.Load(ctx))
}
