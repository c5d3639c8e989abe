package memstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"sunami_park/internal/domain/models"
	"sunami_park/internal/storage"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	settingsKey = "sunami_park_settings"
	galleryKey  = "sunami_gallery_items"
)

// Store is the local-storage flavour of the persistence collaborator: both
// entity types live as JSON blobs in an in-process cache, mirroring the
// browser localStorage variant of the site. It satisfies the same
// repository interfaces as the postgres implementation.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func New() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

func (s *Store) GetSettings(ctx context.Context) (*models.ParkSettings, error) {
	const op = "memstore.GetSettings"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var settings models.ParkSettings
	if err := s.load(settingsKey, &settings); err != nil {
		if errors.Is(err, storage.ErrNoSuchKey) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSettingsNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &settings, nil
}

func (s *Store) CreateSettings(ctx context.Context, settings models.ParkSettings) (*models.ParkSettings, error) {
	const op = "memstore.CreateSettings"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store(settingsKey, settings); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &settings, nil
}

func (s *Store) UpdateSettings(ctx context.Context, id uuid.UUID, upd models.SettingsUpdate) (*models.ParkSettings, error) {
	const op = "memstore.UpdateSettings"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current models.ParkSettings
	if err := s.load(settingsKey, &current); err != nil {
		if errors.Is(err, storage.ErrNoSuchKey) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSettingsNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.ID != id {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSettingsNotFound)
	}

	updated := upd.Apply(current)
	updated.UpdatedAt = time.Now().UTC()

	if err := s.store(settingsKey, updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &updated, nil
}

func (s *Store) ListGalleryItems(ctx context.Context) ([]models.GalleryItem, error) {
	const op = "memstore.ListGalleryItems"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadItems()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sortItems(items)

	return items, nil
}

func (s *Store) GetGalleryItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	const op = "memstore.GetGalleryItem"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadItems()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, item := range items {
		if item.ID == id {
			return &item, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
}

func (s *Store) InsertGalleryItem(ctx context.Context, item models.GalleryItem) (*models.GalleryItem, error) {
	const op = "memstore.InsertGalleryItem"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadItems()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// display_order = max(existing) + 1, newest sorts last
	maxOrder := 0
	for _, existing := range items {
		if existing.DisplayOrder > maxOrder {
			maxOrder = existing.DisplayOrder
		}
	}
	item.DisplayOrder = maxOrder + 1

	items = append(items, item)
	if err := s.store(galleryKey, items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &item, nil
}

func (s *Store) UpdateGalleryItem(ctx context.Context, id uuid.UUID, upd models.GalleryItemUpdate) (*models.GalleryItem, error) {
	const op = "memstore.UpdateGalleryItem"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadItems()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}

		if upd.FileName != nil {
			items[i].FileName = *upd.FileName
		}
		if upd.DisplayOrder != nil {
			items[i].DisplayOrder = *upd.DisplayOrder
		}

		if err := s.store(galleryKey, items); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		updated := items[i]
		return &updated, nil
	}

	return nil, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
}

func (s *Store) DeleteGalleryItem(ctx context.Context, id uuid.UUID) error {
	const op = "memstore.DeleteGalleryItem"

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadItems()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	filtered := items[:0:0]
	for _, item := range items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(items) {
		return fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}

	if err := s.store(galleryKey, filtered); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) loadItems() ([]models.GalleryItem, error) {
	var items []models.GalleryItem
	if err := s.load(galleryKey, &items); err != nil {
		if errors.Is(err, storage.ErrNoSuchKey) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}

func (s *Store) load(key string, dst interface{}) error {
	raw, ok := s.cache.Get(key)
	if !ok {
		return storage.ErrNoSuchKey
	}

	blob, ok := raw.([]byte)
	if !ok {
		return fmt.Errorf("unexpected cache payload type %T", raw)
	}

	return json.Unmarshal(blob, dst)
}

func (s *Store) store(key string, src interface{}) error {
	blob, err := json.Marshal(src)
	if err != nil {
		return err
	}

	s.cache.Set(key, blob, cache.NoExpiration)

	return nil
}

func sortItems(items []models.GalleryItem) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].DisplayOrder != items[b].DisplayOrder {
			return items[a].DisplayOrder < items[b].DisplayOrder
		}
		return items[a].CreatedAt.Before(items[b].CreatedAt)
	})
}
