package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"sort"
	"sync"

	"sunami_park/internal/domain/models"
	"sunami_park/internal/lib/logger/sl"
	"sunami_park/internal/realtime"

	"github.com/google/uuid"
)

// ErrNotLoaded is returned by mutations attempted before the first
// successful Load. Nothing is written in that case.
var ErrNotLoaded = errors.New("park state is not loaded")

// ContentProvider is the persistent side the state mirrors.
type ContentProvider interface {
	GetOrCreateSettings(ctx context.Context) (*models.ParkSettings, error)
	ListGalleryItems(ctx context.Context) ([]models.GalleryItem, error)
	UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (*models.ParkSettings, error)
	AddGalleryUpload(ctx context.Context, file *multipart.FileHeader) (*models.GalleryItem, error)
	AddGalleryURL(ctx context.Context, fileURL, fileName string, fileType models.FileType) (*models.GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, id uuid.UUID, upd models.GalleryItemUpdate) (*models.GalleryItem, error)
	RemoveGalleryItem(ctx context.Context, id uuid.UUID) error
}

// StateService keeps an in-memory mirror of the park content and keeps it
// synchronized with storage. With realtime enabled the change feed is the
// only writer of confirmed settings state, so every instance converges on
// the last event regardless of who wrote it.
type StateService struct {
	log     *slog.Logger
	content ContentProvider
	broker  *realtime.Broker

	realtimeEnabled bool

	mu       sync.RWMutex
	settings *models.ParkSettings
	items    []models.GalleryItem
	loading  bool
	loaded   bool
	lastErr  error
}

func NewStateService(log *slog.Logger, content ContentProvider, broker *realtime.Broker, realtimeEnabled bool) *StateService {
	return &StateService{
		log:             log,
		content:         content,
		broker:          broker,
		realtimeEnabled: realtimeEnabled,
	}
}

// Load fetches the settings and the gallery concurrently and replaces the
// mirror. On any failure the previous state stays untouched and the error
// is kept for inspection.
func (s *StateService) Load(ctx context.Context) error {
	const op = "service.StateService.Load"
	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var (
		wg          sync.WaitGroup
		settings    *models.ParkSettings
		items       []models.GalleryItem
		settingsErr error
		itemsErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		settings, settingsErr = s.content.GetOrCreateSettings(ctx)
	}()
	go func() {
		defer wg.Done()
		items, itemsErr = s.content.ListGalleryItems(ctx)
	}()
	wg.Wait()

	err := errors.Join(settingsErr, itemsErr)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	s.lastErr = err

	if err != nil {
		log.Error("failed to load park state", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.settings = settings
	s.items = sortedItems(items)
	s.loaded = true

	log.Info("park state loaded", slog.Int("gallery_items", len(items)))

	return nil
}

// Run applies incoming feed events until ctx is done. Only started when
// realtime is enabled.
func (s *StateService) Run(ctx context.Context) {
	const op = "service.StateService.Run"
	log := s.log.With(slog.String("op", op))

	events, unsubscribe := s.broker.Subscribe()
	defer unsubscribe()

	log.Info("listening for settings events")

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Settings == nil {
				continue
			}
			s.applySettings(ev.Settings)
		}
	}
}

// UpdateSettings writes the partial update through to storage. Mutations
// before the first successful Load are rejected so a blank mirror can never
// be written back over real data.
func (s *StateService) UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (*models.ParkSettings, error) {
	const op = "service.StateService.UpdateSettings"

	if !s.Loaded() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotLoaded)
	}

	updated, err := s.content.UpdateSettings(ctx, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// With realtime on, the confirmed state comes back through the feed;
	// applying it here too would race with events from other instances.
	if !s.realtimeEnabled {
		s.applySettings(updated)
	}

	return updated, nil
}

// AddGalleryUpload stores the uploaded file and refreshes the mirrored
// gallery.
func (s *StateService) AddGalleryUpload(ctx context.Context, file *multipart.FileHeader) (*models.GalleryItem, error) {
	const op = "service.StateService.AddGalleryUpload"

	if !s.Loaded() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotLoaded)
	}

	item, err := s.content.AddGalleryUpload(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.refreshItems(ctx)

	return item, nil
}

// AddGalleryURL appends an external media URL and refreshes the mirrored
// gallery.
func (s *StateService) AddGalleryURL(ctx context.Context, fileURL, fileName string, fileType models.FileType) (*models.GalleryItem, error) {
	const op = "service.StateService.AddGalleryURL"

	if !s.Loaded() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotLoaded)
	}

	item, err := s.content.AddGalleryURL(ctx, fileURL, fileName, fileType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.refreshItems(ctx)

	return item, nil
}

// UpdateGalleryItem renames or reorders an item and refreshes the
// mirrored gallery.
func (s *StateService) UpdateGalleryItem(ctx context.Context, id uuid.UUID, upd models.GalleryItemUpdate) (*models.GalleryItem, error) {
	const op = "service.StateService.UpdateGalleryItem"

	if !s.Loaded() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotLoaded)
	}

	item, err := s.content.UpdateGalleryItem(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.refreshItems(ctx)

	return item, nil
}

// RemoveGalleryItem deletes the item and refreshes the mirrored gallery.
func (s *StateService) RemoveGalleryItem(ctx context.Context, id uuid.UUID) error {
	const op = "service.StateService.RemoveGalleryItem"

	if !s.Loaded() {
		return fmt.Errorf("%s: %w", op, ErrNotLoaded)
	}

	if err := s.content.RemoveGalleryItem(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.refreshItems(ctx)

	return nil
}

// Settings returns a copy of the mirrored settings, or nil before the
// first successful Load.
func (s *StateService) Settings() *models.ParkSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil
	}

	settings := *s.settings
	return &settings
}

// Items returns a copy of the mirrored gallery in display order.
func (s *StateService) Items() []models.GalleryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.GalleryItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *StateService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading
}

func (s *StateService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loaded
}

// Err returns the error of the last failed Load, nil after a successful
// one.
func (s *StateService) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastErr
}

// applySettings is the single entry point for confirmed settings state.
// Last writer wins.
func (s *StateService) applySettings(settings *models.ParkSettings) {
	copied := *settings

	s.mu.Lock()
	s.settings = &copied
	s.mu.Unlock()
}

func (s *StateService) refreshItems(ctx context.Context) {
	const op = "service.StateService.refreshItems"

	items, err := s.content.ListGalleryItems(ctx)
	if err != nil {
		// The write succeeded, only the mirror is stale; the next Load
		// or mutation catches up.
		s.log.With(slog.String("op", op)).Error("failed to refresh gallery", sl.Err(err))
		return
	}

	sorted := sortedItems(items)

	s.mu.Lock()
	s.items = sorted
	s.mu.Unlock()
}

func sortedItems(items []models.GalleryItem) []models.GalleryItem {
	sorted := make([]models.GalleryItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	return sorted
}
