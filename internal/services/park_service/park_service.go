package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"sunami_park/internal/domain/models"
	"sunami_park/internal/lib/logger/sl"
	"sunami_park/internal/metrics"
	"sunami_park/internal/realtime"
	"sunami_park/internal/repository"
	"sunami_park/internal/storage"
	filestorage "sunami_park/internal/storage/filestorage"

	"github.com/google/uuid"
)

// SettingsFeed is the write side of the settings change feed. With a single
// instance the broker is used directly, with redis bridging the bridge is.
type SettingsFeed interface {
	PublishSettings(ctx context.Context, ev realtime.Event) error
}

// ParkService owns the content behind the public site: the park settings
// singleton and the gallery.
type ParkService struct {
	log      *slog.Logger
	settings repository.SettingsRepository
	gallery  repository.GalleryRepository
	files    filestorage.FileStorage
	feed     SettingsFeed
}

func NewParkService(
	log *slog.Logger,
	settings repository.SettingsRepository,
	gallery repository.GalleryRepository,
	files filestorage.FileStorage,
	feed SettingsFeed,
) *ParkService {
	return &ParkService{
		log:      log,
		settings: settings,
		gallery:  gallery,
		files:    files,
		feed:     feed,
	}
}

// EnsureSeeded creates the default settings record and the default gallery
// when the storage is empty. Called once at startup; a gallery the admin
// emptied on purpose stays empty.
func (s *ParkService) EnsureSeeded(ctx context.Context) error {
	const op = "service.ParkService.EnsureSeeded"
	log := s.log.With(slog.String("op", op))

	if _, err := s.GetOrCreateSettings(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.gallery.ListGalleryItems(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(items) > 0 {
		return nil
	}

	for _, item := range models.DefaultGalleryItems() {
		if _, err := s.gallery.InsertGalleryItem(ctx, item); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("seeded default gallery")

	return nil
}

// GetOrCreateSettings returns the current settings, creating the default
// record when none exists yet.
func (s *ParkService) GetOrCreateSettings(ctx context.Context) (*models.ParkSettings, error) {
	const op = "service.ParkService.GetOrCreateSettings"
	log := s.log.With(slog.String("op", op))

	settings, err := s.settings.GetSettings(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, storage.ErrSettingsNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.settings.CreateSettings(ctx, models.DefaultParkSettings())
	if err != nil {
		log.Error("failed to create default settings", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("created default park settings", slog.String("id", created.ID.String()))

	return created, nil
}

// UpdateSettings applies a partial update to the settings singleton and
// pushes the confirmed state into the feed.
func (s *ParkService) UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (*models.ParkSettings, error) {
	const op = "service.ParkService.UpdateSettings"
	log := s.log.With(slog.String("op", op))

	if err := upd.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current, err := s.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.settings.UpdateSettings(ctx, current.ID, upd)
	if err != nil {
		log.Error("failed to update settings", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.SettingsUpdatesTotal.Inc()

	if err := s.feed.PublishSettings(ctx, realtime.Event{
		Type:     realtime.EventUpdate,
		Settings: updated,
	}); err != nil {
		// The write already happened; a lost event only delays other
		// sessions until their next full load.
		log.Error("failed to publish settings event", sl.Err(err))
	}

	log.Info("park settings updated", slog.String("id", updated.ID.String()))

	return updated, nil
}

// ListGalleryItems returns the gallery ordered by display position.
func (s *ParkService) ListGalleryItems(ctx context.Context) ([]models.GalleryItem, error) {
	const op = "service.ParkService.ListGalleryItems"

	items, err := s.gallery.ListGalleryItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// AddGalleryUpload validates and stores an uploaded file, then appends it
// to the gallery at the next display position.
func (s *ParkService) AddGalleryUpload(ctx context.Context, file *multipart.FileHeader) (*models.GalleryItem, error) {
	const op = "service.ParkService.AddGalleryUpload"
	log := s.log.With(
		slog.String("op", op),
		slog.String("file_name", file.Filename),
	)

	fileType, err := fileTypeOf(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	publicURL, size, err := s.files.Save(ctx, file, "gallery")
	if err != nil {
		log.Error("failed to save uploaded file", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	item := models.NewGalleryItem(publicURL, file.Filename, fileType)
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	inserted, err := s.gallery.InsertGalleryItem(ctx, item)
	if err != nil {
		log.Error("failed to insert gallery item", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.GalleryUploadsTotal.WithLabelValues(string(fileType)).Inc()

	log.Info("gallery item uploaded",
		slog.String("id", inserted.ID.String()),
		slog.Int64("size", size),
		slog.Int("display_order", inserted.DisplayOrder))

	return inserted, nil
}

// AddGalleryURL appends an externally hosted file to the gallery without
// touching the file storage.
func (s *ParkService) AddGalleryURL(ctx context.Context, fileURL, fileName string, fileType models.FileType) (*models.GalleryItem, error) {
	const op = "service.ParkService.AddGalleryURL"
	log := s.log.With(
		slog.String("op", op),
		slog.String("file_name", fileName),
	)

	item := models.NewGalleryItem(fileURL, fileName, fileType)
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	inserted, err := s.gallery.InsertGalleryItem(ctx, item)
	if err != nil {
		log.Error("failed to insert gallery item", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery item added",
		slog.String("id", inserted.ID.String()),
		slog.Int("display_order", inserted.DisplayOrder))

	return inserted, nil
}

// UpdateGalleryItem renames or reorders an existing item. The file behind
// it never changes.
func (s *ParkService) UpdateGalleryItem(ctx context.Context, id uuid.UUID, upd models.GalleryItemUpdate) (*models.GalleryItem, error) {
	const op = "service.ParkService.UpdateGalleryItem"
	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	if err := upd.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.gallery.UpdateGalleryItem(ctx, id, upd)
	if err != nil {
		log.Error("failed to update gallery item", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery item updated")

	return updated, nil
}

// RemoveGalleryItem deletes the record and, when the file came from an
// upload, its file. External URLs are left alone. A failed file deletion
// does not block removing the record.
func (s *ParkService) RemoveGalleryItem(ctx context.Context, id uuid.UUID) error {
	const op = "service.ParkService.RemoveGalleryItem"
	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	item, err := s.gallery.GetGalleryItem(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.files.Owns(item.FileURL) {
		if err := s.files.Delete(ctx, item.FileURL); err != nil {
			log.Error("failed to delete stored file", sl.Err(err))
		}
	}

	if err := s.gallery.DeleteGalleryItem(ctx, id); err != nil {
		log.Error("failed to delete gallery item", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery item removed")

	return nil
}

func fileTypeOf(file *multipart.FileHeader) (models.FileType, error) {
	contentType := file.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.FileTypeImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return models.FileTypeVideo, nil
	default:
		return "", fmt.Errorf("%w: %s", storage.ErrInvalidFileType, contentType)
	}
}
