package repository

import (
	"context"

	"sunami_park/internal/domain/models"

	"github.com/google/uuid"
)

// SettingsRepository stores the park settings singleton. GetSettings returns
// storage.ErrSettingsNotFound when no record was ever created.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*models.ParkSettings, error)
	CreateSettings(ctx context.Context, settings models.ParkSettings) (*models.ParkSettings, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, upd models.SettingsUpdate) (*models.ParkSettings, error)
}

// GalleryRepository stores the public gallery. InsertGalleryItem assigns
// display_order = max(existing)+1; DeleteGalleryItem returns
// storage.ErrItemNotFound for an unknown id.
type GalleryRepository interface {
	ListGalleryItems(ctx context.Context) ([]models.GalleryItem, error)
	GetGalleryItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error)
	InsertGalleryItem(ctx context.Context, item models.GalleryItem) (*models.GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, id uuid.UUID, upd models.GalleryItemUpdate) (*models.GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, id uuid.UUID) error
}

// GateRepository keeps the per-visitor logo click counters behind the
// hidden admin gate. Counters have no timeout, they live for the session.
type GateRepository interface {
	IncrClicks(ctx context.Context, sessionID string) (int64, error)
	ResetClicks(ctx context.Context, sessionID string) error
}
