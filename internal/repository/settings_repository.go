package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sunami_park/internal/domain/models"
	"sunami_park/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type SettingsRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetSettings returns the current singleton: the most recently created
// record. Older rows are deprecated revisions, never read again.
func (r *SettingsRepo) GetSettings(ctx context.Context) (*models.ParkSettings, error) {
	const op = "repository.settings_repository.GetSettings"

	query, args, err := r.sb.
		Select("id", "timings", "prices", "facilities", "created_at", "updated_at").
		From("park_settings").
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	var settings models.ParkSettings
	err = row.Scan(
		&settings.ID,
		&settings.Timings,
		&settings.Prices,
		&settings.Facilities,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSettingsNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get settings: %w", op, err)
	}

	return &settings, nil
}

func (r *SettingsRepo) CreateSettings(ctx context.Context, settings models.ParkSettings) (*models.ParkSettings, error) {
	const op = "repository.settings_repository.CreateSettings"

	query, args, err := r.sb.Insert("park_settings").
		Columns("id", "timings", "prices", "facilities", "created_at", "updated_at").
		Values(
			settings.ID,
			settings.Timings,
			settings.Prices,
			settings.Facilities,
			settings.CreatedAt,
			settings.UpdatedAt,
		).
		Suffix("RETURNING id, timings, prices, facilities, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	var created models.ParkSettings
	err = row.Scan(
		&created.ID,
		&created.Timings,
		&created.Prices,
		&created.Facilities,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create settings: %w", op, err)
	}

	return &created, nil
}

// UpdateSettings merges the partial update into the stored record and
// refreshes updated_at. Sections absent from the update stay untouched.
func (r *SettingsRepo) UpdateSettings(ctx context.Context, id uuid.UUID, upd models.SettingsUpdate) (*models.ParkSettings, error) {
	const op = "repository.settings_repository.UpdateSettings"

	builder := r.sb.Update("park_settings").
		Set("updated_at", time.Now().UTC())

	if upd.Timings != nil {
		builder = builder.Set("timings", *upd.Timings)
	}
	if upd.Prices != nil {
		builder = builder.Set("prices", *upd.Prices)
	}
	if upd.Facilities != nil {
		builder = builder.Set("facilities", *upd.Facilities)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, timings, prices, facilities, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	var updated models.ParkSettings
	err = row.Scan(
		&updated.ID,
		&updated.Timings,
		&updated.Prices,
		&updated.Facilities,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSettingsNotFound)
		}
		return nil, fmt.Errorf("%s: failed to update settings: %w", op, err)
	}

	return &updated, nil
}
