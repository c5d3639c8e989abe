package repository

import (
	"context"
	"errors"
	"fmt"

	"sunami_park/internal/domain/models"
	"sunami_park/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type GalleryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *GalleryRepo) ListGalleryItems(ctx context.Context) ([]models.GalleryItem, error) {
	const op = "repository.gallery_repository.ListGalleryItems"

	query, args, err := r.sb.
		Select("id", "file_url", "file_name", "file_type", "display_order", "created_at").
		From("gallery_items").
		OrderBy("display_order ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()

	var items []models.GalleryItem
	for rows.Next() {
		var item models.GalleryItem
		err := rows.Scan(
			&item.ID,
			&item.FileURL,
			&item.FileName,
			&item.FileType,
			&item.DisplayOrder,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return items, nil
}

func (r *GalleryRepo) GetGalleryItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	const op = "repository.gallery_repository.GetGalleryItem"

	query, args, err := r.sb.
		Select("id", "file_url", "file_name", "file_type", "display_order", "created_at").
		From("gallery_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	var item models.GalleryItem
	err = row.Scan(
		&item.ID,
		&item.FileURL,
		&item.FileName,
		&item.FileType,
		&item.DisplayOrder,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get item: %w", op, err)
	}

	return &item, nil
}

// InsertGalleryItem assigns display_order inside the statement so the
// newest item always sorts last, even under concurrent inserts.
func (r *GalleryRepo) InsertGalleryItem(ctx context.Context, item models.GalleryItem) (*models.GalleryItem, error) {
	const op = "repository.gallery_repository.InsertGalleryItem"

	query, args, err := r.sb.Insert("gallery_items").
		Columns("id", "file_url", "file_name", "file_type", "display_order", "created_at").
		Values(
			item.ID,
			item.FileURL,
			item.FileName,
			item.FileType,
			sq.Expr("(SELECT COALESCE(MAX(display_order), 0) + 1 FROM gallery_items)"),
			item.CreatedAt,
		).
		Suffix("RETURNING id, file_url, file_name, file_type, display_order, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	var created models.GalleryItem
	err = row.Scan(
		&created.ID,
		&created.FileURL,
		&created.FileName,
		&created.FileType,
		&created.DisplayOrder,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to insert item: %w", op, err)
	}

	return &created, nil
}

func (r *GalleryRepo) UpdateGalleryItem(ctx context.Context, id uuid.UUID, upd models.GalleryItemUpdate) (*models.GalleryItem, error) {
	const op = "repository.gallery_repository.UpdateGalleryItem"

	builder := r.sb.Update("gallery_items").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, file_url, file_name, file_type, display_order, created_at")

	if upd.FileName != nil {
		builder = builder.Set("file_name", *upd.FileName)
	}
	if upd.DisplayOrder != nil {
		builder = builder.Set("display_order", *upd.DisplayOrder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	var updated models.GalleryItem
	err = row.Scan(
		&updated.ID,
		&updated.FileURL,
		&updated.FileName,
		&updated.FileType,
		&updated.DisplayOrder,
		&updated.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
		}
		return nil, fmt.Errorf("%s: failed to update item: %w", op, err)
	}

	return &updated, nil
}

func (r *GalleryRepo) DeleteGalleryItem(ctx context.Context, id uuid.UUID) error {
	const op = "repository.gallery_repository.DeleteGalleryItem"

	query, args, err := r.sb.Delete("gallery_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to delete item: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}

	return nil
}
