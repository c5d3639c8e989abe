package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeVideo FileType = "video"
)

// GalleryItem is one media entry of the public gallery.
type GalleryItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FileURL      string    `json:"file_url" db:"file_url"`
	FileName     string    `json:"file_name" db:"file_name"`
	FileType     FileType  `json:"file_type" db:"file_type"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// NewGalleryItem создает новый экземпляр GalleryItem. The display order is
// assigned by the repository on insert.
func NewGalleryItem(fileURL, fileName string, fileType FileType) GalleryItem {
	return GalleryItem{
		ID:        uuid.New(),
		FileURL:   fileURL,
		FileName:  fileName,
		FileType:  fileType,
		CreatedAt: time.Now().UTC(),
	}
}

// DefaultGalleryItems returns the seed gallery shown before an admin
// uploads anything.
func DefaultGalleryItems() []GalleryItem {
	now := time.Now().UTC()
	items := make([]GalleryItem, 0, 3)

	for i, name := range []string{
		"Water Park Experience 1",
		"Water Park Experience 2",
		"Water Park Experience 3",
	} {
		items = append(items, GalleryItem{
			ID:           uuid.New(),
			FileURL:      fmt.Sprintf("/%d.jpeg", i+1),
			FileName:     name,
			FileType:     FileTypeImage,
			DisplayOrder: i + 1,
			CreatedAt:    now,
		})
	}

	return items
}

// Validate проверяет корректность данных медиафайла
func (i *GalleryItem) Validate() error {
	var validationErrors []string

	if i.FileURL == "" {
		validationErrors = append(validationErrors, "file URL is required")
	} else if !IsValidFileURL(i.FileURL) {
		validationErrors = append(validationErrors, fmt.Sprintf("malformed file URL %q", i.FileURL))
	}
	if i.FileName == "" {
		validationErrors = append(validationErrors, "file name is required")
	}
	if len(i.FileName) > 255 {
		validationErrors = append(validationErrors, "file name must be 255 characters or less")
	}
	if i.DisplayOrder < 0 {
		validationErrors = append(validationErrors, "display order must not be negative")
	}

	switch i.FileType {
	case FileTypeImage, FileTypeVideo:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid file type %q, must be one of: [%s %s]",
				i.FileType, FileTypeImage, FileTypeVideo))
	}

	if len(validationErrors) > 0 {
		return &GalleryValidationError{Errors: validationErrors}
	}

	return nil
}

// IsValidFileURL accepts absolute http(s) URLs, data URIs and site-rooted
// paths like "/1.jpeg". Anything else is rejected before any I/O.
func IsValidFileURL(raw string) bool {
	if strings.HasPrefix(raw, "data:") {
		return true
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return true
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// GalleryItemUpdate is a partial update of a gallery item: rename and
// reorder only, the file itself never changes.
type GalleryItemUpdate struct {
	FileName     *string `json:"file_name,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

func (u GalleryItemUpdate) IsZero() bool {
	return u.FileName == nil && u.DisplayOrder == nil
}

// Validate checks the update before any I/O happens.
func (u GalleryItemUpdate) Validate() error {
	var validationErrors []string

	if u.IsZero() {
		validationErrors = append(validationErrors, "update carries no fields")
	}
	if u.FileName != nil {
		if *u.FileName == "" {
			validationErrors = append(validationErrors, "file name is required")
		}
		if len(*u.FileName) > 255 {
			validationErrors = append(validationErrors, "file name must be 255 characters or less")
		}
	}
	if u.DisplayOrder != nil && *u.DisplayOrder < 0 {
		validationErrors = append(validationErrors, "display order must not be negative")
	}

	if len(validationErrors) > 0 {
		return &GalleryValidationError{Errors: validationErrors}
	}

	return nil
}

// GalleryValidationError кастомный тип ошибки для валидации
type GalleryValidationError struct {
	Errors []string
}

func (e *GalleryValidationError) Error() string {
	return fmt.Sprintf("gallery item validation failed: %s", strings.Join(e.Errors, "; "))
}

// IsGalleryValidationError проверяет, является ли ошибка ошибкой валидации
func IsGalleryValidationError(err error) bool {
	_, ok := err.(*GalleryValidationError)
	return ok
}
