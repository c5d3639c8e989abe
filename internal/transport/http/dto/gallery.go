package dto

import "sunami_park/internal/domain/models"

// AddGalleryURLRequest adds an externally hosted media file to the gallery.
// Uploads go through the multipart form instead.
type AddGalleryURLRequest struct {
	FileURL  string `json:"file_url" validate:"required"`
	FileName string `json:"file_name" validate:"required,max=255"`
	FileType string `json:"file_type" validate:"required,oneof=image video"`
}

// UpdateGalleryItemRequest renames or reorders an existing item.
type UpdateGalleryItemRequest struct {
	FileName     *string `json:"file_name,omitempty" validate:"omitempty,min=1,max=255"`
	DisplayOrder *int    `json:"display_order,omitempty" validate:"omitempty,gte=0"`
}

func (r UpdateGalleryItemRequest) ToModel() models.GalleryItemUpdate {
	return models.GalleryItemUpdate{
		FileName:     r.FileName,
		DisplayOrder: r.DisplayOrder,
	}
}
