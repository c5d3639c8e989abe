package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGalleryItems(t *testing.T) {
	items := DefaultGalleryItems()

	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, i+1, item.DisplayOrder)
		assert.Equal(t, FileTypeImage, item.FileType)
		assert.NoError(t, item.Validate())
	}
	assert.Equal(t, "/1.jpeg", items[0].FileURL)
	assert.Equal(t, "Water Park Experience 3", items[2].FileName)
}

func TestGalleryItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GalleryItem)
		wantErr bool
	}{
		{
			name:   "valid item",
			mutate: func(*GalleryItem) {},
		},
		{
			name:    "empty file url",
			mutate:  func(i *GalleryItem) { i.FileURL = "" },
			wantErr: true,
		},
		{
			name:    "malformed file url",
			mutate:  func(i *GalleryItem) { i.FileURL = "not a url" },
			wantErr: true,
		},
		{
			name:    "empty file name",
			mutate:  func(i *GalleryItem) { i.FileName = "" },
			wantErr: true,
		},
		{
			name:    "file name too long",
			mutate:  func(i *GalleryItem) { i.FileName = strings.Repeat("x", 256) },
			wantErr: true,
		},
		{
			name:    "unknown file type",
			mutate:  func(i *GalleryItem) { i.FileType = "audio" },
			wantErr: true,
		},
		{
			name:    "negative display order",
			mutate:  func(i *GalleryItem) { i.DisplayOrder = -1 },
			wantErr: true,
		},
		{
			name:   "data uri is accepted",
			mutate: func(i *GalleryItem) { i.FileURL = "data:image/png;base64,iVBORw0KGgo=" },
		},
		{
			name:   "rooted path is accepted",
			mutate: func(i *GalleryItem) { i.FileURL = "/3.jpeg" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewGalleryItem("https://cdn.example.com/wave.jpg", "wave", FileTypeImage)
			tt.mutate(&item)

			err := item.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsGalleryValidationError(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestIsValidFileURL(t *testing.T) {
	assert.True(t, IsValidFileURL("https://cdn.example.com/a.jpg"))
	assert.True(t, IsValidFileURL("http://localhost:8080/uploads/a.jpg"))
	assert.True(t, IsValidFileURL("/1.jpeg"))
	assert.True(t, IsValidFileURL("data:image/png;base64,AAAA"))

	assert.False(t, IsValidFileURL("//protocol-relative.example.com/a.jpg"))
	assert.False(t, IsValidFileURL("ftp://example.com/a.jpg"))
	assert.False(t, IsValidFileURL("relative/path.jpg"))
	assert.False(t, IsValidFileURL("https://"))
}

func TestGalleryItemUpdate_Validate(t *testing.T) {
	name := "renamed"
	longName := strings.Repeat("x", 256)
	negative := -1
	order := 3

	assert.Error(t, GalleryItemUpdate{}.Validate())
	assert.NoError(t, GalleryItemUpdate{FileName: &name}.Validate())
	assert.NoError(t, GalleryItemUpdate{DisplayOrder: &order}.Validate())
	assert.Error(t, GalleryItemUpdate{FileName: &longName}.Validate())
	assert.Error(t, GalleryItemUpdate{DisplayOrder: &negative}.Validate())
}
