package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "sunami_park/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMaxImage = 10 << 20
	testMaxVideo = 50 << 20
)

func newTestStorage(t *testing.T) *LocalFileStorage {
	t.Helper()

	fs, err := NewLocalFileStorage(t.TempDir(), "http://localhost:8080/uploads", testMaxImage, testMaxVideo)
	require.NoError(t, err)

	return fs
}

// makeFileHeader собирает настоящий multipart.FileHeader через httptest.
func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(64<<20))

	return req.MultipartForm.File["file"][0]
}

func TestValidateUpload(t *testing.T) {
	fs := newTestStorage(t)

	sized := func(filename, contentType string, size int64) *multipart.FileHeader {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", contentType)
		return &multipart.FileHeader{Filename: filename, Header: header, Size: size}
	}

	tests := []struct {
		name    string
		file    *multipart.FileHeader
		wantErr error
	}{
		{
			name: "small image passes",
			file: sized("photo.jpg", "image/jpeg", 5<<20),
		},
		{
			name: "image at the limit passes",
			file: sized("photo.jpg", "image/png", testMaxImage),
		},
		{
			name:    "image over the limit fails",
			file:    sized("photo.jpg", "image/jpeg", testMaxImage+1),
			wantErr: apperrors.ErrFileTooLarge,
		},
		{
			name: "video under its own limit passes",
			file: sized("clip.mp4", "video/mp4", 30<<20),
		},
		{
			name:    "video over the limit fails",
			file:    sized("clip.mp4", "video/mp4", 60<<20),
			wantErr: apperrors.ErrFileTooLarge,
		},
		{
			name:    "video-sized image fails the image limit",
			file:    sized("photo.jpg", "image/jpeg", 30<<20),
			wantErr: apperrors.ErrFileTooLarge,
		},
		{
			name:    "unsupported type fails",
			file:    sized("report.pdf", "application/pdf", 100),
			wantErr: apperrors.ErrInvalidFileType,
		},
		{
			name:    "missing content type fails",
			file:    sized("mystery.bin", "", 100),
			wantErr: apperrors.ErrInvalidFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateUpload(tt.file)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSaveAndDelete(t *testing.T) {
	ctx := context.Background()
	fs := newTestStorage(t)

	content := []byte("fake jpeg bytes")
	file := makeFileHeader(t, "splash.jpg", "image/jpeg", content)

	publicURL, size, err := fs.Save(ctx, file, "gallery")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	// Хранится под сгенерированным именем, расширение сохраняется.
	assert.True(t, strings.HasPrefix(publicURL, "http://localhost:8080/uploads/gallery/"))
	assert.True(t, strings.HasSuffix(publicURL, ".jpg"))
	assert.NotContains(t, publicURL, "splash")

	rel := strings.TrimPrefix(publicURL, "http://localhost:8080/uploads/")
	onDisk := filepath.Join(fs.GetBaseDir(), filepath.FromSlash(rel))
	saved, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, content, saved)

	t.Run("owns recognizes its own urls", func(t *testing.T) {
		assert.True(t, fs.Owns(publicURL))
		assert.False(t, fs.Owns("https://cdn.example.com/wave.jpg"))
		assert.False(t, fs.Owns("/1.jpeg"))
	})

	t.Run("delete removes the file", func(t *testing.T) {
		require.NoError(t, fs.Delete(ctx, publicURL))
		_, err := os.Stat(onDisk)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete of a foreign url is rejected", func(t *testing.T) {
		err := fs.Delete(ctx, "https://cdn.example.com/wave.jpg")
		require.ErrorIs(t, err, apperrors.ErrFileNotFound)
	})
}

func TestSaveSameFilenameTwice(t *testing.T) {
	ctx := context.Background()
	fs := newTestStorage(t)

	first := makeFileHeader(t, "a.jpg", "image/jpeg", []byte("first bytes"))
	second := makeFileHeader(t, "a.jpg", "image/jpeg", []byte("second bytes"))

	firstURL, _, err := fs.Save(ctx, first, "gallery")
	require.NoError(t, err)
	secondURL, _, err := fs.Save(ctx, second, "gallery")
	require.NoError(t, err)

	require.NotEqual(t, firstURL, secondURL)

	readBack := func(publicURL string) []byte {
		rel := strings.TrimPrefix(publicURL, "http://localhost:8080/uploads/")
		data, err := os.ReadFile(filepath.Join(fs.GetBaseDir(), filepath.FromSlash(rel)))
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, []byte("first bytes"), readBack(firstURL))
	assert.Equal(t, []byte("second bytes"), readBack(secondURL))

	// Удаление одного элемента не трогает файл другого.
	require.NoError(t, fs.Delete(ctx, secondURL))
	assert.Equal(t, []byte("first bytes"), readBack(firstURL))
}

func TestSaveRejectsBeforeIO(t *testing.T) {
	ctx := context.Background()
	fs := newTestStorage(t)

	file := makeFileHeader(t, "report.pdf", "application/pdf", []byte("%PDF-1.4"))

	_, _, err := fs.Save(ctx, file, "gallery")
	require.ErrorIs(t, err, apperrors.ErrInvalidFileType)

	// Ничего не должно быть записано
	entries, err := os.ReadDir(fs.GetBaseDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveHonorsContextCancel(t *testing.T) {
	fs := newTestStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	file := makeFileHeader(t, "splash.jpg", "image/jpeg", []byte("data"))

	_, _, err := fs.Save(ctx, file, "gallery")
	require.ErrorIs(t, err, context.Canceled)
}
