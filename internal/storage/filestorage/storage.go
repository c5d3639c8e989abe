package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	apperrors "sunami_park/internal/storage"

	"github.com/google/uuid"
)

// FileStorage интерфейс для работы с файловым хранилищем
type FileStorage interface {
	Save(ctx context.Context, file *multipart.FileHeader, subPath string) (publicURL string, fileSize int64, err error)
	Delete(ctx context.Context, publicURL string) error
	Owns(publicURL string) bool
	BaseURL() string
	GetBaseDir() string
	GetFullPath(relativePath string) string
}

// LocalFileStorage реализация для локальной файловой системы. Uploads are
// validated before any disk I/O: only image/* and video/* content types are
// accepted, with separate size ceilings per kind.
type LocalFileStorage struct {
	baseDir      string // Базовый каталог для хранения (например: "./uploads")
	baseURL      string // Базовый URL для доступа к файлам (например: "http://localhost:8080/uploads")
	maxImageSize int64
	maxVideoSize int64
}

func NewLocalFileStorage(baseDir, baseURL string, maxImageSize, maxVideoSize int64) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir:      baseDir,
		baseURL:      strings.TrimRight(baseURL, "/"),
		maxImageSize: maxImageSize,
		maxVideoSize: maxVideoSize,
	}, nil
}

// ValidateUpload rejects the file before any I/O when its content type or
// size is outside the configured limits.
func (s *LocalFileStorage) ValidateUpload(file *multipart.FileHeader) error {
	contentType := file.Header.Get("Content-Type")

	var limit int64
	switch {
	case strings.HasPrefix(contentType, "image/"):
		limit = s.maxImageSize
	case strings.HasPrefix(contentType, "video/"):
		limit = s.maxVideoSize
	default:
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidFileType, contentType)
	}

	if file.Size > limit {
		return fmt.Errorf("%w: %d bytes, limit %d", apperrors.ErrFileTooLarge, file.Size, limit)
	}

	return nil
}

func (s *LocalFileStorage) Save(ctx context.Context, file *multipart.FileHeader, subPath string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	if err := s.ValidateUpload(file); err != nil {
		return "", 0, err
	}

	// Файл хранится под собственным именем: загрузки с одинаковыми именами
	// не должны затирать друг друга. Имя из запроса остаётся подписью.
	storedName := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
	relativePath := filepath.Join(subPath, storedName)
	filePath := filepath.Join(s.baseDir, relativePath)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directories: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	// Создаем целевой файл
	dst, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return "", 0, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(filePath)
		return "", 0, ctx.Err()
	}

	return s.publicURL(relativePath), size, nil
}

// Delete удаляет файл из хранилища by its public URL.
func (s *LocalFileStorage) Delete(ctx context.Context, publicURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relativePath, ok := s.relativePath(publicURL)
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrFileNotFound, publicURL)
	}

	return os.Remove(filepath.Join(s.baseDir, relativePath))
}

// Owns reports whether the URL points into this storage, i.e. whether the
// file behind a gallery item was produced by an upload.
func (s *LocalFileStorage) Owns(publicURL string) bool {
	_, ok := s.relativePath(publicURL)
	return ok
}

// BaseURL возвращает базовый URL для доступа к файлам
func (s *LocalFileStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalFileStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.baseDir, relativePath)
}

func (s *LocalFileStorage) publicURL(relativePath string) string {
	return s.baseURL + "/" + filepath.ToSlash(relativePath)
}

func (s *LocalFileStorage) relativePath(publicURL string) (string, bool) {
	if !strings.HasPrefix(publicURL, s.baseURL+"/") {
		return "", false
	}

	rel := strings.TrimPrefix(publicURL, s.baseURL+"/")
	rel = filepath.FromSlash(rel)
	if rel == "" || strings.Contains(rel, "..") {
		return "", false
	}

	return rel, true
}
