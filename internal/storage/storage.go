package storage

import "errors"

var (
	ErrSettingsNotFound = errors.New("park settings not found")
	ErrItemNotFound     = errors.New("gallery item not found")
	ErrNoSuchKey        = errors.New("no such key")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)
