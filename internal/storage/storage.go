package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidFileType = errors.New("file type is not allowed")
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed size")
)

// 허용되는 이미지 MIME 타입
var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
}

// Storage persists uploaded files and returns their public URL
type Storage interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Validator enforces the upload policy. All upload paths go through
// the same validator regardless of the storage driver.
type Validator struct {
	maxFileSize int64
}

func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateImage checks content type and size against the upload policy
func (v *Validator) ValidateImage(contentType string, size int64) error {
	allowed := false
	for _, t := range allowedImageTypes {
		if contentType == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, contentType)
	}

	if size > v.maxFileSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, size, v.maxFileSize)
	}
	return nil
}

// MaxFileSize returns the configured size limit in bytes
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}
