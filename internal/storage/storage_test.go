package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateImage(t *testing.T) {
	validator := NewValidator(5 * 1024 * 1024)

	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     error
	}{
		{name: "JPEG allowed", contentType: "image/jpeg", size: 1024, wantErr: nil},
		{name: "PNG allowed", contentType: "image/png", size: 1024, wantErr: nil},
		{name: "WebP allowed", contentType: "image/webp", size: 1024, wantErr: nil},
		{name: "GIF rejected", contentType: "image/gif", size: 1024, wantErr: ErrInvalidFileType},
		{name: "PDF rejected", contentType: "application/pdf", size: 1024, wantErr: ErrInvalidFileType},
		{name: "Exactly at limit", contentType: "image/jpeg", size: 5 * 1024 * 1024, wantErr: nil},
		{name: "Over limit", contentType: "image/jpeg", size: 5*1024*1024 + 1, wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateImage(tt.contentType, tt.size)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocalStorage_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "photo.jpg", "image/jpeg", []byte("fake image data"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	// 파일이 실제로 기록되어야 함
	name := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image data"), data)
}

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
