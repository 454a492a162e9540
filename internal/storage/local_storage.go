package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ikkim/reviewhub-backend/pkg/logger"
)

// LocalStorage writes uploads to a directory served as static files
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{
		dir:     dir,
		baseURL: baseURL,
	}, nil
}

// Save stores the file under a timestamp-based name and returns its URL
func (s *LocalStorage) Save(_ context.Context, filename, _ string, data []byte) (string, error) {
	ext := filepath.Ext(filename)
	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("Failed to write uploaded file", err, map[string]interface{}{
			"path": path,
		})
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.baseURL + "/" + name, nil
}
