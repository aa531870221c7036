package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalUploader пишет файлы в каталог на диске. Используется, когда R2 не настроен;
// сервер раздаёт этот каталог по префиксу /uploads.
type LocalUploader struct {
	dir           string
	publicBaseURL string
}

func NewLocalUploader(dir, publicBaseURL string) (*LocalUploader, error) {
	if dir == "" {
		return nil, errors.New("local upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalUploader{dir: dir, publicBaseURL: publicBaseURL}, nil
}

func (u *LocalUploader) Dir() string { return u.dir }

func (u *LocalUploader) Upload(ctx context.Context, obj Object) (*Stored, error) {
	key := obj.Key
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := filepath.Join(u.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create file for %s: %w", key, err)
	}
	n, err := io.Copy(f, obj.Body)
	if err != nil {
		f.Close()
		_ = os.Remove(target)
		return nil, fmt.Errorf("failed to write file for %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file for %s: %w", key, err)
	}

	return &Stored{Key: key, URL: u.PublicURL(key), Size: n}, nil
}

func (u *LocalUploader) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(u.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}
	return nil
}

func (u *LocalUploader) PublicURL(key string) string {
	return joinPublicURL(u.publicBaseURL, key)
}
