// Package storage keeps proposal documents: Cloudflare R2 in production, a
// local directory served under /uploads otherwise.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Object is one file to store. Key is slash separated, e.g.
// proposals/<hackathonId>/<uuid>.pdf; Filename is what the user uploaded.
type Object struct {
	Key         string
	ContentType string
	Filename    string
	Size        int64
	Body        io.Reader
}

// Stored describes an object after upload.
type Stored struct {
	Key  string
	URL  string
	Size int64
	ETag string
}

type FileUploader interface {
	Upload(ctx context.Context, obj Object) (*Stored, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean != key || clean == ".." || strings.HasPrefix(clean, "../") {
		return ErrInvalidKey
	}
	return nil
}
