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

func TestLocalUploader_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(dir, "http://localhost:5000/uploads")
	require.NoError(t, err)

	res, err := u.Upload(context.Background(), Object{
		Key:         "proposals/h1/doc.pdf",
		ContentType: "application/pdf",
		Body:        strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "proposals/h1/doc.pdf", res.Key)
	assert.Equal(t, "http://localhost:5000/uploads/proposals/h1/doc.pdf", res.URL)
	assert.EqualValues(t, 8, res.Size)

	data, err := os.ReadFile(filepath.Join(dir, "proposals", "h1", "doc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, u.Delete(context.Background(), "proposals/h1/doc.pdf"))
	_, err = os.Stat(filepath.Join(dir, "proposals", "h1", "doc.pdf"))
	assert.True(t, os.IsNotExist(err))

	// повторное удаление не считается ошибкой
	assert.NoError(t, u.Delete(context.Background(), "proposals/h1/doc.pdf"))
}

func TestLocalUploader_RejectsTraversal(t *testing.T) {
	u, err := NewLocalUploader(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../x.pdf", "a/../../x.pdf", "a//b.pdf"} {
		_, err := u.Upload(context.Background(), Object{Key: key, Body: strings.NewReader("x")})
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestJoinPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.example.com", "a/b.pdf", "https://cdn.example.com/a/b.pdf"},
		{"https://cdn.example.com/", "/a/b.pdf", "https://cdn.example.com/a/b.pdf"},
		{"https://cdn.example.com/files", "a.pdf", "https://cdn.example.com/files/a.pdf"},
		{"", "a.pdf", ""},
		{"https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.base+"|"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, joinPublicURL(tt.base, tt.key))
		})
	}
}
