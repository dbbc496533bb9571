package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("store: not found")
	ErrInvalidKey = errors.New("store: invalid key")
)

// Store keeps rendered diagrams and uploads under slash-separated keys.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// DiagramKey names a diagram rendered for a session at t.
func DiagramKey(sessionID string, t time.Time, ext string) string {
	return fmt.Sprintf("%s/pfd_%d.%s", sessionID, t.Unix(), ext)
}

func UploadKey(sessionID, id, name string) string {
	return fmt.Sprintf("%s/uploads/%s_%s", sessionID, id, path.Base(name))
}

func cleanKey(key string) (string, error) {
	k := path.Clean("/" + key)[1:]
	if k == "" || k != strings.TrimPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, nil
}
