package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSPutGet(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	s, err := New(root)
	require.NoError(t, err)
	ctx := context.Background()

	key := DiagramKey("sess-1", time.Unix(1700000000, 0), "png")
	assert.Equal(t, "sess-1/pfd_1700000000.png", key)

	require.NoError(t, s.Put(ctx, key, []byte("png-bytes"), "image/png"))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), got)
	assert.FileExists(t, filepath.Join(root, "sess-1", "pfd_1700000000.png"))

	_, err = s.Get(ctx, "sess-1/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSRejectsEscapingKeys(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../etc/passwd", "a/../../b", `a\b`, "a//b"} {
		assert.ErrorIs(t, s.Put(ctx, key, []byte("x"), ""), ErrInvalidKey, key)
		_, err := s.Get(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestFSHonoursContext(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Put(ctx, "a.png", nil, ""), context.Canceled)
}

func TestUploadKey(t *testing.T) {
	assert.Equal(t, "s/uploads/abc_scan.png", UploadKey("s", "abc", "../../scan.png"))
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Params{})
	assert.Error(t, err)
}
