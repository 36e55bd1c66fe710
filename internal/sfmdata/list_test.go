package sfmdata

import (
	"context"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestListImages(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "img_0001.jpg"))
	touch(t, filepath.Join(root, "img_0002.JPEG"))
	touch(t, filepath.Join(root, "scan.tiff"))
	touch(t, filepath.Join(root, "render.exr"))
	touch(t, filepath.Join(root, "nested", "deep", "img_0003.tif"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "raw.cr2"))

	t.Run("recursive, extension filtered, case insensitive", func(t *testing.T) {
		paths, err := ListImages(root, DefaultExtensions)
		require.NoError(t, err)
		assert.Len(t, paths, 5)
		for _, p := range paths {
			assert.NotContains(t, p, "notes.txt")
			assert.NotContains(t, p, "raw.cr2")
		}
	})

	t.Run("single file input", func(t *testing.T) {
		paths, err := ListImages(filepath.Join(root, "img_0001.jpg"), DefaultExtensions)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "img_0001.jpg")}, paths)
	})

	t.Run("single file with rejected extension", func(t *testing.T) {
		_, err := ListImages(filepath.Join(root, "notes.txt"), DefaultExtensions)
		assert.Error(t, err)
	})

	t.Run("folder without images", func(t *testing.T) {
		empty := t.TempDir()
		touch(t, filepath.Join(empty, "readme.md"))
		_, err := ListImages(empty, DefaultExtensions)
		assert.Error(t, err)
	})

	t.Run("nonexistent path", func(t *testing.T) {
		_, err := ListImages(filepath.Join(root, "missing"), DefaultExtensions)
		assert.Error(t, err)
	})
}

// writeJPEG encodes a real JPEG so dimension probing has something to parse.
func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, jpeg.Encode(f, image.NewGray(image.Rect(0, 0, w, h)), nil))
}

func TestNewViewFromImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.jpg")
	writeJPEG(t, path, 64, 48)

	v, err := NewViewFromImage(path)
	require.NoError(t, err)

	assert.Equal(t, path, v.Path)
	assert.Equal(t, 64, v.Width)
	assert.Equal(t, 48, v.Height)
	assert.False(t, v.HasCameraMetadata())
	assert.False(t, v.Assigned())

	// ingestion is re-runnable: the id depends on the path only
	again, err := NewViewFromImage(path)
	require.NoError(t, err)
	assert.Equal(t, v.ID, again.ID)
}

func TestIngestFolder(t *testing.T) {
	root := t.TempDir()
	writeJPEG(t, filepath.Join(root, "a.jpg"), 32, 32)
	writeJPEG(t, filepath.Join(root, "sub", "b.jpg"), 16, 16)

	ds, err := IngestFolder(context.Background(), root, 2)
	require.NoError(t, err)
	require.Len(t, ds.Views, 2)
	for _, v := range ds.Views {
		assert.NotZero(t, v.Width)
		assert.NotZero(t, v.Height)
	}

	t.Run("empty folder fails", func(t *testing.T) {
		_, err := IngestFolder(context.Background(), t.TempDir(), 2)
		assert.Error(t, err)
	})
}
