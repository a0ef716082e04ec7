package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-blur/images"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestLoadDirectoryImageFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame-10.jpg", []byte("ten"))
	writeFile(t, dir, "frame-2.jpg", []byte("two"))
	writeFile(t, dir, "b.PNG", []byte("b"))
	writeFile(t, dir, "a.webp", []byte("a"))
	writeFile(t, dir, "notes.txt", []byte("skip"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	files, err := LoadDirectoryImageFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 4)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.Path))
	}
	assert.Equal(t, []string{"frame-2.jpg", "frame-10.jpg", "a.webp", "b.PNG"}, names)

	assert.Equal(t, 2, files[0].Frame)
	assert.Equal(t, images.FormatJPEG, files[0].Format)
	assert.Equal(t, []byte("two"), files[0].Data)
	assert.Equal(t, -1, files[2].Frame)
	assert.Equal(t, images.FormatWebP, files[2].Format)
	assert.Equal(t, images.FormatPNG, files[3].Format)
}

func TestLoadDirectoryImageFilesMissing(t *testing.T) {
	_, err := LoadDirectoryImageFiles(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFrameNumber(t *testing.T) {
	assert.Equal(t, 7, frameNumber("frame-7.png"))
	assert.Equal(t, 0, frameNumber("frame-0.jpg"))
	assert.Equal(t, -1, frameNumber("frame-x.jpg"))
	assert.Equal(t, -1, frameNumber("shot-7.jpg"))
	assert.Equal(t, -1, frameNumber("frame--3.jpg"))
}
