package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestImage writes a solid-color PNG into dir and returns its path.
func createTestImage(t *testing.T, dir, name string, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(name) {
	case ".jpg", ".jpeg":
		require.NoError(t, jpeg.Encode(f, img, nil))
	default:
		require.NoError(t, png.Encode(f, img))
	}

	return path
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"JPEG", "photo.jpg", true},
		{"JPEG long extension", "photo.jpeg", true},
		{"PNG", "scan.png", true},
		{"WebP", "page.webp", true},
		{"Uppercase extension", "PHOTO.JPG", true},
		{"Mixed case", "scan.PnG", true},
		{"GIF excluded", "anim.gif", false},
		{"Text file", "notes.txt", false},
		{"No extension", "README", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSupported(tt.path))
		})
	}
}

func TestCacheLoad(t *testing.T) {
	dir := t.TempDir()
	path := createTestImage(t, dir, "white.png", 10, 8, color.White)

	cache := NewImageCache()
	img, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	// Second load comes from the cache and returns the same decoded image.
	again, err := cache.Load(path)
	require.NoError(t, err)
	assert.Same(t, img, again)
}

func TestCacheLoadJPEG(t *testing.T) {
	dir := t.TempDir()
	path := createTestImage(t, dir, "photo.jpg", 12, 6, color.White)

	cache := NewImageCache()
	img, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
}

func TestCacheLoadMissingFile(t *testing.T) {
	cache := NewImageCache()
	_, err := cache.Load(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImageLoad)
}

func TestCacheLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	cache := NewImageCache()
	_, err := cache.Load(path)
	assert.ErrorIs(t, err, ErrImageLoad)
}

func TestCacheEvictAndClear(t *testing.T) {
	dir := t.TempDir()
	path := createTestImage(t, dir, "white.png", 4, 4, color.White)

	cache := NewImageCache()
	_, err := cache.Load(path)
	require.NoError(t, err)

	cache.Evict(path)
	assert.Empty(t, cache.images)

	_, err = cache.Load(path)
	require.NoError(t, err)
	cache.Clear()
	assert.Empty(t, cache.images)
}

func TestToPixelBuffer(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 5, 5))
	src.Set(2, 3, color.RGBA{R: 255, A: 255})

	buf, err := ToPixelBuffer(src)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), buf.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, buf.NRGBAAt(2, 3))

	// Drawing on the buffer must not touch the source.
	buf.Set(0, 0, color.White)
	_, _, _, a := src.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
}

func TestToPixelBufferErrors(t *testing.T) {
	_, err := ToPixelBuffer(nil)
	assert.ErrorIs(t, err, ErrImageDecode)

	_, err = ToPixelBuffer(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrImageDecode)
}
