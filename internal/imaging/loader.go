package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var (
	// ErrImageLoad indicates the file could not be read or decoded into an
	// image at all.
	ErrImageLoad = errors.New("image load failed")

	// ErrImageDecode indicates the file decoded but no addressable pixel
	// representation could be produced from it.
	ErrImageDecode = errors.New("image decode failed")
)

// supportedExts is the fixed set of input image extensions, lowercase with
// leading dot.
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// IsSupported reports whether path has a supported image extension.
// The comparison is case-insensitive.
func IsSupported(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// ImageCache provides caching of decoded images to avoid redundant disk
// reads when the same file is consumed by both extraction and debug
// rendering.
//
// The cache stores decoded image.Image values keyed by the exact path string
// used to load them. It is safe for concurrent use.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats
//     are JPEG, PNG, and WebP.
//
// Returns:
//   - image.Image: The decoded image. The concrete type depends on the image
//     format and color model (e.g., *image.NRGBA, *image.YCbCr).
//   - error: Wraps ErrImageLoad if the file cannot be opened or decoded.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrImageLoad, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrImageLoad, path, err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache, freeing the associated memory.
// Long batch runs over large images can use this to keep memory bounded.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. If the path is
// not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ToPixelBuffer converts a decoded image into a freshly allocated,
// addressable NRGBA pixel buffer.
//
// The returned buffer is a copy: callers may draw on it without affecting
// the cached original. ToPixelBuffer wraps ErrImageDecode when the source
// has no pixels to convert.
func ToPixelBuffer(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrImageDecode)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrImageDecode, bounds)
	}
	return imaging.Clone(img), nil
}
