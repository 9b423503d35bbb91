package extract

import (
	"fmt"
	"path/filepath"

	"github.com/ironsheep/ocr-extract/internal/imaging"
	"github.com/ironsheep/ocr-extract/internal/ocr"
)

// Fixed recognition settings. These are part of the extraction contract, not
// user-tunable: accurate mode with language correction, and a minimum text
// height of 1% of the image height.
const (
	accurateMode       = true
	languageCorrection = true
	minTextHeight      = 0.01
)

// Extractor runs recognition on single images and assembles the Result.
type Extractor struct {
	engine ocr.Engine
	cache  *imaging.ImageCache
	caps   ocr.Capabilities
}

// NewExtractor creates an Extractor using the given engine, shared decode
// cache, and negotiated capabilities.
func NewExtractor(engine ocr.Engine, cache *imaging.ImageCache, caps ocr.Capabilities) *Extractor {
	return &Extractor{
		engine: engine,
		cache:  cache,
		caps:   caps,
	}
}

// Languages returns the recognition language set requested for every
// extraction.
func (e *Extractor) Languages() []string {
	return e.caps.Languages
}

// Extract decodes the image at path, invokes the engine, and returns the
// assembled Result.
//
// Failures keep their taxonomy: an unreadable or undecodable path wraps
// imaging.ErrImageLoad, a decoded image without an addressable pixel buffer
// wraps imaging.ErrImageDecode, and an absent engine result set wraps
// ocr.ErrNoText. An empty-but-present result set is not an error; it yields
// a Result with zero observations and empty Texts.
func (e *Extractor) Extract(path string) (*Result, error) {
	img, err := e.cache.Load(path)
	if err != nil {
		return nil, err
	}

	buf, err := imaging.ToPixelBuffer(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	raw, err := e.engine.Recognize(buf, ocr.RequestConfig{
		Languages:          e.caps.Languages,
		Accurate:           accurateMode,
		LanguageCorrection: languageCorrection,
		MinTextHeight:      minTextHeight,
		Revision:           e.caps.Revision,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", path, ocr.ErrNoText)
	}

	info, err := describeImage(path, buf.Bounds().Dx(), buf.Bounds().Dy())
	if err != nil {
		return nil, err
	}

	return Assemble(raw, info), nil
}

// describeImage builds the ImageInfo record for path, resolving the absolute
// path against the invocation-time working directory.
func describeImage(path string, width, height int) (ImageInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return ImageInfo{
		Filepath: abs,
		Width:    width,
		Filename: filepath.Base(path),
		Height:   height,
	}, nil
}
