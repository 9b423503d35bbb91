package ocr

import (
	"errors"
	"image"

	"github.com/ironsheep/ocr-extract/internal/geometry"
)

// ErrNoText indicates the engine produced no result set at all for an image.
// This is distinct from a present-but-empty result set, which Recognize
// reports as a nil error with zero observations.
var ErrNoText = errors.New("no text found")

// RawObservation is one recognized text line as reported by the engine,
// before coordinate normalization.
type RawObservation struct {
	// Candidates holds the ranked recognition candidates, best first.
	// Only the top candidate is consumed downstream.
	Candidates []string

	// Confidence is the engine's recognition confidence in [0,1],
	// passed through unmodified.
	Confidence float64

	// Quad is the text region in engine-native coordinates: unit square,
	// origin bottom-left, y increasing upward.
	Quad geometry.Quadrilateral
}

// RequestConfig carries the per-request recognition settings.
type RequestConfig struct {
	// Languages is the requested recognition language set. The engine
	// auto-detects among them.
	Languages []string

	// Accurate selects the engine's accurate recognition path over its
	// fast one.
	Accurate bool

	// LanguageCorrection enables language-model-aware correction of the
	// recognized text.
	LanguageCorrection bool

	// MinTextHeight is the minimum recognizable text height as a fraction
	// of the image height. Smaller text is silently not detected.
	MinTextHeight float64

	// Revision is the recognition protocol revision to request, as
	// negotiated at startup.
	Revision int
}

// Engine is the recognition capability consumed by the extractor. Any
// backend that can return per-line text with confidence and quadrilateral
// geometry can satisfy it.
type Engine interface {
	// Recognize runs text recognition over img. It returns the engine's
	// observations in engine order, ErrNoText when the engine yields no
	// result set, or another error on recognition failure. A present but
	// empty result set is ([]RawObservation{}, nil).
	Recognize(img image.Image, cfg RequestConfig) ([]RawObservation, error)

	// SupportedLanguages returns the engine's full supported recognition
	// language list.
	SupportedLanguages() ([]string, error)
}
