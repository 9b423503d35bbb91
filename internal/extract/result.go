// Package extract assembles recognition output into the serialized Result
// record and drives single-image extraction.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/ocr-extract/internal/geometry"
	"github.com/ironsheep/ocr-extract/internal/ocr"
)

// ErrResultParse indicates a serialized Result could not be read back into
// structured form.
var ErrResultParse = errors.New("result parse failed")

// Observation is one recognized text line in canonical coordinates.
// Observations are immutable once assembled and keep the engine's return
// order within their Result.
type Observation struct {
	Text       string                 `json:"text"`
	Confidence float64                `json:"confidence"`
	Quad       geometry.Quadrilateral `json:"quad"`
}

// ImageInfo describes the source image a Result was extracted from.
type ImageInfo struct {
	Filepath string `json:"filepath"`
	Width    int    `json:"width"`
	Filename string `json:"filename"`
	Height   int    `json:"height"`
}

// Result is the complete extraction output for one image: the joined text,
// the per-line observations in engine order, and the source image metadata.
type Result struct {
	Texts        string        `json:"texts"`
	Info         ImageInfo     `json:"info"`
	Observations []Observation `json:"observations"`
}

// Assemble combines raw engine observations and image metadata into a
// Result.
//
// Each observation's top candidate becomes its text; an observation with no
// usable candidate is dropped entirely, appearing neither in Observations
// nor in Texts. Quadrilaterals are normalized into top-left-origin y-down
// coordinates. Texts is the newline join of the surviving observation texts
// in engine order.
func Assemble(raw []ocr.RawObservation, info ImageInfo) *Result {
	observations := make([]Observation, 0, len(raw))
	texts := make([]string, 0, len(raw))

	for _, r := range raw {
		text := bestCandidate(r.Candidates)
		if text == "" {
			continue
		}
		observations = append(observations, Observation{
			Text:       text,
			Confidence: r.Confidence,
			Quad:       geometry.Normalize(r.Quad),
		})
		texts = append(texts, text)
	}

	return &Result{
		Texts:        strings.Join(texts, "\n"),
		Info:         info,
		Observations: observations,
	}
}

func bestCandidate(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

// Encode serializes the Result as indented JSON. Field order is fixed by the
// struct definition and float fields round-trip exactly through Go's
// shortest-representation encoding.
func (r *Result) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return data, nil
}

// Parse reads a serialized Result back into structured form, wrapping
// ErrResultParse on malformed input.
func Parse(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResultParse, err)
	}
	return &r, nil
}
