// Package geometry defines the normalized coordinate types shared by the
// extraction pipeline and the debug renderer.
//
// All normalized coordinates live in the unit square: (0,0) is the top-left
// corner of the image, (1,1) the bottom-right, with y increasing downward.
// The OCR engine reports geometry in the opposite vertical convention
// (origin bottom-left, y-up); Normalize converts between the two.
package geometry

// Point is a position in normalized image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quadrilateral is a four-cornered text bounding region. Corner identity is
// preserved through every transform so rotated or skewed text keeps its
// orientation; corners are never recomputed from the geometry.
type Quadrilateral struct {
	TopLeft     Point `json:"topLeft"`
	TopRight    Point `json:"topRight"`
	BottomRight Point `json:"bottomRight"`
	BottomLeft  Point `json:"bottomLeft"`
}

// Clamp limits v to the [0,1] range. Engine geometry can overshoot the unit
// square slightly; out-of-range values are clamped, never rejected.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Normalize converts a quadrilateral from the engine-native space (unit
// square, origin bottom-left, y-up) into canonical top-left-origin y-down
// coordinates, clamping every component into [0,1]. It always succeeds.
func Normalize(q Quadrilateral) Quadrilateral {
	return Quadrilateral{
		TopLeft:     normalizePoint(q.TopLeft),
		TopRight:    normalizePoint(q.TopRight),
		BottomRight: normalizePoint(q.BottomRight),
		BottomLeft:  normalizePoint(q.BottomLeft),
	}
}

func normalizePoint(p Point) Point {
	return Point{
		X: Clamp(p.X),
		Y: Clamp(1 - p.Y),
	}
}

// Denormalize maps a canonical normalized point back onto pixel coordinates
// for an image of the given dimensions, applying the inverse of Normalize's
// vertical transform.
func Denormalize(p Point, width, height int) (px, py float64) {
	return p.X * float64(width), (1 - p.Y) * float64(height)
}
