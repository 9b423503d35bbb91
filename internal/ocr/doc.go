// Package ocr defines the recognition engine seam and its Tesseract-backed
// implementation.
//
// The extraction pipeline never talks to a concrete OCR library directly; it
// consumes the Engine interface, which returns per-line observations carrying
// ranked text candidates, a confidence score in [0,1], and quadrilateral
// geometry in the engine-native coordinate space (unit square, origin
// bottom-left, y-up). Any recognition backend that can produce those three
// things can sit behind the seam; tests use an in-memory fake.
//
// # Tesseract Backend
//
// The shipped backend wraps the Tesseract OCR engine via gosseract/v2.
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr
//   - macOS: brew install tesseract
//
// Language data files are required for each language the engine is asked to
// recognize (tesseract-ocr-<lang> packages on Debian-family systems).
//
// # Capability Negotiation
//
// Negotiate probes the engine once at startup for its supported languages
// and newest recognition revision, and the result is carried as an immutable
// Capabilities value for the whole run. A failed language query falls back
// to a fixed default set instead of failing the run.
package ocr
