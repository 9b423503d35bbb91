// Package imaging provides image loading and pixel-buffer conversion for the
// extraction pipeline.
//
// Supported input formats are JPEG, PNG, and WebP; debug overlays are always
// written as PNG. All pixel coordinates use a top-left origin with X
// increasing rightward and Y increasing downward.
//
// # Caching
//
// ImageCache stores decoded images keyed by file path so that a file read by
// the extractor does not have to be decoded a second time by the debug
// renderer. The cache is safe for concurrent use, though the pipeline itself
// processes files strictly sequentially.
//
// # Error Handling
//
// Load failures (unreadable path, undecodable bytes) wrap ErrImageLoad.
// A decoded image that cannot be converted into an addressable pixel buffer
// wraps ErrImageDecode. Callers distinguish the two with errors.Is.
package imaging
