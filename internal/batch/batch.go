// Package batch orchestrates extraction across a directory tree: it
// enumerates supported images, processes them in deterministic order, and
// handles per-file output, text merging, and debug rendering.
package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ironsheep/ocr-extract/internal/extract"
	"github.com/ironsheep/ocr-extract/internal/imaging"
	"github.com/ironsheep/ocr-extract/internal/render"
)

// MergedOutputName is the file the accumulated merged text is written to
// inside the output directory.
const MergedOutputName = "merged_output.txt"

// Options controls a batch run.
type Options struct {
	// OutputDir receives one <relativeName>.json per processed image.
	// Empty disables per-file output (and merged output).
	OutputDir string

	// Merge accumulates every Result's texts and writes them as one
	// merged file at the end of the run.
	Merge bool

	// Debug renders a bounding-box overlay beside each source image.
	Debug bool

	// ContinueOnError records per-file failures in the Summary and keeps
	// going instead of aborting the batch at the first failure.
	ContinueOnError bool
}

// FileError is one failed file in a continue-on-error run.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Summary reports what a batch run did. The merged text accumulator is
// threaded through the run and surfaces here rather than living in shared
// mutable state.
type Summary struct {
	// Processed lists the relative paths extracted successfully, in
	// processing order.
	Processed []string

	// Failed lists per-file failures; only populated with
	// ContinueOnError, otherwise the first failure aborts the run.
	Failed []FileError

	// MergedPath is the merged text file written, if any.
	MergedPath string
}

// Orchestrator drives the single-image extractor over a directory.
type Orchestrator struct {
	extractor *extract.Extractor
	renderer  *render.Renderer
	cache     *imaging.ImageCache
}

// NewOrchestrator creates an Orchestrator. renderer may be nil when debug
// rendering will not be requested. cache is the decode cache shared with the
// extractor and renderer; each file is evicted from it once processed so a
// long batch does not accumulate every decoded image in memory.
func NewOrchestrator(extractor *extract.Extractor, renderer *render.Renderer, cache *imaging.ImageCache) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		renderer:  renderer,
		cache:     cache,
	}
}

// Run processes every supported image under rootDir.
//
// Files are discovered recursively, filtered to the supported extensions,
// and processed in lexicographic order of their relative paths, so output
// and merged text are deterministic regardless of filesystem enumeration
// order. For each file: extract, then write <OutputDir>/<relativeName>.json
// when OutputDir is set, accumulate texts when Merge is set, and render the
// debug overlay when Debug is set. No partial JSON is written for a failed
// file.
//
// By default the first failing file aborts the remaining batch. With
// ContinueOnError the failure is recorded in the Summary and processing
// continues; Run then returns a nil error even when some files failed.
func (o *Orchestrator) Run(rootDir string, opts Options) (*Summary, error) {
	if opts.Debug && o.renderer == nil {
		return nil, fmt.Errorf("debug rendering requested without a renderer")
	}

	paths, err := collectImages(rootDir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	var merged []string

	for _, rel := range paths {
		texts, err := o.processFile(rootDir, rel, opts)
		if err != nil {
			if opts.ContinueOnError {
				summary.Failed = append(summary.Failed, FileError{Path: rel, Err: err})
				continue
			}
			return nil, fmt.Errorf("batch aborted at %s: %w", rel, err)
		}
		summary.Processed = append(summary.Processed, rel)
		if opts.Merge {
			merged = append(merged, texts)
		}
	}

	if opts.Merge && opts.OutputDir != "" {
		mergedPath, err := writeMerged(opts.OutputDir, merged)
		if err != nil {
			return nil, err
		}
		summary.MergedPath = mergedPath
	}

	return summary, nil
}

// processFile extracts one image and performs its per-file outputs,
// returning the extracted texts for merging.
func (o *Orchestrator) processFile(rootDir, rel string, opts Options) (string, error) {
	full := filepath.Join(rootDir, rel)
	defer o.cache.Evict(full)

	result, err := o.extractor.Extract(full)
	if err != nil {
		return "", err
	}

	data, err := result.Encode()
	if err != nil {
		return "", err
	}

	if opts.OutputDir != "" {
		outPath := filepath.Join(opts.OutputDir, rel+".json")
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", outPath, err)
		}
	}

	if opts.Debug {
		if _, err := o.renderer.Render(full, data); err != nil {
			return "", err
		}
	}

	return result.Texts, nil
}

// collectImages walks rootDir recursively and returns the relative paths of
// all supported image files, sorted lexicographically. Unsupported files are
// excluded silently.
func collectImages(rootDir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imaging.IsSupported(path) {
			return nil
		}
		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", rootDir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// writeMerged writes the accumulated text blocks, each followed by a
// blank-line separator, overwriting any existing merged file.
func writeMerged(outputDir string, blocks []string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var sb strings.Builder
	for _, block := range blocks {
		sb.WriteString(block)
		sb.WriteString("\n\n")
	}

	path := filepath.Join(outputDir, MergedOutputName)
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write merged output: %w", err)
	}
	return path, nil
}
