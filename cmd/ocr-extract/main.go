package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ironsheep/ocr-extract/internal/batch"
	"github.com/ironsheep/ocr-extract/internal/config"
	"github.com/ironsheep/ocr-extract/internal/extract"
	"github.com/ironsheep/ocr-extract/internal/imaging"
	"github.com/ironsheep/ocr-extract/internal/ocr"
	"github.com/ironsheep/ocr-extract/internal/render"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Results go to stdout; everything else goes to stderr.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	var (
		img        = flag.String("img", "", "extract text from a single image file")
		output     = flag.String("output", "", "directory for the single-image JSON result (default: stdout)")
		imgDir     = flag.String("img-dir", "", "extract text from every supported image under a directory")
		outputDir  = flag.String("output-dir", "", "directory for per-file JSON results in batch mode")
		merge      = flag.Bool("merge", false, "write all extracted text into one merged_output.txt (batch mode)")
		debug      = flag.Bool("debug", false, "write a bounding-box overlay image beside each source image")
		listLangs  = flag.Bool("lang", false, "print the supported recognition languages and exit")
		keepGoing  = flag.Bool("keep-going", false, "batch mode: record per-file failures and continue instead of aborting")
		configPath = flag.String("config", "", "optional YAML configuration file")
		version    = flag.Bool("version", false, "print version information and exit")
	)
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("ocr-extract %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	if !*listLangs && (*img == "") == (*imgDir == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of --img or --img-dir must be supplied")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	}

	engine := &ocr.Tesseract{}
	caps := ocr.Negotiate(engine)
	if len(cfg.Languages) > 0 {
		caps.Languages = cfg.Languages
	}

	if *listLangs {
		for _, lang := range caps.Languages {
			fmt.Println(lang)
		}
		return
	}

	cache := imaging.NewImageCache()
	extractor := extract.NewExtractor(engine, cache, caps)

	renderer, err := render.NewRenderer(cache, cfg.StrokeColor)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if *img != "" {
		if err := runSingle(extractor, renderer, *img, *output, *debug); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	orchestrator := batch.NewOrchestrator(extractor, renderer, cache)
	summary, err := orchestrator.Run(*imgDir, batch.Options{
		OutputDir:       *outputDir,
		Merge:           *merge,
		Debug:           *debug,
		ContinueOnError: *keepGoing || cfg.ContinueOnError,
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	log.Printf("Processed %d file(s)", len(summary.Processed))
	for _, failure := range summary.Failed {
		log.Printf("Failed: %v", failure)
	}
	if summary.MergedPath != "" {
		log.Printf("Merged text written to %s", summary.MergedPath)
	}
	if len(summary.Failed) > 0 {
		os.Exit(1)
	}
}

// runSingle extracts one image, writing the JSON result into outputDir when
// set and to stdout otherwise.
func runSingle(extractor *extract.Extractor, renderer *render.Renderer, imgPath, outputDir string, debug bool) error {
	result, err := extractor.Extract(imgPath)
	if err != nil {
		return err
	}

	data, err := result.Encode()
	if err != nil {
		return err
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		outPath := filepath.Join(outputDir, filepath.Base(imgPath)+".json")
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		log.Printf("Result written to %s", outPath)
	} else {
		fmt.Println(string(data))
	}

	if debug {
		outPath, err := renderer.Render(imgPath, data)
		if err != nil {
			return err
		}
		log.Printf("Debug overlay written to %s", outPath)
	}

	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "ocr-extract - extract text and line geometry from images")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  ocr-extract --img <path> [--output <dir>] [--debug]")
	fmt.Fprintln(os.Stderr, "  ocr-extract --img-dir <dir> [--output-dir <dir>] [--merge] [--debug] [--keep-going]")
	fmt.Fprintln(os.Stderr, "  ocr-extract --lang")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
}
