package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ivlev/svgmotion/internal/anim"
	"github.com/ivlev/svgmotion/internal/chain"
	"github.com/ivlev/svgmotion/internal/config"
	"github.com/ivlev/svgmotion/internal/diag"
	"github.com/ivlev/svgmotion/internal/markup"
	"github.com/ivlev/svgmotion/internal/snapshot"
	"github.com/ivlev/svgmotion/internal/system"
)

func main() {
	system.InitResourceLimits()

	dirs := []string{"input/svg", "input/anim", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("input", "", "Path to the SVG (default: most recent file in input/svg/)")
	docPtr := flag.String("doc", "", "Path to the animation document (default: most recent file in input/anim/)")
	outputPtr := flag.String("output", "", "Output path (default: generated under output/)")
	modePtr := flag.String("mode", "png", "Mode: delays, freeze, bounds, png, frames")
	timePtr := flag.Float64("time", 0, "Timeline position in seconds for freeze/png")
	durationPtr := flag.Float64("duration", 0, "Export duration in seconds for frames (0 = derive from the timeline)")
	widthPtr := flag.Int("width", 0, "Output width (0 = keep rendered size)")
	heightPtr := flag.Int("height", 0, "Output height")
	fpsPtr := flag.Int("fps", 30, "Frames per second for frames mode")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Parallel raster workers")
	qualityPtr := flag.Int("quality", 90, "JPEG quality")
	verbosePtr := flag.Bool("verbose", false, "Debug diagnostics")

	flag.Parse()

	inputPath := *inputPtr
	if inputPath == "" {
		latest, err := system.FindLatestSVG("input/svg")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put an SVG into input/svg/", err)
		}
		inputPath = latest
		fmt.Printf("[*] Selected SVG: %s\n", inputPath)
	}

	docPath := *docPtr
	if docPath == "" {
		latest, err := system.FindLatestDocument("input/anim")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put an animation document into input/anim/", err)
		}
		docPath = latest
		fmt.Printf("[*] Selected document: %s\n", docPath)
	}

	cfg := &config.Config{
		InputSVG:     inputPath,
		DocumentPath: docPath,
		OutputPath:   *outputPtr,
		Mode:         *modePtr,
		Time:         *timePtr,
		Duration:     *durationPtr,
		Width:        *widthPtr,
		Height:       *heightPtr,
		FPS:          *fpsPtr,
		Workers:      *workersPtr,
		Quality:      *qualityPtr,
		Verbose:      *verbosePtr,
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	sink := diag.New(level)

	raw, err := os.ReadFile(cfg.InputSVG)
	if err != nil {
		log.Fatalf("[-] Could not read SVG: %v", err)
	}
	root, err := markup.ParseString(string(raw))
	if err != nil {
		log.Fatalf("[-] Could not parse SVG: %v", err)
	}

	doc, err := anim.ReadDocument(cfg.DocumentPath)
	if err != nil {
		log.Fatalf("[-] Could not read animation document: %v", err)
	}

	if err := run(cfg, root, doc, sink); err != nil {
		log.Fatalf("[-] %s failed: %v", cfg.Mode, err)
	}
}

func run(cfg *config.Config, root *markup.Node, doc *anim.Document, sink diag.Sink) error {
	delays := chain.Resolve(doc.Chains, doc.Index(), sink)

	switch cfg.Mode {
	case "delays":
		for _, r := range doc.Animations {
			d := delays[r.ID]
			fmt.Printf("%s\t%.0fms\n", r.ID, d)
		}
		return nil

	case "freeze":
		anim.InjectDirectives(root, doc, delays, sink)
		snapshot.Freeze(root, cfg.Time, sink)
		out := outputPath(cfg, "svg")
		if err := os.WriteFile(out, []byte(root.String()), 0644); err != nil {
			return err
		}
		fmt.Printf("[+++] Frozen SVG: %s\n", out)
		return nil

	case "bounds":
		anim.InjectDirectives(root, doc, delays, sink)
		b, ok := snapshot.SweepBounds(root, sink)
		if !ok {
			return fmt.Errorf("nothing measurable in the document")
		}
		fmt.Printf("[*] Swept bounds: x [%.2f, %.2f] y [%.2f, %.2f] (%.2f x %.2f)\n",
			b.MinX, b.MaxX, b.MinY, b.MaxY, b.Width(), b.Height())
		return nil

	case "png", "jpg":
		anim.InjectDirectives(root, doc, delays, sink)
		snapshot.Freeze(root, cfg.Time, sink)
		out := outputPath(cfg, cfg.Mode)
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := snapshot.RasterOptions{
			Format:  cfg.Mode,
			Width:   cfg.Width,
			Height:  cfg.Height,
			Quality: cfg.Quality,
		}
		if err := snapshot.Rasterize(context.Background(), root, opts, f); err != nil {
			return err
		}
		fmt.Printf("[+++] Rendered: %s\n", out)
		return nil

	case "frames":
		outDir := cfg.OutputPath
		if outDir == "" {
			outDir = filepath.Join("output", "frames_"+time.Now().Format("2006-01-02_15-04-05"))
		}
		opts := snapshot.FrameExportOptions{
			FPS:      cfg.FPS,
			Duration: cfg.Duration,
			Workers:  cfg.Workers,
			Raster:   snapshot.RasterOptions{Width: cfg.Width, Height: cfg.Height},
			OutDir:   outDir,
		}
		n, err := snapshot.ExportFrames(context.Background(), root, doc, opts, sink)
		if err != nil {
			return err
		}
		fmt.Printf("[+++] Exported %d frames to %s\n", n, outDir)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

func outputPath(cfg *config.Config, ext string) string {
	if cfg.OutputPath != "" {
		return cfg.OutputPath
	}
	baseName := filepath.Base(cfg.InputSVG)
	nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s.%s", cleanName, timestamp, ext))
}
