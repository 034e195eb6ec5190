package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/svgmotion/internal/anim"
	"github.com/ivlev/svgmotion/internal/chain"
	"github.com/ivlev/svgmotion/internal/diag"
	"github.com/ivlev/svgmotion/internal/markup"
)

// FrameExportOptions describe a frame-sequence export run.
type FrameExportOptions struct {
	FPS      int
	Duration float64 // seconds; <= 0 derives the horizon from the markup
	Workers  int
	Raster   RasterOptions
	OutDir   string
}

// ExportFrames injects the document's directives into the markup,
// freezes one clone per frame time and rasterizes them concurrently as
// frame_00000.png, frame_00001.png, ... in OutDir.
func ExportFrames(ctx context.Context, root *markup.Node, doc *anim.Document, opts FrameExportOptions, sink diag.Sink) (int, error) {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return 0, err
	}

	master := root.Clone()
	delays := chain.Resolve(doc.Chains, doc.Index(), sink)
	anim.InjectDirectives(master, doc, delays, sink)

	duration := opts.Duration
	if duration <= 0 {
		duration = sweepHorizon(master, sink)
	}
	frameCount := int(duration*float64(opts.FPS)) + 1

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < frameCount; i++ {
		g.Go(func() error {
			t := float64(i) / float64(opts.FPS)
			frame := master.Clone()
			Freeze(frame, t, sink)

			name := filepath.Join(opts.OutDir, fmt.Sprintf("frame_%05d.png", i))
			f, err := os.Create(name)
			if err != nil {
				return err
			}
			defer f.Close()
			return Rasterize(gctx, frame, opts.Raster, f)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return frameCount, nil
}
