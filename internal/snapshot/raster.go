package snapshot

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chromedp/chromedp"
	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/svgmotion/internal/markup"
	"github.com/ivlev/svgmotion/internal/system"
)

// RasterOptions control how a frozen document is turned into pixels.
type RasterOptions struct {
	Format  string // "png" or "jpg"
	Width   int    // 0 keeps the rendered size
	Height  int
	Quality int // JPEG only
}

// Rasterize renders the markup in a headless browser and writes the
// encoded image. The document travels as a data URI so no temp file is
// ever created.
func Rasterize(ctx context.Context, root *markup.Node, opts RasterOptions, w io.Writer) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(root.String()))
	dataURI := "data:image/svg+xml;base64," + encoded

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var shot []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &shot, chromedp.ByQuery),
	}
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return fmt.Errorf("browser render failed: %w", err)
	}
	if len(shot) == 0 {
		return fmt.Errorf("browser produced an empty screenshot")
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return fmt.Errorf("decoding screenshot: %w", err)
	}
	if opts.Width > 0 && opts.Height > 0 {
		img = scaleImage(img, opts.Width, opts.Height)
	}

	switch opts.Format {
	case "", "png":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		q := opts.Quality
		if q <= 0 {
			q = 90
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	default:
		return fmt.Errorf("unsupported image format %q", opts.Format)
	}
}

// scaleImage resamples into a pooled RGBA buffer. Callers receive a
// copy of the pooled pixels so the buffer can go straight back.
func scaleImage(src image.Image, width, height int) image.Image {
	rect := image.Rect(0, 0, width, height)
	dst := system.GetImage(rect)
	defer system.PutImage(dst)

	// Src, not Over: the pooled buffer may hold a previous frame.
	xdraw.CatmullRom.Scale(dst, rect, src, src.Bounds(), xdraw.Src, nil)

	out := image.NewRGBA(rect)
	copy(out.Pix, dst.Pix)
	return out
}
