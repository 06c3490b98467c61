// Package visualization renders the human-inspection artifacts for a
// multi-level compression run: side-by-side comparison sheets, the dominant
// color palette of the source image, and a file-size-versus-palette chart.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"imgcompress/pkg/compressor"
)

// Reporter renders report artifacts from one source image and the ordered
// results of a multi-level compression run.
type Reporter struct {
	// original is the decoded source image
	original image.Image

	// originalColors is the distinct color count of the source
	originalColors int

	// results are the per-level compression results in level order
	results []*compressor.Result

	// PaletteSwatches is how many dominant colors the palette sheet shows
	PaletteSwatches int
}

// NewReporter creates a reporter for the given source image and results.
func NewReporter(original image.Image, originalColors int, results []*compressor.Result) *Reporter {
	return &Reporter{
		original:        original,
		originalColors:  originalColors,
		results:         results,
		PaletteSwatches: 20,
	}
}

// GenerateReport renders every artifact into the output directory,
// creating it as needed.
func (r *Reporter) GenerateReport(outputDir string) error {
	if len(r.results) == 0 {
		return fmt.Errorf("no compression results to report")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	// Use the middle level for the simple comparison, like the summary
	// figure of a quality sweep.
	mid := r.results[len(r.results)/2]

	artifacts := []struct {
		name   string
		render func() *image.RGBA
	}{
		{"comparison_simple.png", func() *image.RGBA { return r.RenderComparison(mid) }},
		{"color_palette_original.png", r.RenderPalette},
		{"comparison_multiple.png", r.RenderComparisonGrid},
		{"compression_stats.png", r.RenderSizeChart},
	}
	for _, a := range artifacts {
		path := filepath.Join(outputDir, a.name)
		if err := savePNG(a.render(), path); err != nil {
			return fmt.Errorf("failed to save %s: %w", a.name, err)
		}
		fmt.Printf("Saved report artifact: %s\n", path)
	}
	return nil
}

const (
	comparisonTileWidth = 360
	gridTileWidth       = 240
	sheetMargin         = 16
	labelBand           = 22
)

// RenderComparison draws the original and one compressed level side by side
// with unique-color captions underneath.
func (r *Reporter) RenderComparison(result *compressor.Result) *image.RGBA {
	tileH := scaledHeight(r.original.Bounds(), comparisonTileWidth)
	w := 2*comparisonTileWidth + 3*sheetMargin
	h := tileH + 2*sheetMargin + labelBand
	sheet := newSheet(w, h)

	drawScaled(sheet, r.original, image.Rect(sheetMargin, sheetMargin,
		sheetMargin+comparisonTileWidth, sheetMargin+tileH))
	drawScaled(sheet, compressor.GridToImage(result.Image),
		image.Rect(2*sheetMargin+comparisonTileWidth, sheetMargin,
			2*sheetMargin+2*comparisonTileWidth, sheetMargin+tileH))

	textY := sheetMargin + tileH + 15
	drawLabel(sheet, sheetMargin, textY, color.Black,
		fmt.Sprintf("Original: %d unique colors", r.originalColors))
	drawLabel(sheet, 2*sheetMargin+comparisonTileWidth, textY, color.Black,
		fmt.Sprintf("Compressed: %d colors, ratio %.1fx", result.Colors, result.Ratio))
	return sheet
}

// RenderComparisonGrid draws the original followed by every compressed level
// in a grid of up to four columns.
func (r *Reporter) RenderComparisonGrid() *image.RGBA {
	tiles := len(r.results) + 1
	cols := tiles
	if cols > 4 {
		cols = 4
	}
	rows := (tiles + cols - 1) / cols

	tileH := scaledHeight(r.original.Bounds(), gridTileWidth)
	cellW := gridTileWidth + sheetMargin
	cellH := tileH + labelBand + sheetMargin
	sheet := newSheet(cols*cellW+sheetMargin, rows*cellH+sheetMargin)

	for i := 0; i < tiles; i++ {
		x0 := sheetMargin + (i%cols)*cellW
		y0 := sheetMargin + (i/cols)*cellH

		var tile image.Image
		var caption string
		if i == 0 {
			tile = r.original
			caption = fmt.Sprintf("Original (%d colors)", r.originalColors)
		} else {
			res := r.results[i-1]
			tile = compressor.GridToImage(res.Image)
			caption = fmt.Sprintf("%d colors, %.1fx", res.Colors, res.Ratio)
		}
		drawScaled(sheet, tile, image.Rect(x0, y0, x0+gridTileWidth, y0+tileH))
		drawLabel(sheet, x0, y0+tileH+15, color.Black, caption)
	}
	return sheet
}

func newSheet(w, h int) *image.RGBA {
	sheet := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(sheet, sheet.Bounds(), image.White, image.Point{}, xdraw.Src)
	return sheet
}

func scaledHeight(bounds image.Rectangle, targetWidth int) int {
	if bounds.Dx() == 0 {
		return targetWidth
	}
	h := bounds.Dy() * targetWidth / bounds.Dx()
	if h < 1 {
		h = 1
	}
	return h
}

func drawScaled(dst *image.RGBA, src image.Image, rect image.Rectangle) {
	xdraw.ApproxBiLinear.Scale(dst, rect, src, src.Bounds(), xdraw.Src, nil)
}

func drawLabel(dst *image.RGBA, x, y int, c color.Color, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func fillRect(dst *image.RGBA, rect image.Rectangle, c color.Color) {
	xdraw.Draw(dst, rect, image.NewUniform(c), image.Point{}, xdraw.Src)
}

func savePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
