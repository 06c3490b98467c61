package visualization

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	swatchSize  = 56
	paletteBand = 26
)

// RenderPalette draws the dominant colors of the original image as a row of
// swatches, strongest first, with the hex value on each swatch and its share
// of the image underneath.
func (r *Reporter) RenderPalette() *image.RGBA {
	n := r.PaletteSwatches
	if n <= 0 {
		n = 20
	}

	cands := dominantcolor.FindWeight(r.original, n)
	if len(cands) == 0 {
		sheet := newSheet(240, 2*sheetMargin+paletteBand)
		drawLabel(sheet, sheetMargin, sheetMargin+15, color.Black, "no dominant colors found")
		return sheet
	}
	slices.SortFunc(cands, func(a, b dominantcolor.Color) int {
		if a.Weight > b.Weight {
			return -1
		}
		if a.Weight < b.Weight {
			return 1
		}
		return 0
	})
	if len(cands) > n {
		cands = cands[:n]
	}

	total := 0.0
	for _, c := range cands {
		total += c.Weight
	}
	if total <= 0 {
		total = 1
	}

	w := len(cands)*swatchSize + 2*sheetMargin
	h := paletteBand + swatchSize + paletteBand + sheetMargin
	sheet := newSheet(w, h)
	drawLabel(sheet, sheetMargin, 17, color.Black,
		fmt.Sprintf("Top %d dominant colors", len(cands)))

	for i, c := range cands {
		x0 := sheetMargin + i*swatchSize
		rect := image.Rect(x0, paletteBand, x0+swatchSize, paletteBand+swatchSize)
		fillRect(sheet, rect, c.RGBA)

		col, _ := colorful.MakeColor(c.RGBA)
		lr, lg, lb := col.LinearRgb()
		luminance := 0.2126*lr + 0.7152*lg + 0.0722*lb
		textColor := color.Color(color.Black)
		if luminance < 0.35 {
			textColor = color.White
		}
		drawLabel(sheet, x0+3, paletteBand+swatchSize-6, textColor, col.Hex())

		share := fmt.Sprintf("%.1f%%", 100*c.Weight/total)
		drawLabel(sheet, x0+3, paletteBand+swatchSize+17, color.Black, share)
	}
	return sheet
}
