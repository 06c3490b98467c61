package visualization

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
)

const (
	chartWidth   = 640
	chartHeight  = 400
	chartLeft    = 70
	chartRight   = 24
	chartTop     = 48
	chartBottom  = 56
	barHeadroom  = 22
	glyphAdvance = 7 // basicfont.Face7x13 fixed advance
)

var (
	chartAxisColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	chartBarColor  = color.RGBA{R: 46, G: 134, B: 171, A: 255}
)

// RenderSizeChart draws encoded file size against palette size as a bar
// chart, one bar per compression level in level order.
func (r *Reporter) RenderSizeChart() *image.RGBA {
	sheet := newSheet(chartWidth, chartHeight)
	drawLabel(sheet, chartLeft, 20, color.Black, "File size vs palette size")
	drawLabel(sheet, 10, 38, color.Black, "KB")
	label := "Palette size (colors)"
	drawLabel(sheet, (chartWidth-glyphAdvance*len(label))/2, chartHeight-10, color.Black, label)

	// Axes
	fillRect(sheet, image.Rect(chartLeft, chartTop, chartLeft+1, chartHeight-chartBottom), chartAxisColor)
	fillRect(sheet, image.Rect(chartLeft, chartHeight-chartBottom-1, chartWidth-chartRight, chartHeight-chartBottom), chartAxisColor)

	if len(r.results) == 0 {
		return sheet
	}

	maxKB := 0.0
	for _, res := range r.results {
		if kb := float64(res.FileSize) / 1024; kb > maxKB {
			maxKB = kb
		}
	}
	if maxKB <= 0 {
		maxKB = 1
	}

	plotW := chartWidth - chartLeft - chartRight
	plotH := chartHeight - chartTop - chartBottom - barHeadroom
	slot := plotW / len(r.results)
	barW := slot * 2 / 3
	if barW < 2 {
		barW = 2
	}
	baseline := chartHeight - chartBottom - 1

	for i, res := range r.results {
		kb := float64(res.FileSize) / 1024
		barH := int(kb / maxKB * float64(plotH))
		if barH < 1 {
			barH = 1
		}
		x0 := chartLeft + i*slot + (slot-barW)/2
		fillRect(sheet, image.Rect(x0, baseline-barH, x0+barW, baseline), chartBarColor)

		size := fmt.Sprintf("%.1f KB", kb)
		drawLabel(sheet, x0+(barW-glyphAdvance*len(size))/2, baseline-barH-6, color.Black, size)

		tick := strconv.Itoa(res.Colors)
		drawLabel(sheet, x0+(barW-glyphAdvance*len(tick))/2, baseline+18, color.Black, tick)
	}
	return sheet
}
