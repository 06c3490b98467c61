package compressor

import (
	"image"
	"image/color"
	"math"

	"imgcompress/internal/models"
)

// GridFromImage flattens a decoded image into a pixel grid in row-major scan
// order. Every input is normalized to 3 RGB channels at 8-bit depth, which
// keeps the sample vectors uniform regardless of the source color model.
func GridFromImage(img image.Image) (*models.Grid, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, ErrEmptyImage
	}

	grid := models.NewGrid(width, height, 3)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			grid.Data[i] = float64(r >> 8)
			grid.Data[i+1] = float64(g >> 8)
			grid.Data[i+2] = float64(b >> 8)
			i += 3
		}
	}
	return grid, nil
}

// GridToImage converts a pixel grid back into an 8-bit RGBA image, rounding
// each channel and clamping to the 0-255 range.
func GridToImage(grid *models.Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	i := 0
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: clampChannel(grid.Data[i]),
				G: clampChannel(grid.Data[i+1]),
				B: clampChannel(grid.Data[i+2]),
				A: 255,
			})
			i += grid.Channels
		}
	}
	return img
}

func clampChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
