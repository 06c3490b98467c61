package models

// Grid is a decoded raster image stored as a flat numeric buffer.
// Pixels are laid out in row-major scan order with interleaved channels,
// so sample i occupies Data[i*Channels : (i+1)*Channels]. Channel values
// stay in the 0-255 range of the 8-bit source.
type Grid struct {
	// Data holds the pixel values, len = Width*Height*Channels
	Data []float64

	// Width and Height are the image dimensions in pixels
	Width  int
	Height int

	// Channels is the number of color components per pixel
	Channels int
}

// NewGrid allocates a zeroed grid with the given geometry.
func NewGrid(width, height, channels int) *Grid {
	return &Grid{
		Data:     make([]float64, width*height*channels),
		Width:    width,
		Height:   height,
		Channels: channels,
	}
}

// SampleCount returns the number of pixels in the grid.
func (g *Grid) SampleCount() int {
	return g.Width * g.Height
}

// Sample returns the color vector of pixel i as a view into Data.
// The slice aliases the grid buffer; callers must not retain it across writes.
func (g *Grid) Sample(i int) []float64 {
	off := i * g.Channels
	return g.Data[off : off+g.Channels]
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{
		Data:     make([]float64, len(g.Data)),
		Width:    g.Width,
		Height:   g.Height,
		Channels: g.Channels,
	}
	copy(out.Data, g.Data)
	return out
}
