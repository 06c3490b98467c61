package compressor

import (
	"fmt"

	"imgcompress/internal/models"
)

// Reconstruct builds a new grid with the original geometry where every pixel
// takes its cluster's centroid color. The assignment must cover the grid in
// the same row-major order produced by GridFromImage.
func Reconstruct(original *models.Grid, clustering *Clustering) (*models.Grid, error) {
	n := original.SampleCount()
	if len(clustering.Assignments) != n {
		return nil, fmt.Errorf("%w: %d assignments for %dx%d image",
			ErrGeometryMismatch, len(clustering.Assignments), original.Width, original.Height)
	}
	if clustering.Channels != original.Channels {
		return nil, fmt.Errorf("%w: centroid dimensionality %d, pixel channels %d",
			ErrGeometryMismatch, clustering.Channels, original.Channels)
	}

	out := models.NewGrid(original.Width, original.Height, original.Channels)
	ch := original.Channels
	for i := 0; i < n; i++ {
		copy(out.Data[i*ch:(i+1)*ch], clustering.Centroid(clustering.Assignments[i]))
	}
	return out, nil
}
