package compressor

import "imgcompress/internal/models"

// UniqueColors counts the distinct 8-bit colors present in the grid after
// rounding each channel, matching what an encoder would actually write.
func UniqueColors(grid *models.Grid) int {
	seen := make(map[uint32]struct{})
	n := grid.SampleCount()
	for i := 0; i < n; i++ {
		seen[packColor(grid.Sample(i))] = struct{}{}
	}
	return len(seen)
}

// CompressionRatio compares unique-color counts before and after
// quantization. This is a palette-reduction proxy, not a true file-size
// compression ratio: the actual byte reduction depends on the encoder.
// A compressed count of zero yields 1.0 so a degenerate input cannot divide
// by zero.
func CompressionRatio(original, compressed *models.Grid) float64 {
	comp := UniqueColors(compressed)
	if comp == 0 {
		return 1.0
	}
	return float64(UniqueColors(original)) / float64(comp)
}

// colorHistogram returns the relative frequency of each distinct color.
func colorHistogram(grid *models.Grid) []float64 {
	counts := make(map[uint32]int)
	n := grid.SampleCount()
	for i := 0; i < n; i++ {
		counts[packColor(grid.Sample(i))]++
	}
	hist := make([]float64, 0, len(counts))
	inv := 1.0 / float64(n)
	for _, c := range counts {
		hist = append(hist, float64(c)*inv)
	}
	return hist
}

func packColor(sample []float64) uint32 {
	var packed uint32
	for _, v := range sample {
		packed = packed<<8 | uint32(clampChannel(v))
	}
	return packed
}
