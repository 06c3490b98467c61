package compressor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"imgcompress/internal/models"
)

// QualityMetrics quantifies how much fidelity a quantized image gave up
// relative to its source.
type QualityMetrics struct {
	// MSE is the mean squared error over all channel values.
	MSE float64

	// RMSE is the root of MSE, in 0-255 channel units.
	RMSE float64

	// PSNR is the peak signal-to-noise ratio in dB against an 8-bit peak.
	// It is +Inf when the images are identical.
	PSNR float64

	// EntropyDiff is the drop in color-distribution entropy (in nats)
	// caused by the palette reduction. Larger values mean a stronger
	// simplification of the color content.
	EntropyDiff float64
}

// ComputeQualityMetrics compares a reconstructed grid against its source.
func ComputeQualityMetrics(original, compressed *models.Grid) (QualityMetrics, error) {
	if original.Width != compressed.Width ||
		original.Height != compressed.Height ||
		original.Channels != compressed.Channels {
		return QualityMetrics{}, fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d",
			ErrGeometryMismatch,
			original.Width, original.Height, original.Channels,
			compressed.Width, compressed.Height, compressed.Channels)
	}
	if len(original.Data) == 0 {
		return QualityMetrics{}, ErrEmptyImage
	}

	var sum float64
	for i := range original.Data {
		d := original.Data[i] - compressed.Data[i]
		sum += d * d
	}
	mse := sum / float64(len(original.Data))

	m := QualityMetrics{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		PSNR: math.Inf(1),
		EntropyDiff: stat.Entropy(colorHistogram(original)) -
			stat.Entropy(colorHistogram(compressed)),
	}
	if mse > 0 {
		m.PSNR = 20 * math.Log10(255/m.RMSE)
	}
	return m, nil
}
