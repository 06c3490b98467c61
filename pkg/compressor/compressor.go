package compressor

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"

	"imgcompress/internal/models"
)

// Params holds the compression configuration for one source image.
type Params struct {
	// InputPath is the image file to compress (PNG, JPEG or BMP).
	InputPath string

	// OutputDir is where compressed images are written. Parent directories
	// are created as needed.
	OutputDir string

	// Colors is the palette size for a single-level run.
	Colors int

	// Clustering configures the k-means engine shared by all levels.
	Clustering ClusterOptions

	// Verbose enables step-by-step progress output.
	Verbose bool
}

// Result describes one completed compression level.
type Result struct {
	// Colors is the requested cluster count for this level.
	Colors int

	// Image is the reconstructed pixel grid.
	Image *models.Grid

	// Ratio is the unique-color reduction proxy metric, original distinct
	// colors divided by compressed distinct colors.
	Ratio float64

	// FileSize is the encoded output size in bytes.
	FileSize int64

	// Path is where the encoded image was written.
	Path string

	// Metrics holds the fidelity measurements against the source.
	Metrics QualityMetrics

	// Iterations and Converged report how the clustering run ended.
	Iterations int
	Converged  bool
}

// Compressor runs the color quantization pipeline for a single source image:
// 1. Decoding the input into a flat pixel grid
// 2. Clustering the pixel colors into k groups
// 3. Reconstructing the image from the cluster centroids
// 4. Estimating the color-reduction ratio and fidelity metrics
// 5. Encoding the result to disk
type Compressor struct {
	// params stores the compression configuration
	params *Params

	// sourceImage is the decoded input, kept for report rendering
	sourceImage image.Image

	// source is the flattened pixel grid of the input
	source *models.Grid

	// uniqueColors caches the distinct color count of the source
	uniqueColors int
}

// NewCompressor creates a compressor for the given parameters. Load must be
// called before any compression runs.
func NewCompressor(params *Params) *Compressor {
	return &Compressor{params: params}
}

// Load decodes the input image and flattens it into the sample grid.
// Decode failures are reported to the caller; they abort this image only.
func (c *Compressor) Load() error {
	c.logf("Loading image: %s\n", c.params.InputPath)

	file, err := os.Open(c.params.InputPath)
	if err != nil {
		return fmt.Errorf("failed to open input image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.params.InputPath, err)
	}

	grid, err := GridFromImage(img)
	if err != nil {
		return fmt.Errorf("failed to read pixels from %s: %w", c.params.InputPath, err)
	}

	c.sourceImage = img
	c.source = grid
	c.uniqueColors = UniqueColors(grid)

	c.logf("Loaded %s image: %dx%d pixels, %d channels, %d unique colors\n",
		format, grid.Width, grid.Height, grid.Channels, c.uniqueColors)
	return nil
}

// Source returns the flattened source grid, or nil before Load.
func (c *Compressor) Source() *models.Grid {
	return c.source
}

// SourceImage returns the decoded input image, or nil before Load.
func (c *Compressor) SourceImage() image.Image {
	return c.sourceImage
}

// SourceUniqueColors returns the distinct color count of the loaded input.
func (c *Compressor) SourceUniqueColors() int {
	return c.uniqueColors
}

// Process runs the full single-level pipeline with the configured color
// count and writes the result as <base>_compressed_<k>.png in the output
// directory.
func (c *Compressor) Process() (*Result, error) {
	if c.source == nil {
		if err := c.Load(); err != nil {
			return nil, err
		}
	}

	base := strings.TrimSuffix(filepath.Base(c.params.InputPath), filepath.Ext(c.params.InputPath))
	name := fmt.Sprintf("%s_compressed_%d.png", base, c.params.Colors)
	outPath := filepath.Join(c.params.OutputDir, name)

	result, err := c.compressLevel(c.params.Colors, outPath)
	if err != nil {
		return nil, err
	}

	c.logf("Compression finished: %d -> %d colors, ratio %.2fx, %.1f KB\n",
		c.uniqueColors, UniqueColors(result.Image), result.Ratio,
		float64(result.FileSize)/1024)
	return result, nil
}

// compressLevel runs clustering, reconstruction, metrics and encoding for a
// single palette size. It is the unit of work the multi-level driver fans
// out across workers; everything it touches is either read-only shared state
// or owned by this level.
func (c *Compressor) compressLevel(colors int, outPath string) (*Result, error) {
	c.logf("Clustering %d pixels into %d colors...\n", c.source.SampleCount(), colors)

	clustering, err := Cluster(c.source.Data, c.source.Channels, colors, c.params.Clustering)
	if err != nil {
		return nil, fmt.Errorf("clustering failed for %d colors: %w", colors, err)
	}
	c.logf("Clustering converged=%v after %d iterations\n", clustering.Converged, clustering.Iterations)

	compressed, err := Reconstruct(c.source, clustering)
	if err != nil {
		return nil, fmt.Errorf("reconstruction failed for %d colors: %w", colors, err)
	}

	metrics, err := ComputeQualityMetrics(c.source, compressed)
	if err != nil {
		return nil, fmt.Errorf("metrics failed for %d colors: %w", colors, err)
	}

	size, err := c.saveGrid(compressed, outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to save %d-color image: %w", colors, err)
	}
	c.logf("Saved %s (%.1f KB)\n", outPath, float64(size)/1024)

	return &Result{
		Colors:     colors,
		Image:      compressed,
		Ratio:      CompressionRatio(c.source, compressed),
		FileSize:   size,
		Path:       outPath,
		Metrics:    metrics,
		Iterations: clustering.Iterations,
		Converged:  clustering.Converged,
	}, nil
}

// saveGrid encodes a grid as PNG, creating parent directories as needed, and
// returns the written byte count.
func (c *Compressor) saveGrid(grid *models.Grid, path string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, GridToImage(grid)); err != nil {
		return 0, fmt.Errorf("failed to encode output file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (c *Compressor) logf(format string, args ...interface{}) {
	if c.params.Verbose {
		fmt.Printf(format, args...)
	}
}
