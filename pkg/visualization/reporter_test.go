package visualization

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"imgcompress/internal/models"
	"imgcompress/pkg/compressor"
)

// createTempDir creates a temporary directory for test files
func createTempDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "imgcompress-report-test-*")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// createTestOriginal builds a two-color 64x48 source image.
func createTestOriginal() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			c := color.RGBA{R: 200, G: 40, B: 40, A: 255}
			if x >= 32 {
				c = color.RGBA{R: 40, G: 40, B: 200, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func solidGrid(w, h int, c [3]float64) *models.Grid {
	grid := models.NewGrid(w, h, 3)
	for i := 0; i < grid.SampleCount(); i++ {
		copy(grid.Data[i*3:(i+1)*3], c[:])
	}
	return grid
}

func testResults() []*compressor.Result {
	return []*compressor.Result{
		{Colors: 2, Image: solidGrid(64, 48, [3]float64{120, 40, 120}), Ratio: 1.0, FileSize: 900},
		{Colors: 4, Image: solidGrid(64, 48, [3]float64{160, 40, 80}), Ratio: 1.0, FileSize: 1400},
		{Colors: 8, Image: solidGrid(64, 48, [3]float64{180, 40, 60}), Ratio: 1.0, FileSize: 2600},
	}
}

func testReporter() *Reporter {
	return NewReporter(createTestOriginal(), 2, testResults())
}

// TestRenderComparisonDimensions verifies the side-by-side sheet layout.
func TestRenderComparisonDimensions(t *testing.T) {
	r := testReporter()
	sheet := r.RenderComparison(r.results[1])

	wantW := 2*comparisonTileWidth + 3*sheetMargin
	tileH := 48 * comparisonTileWidth / 64
	wantH := tileH + 2*sheetMargin + labelBand
	if sheet.Bounds().Dx() != wantW || sheet.Bounds().Dy() != wantH {
		t.Errorf("Comparison sheet is %dx%d, want %dx%d",
			sheet.Bounds().Dx(), sheet.Bounds().Dy(), wantW, wantH)
	}
}

// TestRenderComparisonGrid verifies the grid layout for original + levels.
func TestRenderComparisonGrid(t *testing.T) {
	sheet := testReporter().RenderComparisonGrid()

	// 4 tiles fit one row of 4 columns.
	wantW := 4*(gridTileWidth+sheetMargin) + sheetMargin
	tileH := 48 * gridTileWidth / 64
	wantH := tileH + labelBand + sheetMargin + sheetMargin
	if sheet.Bounds().Dx() != wantW || sheet.Bounds().Dy() != wantH {
		t.Errorf("Grid sheet is %dx%d, want %dx%d",
			sheet.Bounds().Dx(), sheet.Bounds().Dy(), wantW, wantH)
	}
}

// TestRenderPalette verifies that the palette sheet renders for a simple
// two-color image.
func TestRenderPalette(t *testing.T) {
	sheet := testReporter().RenderPalette()
	if sheet == nil || sheet.Bounds().Empty() {
		t.Fatal("Palette sheet is empty")
	}
}

// TestRenderSizeChart verifies the chart dimensions and that bars were
// actually drawn.
func TestRenderSizeChart(t *testing.T) {
	sheet := testReporter().RenderSizeChart()
	if sheet.Bounds().Dx() != chartWidth || sheet.Bounds().Dy() != chartHeight {
		t.Errorf("Chart is %dx%d, want %dx%d",
			sheet.Bounds().Dx(), sheet.Bounds().Dy(), chartWidth, chartHeight)
	}

	found := false
	for y := chartTop; y < chartHeight-chartBottom && !found; y++ {
		for x := chartLeft; x < chartWidth-chartRight; x++ {
			if sheet.RGBAAt(x, y) == chartBarColor {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("No bars drawn in the chart plot area")
	}
}

// TestGenerateReport verifies that every artifact is written to disk.
func TestGenerateReport(t *testing.T) {
	tmpDir := createTempDir(t)
	reportDir := filepath.Join(tmpDir, "comparisons")

	if err := testReporter().GenerateReport(reportDir); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	for _, name := range []string{
		"comparison_simple.png",
		"color_palette_original.png",
		"comparison_multiple.png",
		"compression_stats.png",
	} {
		info, err := os.Stat(filepath.Join(reportDir, name))
		if err != nil {
			t.Errorf("Missing artifact %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Artifact %s is empty", name)
		}
	}
}

// TestGenerateReportNoResults verifies the empty-input guard.
func TestGenerateReportNoResults(t *testing.T) {
	r := NewReporter(createTestOriginal(), 2, nil)
	if err := r.GenerateReport(createTempDir(t)); err == nil {
		t.Fatal("Expected error for empty result set")
	}
}
