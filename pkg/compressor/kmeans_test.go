package compressor

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// makeTestSamples builds a deterministic sample buffer with a smooth color
// gradient, large enough to exercise several clustering iterations.
func makeTestSamples(n int) []float64 {
	samples := make([]float64, n*3)
	for i := 0; i < n; i++ {
		samples[i*3] = 127.5 + 127.5*math.Sin(float64(i)*0.1)
		samples[i*3+1] = 127.5 + 127.5*math.Cos(float64(i)*0.07)
		samples[i*3+2] = float64(i % 256)
	}
	return samples
}

// TestClusterBlackWhite verifies that a two-color input converges to the
// exact input colors and that reconstruction restores the original pixels.
func TestClusterBlackWhite(t *testing.T) {
	samples := []float64{
		0, 0, 0,
		0, 0, 0,
		255, 255, 255,
		255, 255, 255,
	}

	clustering, err := Cluster(samples, 3, 2, DefaultClusterOptions())
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	// Both input colors must appear as centroids, in either order.
	seen := map[float64]bool{}
	for j := 0; j < 2; j++ {
		c := clustering.Centroid(j)
		if c[0] != c[1] || c[1] != c[2] {
			t.Errorf("Expected gray-axis centroid, got %v", c)
		}
		seen[c[0]] = true
	}
	if !seen[0] || !seen[255] {
		t.Errorf("Expected centroids {0,0,0} and {255,255,255}, got %v", clustering.Centroids)
	}

	// Every sample must map back to exactly its own color.
	for i := 0; i < 4; i++ {
		c := clustering.Centroid(clustering.Assignments[i])
		if c[0] != samples[i*3] {
			t.Errorf("Sample %d reconstructed as %v, want %v", i, c[0], samples[i*3])
		}
	}

	if !clustering.Converged {
		t.Error("Expected convergence on a two-color input")
	}
}

// TestClusterSingleCentroid verifies that k=1 produces the mean color and a
// uniform assignment.
func TestClusterSingleCentroid(t *testing.T) {
	samples := []float64{
		10, 20, 30,
		30, 40, 50,
	}

	clustering, err := Cluster(samples, 3, 1, DefaultClusterOptions())
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	want := []float64{20, 30, 40}
	got := clustering.Centroid(0)
	for c := range want {
		if math.Abs(got[c]-want[c]) > 1e-9 {
			t.Errorf("Centroid channel %d = %v, want %v", c, got[c], want[c])
		}
	}
	for i, a := range clustering.Assignments {
		if a != 0 {
			t.Errorf("Sample %d assigned to cluster %d, want 0", i, a)
		}
	}
}

// TestClusterInvalidParameters verifies the k bounds checks.
func TestClusterInvalidParameters(t *testing.T) {
	samples := makeTestSamples(10)

	if _, err := Cluster(samples, 3, 0, DefaultClusterOptions()); !errors.Is(err, ErrInvalidClusterCount) {
		t.Errorf("Expected ErrInvalidClusterCount for k=0, got %v", err)
	}
	if _, err := Cluster(samples, 3, 11, DefaultClusterOptions()); !errors.Is(err, ErrInvalidClusterCount) {
		t.Errorf("Expected ErrInvalidClusterCount for k>samples, got %v", err)
	}
	if _, err := Cluster(nil, 3, 1, DefaultClusterOptions()); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Expected ErrEmptyImage for empty input, got %v", err)
	}
	if _, err := Cluster(samples[:7], 3, 1, DefaultClusterOptions()); !errors.Is(err, ErrGeometryMismatch) {
		t.Errorf("Expected ErrGeometryMismatch for ragged buffer, got %v", err)
	}
}

// TestClusterDeterminism verifies that the same seed on the same input
// produces bit-identical centroids and assignments.
func TestClusterDeterminism(t *testing.T) {
	samples := makeTestSamples(500)
	opts := DefaultClusterOptions()
	opts.Seed = 7

	first, err := Cluster(samples, 3, 8, opts)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := Cluster(samples, 3, 8, opts)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if !reflect.DeepEqual(first.Centroids, second.Centroids) {
		t.Error("Centroids differ between runs with the same seed")
	}
	if !reflect.DeepEqual(first.Assignments, second.Assignments) {
		t.Error("Assignments differ between runs with the same seed")
	}
}

// TestClusterFewerDistinctColorsThanK verifies that an input with fewer
// distinct colors than clusters still succeeds: the surplus clusters stay
// empty with well-defined centroids instead of failing or producing NaN.
func TestClusterFewerDistinctColorsThanK(t *testing.T) {
	samples := []float64{
		50, 60, 70,
		50, 60, 70,
		50, 60, 70,
		50, 60, 70,
	}

	clustering, err := Cluster(samples, 3, 3, DefaultClusterOptions())
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}
	for j := 0; j < 3; j++ {
		for _, v := range clustering.Centroid(j) {
			if math.IsNaN(v) {
				t.Fatalf("Centroid %d contains NaN: %v", j, clustering.Centroid(j))
			}
		}
	}
	for i, a := range clustering.Assignments {
		c := clustering.Centroid(a)
		if c[0] != 50 || c[1] != 60 || c[2] != 70 {
			t.Errorf("Sample %d mapped to %v, want the single input color", i, c)
		}
	}
}

// TestClusterIterationCap verifies that the hard iteration bound holds.
func TestClusterIterationCap(t *testing.T) {
	samples := makeTestSamples(2000)
	opts := DefaultClusterOptions()
	opts.MaxIterations = 3
	opts.Tolerance = 0 // force the loop to run to its cap

	clustering, err := Cluster(samples, 3, 16, opts)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}
	if clustering.Iterations > 3 {
		t.Errorf("Ran %d iterations, cap was 3", clustering.Iterations)
	}
}
