package compressor

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// ClusterOptions controls one clustering run. The seed is part of the public
// contract: the same seed on the same input produces bit-identical results,
// which keeps the pipeline reproducible and testable.
type ClusterOptions struct {
	// MaxIterations is the hard cap on refinement iterations. The loop
	// always terminates within this bound regardless of convergence.
	MaxIterations int

	// Tolerance is the centroid movement threshold below which the run is
	// considered converged even if a few assignments are still flipping.
	Tolerance float64

	// Seed drives all randomized choices (initial centroid selection).
	Seed int64

	// ReseedRetries bounds how many times empty clusters may be reseeded
	// over the whole run before the engine gives up.
	ReseedRetries int
}

// DefaultClusterOptions returns the options used by the CLI when no
// configuration file overrides them.
func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{
		MaxIterations: 100,
		Tolerance:     1e-4,
		Seed:          42,
		ReseedRetries: 5,
	}
}

// Clustering is the result of one engine run: a fixed set of k centroid
// colors and the per-sample assignment into them.
type Clustering struct {
	// Centroids holds k centroid vectors, interleaved like the sample
	// buffer: centroid j occupies Centroids[j*Channels : (j+1)*Channels].
	Centroids []float64

	// Assignments maps sample index to centroid index in [0, K).
	Assignments []int

	// K is the requested cluster count.
	K int

	// Channels is the dimensionality of each centroid vector.
	Channels int

	// Iterations is the number of refinement passes actually run.
	Iterations int

	// Converged reports whether the run stopped because assignments
	// stabilized rather than because the iteration cap was reached.
	Converged bool
}

// Centroid returns centroid j as a view into the centroid buffer.
func (c *Clustering) Centroid(j int) []float64 {
	off := j * c.Channels
	return c.Centroids[off : off+c.Channels]
}

// Cluster partitions the flat sample buffer into k groups by color
// similarity using k-means with k-means++ seeding. The buffer holds
// len(samples)/channels sample vectors in scan order.
//
// Samples equidistant to two centroids go to the lower centroid index, so
// results are fully determined by (samples, k, opts.Seed). Clusters that
// lose all members mid-run are reseeded to the worst-fitting sample instead
// of being left undefined.
func Cluster(samples []float64, channels, k int, opts ClusterOptions) (*Clustering, error) {
	if channels < 1 || len(samples) == 0 {
		return nil, ErrEmptyImage
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d values with %d channels", ErrGeometryMismatch, len(samples), channels)
	}
	n := len(samples) / channels
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: k=%d with %d samples", ErrInvalidClusterCount, k, n)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultClusterOptions().MaxIterations
	}
	if opts.ReseedRetries <= 0 {
		opts.ReseedRetries = DefaultClusterOptions().ReseedRetries
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	centroids := seedCentroids(samples, channels, n, k, rng)

	assign := make([]int, n)
	counts := make([]int, k)
	sums := make([]float64, k*channels)
	prev := make([]float64, channels)

	result := &Clustering{
		Centroids:   centroids,
		Assignments: assign,
		K:           k,
		Channels:    channels,
	}

	reseeds := 0
	for iter := 1; iter <= opts.MaxIterations; iter++ {
		result.Iterations = iter

		// Assignment step: nearest centroid by squared Euclidean distance.
		// This dominates runtime, so it works directly on the flat buffers.
		changes := 0
		for i := 0; i < n; i++ {
			s := samples[i*channels : (i+1)*channels]
			best := 0
			bestD := math.MaxFloat64
			for j := 0; j < k; j++ {
				d := sqDist(s, centroids[j*channels:(j+1)*channels])
				if d < bestD {
					bestD = d
					best = j
				}
			}
			if assign[i] != best {
				changes++
				assign[i] = best
			}
		}

		// Update step: accumulate per-cluster sums.
		for j := range counts {
			counts[j] = 0
		}
		for i := range sums {
			sums[i] = 0
		}
		for i := 0; i < n; i++ {
			j := assign[i]
			counts[j]++
			row := sums[j*channels : (j+1)*channels]
			s := samples[i*channels : (i+1)*channels]
			for c := range row {
				row[c] += s[c]
			}
		}

		// Reseed clusters that lost every member before taking means, so a
		// zero count never turns into a divide-by-zero centroid.
		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				continue
			}
			far, farD := farthestSample(samples, channels, centroids, assign, n)
			if farD == 0 {
				// Every sample already coincides with a centroid: the image
				// has fewer distinct colors than k. The cluster stays empty
				// with its current, well-defined centroid.
				continue
			}
			reseeds++
			if reseeds > opts.ReseedRetries {
				return nil, fmt.Errorf("%w: gave up after %d reseeds", ErrDegenerateCluster, opts.ReseedRetries)
			}
			moveSample(samples, channels, far, j, assign, counts, sums, centroids)
			changes++
		}

		// Recompute centroids and track the largest movement.
		shift := 0.0
		for j := 0; j < k; j++ {
			if counts[j] == 0 {
				continue
			}
			row := centroids[j*channels : (j+1)*channels]
			copy(prev, row)
			inv := 1.0 / float64(counts[j])
			sum := sums[j*channels : (j+1)*channels]
			for c := range row {
				row[c] = sum[c] * inv
			}
			if d := floats.Distance(prev, row, 2); d > shift {
				shift = d
			}
		}

		if changes == 0 || shift < opts.Tolerance {
			result.Converged = true
			break
		}
	}

	return result, nil
}

// seedCentroids picks k initial centroids with the k-means++ scheme: the
// first uniformly at random, the rest weighted by squared distance to the
// nearest already-chosen centroid.
func seedCentroids(samples []float64, channels, n, k int, rng *rand.Rand) []float64 {
	centroids := make([]float64, k*channels)
	first := rng.Intn(n)
	copy(centroids[:channels], samples[first*channels:(first+1)*channels])

	minDist := make([]float64, n)
	for i := 0; i < n; i++ {
		minDist[i] = sqDist(samples[i*channels:(i+1)*channels], centroids[:channels])
	}

	for j := 1; j < k; j++ {
		total := 0.0
		for _, d := range minDist {
			total += d
		}
		var pick int
		if total == 0 {
			// Fewer distinct colors than centroids; any sample duplicates
			// an existing centroid, the empty-cluster path covers the rest.
			pick = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			pick = n - 1
			acc := 0.0
			for i := 0; i < n; i++ {
				acc += minDist[i]
				if acc >= target {
					pick = i
					break
				}
			}
		}
		row := centroids[j*channels : (j+1)*channels]
		copy(row, samples[pick*channels:(pick+1)*channels])
		for i := 0; i < n; i++ {
			if d := sqDist(samples[i*channels:(i+1)*channels], row); d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return centroids
}

// farthestSample finds the sample with the largest squared distance to its
// assigned centroid, the reseed target for an emptied cluster.
func farthestSample(samples []float64, channels int, centroids []float64, assign []int, n int) (int, float64) {
	far := 0
	farD := -1.0
	for i := 0; i < n; i++ {
		j := assign[i]
		d := sqDist(samples[i*channels:(i+1)*channels], centroids[j*channels:(j+1)*channels])
		if d > farD {
			farD = d
			far = i
		}
	}
	return far, farD
}

// moveSample reassigns sample i to cluster j and fixes the running sums and
// counts so the following mean computation stays consistent.
func moveSample(samples []float64, channels, i, j int, assign, counts []int, sums, centroids []float64) {
	old := assign[i]
	s := samples[i*channels : (i+1)*channels]

	oldRow := sums[old*channels : (old+1)*channels]
	for c := range oldRow {
		oldRow[c] -= s[c]
	}
	counts[old]--

	assign[i] = j
	counts[j]++
	newRow := sums[j*channels : (j+1)*channels]
	for c := range newRow {
		newRow[c] += s[c]
	}
	copy(centroids[j*channels:(j+1)*channels], s)
}

func sqDist(a, b []float64) float64 {
	var total float64
	for i := range a {
		d := a[i] - b[i]
		total += d * d
	}
	return total
}
