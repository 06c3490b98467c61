package compressor

import "errors"

// Error taxonomy for the compression pipeline. Input and output failures are
// wrapped around the underlying os/image errors; these sentinels cover the
// conditions the pipeline itself detects.
var (
	// ErrEmptyImage is returned when a decoded image contains no pixels.
	ErrEmptyImage = errors.New("image contains no pixels")

	// ErrInvalidClusterCount is returned when the requested color count is
	// below 1 or exceeds the number of pixel samples.
	ErrInvalidClusterCount = errors.New("invalid cluster count")

	// ErrDegenerateCluster is returned when a cluster repeatedly loses all
	// of its members and the bounded reseeding budget is exhausted.
	ErrDegenerateCluster = errors.New("cluster lost all members and reseeding failed")

	// ErrGeometryMismatch is returned when an assignment does not cover the
	// grid it is being scattered back into.
	ErrGeometryMismatch = errors.New("sample count does not match image geometry")
)
