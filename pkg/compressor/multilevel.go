package compressor

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"
)

// DefaultLevels is the palette size sweep used by full-analysis runs.
var DefaultLevels = []int{4, 8, 16, 32, 64, 128}

// LevelPolicy controls how the multi-level driver reacts when one level
// fails. The default is fail-fast: the first error aborts the whole batch.
type LevelPolicy struct {
	// Workers bounds how many levels run concurrently. Zero means one
	// worker per CPU. Each level owns its reconstructed grid, so memory
	// grows with this bound on large images.
	Workers int

	// ContinueOnError skips failing levels instead of aborting the batch.
	ContinueOnError bool
}

// ProcessLevels runs the full pipeline once per requested palette size and
// returns one result per successful level, ordered like the input. Levels
// are independent: they share only the read-only source grid, so they run
// concurrently up to the worker bound. Outputs are written as
// compressed_<k>_colors.png in the output directory.
func (c *Compressor) ProcessLevels(levels []int, policy LevelPolicy) ([]*Result, error) {
	if c.source == nil {
		if err := c.Load(); err != nil {
			return nil, err
		}
	}
	if len(levels) == 0 {
		levels = DefaultLevels
	}

	workers := policy.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(levels) {
		workers = len(levels)
	}

	c.logf("Compressing at %d levels with %d workers...\n", len(levels), workers)

	type levelResult struct {
		idx    int
		result *Result
		err    error
	}
	jobs := make(chan int)
	resultChan := make(chan levelResult)

	// Once a level fails under fail-fast, remaining workers stop picking up
	// new levels; work already in flight still drains through resultChan.
	var failed atomic.Bool

	for w := 0; w < workers; w++ {
		go func() {
			for idx := range jobs {
				if policy.ContinueOnError || !failed.Load() {
					name := fmt.Sprintf("compressed_%d_colors.png", levels[idx])
					res, err := c.compressLevel(levels[idx], filepath.Join(c.params.OutputDir, name))
					if err != nil {
						failed.Store(true)
					}
					resultChan <- levelResult{idx: idx, result: res, err: err}
					continue
				}
				resultChan <- levelResult{idx: idx}
			}
		}()
	}

	go func() {
		for idx := range levels {
			jobs <- idx
		}
		close(jobs)
	}()

	results := make([]*Result, len(levels))
	errs := make([]error, len(levels))
	for range levels {
		res := <-resultChan
		results[res.idx] = res.result
		errs[res.idx] = res.err
	}

	if !policy.ContinueOnError {
		for i, err := range errs {
			if err != nil {
				return nil, fmt.Errorf("level %d failed: %w", levels[i], err)
			}
		}
	}

	ordered := make([]*Result, 0, len(levels))
	for i, res := range results {
		if errs[i] != nil {
			fmt.Printf("Warning: skipping level %d: %v\n", levels[i], errs[i])
			continue
		}
		if res != nil {
			ordered = append(ordered, res)
		}
	}
	if len(ordered) == 0 {
		return nil, fmt.Errorf("all %d levels failed", len(levels))
	}
	return ordered, nil
}
