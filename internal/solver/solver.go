package solver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
)

// Solver runs the two-resolution Biot-Savart integration for a wire
// geometry over an evaluation grid. A Solver is stateless between
// calls; concurrent Solve calls are safe.
type Solver struct {
	// CoilResolution is the target subsegment length in cm for the
	// full-step pass; the half-step pass uses CoilResolution/2.
	CoilResolution float64

	// Workers bounds the kernel's goroutine fan-out. Zero means
	// runtime.NumCPU().
	Workers int
}

// New returns a solver with the given target subsegment length.
func New(coilResolution float64) *Solver {
	return &Solver{CoilResolution: coilResolution}
}

// Stats describes one solve.
type Stats struct {
	CoarseElements int
	FineElements   int
	// Suppressed counts element-point pairs skipped because the grid
	// point coincided with a current element. Non-fatal.
	Suppressed int64
	Elapsed    time.Duration
}

// Result is a solved field plus its solve statistics.
type Result struct {
	Field *grid.Field
	Stats Stats
}

// Solve computes the extrapolated field of one coil. Structural errors
// (degenerate geometry, bad resolution) abort before any numeric work;
// no partial field is ever returned.
func (s *Solver) Solve(ctx context.Context, coil geometry.Coil, g *grid.Grid) (*Result, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", grid.ErrInvalidGrid)
	}

	coarse, err := Discretize(coil, s.CoilResolution)
	if err != nil {
		return nil, err
	}
	fine, err := Discretize(coil, s.CoilResolution/2)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	full, supFull, err := evaluate(ctx, coarse, g, s.Workers)
	if err != nil {
		return nil, err
	}
	half, supHalf, err := evaluate(ctx, fine, g, s.Workers)
	if err != nil {
		return nil, err
	}

	field, err := Extrapolate(full, half)
	if err != nil {
		return nil, err
	}

	return &Result{
		Field: field,
		Stats: Stats{
			CoarseElements: coarse.Len(),
			FineElements:   fine.Len(),
			Suppressed:     supFull + supHalf,
			Elapsed:        time.Since(start),
		},
	}, nil
}

// SolveAll solves several coils concurrently over the same grid and
// superposes the results. The Biot-Savart law is linear in current, so
// plain element-wise addition is exact.
func (s *Solver) SolveAll(ctx context.Context, coils []geometry.Coil, g *grid.Grid) (*Result, error) {
	if len(coils) == 0 {
		return nil, fmt.Errorf("%w: no coils", ErrInvalidGeometry)
	}

	start := time.Now()
	results := make([]*Result, len(coils))
	errs := make([]error, len(coils))

	var wg sync.WaitGroup
	for i := range coils {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = s.Solve(ctx, coils[idx], g)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	total := results[0]
	for _, r := range results[1:] {
		if err := total.Field.Add(r.Field); err != nil {
			return nil, err
		}
		total.Stats.CoarseElements += r.Stats.CoarseElements
		total.Stats.FineElements += r.Stats.FineElements
		total.Stats.Suppressed += r.Stats.Suppressed
	}
	total.Stats.Elapsed = time.Since(start)
	return total, nil
}
