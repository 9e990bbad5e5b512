package solver

import (
	"fmt"

	"github.com/vuthalab/biot-savart/internal/grid"
)

// Extrapolate combines the full-step estimate (step h) with the
// half-step estimate (step h/2) of the same solve:
//
//	B = (4*B_half - B_full) / 3
//
// cancelling the leading O(h^2) midpoint-rule error term. Both inputs
// must come from the identical grid and wire geometry; mismatched
// shapes are a programming error, never silently reduced to the
// coarse-only estimate.
func Extrapolate(full, half *grid.Field) (*grid.Field, error) {
	if full == nil || half == nil {
		return nil, fmt.Errorf("%w: missing resolution estimate", grid.ErrShapeMismatch)
	}
	if !full.Grid.SameShape(half.Grid) {
		return nil, fmt.Errorf("%w: full %dx%dx%d, half %dx%dx%d", grid.ErrShapeMismatch,
			full.Grid.Nx, full.Grid.Ny, full.Grid.Nz,
			half.Grid.Nx, half.Grid.Ny, half.Grid.Nz)
	}

	out := grid.NewField(full.Grid)
	for i := range out.Data {
		out.Data[i] = (4*half.Data[i] - full.Data[i]) / 3
	}
	return out, nil
}
