package grid

import (
	"fmt"
	"math"

	"github.com/vuthalab/biot-savart/internal/geometry"
)

// NearestIndex maps a physical coordinate to the nearest lattice
// index. Coordinates whose nearest index falls outside the volume fail
// with ErrOutOfBounds.
func (g *Grid) NearestIndex(p geometry.Vec3) (i, j, k int, err error) {
	i = nearest(p.X, g.Start.X, g.Resolution)
	j = nearest(p.Y, g.Start.Y, g.Resolution)
	k = nearest(p.Z, g.Start.Z, g.Resolution)
	if i < 0 || i >= g.Nx || j < 0 || j >= g.Ny || k < 0 || k >= g.Nz {
		return 0, 0, 0, fmt.Errorf("%w: point %+v maps to index (%d, %d, %d)", ErrOutOfBounds, p, i, j, k)
	}
	return i, j, k, nil
}

func nearest(coord, start, res float64) int {
	return int(math.Round((coord - start) / res))
}

func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// VectorAt returns the stored field vector nearest to the physical
// coordinate p. Out-of-box coordinates fail with ErrOutOfBounds; a
// silently clamped answer would misrepresent the queried location.
func (f *Field) VectorAt(p geometry.Vec3) (geometry.Vec3, error) {
	i, j, k, err := f.Grid.NearestIndex(p)
	if err != nil {
		return geometry.Vec3{}, err
	}
	return f.At(i, j, k), nil
}

// VectorAtClamped is the explicit opt-in variant of VectorAt: indices
// are clamped to the volume edge instead of failing.
func (f *Field) VectorAtClamped(p geometry.Vec3) geometry.Vec3 {
	g := f.Grid
	i := clampIndex(nearest(p.X, g.Start.X, g.Resolution), g.Nx)
	j := clampIndex(nearest(p.Y, g.Start.Y, g.Resolution), g.Ny)
	k := clampIndex(nearest(p.Z, g.Start.Z, g.Resolution), g.Nz)
	return f.At(i, j, k)
}
