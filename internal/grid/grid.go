package grid

import (
	"fmt"
	"math"

	"github.com/vuthalab/biot-savart/internal/geometry"
)

// Grid is a regular axis-aligned lattice of sample points covering a
// rectangular volume. Units are centimeters.
//
// The point count along each axis is round(box/resolution)+1 and the
// samples run from Start to Start+Box inclusive, so the point at index
// (i, j, k) sits at Start + (i, j, k)*Resolution when box dimensions
// are whole multiples of the resolution.
type Grid struct {
	Start      geometry.Vec3
	Box        geometry.Vec3
	Resolution float64

	Nx, Ny, Nz int
	Xs, Ys, Zs []float64
}

// New builds the evaluation grid. Non-positive box dimensions or
// resolution fail with ErrInvalidGrid.
func New(start, box geometry.Vec3, resolution float64) (*Grid, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: resolution %g must be positive", ErrInvalidGrid, resolution)
	}
	if box.X <= 0 || box.Y <= 0 || box.Z <= 0 {
		return nil, fmt.Errorf("%w: box size %+v must be positive in every axis", ErrInvalidGrid, box)
	}

	g := &Grid{Start: start, Box: box, Resolution: resolution}
	g.Nx, g.Xs = linspace(start.X, box.X, resolution)
	g.Ny, g.Ys = linspace(start.Y, box.Y, resolution)
	g.Nz, g.Zs = linspace(start.Z, box.Z, resolution)
	return g, nil
}

// linspace samples [start, start+span] inclusive with round(span/res)+1
// evenly spaced points. Endpoint-inclusive on purpose: increasing the
// resolution must not drift the final sample off the box boundary.
func linspace(start, span, res float64) (int, []float64) {
	n := int(math.Round(span/res)) + 1
	pts := make([]float64, n)
	if n == 1 {
		pts[0] = start
		return n, pts
	}
	step := span / float64(n-1)
	for i := range pts {
		pts[i] = start + float64(i)*step
	}
	pts[n-1] = start + span
	return n, pts
}

// Points returns the total number of lattice points.
func (g *Grid) Points() int {
	return g.Nx * g.Ny * g.Nz
}

// Pos returns the physical position of lattice index (i, j, k).
func (g *Grid) Pos(i, j, k int) geometry.Vec3 {
	return geometry.Vec3{X: g.Xs[i], Y: g.Ys[j], Z: g.Zs[k]}
}

// SameShape reports whether two grids define the identical lattice.
// Fields from grids that differ in shape, offset, or resolution must
// not be combined.
func (g *Grid) SameShape(o *Grid) bool {
	return g.Nx == o.Nx && g.Ny == o.Ny && g.Nz == o.Nz &&
		g.Start == o.Start && g.Resolution == o.Resolution
}
