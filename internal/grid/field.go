package grid

import (
	"fmt"
	"math"

	"github.com/vuthalab/biot-savart/internal/geometry"
)

// Component selects which quantity of the field vector to extract.
type Component int

const (
	Bx Component = iota
	By
	Bz
	Magnitude
)

func (c Component) String() string {
	switch c {
	case Bx:
		return "bx"
	case By:
		return "by"
	case Bz:
		return "bz"
	case Magnitude:
		return "|b|"
	}
	return "?"
}

// ParseComponent maps "bx"/"by"/"bz"/"mag" to a Component.
func ParseComponent(s string) (Component, bool) {
	switch s {
	case "bx", "x":
		return Bx, true
	case "by", "y":
		return By, true
	case "bz", "z":
		return Bz, true
	case "mag", "norm", "|b|":
		return Magnitude, true
	}
	return Bx, false
}

// Field is a dense vector field sampled on a Grid. Data holds
// Nx*Ny*Nz*3 values in tesla, the three components of the vector at
// lattice index (i, j, k) stored contiguously at offset
// ((i*Ny+j)*Nz+k)*3.
type Field struct {
	Grid *Grid
	Data []float64
}

// NewField allocates a zero field over g.
func NewField(g *Grid) *Field {
	return &Field{Grid: g, Data: make([]float64, g.Points()*3)}
}

func (f *Field) offset(i, j, k int) int {
	return ((i*f.Grid.Ny+j)*f.Grid.Nz + k) * 3
}

// At returns the field vector at lattice index (i, j, k).
func (f *Field) At(i, j, k int) geometry.Vec3 {
	o := f.offset(i, j, k)
	return geometry.Vec3{X: f.Data[o], Y: f.Data[o+1], Z: f.Data[o+2]}
}

// SetAt stores the field vector at lattice index (i, j, k).
func (f *Field) SetAt(i, j, k int, v geometry.Vec3) {
	o := f.offset(i, j, k)
	f.Data[o], f.Data[o+1], f.Data[o+2] = v.X, v.Y, v.Z
}

// Add accumulates another field into f element-wise. This is linear
// superposition and is only meaningful for fields solved over the
// identical grid; a shape mismatch fails with ErrShapeMismatch.
func (f *Field) Add(o *Field) error {
	if !f.Grid.SameShape(o.Grid) {
		return fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d", ErrShapeMismatch,
			f.Grid.Nx, f.Grid.Ny, f.Grid.Nz, o.Grid.Nx, o.Grid.Ny, o.Grid.Nz)
	}
	for i, v := range o.Data {
		f.Data[i] += v
	}
	return nil
}

// Scale multiplies every vector in the field by factor.
func (f *Field) Scale(factor float64) {
	for i := range f.Data {
		f.Data[i] *= factor
	}
}

// IsFinite reports whether the field is free of NaN and Inf samples.
func (f *Field) IsFinite() bool {
	for _, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MaxNorm returns the largest vector magnitude in the field.
func (f *Field) MaxNorm() float64 {
	max := 0.0
	for i := 0; i+2 < len(f.Data); i += 3 {
		n := math.Sqrt(f.Data[i]*f.Data[i] + f.Data[i+1]*f.Data[i+1] + f.Data[i+2]*f.Data[i+2])
		if n > max {
			max = n
		}
	}
	return max
}

func (f *Field) component(i, j, k int, c Component) float64 {
	v := f.At(i, j, k)
	switch c {
	case Bx:
		return v.X
	case By:
		return v.Y
	case Bz:
		return v.Z
	default:
		return v.Norm()
	}
}

// Slice extracts a 2D plane of one field component, fixing the given
// axis at lattice index idx. Rows run along the first remaining axis,
// columns along the second, in x, y, z order.
func (f *Field) Slice(axis geometry.Axis, idx int, c Component) ([][]float64, error) {
	g := f.Grid
	var limit int
	switch axis {
	case geometry.AxisX:
		limit = g.Nx
	case geometry.AxisY:
		limit = g.Ny
	default:
		limit = g.Nz
	}
	if idx < 0 || idx >= limit {
		return nil, fmt.Errorf("%w: slice index %d on axis %s (0..%d)", ErrOutOfBounds, idx, axis, limit-1)
	}

	switch axis {
	case geometry.AxisX:
		plane := make([][]float64, g.Ny)
		for j := 0; j < g.Ny; j++ {
			plane[j] = make([]float64, g.Nz)
			for k := 0; k < g.Nz; k++ {
				plane[j][k] = f.component(idx, j, k, c)
			}
		}
		return plane, nil
	case geometry.AxisY:
		plane := make([][]float64, g.Nx)
		for i := 0; i < g.Nx; i++ {
			plane[i] = make([]float64, g.Nz)
			for k := 0; k < g.Nz; k++ {
				plane[i][k] = f.component(i, idx, k, c)
			}
		}
		return plane, nil
	default:
		plane := make([][]float64, g.Nx)
		for i := 0; i < g.Nx; i++ {
			plane[i] = make([]float64, g.Ny)
			for j := 0; j < g.Ny; j++ {
				plane[i][j] = f.component(i, j, idx, c)
			}
		}
		return plane, nil
	}
}
