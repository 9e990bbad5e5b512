package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
)

// Profile samples one field component along a lattice line through
// (i, j, k) in the direction of axis.
func Profile(f *grid.Field, axis geometry.Axis, i, j, k int, comp grid.Component) []float64 {
	g := f.Grid
	var n int
	switch axis {
	case geometry.AxisX:
		n = g.Nx
	case geometry.AxisY:
		n = g.Ny
	default:
		n = g.Nz
	}

	vals := make([]float64, n)
	for s := 0; s < n; s++ {
		var v geometry.Vec3
		switch axis {
		case geometry.AxisX:
			v = f.At(s, j, k)
		case geometry.AxisY:
			v = f.At(i, s, k)
		default:
			v = f.At(i, j, s)
		}
		switch comp {
		case grid.Bx:
			vals[s] = v.X
		case grid.By:
			vals[s] = v.Y
		case grid.Bz:
			vals[s] = v.Z
		default:
			vals[s] = v.Norm()
		}
	}
	return vals
}

// RenderProfile plots a field component along an axis line as an
// ascii graph.
func RenderProfile(f *grid.Field, axis geometry.Axis, i, j, k int, comp grid.Component, height int) string {
	vals := Profile(f, axis, i, j, k, comp)
	caption := fmt.Sprintf("%s along %s through (%d, %d, %d) [T]", comp, axis, i, j, k)
	return asciigraph.Plot(vals,
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}
