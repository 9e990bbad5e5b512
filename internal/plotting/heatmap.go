// Package plotting renders field slices to image files with gonum/plot.
package plotting

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
)

// sliceGrid adapts one extracted field plane to plotter.GridXYZ. The
// first in-plane axis runs horizontally.
type sliceGrid struct {
	us, vs []float64
	plane  [][]float64
}

func (s sliceGrid) Dims() (c, r int)   { return len(s.us), len(s.vs) }
func (s sliceGrid) Z(c, r int) float64 { return s.plane[c][r] }
func (s sliceGrid) X(c int) float64    { return s.us[c] }
func (s sliceGrid) Y(r int) float64    { return s.vs[r] }

func planeAxes(g *grid.Grid, axis geometry.Axis) (us, vs []float64, uName, vName string) {
	switch axis {
	case geometry.AxisX:
		return g.Ys, g.Zs, "y [cm]", "z [cm]"
	case geometry.AxisY:
		return g.Xs, g.Zs, "x [cm]", "z [cm]"
	default:
		return g.Xs, g.Ys, "x [cm]", "y [cm]"
	}
}

// SavePNG writes a heatmap of one field component over the plane
// fixing axis at lattice index idx.
func SavePNG(path string, f *grid.Field, axis geometry.Axis, idx int, comp grid.Component) error {
	plane, err := f.Slice(axis, idx, comp)
	if err != nil {
		return err
	}
	us, vs, uName, vName := planeAxes(f.Grid, axis)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s, %s slice %d", comp, axis, idx)
	p.X.Label.Text = uName
	p.Y.Label.Text = vName

	pal := moreland.SmoothBlueRed().Palette(255)
	p.Add(plotter.NewHeatMap(sliceGrid{us: us, vs: vs, plane: plane}, pal))

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
