// Package viz renders field slices and profiles for the terminal.
package viz

import (
	"fmt"
	"strings"

	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
)

// normalize maps v into [0, 1] over [lo, hi].
func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	t := (v - lo) / (hi - lo)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func planeRange(plane [][]float64) (lo, hi float64) {
	lo, hi = plane[0][0], plane[0][0]
	for _, row := range plane {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

func cell(t float64) string {
	style := ramp[int(t*float64(len(ramp)-1))]
	shade := shades[int(t*float64(len(shades)-1))]
	return style.Render(string(shade) + string(shade))
}

// RenderSlice draws one plane of the field as a colored terminal
// heatmap with a min/max legend. Rows are printed with the second
// in-plane axis increasing to the right and the first increasing
// downward.
func RenderSlice(f *grid.Field, axis geometry.Axis, idx int, comp grid.Component) (string, error) {
	plane, err := f.Slice(axis, idx, comp)
	if err != nil {
		return "", err
	}
	lo, hi := planeRange(plane)

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%s slice %s=%d", comp, axis, idx)))
	b.WriteByte('\n')
	for _, row := range plane {
		for _, v := range row {
			b.WriteString(cell(normalize(v, lo, hi)))
		}
		b.WriteByte('\n')
	}
	b.WriteString(LabelStyle.Render("min"))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%.4g T", lo)))
	b.WriteByte('\n')
	b.WriteString(LabelStyle.Render("max"))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%.4g T", hi)))
	b.WriteByte('\n')
	return b.String(), nil
}
