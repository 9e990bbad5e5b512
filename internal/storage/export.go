package storage

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/vuthalab/biot-savart/internal/grid"
)

// ExportCSV writes one row per grid point: position followed by the
// field vector. For handing fields to external plotting tools.
func ExportCSV(w io.Writer, f *grid.Field) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"x", "y", "z", "bx", "by", "bz"}); err != nil {
		return err
	}

	g := f.Grid
	row := make([]string, 6)
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				p := g.Pos(i, j, k)
				b := f.At(i, j, k)
				row[0] = strconv.FormatFloat(p.X, 'g', -1, 64)
				row[1] = strconv.FormatFloat(p.Y, 'g', -1, 64)
				row[2] = strconv.FormatFloat(p.Z, 'g', -1, 64)
				row[3] = strconv.FormatFloat(b.X, 'g', -1, 64)
				row[4] = strconv.FormatFloat(b.Y, 'g', -1, 64)
				row[5] = strconv.FormatFloat(b.Z, 'g', -1, 64)
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
