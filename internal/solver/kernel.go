package solver

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
)

// MuOver4Pi is mu0/4pi in T*cm/A, so positions in centimeters and
// currents in amperes yield tesla directly. Fixed at initialization;
// vacuum permeability never changes during a run.
const MuOver4Pi = 1e-5

// singularEps2 is the squared distance below which a grid point is
// considered to sit on the wire. Such samples are physically singular
// and their contribution is suppressed rather than propagated as Inf.
const singularEps2 = 1e-18

// FieldContribution sums the Biot-Savart contribution of every element
// at a single point. The second return value counts suppressed
// singular element-point pairs.
func FieldContribution(e *ElementSet, p geometry.Vec3) (geometry.Vec3, int) {
	var bx, by, bz float64
	suppressed := 0

	for i := 0; i < e.Len(); i++ {
		rx := p.X - e.Pos[3*i]
		ry := p.Y - e.Pos[3*i+1]
		rz := p.Z - e.Pos[3*i+2]

		r2 := rx*rx + ry*ry + rz*rz
		if r2 < singularEps2 {
			suppressed++
			continue
		}
		inv3 := 1.0 / (r2 * math.Sqrt(r2))

		dlx := e.Dl[3*i]
		dly := e.Dl[3*i+1]
		dlz := e.Dl[3*i+2]

		scale := MuOver4Pi * e.Cur[i] * inv3
		bx += scale * (dly*rz - dlz*ry)
		by += scale * (dlz*rx - dlx*rz)
		bz += scale * (dlx*ry - dly*rx)
	}

	return geometry.Vec3{X: bx, Y: by, Z: bz}, suppressed
}

// minChunk is the smallest per-worker share of grid points worth a
// goroutine.
const minChunk = 64

// evaluate maps FieldContribution over the whole lattice, chunked
// across workers on the flat point index space. Each worker writes a
// disjoint range of the output, so the only shared state is the
// suppressed-sample counter.
func evaluate(ctx context.Context, e *ElementSet, g *grid.Grid, workers int) (*grid.Field, int64, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	n := g.Points()
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	field := grid.NewField(g)
	var suppressed atomic.Int64

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}

		go func(start, end int) {
			defer wg.Done()
			local := int64(0)
			for idx := start; idx < end; idx++ {
				if idx%1024 == 0 && ctx.Err() != nil {
					return
				}
				i := idx / (g.Ny * g.Nz)
				rem := idx % (g.Ny * g.Nz)
				j := rem / g.Nz
				k := rem % g.Nz

				b, s := FieldContribution(e, g.Pos(i, j, k))
				local += int64(s)
				field.Data[idx*3] = b.X
				field.Data[idx*3+1] = b.Y
				field.Data[idx*3+2] = b.Z
			}
			suppressed.Add(local)
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return field, suppressed.Load(), nil
}
