package solver

import (
	"fmt"
	"math"

	"github.com/vuthalab/biot-savart/internal/geometry"
)

// ElementSet holds the differential current elements of a discretized
// wire as flat arrays: Pos and Dl store x, y, z triples, Cur one
// current per element. The flat layout keeps the kernel a bulk pass
// over contiguous memory.
type ElementSet struct {
	Pos []float64 // 3*N subsegment midpoints, cm
	Dl  []float64 // 3*N displacement vectors, cm
	Cur []float64 // N currents, A
}

// Len returns the number of current elements.
func (e *ElementSet) Len() int {
	return len(e.Cur)
}

// Reverse returns a copy of the set with the element order flipped.
// Summation is associative-commutative up to floating-point rounding,
// so a reversed set must integrate to the same field.
func (e *ElementSet) Reverse() *ElementSet {
	n := e.Len()
	out := &ElementSet{
		Pos: make([]float64, 3*n),
		Dl:  make([]float64, 3*n),
		Cur: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		j := n - 1 - i
		copy(out.Pos[3*i:3*i+3], e.Pos[3*j:3*j+3])
		copy(out.Dl[3*i:3*i+3], e.Dl[3*j:3*j+3])
		out.Cur[i] = e.Cur[j]
	}
	return out
}

func (e *ElementSet) append(mid, dl geometry.Vec3, current float64) {
	e.Pos = append(e.Pos, mid.X, mid.Y, mid.Z)
	e.Dl = append(e.Dl, dl.X, dl.Y, dl.Z)
	e.Cur = append(e.Cur, current)
}

// Merge concatenates other onto e. Solving a merged set directly
// equals superposing the individually solved fields.
func (e *ElementSet) Merge(other *ElementSet) {
	e.Pos = append(e.Pos, other.Pos...)
	e.Dl = append(e.Dl, other.Dl...)
	e.Cur = append(e.Cur, other.Cur...)
}

// Discretize splits every wire segment into subsegments of roughly the
// target spacing. A segment of length L becomes max(1, round(L/spacing))
// equal pieces; each piece carries the parent segment's full current,
// since the same current flows through every subsegment in series.
// Zero-length segments produce a single zero-displacement element,
// which integrates to nothing.
func Discretize(coil geometry.Coil, spacing float64) (*ElementSet, error) {
	if len(coil) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGeometry, len(coil))
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("solver: coil resolution %g must be positive", spacing)
	}

	set := &ElementSet{}
	for s := 0; s+1 < len(coil); s++ {
		from := coil[s]
		seg := coil[s+1].Pos.Sub(from.Pos)
		length := seg.Norm()

		n := int(math.Round(length / spacing))
		if n < 1 {
			n = 1
		}

		dl := seg.Scale(1.0 / float64(n))
		for i := 0; i < n; i++ {
			mid := from.Pos.Add(dl.Scale(float64(i) + 0.5))
			set.append(mid, dl, from.Current)
		}
	}
	return set, nil
}
