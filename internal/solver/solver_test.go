package solver_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
	"github.com/vuthalab/biot-savart/internal/solver"
)

// finiteWireField is the closed-form Biot-Savart field of a straight
// finite wire from a to b carrying current I, evaluated at p.
func finiteWireField(a, b, p geometry.Vec3, current float64) geometry.Vec3 {
	u := b.Sub(a).Scale(1 / b.Sub(a).Norm())

	ra := p.Sub(a)
	rb := p.Sub(b)
	cosA := ra.Dot(u) / ra.Norm()
	cosB := rb.Dot(u) / rb.Norm()

	perp := ra.Sub(u.Scale(ra.Dot(u)))
	d := perp.Norm()

	mag := solver.MuOver4Pi * current / d * (cosA - cosB)
	dir := u.Cross(perp.Scale(1 / d))
	return dir.Scale(mag)
}

func segment(a, b geometry.Vec3, current float64) geometry.Coil {
	return geometry.Coil{
		{Pos: a, Current: current},
		{Pos: b},
	}
}

var _ = Describe("Discretize", func() {
	It("fails on degenerate geometry", func() {
		_, err := solver.Discretize(geometry.Coil{{Pos: geometry.Vec3{}}}, 0.5)
		Expect(err).To(MatchError(solver.ErrInvalidGeometry))

		_, err = solver.Discretize(nil, 0.5)
		Expect(err).To(MatchError(solver.ErrInvalidGeometry))
	})

	It("fails on non-positive spacing", func() {
		_, err := solver.Discretize(segment(geometry.Vec3{}, geometry.Vec3{X: 1}, 1), 0)
		Expect(err).To(HaveOccurred())
	})

	It("splits each segment into round(L/spacing) equal pieces", func() {
		coil := segment(geometry.Vec3{}, geometry.Vec3{X: 1}, 2)

		e, err := solver.Discretize(coil, 0.3)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Len()).To(Equal(3))

		for i := 0; i < e.Len(); i++ {
			Expect(e.Dl[3*i]).To(BeNumerically("~", 1.0/3, 1e-12))
			Expect(e.Dl[3*i+1]).To(BeZero())
			Expect(e.Cur[i]).To(Equal(2.0))
		}
		// Midpoints at the center of each third.
		Expect(e.Pos[0]).To(BeNumerically("~", 1.0/6, 1e-12))
		Expect(e.Pos[3]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(e.Pos[6]).To(BeNumerically("~", 5.0/6, 1e-12))
	})

	It("keeps a single element for segments shorter than the spacing", func() {
		coil := segment(geometry.Vec3{}, geometry.Vec3{X: 0.1}, 1)
		e, err := solver.Discretize(coil, 1.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Len()).To(Equal(1))
	})

	It("tolerates zero-length segments", func() {
		coil := geometry.Coil{
			{Pos: geometry.Vec3{X: 1}, Current: 1},
			{Pos: geometry.Vec3{X: 1}, Current: 1},
			{Pos: geometry.Vec3{X: 2}, Current: 1},
		}
		e, err := solver.Discretize(coil, 0.5)
		Expect(err).NotTo(HaveOccurred())

		b, _ := solver.FieldContribution(e, geometry.Vec3{Y: 1})
		Expect(b.IsValid()).To(BeTrue())
	})

	It("retains zero-current segments", func() {
		coil := segment(geometry.Vec3{}, geometry.Vec3{X: 1}, 0)
		e, err := solver.Discretize(coil, 0.25)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Len()).To(Equal(4))

		b, _ := solver.FieldContribution(e, geometry.Vec3{Y: 1})
		Expect(b).To(Equal(geometry.Vec3{}))
	})

	It("ignores the last vertex's current", func() {
		a := segment(geometry.Vec3{}, geometry.Vec3{X: 1}, 1)
		b := geometry.Coil{
			{Pos: geometry.Vec3{}, Current: 1},
			{Pos: geometry.Vec3{X: 1}, Current: 999},
		}

		ea, _ := solver.Discretize(a, 0.25)
		eb, _ := solver.Discretize(b, 0.25)
		Expect(eb.Cur).To(Equal(ea.Cur))
	})
})

var _ = Describe("FieldContribution", func() {
	It("matches the analytic finite-wire field with right-hand orientation", func() {
		a := geometry.Vec3{}
		b := geometry.Vec3{X: 1}
		p := geometry.Vec3{X: 0.5, Y: 1}

		e, err := solver.Discretize(segment(a, b, 1), 0.01)
		Expect(err).NotTo(HaveOccurred())

		got, suppressed := solver.FieldContribution(e, p)
		Expect(suppressed).To(BeZero())

		want := finiteWireField(a, b, p, 1)
		// Current along +x, point on the +y side: field along +z.
		Expect(want.Z).To(BeNumerically(">", 0))
		Expect(got.Z).To(BeNumerically("~", want.Z, math.Abs(want.Z)*1e-3))
		Expect(got.X).To(BeNumerically("~", 0, math.Abs(want.Z)*1e-9))
		Expect(got.Y).To(BeNumerically("~", 0, math.Abs(want.Z)*1e-9))
	})

	It("scales linearly with current", func() {
		coil := segment(geometry.Vec3{}, geometry.Vec3{X: 1}, 1)
		p := geometry.Vec3{X: 0.3, Y: 0.7, Z: -0.2}

		e1, _ := solver.Discretize(coil, 0.1)
		e2, _ := solver.Discretize(coil.ScaleCurrent(2.5), 0.1)

		b1, _ := solver.FieldContribution(e1, p)
		b2, _ := solver.FieldContribution(e2, p)
		Expect(b2.X).To(BeNumerically("~", 2.5*b1.X, 1e-18))
		Expect(b2.Y).To(BeNumerically("~", 2.5*b1.Y, 1e-18))
		Expect(b2.Z).To(BeNumerically("~", 2.5*b1.Z, 1e-18))
	})

	It("is invariant under element order", func() {
		coil := geometry.Coil{
			{Pos: geometry.Vec3{}, Current: 1},
			{Pos: geometry.Vec3{X: 1}, Current: 2},
			{Pos: geometry.Vec3{X: 1, Y: 1}, Current: 0.5},
			{Pos: geometry.Vec3{Z: 1}},
		}
		p := geometry.Vec3{X: 0.4, Y: 2, Z: 0.1}

		e, _ := solver.Discretize(coil, 0.2)
		fwd, _ := solver.FieldContribution(e, p)
		rev, _ := solver.FieldContribution(e.Reverse(), p)

		scale := fwd.Norm()
		Expect(rev.X).To(BeNumerically("~", fwd.X, scale*1e-12))
		Expect(rev.Y).To(BeNumerically("~", fwd.Y, scale*1e-12))
		Expect(rev.Z).To(BeNumerically("~", fwd.Z, scale*1e-12))
	})

	It("suppresses singular samples instead of producing Inf", func() {
		coil := segment(geometry.Vec3{}, geometry.Vec3{X: 1}, 1)
		e, _ := solver.Discretize(coil, 0.5)

		// First element midpoint.
		p := geometry.Vec3{X: e.Pos[0], Y: e.Pos[1], Z: e.Pos[2]}
		b, suppressed := solver.FieldContribution(e, p)
		Expect(suppressed).To(Equal(1))
		Expect(b.IsValid()).To(BeTrue())
	})
})

var _ = Describe("Extrapolate", func() {
	newGrid := func(start, box geometry.Vec3, res float64) *grid.Grid {
		g, err := grid.New(start, box, res)
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	It("rejects mismatched shapes", func() {
		g1 := newGrid(geometry.Vec3{}, geometry.Vec3{X: 1, Y: 1, Z: 1}, 0.5)
		g2 := newGrid(geometry.Vec3{}, geometry.Vec3{X: 2, Y: 1, Z: 1}, 0.5)

		_, err := solver.Extrapolate(grid.NewField(g1), grid.NewField(g2))
		Expect(err).To(MatchError(grid.ErrShapeMismatch))
	})

	It("rejects a missing resolution estimate", func() {
		g := newGrid(geometry.Vec3{}, geometry.Vec3{X: 1, Y: 1, Z: 1}, 0.5)
		_, err := solver.Extrapolate(grid.NewField(g), nil)
		Expect(err).To(MatchError(grid.ErrShapeMismatch))
	})

	It("combines the two estimates as (4*half - full)/3", func() {
		g := newGrid(geometry.Vec3{}, geometry.Vec3{X: 1, Y: 1, Z: 1}, 1)
		full := grid.NewField(g)
		half := grid.NewField(g)
		full.Data[0] = 1
		half.Data[0] = 2

		out, err := solver.Extrapolate(full, half)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Data[0]).To(BeNumerically("~", 7.0/3, 1e-15))
	})

	It("beats the coarse-only estimate against the analytic field", func() {
		a := geometry.Vec3{X: -5}
		b := geometry.Vec3{X: 5}
		p := geometry.Vec3{Y: 2}
		want := finiteWireField(a, b, p, 2).Z
		coil := segment(a, b, 2)

		coarseErr := func(h float64) float64 {
			e, err := solver.Discretize(coil, h)
			Expect(err).NotTo(HaveOccurred())
			got, _ := solver.FieldContribution(e, p)
			return math.Abs(got.Z - want)
		}
		extrapErr := func(h float64) float64 {
			g := newGrid(geometry.Vec3{Y: 2}, geometry.Vec3{X: 1, Y: 1, Z: 1}, 1)
			s := &solver.Solver{CoilResolution: h, Workers: 2}
			res, err := s.Solve(context.Background(), coil, g)
			Expect(err).NotTo(HaveOccurred())
			return math.Abs(res.Field.At(0, 0, 0).Z - want)
		}

		Expect(extrapErr(1.0)).To(BeNumerically("<", coarseErr(1.0)/5))
		// Error shrinks asymptotically faster than the O(h^2) estimate.
		Expect(extrapErr(0.5)).To(BeNumerically("<", extrapErr(1.0)/4))
		Expect(coarseErr(0.5)).To(BeNumerically("<", coarseErr(1.0)/2))
	})
})

var _ = Describe("Solve", func() {
	newGrid := func(start, box geometry.Vec3, res float64) *grid.Grid {
		g, err := grid.New(start, box, res)
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	It("reproduces the straight-segment reference scenario", func() {
		a := geometry.Vec3{}
		b := geometry.Vec3{X: 1}
		coil := segment(a, b, 1)

		g := newGrid(geometry.Vec3{X: 0.5, Y: 1}, geometry.Vec3{X: 1, Y: 1, Z: 1}, 0.5)
		s := solver.New(0.1)
		res, err := s.Solve(context.Background(), coil, g)
		Expect(err).NotTo(HaveOccurred())

		got := res.Field.At(0, 0, 0)
		want := finiteWireField(a, b, geometry.Vec3{X: 0.5, Y: 1}, 1)
		Expect(got.Z).To(BeNumerically("~", want.Z, math.Abs(want.Z)*1e-4))
		Expect(math.Abs(got.X)).To(BeNumerically("<", math.Abs(want.Z)*1e-9))
		Expect(math.Abs(got.Y)).To(BeNumerically("<", math.Abs(want.Z)*1e-9))
	})

	It("fails with degenerate geometry before any numeric work", func() {
		g := newGrid(geometry.Vec3{}, geometry.Vec3{X: 1, Y: 1, Z: 1}, 0.5)
		_, err := solver.New(0.1).Solve(context.Background(), geometry.Coil{{}}, g)
		Expect(err).To(MatchError(solver.ErrInvalidGeometry))
	})

	It("scales the whole field linearly with current", func() {
		coil := geometry.Coil{
			{Pos: geometry.Vec3{}, Current: 1},
			{Pos: geometry.Vec3{X: 2}, Current: 1},
			{Pos: geometry.Vec3{X: 2, Y: 2}},
		}
		g := newGrid(geometry.Vec3{X: -1, Y: -1, Z: 0.5}, geometry.Vec3{X: 2, Y: 2, Z: 1}, 1)
		s := solver.New(0.25)

		base, err := s.Solve(context.Background(), coil, g)
		Expect(err).NotTo(HaveOccurred())
		scaled, err := s.Solve(context.Background(), coil.ScaleCurrent(3), g)
		Expect(err).NotTo(HaveOccurred())

		ref := base.Field.MaxNorm()
		for i := range base.Field.Data {
			Expect(scaled.Field.Data[i]).To(BeNumerically("~", 3*base.Field.Data[i], ref*1e-12))
		}
	})

	It("superposes like the union of the current elements", func() {
		c1 := segment(geometry.Vec3{Z: 1}, geometry.Vec3{X: 1, Z: 1}, 1)
		c2 := segment(geometry.Vec3{Z: -1}, geometry.Vec3{Y: 1, Z: -1}, -2)

		// The same two wires as one path, joined by a dead segment.
		union := geometry.Coil{
			{Pos: c1[0].Pos, Current: 1},
			{Pos: c1[1].Pos, Current: 0},
			{Pos: c2[0].Pos, Current: -2},
			{Pos: c2[1].Pos},
		}

		g := newGrid(geometry.Vec3{X: -1, Y: -1, Z: -0.5}, geometry.Vec3{X: 2, Y: 2, Z: 1}, 0.5)
		s := solver.New(0.2)

		f1, err := s.Solve(context.Background(), c1, g)
		Expect(err).NotTo(HaveOccurred())
		f2, err := s.Solve(context.Background(), c2, g)
		Expect(err).NotTo(HaveOccurred())
		Expect(f1.Field.Add(f2.Field)).To(Succeed())

		direct, err := s.Solve(context.Background(), union, g)
		Expect(err).NotTo(HaveOccurred())

		ref := direct.Field.MaxNorm()
		for i := range direct.Field.Data {
			Expect(f1.Field.Data[i]).To(BeNumerically("~", direct.Field.Data[i], ref*1e-12))
		}
	})

	It("solves multiple coils concurrently to the same superposed field", func() {
		c1 := segment(geometry.Vec3{Z: 1}, geometry.Vec3{X: 1, Z: 1}, 1)
		c2 := segment(geometry.Vec3{Z: -1}, geometry.Vec3{Y: 1, Z: -1}, 2)

		g := newGrid(geometry.Vec3{X: -1, Y: -1, Z: -0.5}, geometry.Vec3{X: 2, Y: 2, Z: 1}, 0.5)
		s := solver.New(0.2)

		f1, err := s.Solve(context.Background(), c1, g)
		Expect(err).NotTo(HaveOccurred())
		f2, err := s.Solve(context.Background(), c2, g)
		Expect(err).NotTo(HaveOccurred())
		Expect(f1.Field.Add(f2.Field)).To(Succeed())

		all, err := s.SolveAll(context.Background(), []geometry.Coil{c1, c2}, g)
		Expect(err).NotTo(HaveOccurred())

		ref := all.Field.MaxNorm()
		for i := range all.Field.Data {
			Expect(all.Field.Data[i]).To(BeNumerically("~", f1.Field.Data[i], ref*1e-12))
		}
	})

	It("keeps the array finite when the grid lands on the wire", func() {
		// Coarse spacing 0.5 over a unit segment puts element midpoints
		// at x=0.25 and x=0.75, both grid points at resolution 0.25.
		coil := segment(geometry.Vec3{}, geometry.Vec3{X: 1}, 1)
		g := newGrid(geometry.Vec3{}, geometry.Vec3{X: 1, Y: 1, Z: 1}, 0.25)

		res, err := solver.New(0.5).Solve(context.Background(), coil, g)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Field.IsFinite()).To(BeTrue())
		Expect(res.Stats.Suppressed).To(BeNumerically(">=", 1))
	})

	It("matches the analytic on-axis field of a circular loop", func() {
		const (
			radius   = 5.0
			current  = 1.5
			segments = 120
		)
		loop := make(geometry.Coil, segments+1)
		for i := 0; i <= segments; i++ {
			theta := 2 * math.Pi * float64(i) / segments
			loop[i] = geometry.Vertex{
				Pos:     geometry.Vec3{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)},
				Current: current,
			}
		}

		g := newGrid(geometry.Vec3{Z: -2}, geometry.Vec3{X: 1, Y: 1, Z: 4}, 1)
		res, err := solver.New(0.25).Solve(context.Background(), loop, g)
		Expect(err).NotTo(HaveOccurred())

		for k := 0; k < g.Nz; k++ {
			z := g.Zs[k]
			want := solver.MuOver4Pi * 2 * math.Pi * radius * radius * current /
				math.Pow(radius*radius+z*z, 1.5)
			got := res.Field.At(0, 0, k)
			Expect(got.Z).To(BeNumerically("~", want, want*5e-3))
		}
	})

	It("honors context cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		coil := segment(geometry.Vec3{}, geometry.Vec3{X: 1}, 1)
		g := newGrid(geometry.Vec3{}, geometry.Vec3{X: 1, Y: 1, Z: 1}, 0.5)
		_, err := solver.New(0.1).Solve(ctx, coil, g)
		Expect(err).To(MatchError(context.Canceled))
	})
})
