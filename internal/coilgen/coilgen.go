// Package coilgen builds the canonical coil shapes the tool ships:
// axis-aligned rectangles, polygonal circular loops, and Helmholtz /
// anti-Helmholtz pairs. Dimensions are centimeters, currents amperes.
package coilgen

import (
	"math"

	"github.com/vuthalab/biot-savart/internal/geometry"
)

// basis returns two unit vectors spanning the plane normal to axis,
// ordered so that (u, v, normal) is right-handed.
func basis(normal geometry.Axis) (u, v geometry.Vec3) {
	switch normal {
	case geometry.AxisX:
		return geometry.Vec3{Y: 1}, geometry.Vec3{Z: 1}
	case geometry.AxisY:
		return geometry.Vec3{Z: 1}, geometry.Vec3{X: 1}
	default:
		return geometry.Vec3{X: 1}, geometry.Vec3{Y: 1}
	}
}

func axisVec(a geometry.Axis) geometry.Vec3 {
	switch a {
	case geometry.AxisX:
		return geometry.Vec3{X: 1}
	case geometry.AxisY:
		return geometry.Vec3{Y: 1}
	default:
		return geometry.Vec3{Z: 1}
	}
}

// Rectangle builds a closed rectangular loop of the given side lengths
// centered on center, lying in the plane normal to the given axis.
// Positive current circulates counterclockwise when viewed from the
// positive side of the normal, producing a field along +normal at the
// center.
func Rectangle(center geometry.Vec3, width, height float64, normal geometry.Axis, current float64) geometry.Coil {
	u, v := basis(normal)
	hw, hh := width/2, height/2

	corners := []geometry.Vec3{
		center.Add(u.Scale(hw)).Add(v.Scale(hh)),
		center.Add(u.Scale(-hw)).Add(v.Scale(hh)),
		center.Add(u.Scale(-hw)).Add(v.Scale(-hh)),
		center.Add(u.Scale(hw)).Add(v.Scale(-hh)),
	}

	coil := make(geometry.Coil, 0, 5)
	for _, c := range corners {
		coil = append(coil, geometry.Vertex{Pos: c, Current: current})
	}
	coil = append(coil, geometry.Vertex{Pos: corners[0], Current: current})
	return coil
}

// Loop builds a closed polygonal approximation of a circular loop of
// the given radius, centered on center in the plane normal to axis.
// More segments approximate the circle more closely.
func Loop(center geometry.Vec3, radius float64, normal geometry.Axis, current float64, segments int) geometry.Coil {
	if segments < 3 {
		segments = 3
	}
	u, v := basis(normal)

	coil := make(geometry.Coil, segments+1)
	for i := 0; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		p := center.
			Add(u.Scale(radius * math.Cos(theta))).
			Add(v.Scale(radius * math.Sin(theta)))
		coil[i] = geometry.Vertex{Pos: p, Current: current}
	}
	return coil
}

// HelmholtzPair builds two coaxial circular loops of the given radius,
// separated by spacing along the axis and centered about center, both
// carrying the same current. With spacing equal to the radius the
// field between them is nearly uniform.
func HelmholtzPair(center geometry.Vec3, radius, spacing float64, axis geometry.Axis, current float64, segments int) (geometry.Coil, geometry.Coil) {
	offset := axisVec(axis).Scale(spacing / 2)
	a := Loop(center.Sub(offset), radius, axis, current, segments)
	b := Loop(center.Add(offset), radius, axis, current, segments)
	return a, b
}

// AntiHelmholtzPair is HelmholtzPair with the second loop's current
// reversed, giving a near-linear gradient and zero field at the
// center.
func AntiHelmholtzPair(center geometry.Vec3, radius, spacing float64, axis geometry.Axis, current float64, segments int) (geometry.Coil, geometry.Coil) {
	offset := axisVec(axis).Scale(spacing / 2)
	a := Loop(center.Sub(offset), radius, axis, current, segments)
	b := Loop(center.Add(offset), radius, axis, -current, segments)
	return a, b
}
