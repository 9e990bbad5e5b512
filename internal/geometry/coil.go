package geometry

// Vertex is one point of a wire path. Current is the current in
// amperes flowing out of this vertex toward the next one; the last
// vertex's current has no outgoing segment and is ignored.
type Vertex struct {
	Pos     Vec3
	Current float64
}

// Coil is an ordered wire path. A coil with fewer than 2 vertices has
// no segments and cannot produce a field.
type Coil []Vertex

// Segments returns the number of wire segments in the path.
func (c Coil) Segments() int {
	if len(c) < 2 {
		return 0
	}
	return len(c) - 1
}

// Length returns the total wire length in centimeters.
func (c Coil) Length() float64 {
	total := 0.0
	for i := 0; i+1 < len(c); i++ {
		total += c[i+1].Pos.Sub(c[i].Pos).Norm()
	}
	return total
}

// ScaleCurrent returns a copy of the coil with every segment current
// multiplied by factor.
func (c Coil) ScaleCurrent(factor float64) Coil {
	out := make(Coil, len(c))
	for i, v := range c {
		out[i] = Vertex{Pos: v.Pos, Current: v.Current * factor}
	}
	return out
}

// Translate returns a copy of the coil shifted by offset.
func (c Coil) Translate(offset Vec3) Coil {
	out := make(Coil, len(c))
	for i, v := range c {
		out[i] = Vertex{Pos: v.Pos.Add(offset), Current: v.Current}
	}
	return out
}
