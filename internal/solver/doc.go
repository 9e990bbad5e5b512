// Package solver computes the static magnetic field of a
// current-carrying wire by numerical integration of the Biot-Savart
// law.
//
// A wire path is discretized twice, at a target subsegment length h
// and at h/2, each subsegment contributing
//
//	dB = (mu0/4pi) * I * dl x (r - p) / |r - p|^3
//
// at every grid point. The two midpoint-rule estimates carry an O(h^2)
// integration error; the Richardson combination (4*B_half - B_full)/3
// cancels the leading term, giving effectively O(h^4) accuracy without
// further subdivision.
//
// Inputs are centimeters and amperes, output is tesla. The kernel is
// evaluated as a parallel map over the flat grid index space with a
// per-point reduction over elements; evaluation order is not part of
// the contract beyond ordinary floating-point rounding.
package solver
