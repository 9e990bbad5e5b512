package grid

import "errors"

// Domain errors for grid and field operations.
var (
	// ErrInvalidGrid indicates non-positive box dimensions or resolution.
	ErrInvalidGrid = errors.New("grid: invalid grid parameters")

	// ErrShapeMismatch indicates two fields computed over different grids.
	ErrShapeMismatch = errors.New("grid: field shapes do not match")

	// ErrOutOfBounds indicates a lookup coordinate outside the evaluated volume.
	ErrOutOfBounds = errors.New("grid: coordinate outside evaluated volume")
)
