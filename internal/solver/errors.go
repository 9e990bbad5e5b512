package solver

import "errors"

// Domain errors for solve operations. Structural problems are detected
// before any numeric work begins; a failed solve returns no partial
// field.
var (
	// ErrInvalidGeometry indicates a degenerate wire path (fewer than 2 vertices).
	ErrInvalidGeometry = errors.New("solver: wire geometry needs at least 2 vertices")
)
