package shadow

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingReference is returned when the wall, player or plane sink is absent.
	ErrMissingReference = errors.New("missing required scene reference")
	// ErrDegenerateGeometry is returned when a caster or a skew would produce
	// zero-extent, NaN or infinite vertices.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// GeometryError records which operation and plane hit degenerate geometry.
type GeometryError struct {
	Op     string
	Plane  string
	Detail string
	Err    error
}

func (e *GeometryError) Error() string {
	msg := e.Op
	if e.Plane != "" {
		msg += " " + e.Plane
	}
	msg += ": " + e.Err.Error()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *GeometryError) Unwrap() error { return e.Err }

func degenerate(op, plane, format string, args ...any) error {
	return &GeometryError{Op: op, Plane: plane, Detail: fmt.Sprintf(format, args...), Err: ErrDegenerateGeometry}
}

func missing(role string) error {
	return fmt.Errorf("%s: %w", role, ErrMissingReference)
}
