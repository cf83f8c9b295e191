package geometry

import (
	"errors"
	"fmt"
)

// Sentinel geometry failures.
var (
	ErrInsufficientAtoms = errors.New("fewer than four atoms available to define a dihedral")
	ErrNaNInput          = errors.New("NaN in angle or coordinate input")
	ErrMaskLength        = errors.New("mask length does not match sequence length")
)

// GeometryError reports a malformed angle or coordinate input. It fails
// the single structure being processed; batch-level callers isolate it
// per sequence rather than aborting the run.
//
//nolint:revive // GeometryError is clearer than Error at call sites
type GeometryError struct {
	Op      string // operation that failed (e.g. "AnglesToBackbone")
	Residue int    // residue index involved, -1 if not applicable
	Err     error  // underlying cause
}

// Error implements the error interface.
func (e *GeometryError) Error() string {
	if e.Residue >= 0 {
		return fmt.Sprintf("geometry: %s: residue %d: %v", e.Op, e.Residue, e.Err)
	}
	return fmt.Sprintf("geometry: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause for errors.Is / errors.As.
func (e *GeometryError) Unwrap() error { return e.Err }
