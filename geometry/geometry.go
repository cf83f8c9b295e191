// Copyright 2025 The foldingdiff-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package geometry provides the public API for converting between
// backbone internal coordinates and 3D Cartesian coordinates.
//
// Example:
//
//	bb, err := geometry.AnglesToBackbone(seq, nil) // idealized geometry
//	seq2, err := geometry.BackboneToAngles(bb, angle.Torsions, nil)
package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/geometry"
)

// Dihedral returns the torsion angle of the bond b-c defined by four
// consecutive atoms, in [-pi, pi).
func Dihedral(a, b, c, d r3.Vec) float64 { return geometry.Dihedral(a, b, c, d) }

// BondAngle returns the angle at b formed by atoms a, b, c, in [0, pi].
func BondAngle(a, b, c r3.Vec) float64 { return geometry.BondAngle(a, b, c) }

// PlaceDihedral places the fourth atom of a dihedral given bond angle,
// bond length and torsion (NeRF placement).
func PlaceDihedral(a, b, c r3.Vec, bondAngle, bondLength, torsion float64) r3.Vec {
	return geometry.PlaceDihedral(a, b, c, bondAngle, bondLength, torsion)
}

// Geometry holds the fixed bond lengths and idealized bond angles used
// during reconstruction.
type Geometry = geometry.Geometry

// Default returns the canonical idealized backbone geometry.
func Default() *Geometry { return geometry.Default() }

// Backbone holds reconstructed backbone atom positions per residue.
type Backbone = geometry.Backbone

// AnglesToBackbone reconstructs Cartesian coordinates from an angle
// sequence by sequential NeRF placement. Deterministic for identical
// inputs.
func AnglesToBackbone(seq *angle.Sequence, g *Geometry) (*Backbone, error) {
	return geometry.AnglesToBackbone(seq, g)
}

// BackboneToAngles measures torsion (and, for the full set, bond)
// angles from backbone coordinates; positions outside the mask hold
// the sentinel.
func BackboneToAngles(bb *Backbone, set angle.Set, mask []bool) (*angle.Sequence, error) {
	return geometry.BackboneToAngles(bb, set, mask)
}

// GeometryError reports a malformed angle or coordinate input.
//
//nolint:revive // GeometryError is clearer than Error at call sites
type GeometryError = geometry.GeometryError

// Sentinel geometry failures.
var (
	ErrInsufficientAtoms = geometry.ErrInsufficientAtoms
	ErrNaNInput          = geometry.ErrNaNInput
)
