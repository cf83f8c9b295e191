// Copyright 2025 The foldingdiff-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package angle provides the public API for circular-domain angle
// arithmetic and angle sequences.
//
// All backbone angles live on [-pi, pi); Wrap is the canonical
// reduction applied after every arithmetic composition.
//
// Example:
//
//	seq := angle.NewSequence(angle.Torsions, 64)
//	seq.SetAt(phi, 3, angle.Phi) // stored wrapped
package angle

import (
	"github.com/amrhamedp/foldingdiff/internal/angle"
)

// Sentinel is the value stored at padded or undefined positions.
const Sentinel = angle.Sentinel

// Wrap reduces x onto the canonical circular domain [-pi, pi).
func Wrap(x float64) float64 { return angle.Wrap(x) }

// WrapSlice wraps every element of xs in place and returns xs.
func WrapSlice(xs []float64) []float64 { return angle.WrapSlice(xs) }

// Dist returns the shortest signed circular distance from b to a.
func Dist(a, b float64) float64 { return angle.Dist(a, b) }

// Set identifies which per-residue angle features a model diffuses over.
type Set = angle.Set

// Supported angle sets.
const (
	Torsions Set = angle.Torsions
	Full     Set = angle.Full
)

// ParseSet parses a canonical set name as produced by Set.String.
func ParseSet(name string) (Set, error) { return angle.ParseSet(name) }

// Feature indices shared by both sets.
const (
	Phi    = angle.Phi
	Psi    = angle.Psi
	Omega  = angle.Omega
	Tau    = angle.Tau
	CaC1N  = angle.CaC1N
	C1N1Ca = angle.C1N1Ca
)

// Sequence is an ordered run of per-residue angle tuples on the
// circular domain, plus a validity mask.
type Sequence = angle.Sequence

// NewSequence creates a sequence with all positions valid and all
// angles at Sentinel.
func NewSequence(set Set, length int) *Sequence { return angle.NewSequence(set, length) }
