// Copyright 2025 The foldingdiff-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package structure provides the public API for materializing sampled
// angle sequences as 3D backbone structures and for the PDB boundary.
//
// Example:
//
//	results := structure.Materialize(trajs, nil)
//	for _, res := range results {
//	    if res.Err != nil {
//	        continue // that sequence failed; the rest are intact
//	    }
//	    structure.WritePDB(w, res.Records[len(res.Records)-1])
//	}
package structure

import (
	"io"

	"github.com/amrhamedp/foldingdiff/internal/diffusion"
	"github.com/amrhamedp/foldingdiff/internal/geometry"
	"github.com/amrhamedp/foldingdiff/internal/structure"
)

// Residue holds the four backbone atom positions of one residue.
type Residue = structure.Residue

// Record is a reconstructed backbone structure plus the metadata that
// traces it back to its source sequence and timestep.
type Record = structure.Record

// FromBackbone copies reconstructed coordinates into a Record.
func FromBackbone(bb *geometry.Backbone, timestep, seqIndex int) *Record {
	return structure.FromBackbone(bb, timestep, seqIndex)
}

// Result carries the materialization outcome for one trajectory;
// failures are isolated per sequence.
type Result = structure.Result

// Materialize reconstructs every retained snapshot of every
// trajectory. A nil geometry uses the idealized defaults.
func Materialize(trajs []*diffusion.Trajectory, g *geometry.Geometry) []Result {
	return structure.Materialize(trajs, g)
}

// WritePDB emits the record in standard PDB ATOM convention.
func WritePDB(w io.Writer, rec *Record) error { return structure.WritePDB(w, rec) }

// ReadPDB parses backbone atoms out of PDB ATOM records.
func ReadPDB(r io.Reader) (*Record, error) { return structure.ReadPDB(r) }
