// Copyright 2025 The foldingdiff-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package angleio provides the public API for the tabular angle
// exchange format: gzip-compressed CSV with one row per residue,
// tagged with sequence and timestep identifiers.
package angleio

import (
	"io"

	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/angleio"
	"github.com/amrhamedp/foldingdiff/internal/diffusion"
)

// SequenceRecord pairs an angle sequence with its identifiers.
type SequenceRecord = angleio.SequenceRecord

// Write emits the records as gzip-compressed CSV; padding never
// reaches disk.
func Write(w io.Writer, set angle.Set, records []SequenceRecord) error {
	return angleio.Write(w, set, records)
}

// Read parses a file written by Write, inferring the angle set from
// the header.
func Read(r io.Reader) (angle.Set, []SequenceRecord, error) { return angleio.Read(r) }

// FromTrajectories flattens sampling output into exchange records.
func FromTrajectories(trajs []*diffusion.Trajectory) []SequenceRecord {
	return angleio.FromTrajectories(trajs)
}
