// Package structure materializes sampled angle sequences as 3D
// backbone structures and speaks the structure-file boundary.
//
// Records are derived artifacts: once built from an angle snapshot
// they are never mutated, and each one stays traceable to its source
// sequence index and timestep.
package structure

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/amrhamedp/foldingdiff/internal/diffusion"
	"github.com/amrhamedp/foldingdiff/internal/geometry"
	"github.com/amrhamedp/foldingdiff/internal/parallel"
)

// Residue holds the four backbone atom positions of one residue.
type Residue struct {
	N  r3.Vec
	CA r3.Vec
	C  r3.Vec
	O  r3.Vec
}

// Record is a reconstructed backbone structure plus the minimal
// metadata needed to trace it back to its origin.
type Record struct {
	Chain    string // chain identifier, "A" by default
	Timestep int    // reverse timestep the snapshot was taken at
	Sequence int    // sequence index within its sampling batch
	Residues []Residue
}

// Len returns the number of residues.
func (r *Record) Len() int { return len(r.Residues) }

// FromBackbone copies reconstructed coordinates into a Record.
func FromBackbone(bb *geometry.Backbone, timestep, seqIndex int) *Record {
	res := make([]Residue, bb.Len())
	for i := range res {
		res[i] = Residue{N: bb.N[i], CA: bb.CA[i], C: bb.C[i], O: bb.O[i]}
	}
	return &Record{Chain: "A", Timestep: timestep, Sequence: seqIndex, Residues: res}
}

// Result carries the materialization outcome for one trajectory.
// A geometry failure fails only its own sequence; the rest of the
// batch still gets records.
type Result struct {
	Index   int // trajectory's sequence index
	Records []*Record
	Err     error
}

// Materialize reconstructs every retained snapshot of every trajectory
// (the final state when history capture was off, the full history
// otherwise). Trajectories are processed independently and a
// *geometry.GeometryError on one is reported in its Result rather than
// aborting the run.
func Materialize(trajs []*diffusion.Trajectory, g *geometry.Geometry) []Result {
	if g == nil {
		g = geometry.Default()
	}
	results := make([]Result, len(trajs))
	parallel.For(len(trajs), func(i int) {
		tr := trajs[i]
		results[i].Index = tr.Index
		records := make([]*Record, 0, tr.Len())
		for j, snap := range tr.Snapshots {
			bb, err := geometry.AnglesToBackbone(snap, g)
			if err != nil {
				results[i].Err = fmt.Errorf("sequence %d: %w", tr.Index, err)
				results[i].Records = nil
				return
			}
			records = append(records, FromBackbone(bb, tr.Timesteps[j], tr.Index))
		}
		results[i].Records = records
	}, parallel.Config{Enabled: true, NumWorkers: len(trajs), MinChunkSize: 1})
	return results
}
