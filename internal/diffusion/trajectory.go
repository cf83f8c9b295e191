package diffusion

import (
	"github.com/google/uuid"

	"github.com/amrhamedp/foldingdiff/internal/angle"
)

// Trajectory is the ordered record of one sequence's walk from noise
// to its final denoised state. Snapshots are trimmed to the sequence's
// requested length and are immutable once the sampling run returns.
//
// With history capture enabled a trajectory holds T+1 snapshots (the
// initial noise state plus one per reverse transition); otherwise only
// the final state is retained, since trajectories can be long and wide.
type Trajectory struct {
	RunID  uuid.UUID // shared by every trajectory of one sampling call
	ID     uuid.UUID // unique per sequence
	Index  int       // position of the sequence within its batch
	Length int       // requested residue count

	// Snapshots[j] was taken at Timesteps[j]; the initial noise state
	// is recorded as timestep T, the final state as 0.
	Snapshots []*angle.Sequence
	Timesteps []int
}

// Final returns the fully denoised state (the last snapshot).
func (tr *Trajectory) Final() *angle.Sequence {
	return tr.Snapshots[len(tr.Snapshots)-1]
}

// Len returns the number of retained snapshots.
func (tr *Trajectory) Len() int { return len(tr.Snapshots) }
