package diffusion

import (
	"math/rand"

	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/parallel"
	"github.com/amrhamedp/foldingdiff/internal/schedule"
	"github.com/amrhamedp/foldingdiff/internal/tensor"
)

// AddNoise applies the forward diffusion process at timestep t:
//
//	x_t = wrap(sqrt(alpha-bar_t) * x_0 + sqrt(1 - alpha-bar_t) * eps)
//
// with eps drawn i.i.d. standard normal from rng. The returned noise
// tensor holds the raw (pre-wrap) eps actually used, which training
// compares against the network's prediction. Padded positions receive
// no noise, stay at their sentinel value, and hold zero in the noise
// tensor so they cannot leak into a loss.
//
// Draws happen in (sequence, residue, feature) order, so the result is
// deterministic for a given rng state. Fails with *schedule.RangeError
// when t is outside [0, T).
func AddNoise(clean *Batch, t int, sched *schedule.Schedule, rng *rand.Rand) (*Batch, *tensor.Tensor, error) {
	if err := sched.CheckTimestep(t); err != nil {
		return nil, nil, err
	}

	noise := tensor.Zeros(clean.Angles().Shape())
	k := clean.Features()
	for i := 0; i < clean.Size(); i++ {
		for r := 0; r < clean.lengths[i]; r++ {
			for f := 0; f < k; f++ {
				noise.Set(rng.NormFloat64(), i, r, f)
			}
		}
	}

	noised := clean.Clone()
	scaleSignal := sched.SqrtAlphaCumprod(t)
	scaleNoise := sched.SqrtOneMinusAlphaCumprod(t)
	out := noised.Angles()
	parallel.ForSequences(clean.Size(), clean.SeqLen(), func(i, r int) {
		if !clean.Valid(i, r) {
			return
		}
		for f := 0; f < k; f++ {
			x := scaleSignal*out.At(i, r, f) + scaleNoise*noise.At(i, r, f)
			out.Set(angle.Wrap(x), i, r, f)
		}
	}, parallel.DefaultConfig())

	return noised, noise, nil
}
