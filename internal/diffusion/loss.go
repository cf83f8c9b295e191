package diffusion

import (
	"math"

	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/tensor"
)

// DefaultLossBeta is the smooth-L1 transition point used for training,
// a tenth of a turn's half-width.
var DefaultLossBeta = 0.1 * math.Pi

// WrappedSmoothL1 computes the smooth-L1 loss between predicted and
// actual noise, measuring differences along the shortest circular arc.
// Padded positions of the batch are excluded from the mean. Returns 0
// for a batch with no valid positions.
//
// For |d| < beta the loss is quadratic (0.5*d*d/beta), linear beyond,
// where d = wrap(pred - target).
func WrappedSmoothL1(pred, target *tensor.Tensor, b *Batch, beta float64) float64 {
	if !pred.Shape().Equal(target.Shape()) {
		panic("diffusion: prediction and target shapes differ")
	}
	if beta <= 0 {
		panic("diffusion: smooth-L1 beta must be positive")
	}

	k := b.Features()
	sum := 0.0
	count := 0
	for i := 0; i < b.Size(); i++ {
		for r := 0; r < b.lengths[i]; r++ {
			for f := 0; f < k; f++ {
				d := math.Abs(angle.Dist(pred.At(i, r, f), target.At(i, r, f)))
				if d < beta {
					sum += 0.5 * d * d / beta
				} else {
					sum += d - 0.5*beta
				}
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
