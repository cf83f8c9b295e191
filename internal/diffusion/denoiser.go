package diffusion

import "github.com/amrhamedp/foldingdiff/internal/tensor"

// Denoiser is the learned noise-prediction capability injected into
// the sampling loop. Implementations map a noised batch and a timestep
// to a predicted-noise tensor of the exact same [batch, seqLen,
// features] shape; the padding mask is available from the batch via
// Valid. Predictions must be pure: no side effects on the batch, and
// deterministic for fixed weights (no dropout at inference).
//
// Any conforming implementation can be substituted without changing
// the loop: a trained network, a stub, an ensemble.
type Denoiser interface {
	Predict(noised *Batch, t int) (*tensor.Tensor, error)
}

// DenoiserFunc adapts a plain function to the Denoiser interface.
type DenoiserFunc func(noised *Batch, t int) (*tensor.Tensor, error)

// Predict implements Denoiser.
func (f DenoiserFunc) Predict(noised *Batch, t int) (*tensor.Tensor, error) {
	return f(noised, t)
}
