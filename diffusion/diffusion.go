// Copyright 2025 The foldingdiff-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package diffusion provides the public API for the forward noising
// process and the reverse denoising sampler over backbone angles.
//
// Example:
//
//	sched, _ := schedule.New(schedule.Config{Timesteps: 1000, Kind: schedule.Cosine, BetaMin: 1e-4, BetaMax: 0.02})
//	sampler := diffusion.NewSampler(sched, model, diffusion.SamplerConfig{Seed: 42})
//	trajs, err := sampler.Sample(ctx, angle.Torsions, []int{64, 80, 128})
package diffusion

import (
	"math/rand"

	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/diffusion"
	"github.com/amrhamedp/foldingdiff/internal/schedule"
	"github.com/amrhamedp/foldingdiff/internal/tensor"
)

// Batch is a padded collection of angle sequences processed in
// lockstep.
type Batch = diffusion.Batch

// NewBatch creates a zero-filled batch padded to the longest length.
func NewBatch(set angle.Set, lengths []int) *Batch { return diffusion.NewBatch(set, lengths) }

// FromSequences packs sequences into a batch.
func FromSequences(set angle.Set, seqs []*angle.Sequence) *Batch {
	return diffusion.FromSequences(set, seqs)
}

// AddNoise applies the forward diffusion process at timestep t,
// returning the noised batch and the raw pre-wrap noise used.
func AddNoise(clean *Batch, t int, sched *schedule.Schedule, rng *rand.Rand) (*Batch, *tensor.Tensor, error) {
	return diffusion.AddNoise(clean, t, sched, rng)
}

// Denoiser is the learned noise-prediction capability injected into
// the sampling loop.
type Denoiser = diffusion.Denoiser

// DenoiserFunc adapts a plain function to the Denoiser interface.
type DenoiserFunc = diffusion.DenoiserFunc

// SamplerConfig configures a reverse-sampling run.
type SamplerConfig = diffusion.SamplerConfig

// DefaultSamplerConfig returns sensible defaults for sampling.
func DefaultSamplerConfig() SamplerConfig { return diffusion.DefaultSamplerConfig() }

// Sampler runs the reverse denoising Markov chain.
type Sampler = diffusion.Sampler

// NewSampler creates a sampler over the given schedule and denoiser.
func NewSampler(sched *schedule.Schedule, d Denoiser, config SamplerConfig) *Sampler {
	return diffusion.NewSampler(sched, d, config)
}

// Trajectory is the ordered record of one sequence's walk from noise
// to its final denoised state.
type Trajectory = diffusion.Trajectory

// SamplingError reports a reverse-loop failure tagged with the
// timestep reached.
type SamplingError = diffusion.SamplingError

// DefaultLossBeta is the smooth-L1 transition point used for training.
var DefaultLossBeta = diffusion.DefaultLossBeta

// WrappedSmoothL1 computes the masked smooth-L1 training loss along
// the shortest circular arc.
func WrappedSmoothL1(pred, target *tensor.Tensor, b *Batch, beta float64) float64 {
	return diffusion.WrappedSmoothL1(pred, target, b, beta)
}
