package diffusion

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/parallel"
	"github.com/amrhamedp/foldingdiff/internal/schedule"
	"github.com/amrhamedp/foldingdiff/internal/tensor"
)

// SamplerConfig configures a reverse-sampling run.
type SamplerConfig struct {
	// History retains every intermediate state in the returned
	// trajectories. Off by default: a full trajectory is T+1 states.
	History bool

	// Seed for the run's random source. -1 = random.
	Seed int64
}

// DefaultSamplerConfig returns sensible defaults for sampling.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		History: false,
		Seed:    -1,
	}
}

// Sampler runs the reverse denoising Markov chain. It owns a seeded
// random source, holds the schedule read-only, and calls the injected
// Denoiser once per timestep per batch. It writes nothing to disk;
// persistence is the caller's responsibility.
type Sampler struct {
	sched    *schedule.Schedule
	denoiser Denoiser
	config   SamplerConfig
	rng      *rand.Rand
	workers  parallel.Config
}

// NewSampler creates a sampler over the given schedule and denoiser.
func NewSampler(sched *schedule.Schedule, d Denoiser, config SamplerConfig) *Sampler {
	var rng *rand.Rand
	if config.Seed >= 0 {
		rng = rand.New(rand.NewSource(config.Seed)) //nolint:gosec // Intentional deterministic seed for reproducibility
	} else {
		rng = rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // User requested random seed
	}
	return &Sampler{
		sched:    sched,
		denoiser: d,
		config:   config,
		rng:      rng,
		workers:  parallel.DefaultConfig(),
	}
}

// Sample draws one trajectory per requested length. All sequences move
// through timesteps in lockstep with a shared schedule; their noise
// draws and predictions stay independent.
//
// The loop starts from wrapped i.i.d. Gaussian noise at t = T and
// applies the DDPM posterior update down to t = 0:
//
//	mu_t = 1/sqrt(alpha_t) * (x_t - beta_t / sqrt(1-alpha-bar_t) * eps_hat)
//	x_{t-1} = wrap(mu_t + sqrt(var_t) * z)   (z drawn only for t > 0)
//
// ctx is consulted between timesteps; a timestep is never interrupted
// mid-transition. A denoiser failure aborts the run with a
// *SamplingError tagged with the timestep reached.
func (s *Sampler) Sample(ctx context.Context, set angle.Set, lengths []int) ([]*Trajectory, error) {
	if len(lengths) == 0 {
		return nil, &schedule.ConfigError{Field: "lengths", Details: "at least one sequence length required"}
	}
	for i, l := range lengths {
		if l < 1 {
			return nil, &schedule.ConfigError{Field: "lengths", Value: l, Details: fmt.Sprintf("length at index %d must be >= 1", i)}
		}
	}

	T := s.sched.Timesteps()
	state := NewBatch(set, lengths)
	s.fillWrappedNoise(state)

	runID := uuid.New()
	n := state.Size()
	history := make([][]*angle.Sequence, n)
	timesteps := []int{T}
	for i := 0; i < n; i++ {
		if s.config.History {
			history[i] = append(history[i], state.Sequence(i).Trim(lengths[i]))
		}
	}

	k := state.Features()
	z := tensor.Zeros(state.Angles().Shape())
	for t := T - 1; t >= 0; t-- {
		select {
		case <-ctx.Done():
			return nil, &SamplingError{Timestep: t, Err: ctx.Err()}
		default:
		}

		predicted, err := s.denoiser.Predict(state, t)
		if err != nil {
			return nil, &SamplingError{Timestep: t, Err: err}
		}
		if !predicted.Shape().Equal(state.Angles().Shape()) {
			return nil, &SamplingError{Timestep: t, Err: fmt.Errorf("denoiser returned shape %v, want %v", predicted.Shape(), state.Angles().Shape())}
		}

		// Fresh noise for the stochastic part of the transition,
		// drawn sequentially so runs are reproducible. The final
		// step t = 0 is deterministic.
		if t > 0 {
			for i := 0; i < n; i++ {
				for r := 0; r < lengths[i]; r++ {
					for f := 0; f < k; f++ {
						z.Set(s.rng.NormFloat64(), i, r, f)
					}
				}
			}
		}

		sqrtRecipAlpha := s.sched.SqrtRecipAlpha(t)
		noiseScale := s.sched.Beta(t) / s.sched.SqrtOneMinusAlphaCumprod(t)
		posteriorStd := 0.0
		if t > 0 {
			posteriorStd = math.Sqrt(s.sched.PosteriorVariance(t))
		}

		angles := state.Angles()
		parallel.ForSequences(n, state.SeqLen(), func(i, r int) {
			if !state.Valid(i, r) {
				return
			}
			for f := 0; f < k; f++ {
				mean := sqrtRecipAlpha * (angles.At(i, r, f) - noiseScale*predicted.At(i, r, f))
				if t > 0 {
					mean += posteriorStd * z.At(i, r, f)
				}
				angles.Set(angle.Wrap(mean), i, r, f)
			}
		}, s.workers)

		if s.config.History {
			timesteps = append(timesteps, t)
			for i := 0; i < n; i++ {
				history[i] = append(history[i], state.Sequence(i).Trim(lengths[i]))
			}
		}
	}

	trajectories := make([]*Trajectory, n)
	for i := 0; i < n; i++ {
		tr := &Trajectory{
			RunID:  runID,
			ID:     uuid.New(),
			Index:  i,
			Length: lengths[i],
		}
		if s.config.History {
			tr.Snapshots = history[i]
			tr.Timesteps = timesteps
		} else {
			tr.Snapshots = []*angle.Sequence{state.Sequence(i).Trim(lengths[i])}
			tr.Timesteps = []int{0}
		}
		trajectories[i] = tr
	}
	return trajectories, nil
}

// fillWrappedNoise initializes every valid position with a standard
// normal draw wrapped onto the circular domain; padding stays at the
// sentinel.
func (s *Sampler) fillWrappedNoise(b *Batch) {
	k := b.Features()
	for i := 0; i < b.Size(); i++ {
		for r := 0; r < b.lengths[i]; r++ {
			for f := 0; f < k; f++ {
				b.angles.Set(angle.Wrap(s.rng.NormFloat64()), i, r, f)
			}
		}
	}
}
