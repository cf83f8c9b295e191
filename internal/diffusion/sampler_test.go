package diffusion

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/schedule"
	"github.com/amrhamedp/foldingdiff/internal/tensor"
)

// zeroDenoiser always predicts zero noise and counts its calls.
type zeroDenoiser struct {
	calls int
}

func (d *zeroDenoiser) Predict(noised *Batch, t int) (*tensor.Tensor, error) {
	d.calls++
	return tensor.Zeros(noised.Angles().Shape()), nil
}

func TestSampleFinalOnly(t *testing.T) {
	sched := testSchedule(t, 1000)
	stub := &zeroDenoiser{}
	sampler := NewSampler(sched, stub, SamplerConfig{Seed: 42})

	trajs, err := sampler.Sample(context.Background(), angle.Torsions, []int{50, 50, 50, 50})
	require.NoError(t, err)
	require.Len(t, trajs, 4)

	assert.Equal(t, 1000, stub.calls, "exactly one transition per timestep")
	for i, tr := range trajs {
		assert.Equal(t, i, tr.Index)
		assert.Equal(t, 50, tr.Length)
		assert.Equal(t, 1, tr.Len(), "final-only keeps a single snapshot")
		assert.Equal(t, []int{0}, tr.Timesteps)
		assert.Equal(t, trajs[0].RunID, tr.RunID)
		assert.Equal(t, 50, tr.Final().Len())
	}
	assert.NotEqual(t, trajs[0].ID, trajs[1].ID)
}

func TestSampleHistory(t *testing.T) {
	sched := testSchedule(t, 1000)
	sampler := NewSampler(sched, &zeroDenoiser{}, SamplerConfig{History: true, Seed: 42})

	trajs, err := sampler.Sample(context.Background(), angle.Torsions, []int{50, 50, 50, 50})
	require.NoError(t, err)
	require.Len(t, trajs, 4)

	for _, tr := range trajs {
		assert.Equal(t, 1001, tr.Len(), "history holds the initial noise state plus one snapshot per transition")
		assert.Equal(t, 1000, tr.Timesteps[0], "history starts at the noise state")
		assert.Equal(t, 0, tr.Timesteps[len(tr.Timesteps)-1])
	}
}

func TestSampleWrapInvariant(t *testing.T) {
	sched := testSchedule(t, 50)
	sampler := NewSampler(sched, &zeroDenoiser{}, SamplerConfig{History: true, Seed: 3})

	trajs, err := sampler.Sample(context.Background(), angle.Torsions, []int{16})
	require.NoError(t, err)
	for _, snap := range trajs[0].Snapshots {
		for _, v := range snap.Angles().Data() {
			assert.GreaterOrEqual(t, v, -math.Pi)
			assert.Less(t, v, math.Pi)
		}
	}
}

func TestSampleDeterministicGivenSeed(t *testing.T) {
	sched := testSchedule(t, 200)

	run := func() []*Trajectory {
		sampler := NewSampler(sched, &zeroDenoiser{}, SamplerConfig{History: true, Seed: 1234})
		trajs, err := sampler.Sample(context.Background(), angle.Torsions, []int{20, 31})
		require.NoError(t, err)
		return trajs
	}

	a, b := run(), run()
	require.Len(t, b, 2)
	for i := range a {
		require.Equal(t, a[i].Len(), b[i].Len())
		for j := range a[i].Snapshots {
			assert.Equal(t, a[i].Snapshots[j].Angles().Data(), b[i].Snapshots[j].Angles().Data(),
				"bit-for-bit identical trajectories for a fixed seed")
		}
	}
}

func TestSampleLockstepIndependence(t *testing.T) {
	sched := testSchedule(t, 100)

	s1 := NewSampler(sched, &zeroDenoiser{}, SamplerConfig{Seed: 77})
	batch, err := s1.Sample(context.Background(), angle.Torsions, []int{10, 10})
	require.NoError(t, err)
	assert.NotEqual(t, batch[0].Final().Angles().Data(), batch[1].Final().Angles().Data(),
		"independent sequences get independent draws")
}

func TestSampleDenoiserFailure(t *testing.T) {
	sched := testSchedule(t, 100)
	boom := errors.New("weights corrupted")
	failAt := 97
	d := DenoiserFunc(func(noised *Batch, t int) (*tensor.Tensor, error) {
		if t == failAt {
			return nil, boom
		}
		return tensor.Zeros(noised.Angles().Shape()), nil
	})

	sampler := NewSampler(sched, d, SamplerConfig{Seed: 1})
	_, err := sampler.Sample(context.Background(), angle.Torsions, []int{8})

	var serr *SamplingError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, failAt, serr.Timestep, "error is tagged with the timestep reached")
	assert.ErrorIs(t, err, boom)
}

func TestSampleBadDenoiserShape(t *testing.T) {
	sched := testSchedule(t, 10)
	d := DenoiserFunc(func(noised *Batch, t int) (*tensor.Tensor, error) {
		return tensor.Zeros(tensor.Shape{1, 1, 3}), nil
	})
	sampler := NewSampler(sched, d, SamplerConfig{Seed: 1})
	_, err := sampler.Sample(context.Background(), angle.Torsions, []int{4, 4})
	var serr *SamplingError
	assert.ErrorAs(t, err, &serr)
}

func TestSampleCancellation(t *testing.T) {
	sched := testSchedule(t, 100)
	ctx, cancel := context.WithCancel(context.Background())

	steps := 0
	d := DenoiserFunc(func(noised *Batch, t int) (*tensor.Tensor, error) {
		steps++
		if steps == 5 {
			cancel() // takes effect at the next timestep boundary
		}
		return tensor.Zeros(noised.Angles().Shape()), nil
	})

	sampler := NewSampler(sched, d, SamplerConfig{Seed: 1})
	_, err := sampler.Sample(ctx, angle.Torsions, []int{6})

	var serr *SamplingError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, steps, "no further transitions after cancellation")
}

func TestSampleInvalidLengths(t *testing.T) {
	sched := testSchedule(t, 10)
	sampler := NewSampler(sched, &zeroDenoiser{}, SamplerConfig{Seed: 1})

	var cerr *schedule.ConfigError
	_, err := sampler.Sample(context.Background(), angle.Torsions, nil)
	assert.ErrorAs(t, err, &cerr)
	_, err = sampler.Sample(context.Background(), angle.Torsions, []int{5, 0})
	assert.ErrorAs(t, err, &cerr)
}

func TestSamplePaddingStaysSentinel(t *testing.T) {
	sched := testSchedule(t, 50)
	sampler := NewSampler(sched, &zeroDenoiser{}, SamplerConfig{History: true, Seed: 9})

	trajs, err := sampler.Sample(context.Background(), angle.Torsions, []int{5, 8})
	require.NoError(t, err)
	// Trajectories are trimmed to their own lengths.
	assert.Equal(t, 5, trajs[0].Final().Len())
	assert.Equal(t, 8, trajs[1].Final().Len())
}
