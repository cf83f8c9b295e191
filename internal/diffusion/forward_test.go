package diffusion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/schedule"
)

func testSchedule(t *testing.T, timesteps int) *schedule.Schedule {
	t.Helper()
	s, err := schedule.New(schedule.Config{
		Timesteps: timesteps,
		Kind:      schedule.Cosine,
		BetaMin:   1e-4,
		BetaMax:   0.02,
	})
	require.NoError(t, err)
	return s
}

func TestAddNoiseWrapInvariant(t *testing.T) {
	sched := testSchedule(t, 100)
	rng := rand.New(rand.NewSource(1))

	clean := NewBatch(angle.Torsions, []int{12, 12})
	// Seed clean angles near the domain boundary to force wrapping.
	for i := 0; i < 2; i++ {
		for r := 0; r < 12; r++ {
			clean.Angles().Set(math.Pi-1e-6, i, r, angle.Phi)
			clean.Angles().Set(-math.Pi, i, r, angle.Psi)
			clean.Angles().Set(2.9, i, r, angle.Omega)
		}
	}

	for _, ts := range []int{0, 17, 50, 99} {
		noised, _, err := AddNoise(clean, ts, sched, rng)
		require.NoError(t, err)
		for _, v := range noised.Angles().Data() {
			assert.GreaterOrEqual(t, v, -math.Pi)
			assert.Less(t, v, math.Pi)
		}
	}
}

func TestAddNoisePreservesPadding(t *testing.T) {
	sched := testSchedule(t, 100)
	rng := rand.New(rand.NewSource(7))

	// Two sequences of lengths {5, 8}, padded to 8: the 3 padding
	// positions of the shorter one must stay at the sentinel.
	clean := NewBatch(angle.Torsions, []int{5, 8})
	require.Equal(t, 8, clean.SeqLen())
	for r := 0; r < 5; r++ {
		clean.Angles().Set(1.0, 0, r, angle.Phi)
	}

	noised, noise, err := AddNoise(clean, 42, sched, rng)
	require.NoError(t, err)
	for r := 5; r < 8; r++ {
		for f := 0; f < 3; f++ {
			assert.Equal(t, angle.Sentinel, noised.Angles().At(0, r, f), "padding stays unchanged")
			assert.Zero(t, noise.At(0, r, f), "no noise recorded at padding")
		}
	}
	// Valid positions did move.
	moved := false
	for r := 0; r < 5; r++ {
		if noised.Angles().At(0, r, angle.Phi) != 1.0 {
			moved = true
		}
	}
	assert.True(t, moved)
}

func TestAddNoiseReturnsRawNoise(t *testing.T) {
	sched := testSchedule(t, 100)
	clean := NewBatch(angle.Torsions, []int{4})

	// Same seed twice: the returned noise must be exactly the eps the
	// perturbation used.
	noised, noise, err := AddNoise(clean, 10, sched, rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	a := sched.SqrtAlphaCumprod(10)
	b := sched.SqrtOneMinusAlphaCumprod(10)
	for r := 0; r < 4; r++ {
		for f := 0; f < 3; f++ {
			want := angle.Wrap(a*clean.Angles().At(0, r, f) + b*noise.At(0, r, f))
			assert.InDelta(t, want, noised.Angles().At(0, r, f), 1e-12)
		}
	}
}

func TestAddNoiseTimestepRange(t *testing.T) {
	sched := testSchedule(t, 100)
	clean := NewBatch(angle.Torsions, []int{4})
	rng := rand.New(rand.NewSource(1))

	var rerr *schedule.RangeError
	_, _, err := AddNoise(clean, 100, sched, rng)
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 100, rerr.Timestep)

	_, _, err = AddNoise(clean, -1, sched, rng)
	assert.ErrorAs(t, err, &rerr)
}

func TestAddNoiseDeterministic(t *testing.T) {
	sched := testSchedule(t, 100)
	clean := NewBatch(angle.Torsions, []int{6, 3})

	n1, e1, err := AddNoise(clean, 33, sched, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	n2, e2, err := AddNoise(clean, 33, sched, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	assert.Equal(t, e1.Data(), e2.Data())
	assert.Equal(t, n1.Angles().Data(), n2.Angles().Data())
}

func TestFromSequences(t *testing.T) {
	a := angle.NewSequence(angle.Torsions, 3)
	a.SetAt(0.5, 1, angle.Psi)
	b := angle.NewSequence(angle.Torsions, 5)
	b.SetAt(-1.2, 4, angle.Omega)

	batch := FromSequences(angle.Torsions, []*angle.Sequence{a, b})
	assert.Equal(t, []int{3, 5}, batch.Lengths())
	assert.Equal(t, 5, batch.SeqLen())
	assert.Equal(t, 0.5, batch.Angles().At(0, 1, angle.Psi))
	assert.Equal(t, -1.2, batch.Angles().At(1, 4, angle.Omega))
	assert.False(t, batch.Valid(0, 3))
}
