// Package diffusion implements the forward noising process and the
// reverse denoising Markov chain over batches of backbone angles.
//
// The forward process perturbs clean angle sequences with scaled
// Gaussian noise and wraps the result back onto [-pi, pi); the reverse
// sampler starts from wrapped noise and walks t = T-1 down to 0,
// querying an injected Denoiser at every step. Sequences in a batch
// move through timesteps in lockstep but never interact.
package diffusion

import (
	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/tensor"
)

// Batch is a padded collection of angle sequences processed together.
// The angles tensor has shape [batch, seqLen, features] where seqLen is
// the longest requested length; positions at or beyond a sequence's
// length are padding and hold angle.Sentinel throughout.
type Batch struct {
	set     angle.Set
	angles  *tensor.Tensor
	lengths []int
}

// NewBatch creates a zero-filled batch padded to the longest length.
func NewBatch(set angle.Set, lengths []int) *Batch {
	maxLen := 0
	for _, l := range lengths {
		if l > maxLen {
			maxLen = l
		}
	}
	ls := make([]int, len(lengths))
	copy(ls, lengths)
	return &Batch{
		set:     set,
		angles:  tensor.Zeros(tensor.Shape{len(lengths), maxLen, set.Size()}),
		lengths: ls,
	}
}

// FromSequences packs sequences into a batch, padding to the longest
// valid length. Only leading valid positions are copied.
func FromSequences(set angle.Set, seqs []*angle.Sequence) *Batch {
	lengths := make([]int, len(seqs))
	for i, s := range seqs {
		lengths[i] = s.ValidLen()
	}
	b := NewBatch(set, lengths)
	k := set.Size()
	for i, s := range seqs {
		for r := 0; r < lengths[i]; r++ {
			for f := 0; f < k; f++ {
				b.angles.Set(s.At(r, f), i, r, f)
			}
		}
	}
	return b
}

// Set returns the angle set the batch carries.
func (b *Batch) Set() angle.Set { return b.set }

// Size returns the number of sequences.
func (b *Batch) Size() int { return b.angles.Shape()[0] }

// SeqLen returns the padded sequence length.
func (b *Batch) SeqLen() int { return b.angles.Shape()[1] }

// Features returns the number of angle features per residue.
func (b *Batch) Features() int { return b.angles.Shape()[2] }

// Lengths returns the per-sequence valid lengths. The slice is shared.
func (b *Batch) Lengths() []int { return b.lengths }

// Valid reports whether position r of sequence i carries real data.
// This is the padding mask the denoising network receives.
func (b *Batch) Valid(i, r int) bool { return r < b.lengths[i] }

// Angles returns the backing [batch, seqLen, features] tensor, shared.
func (b *Batch) Angles() *tensor.Tensor { return b.angles }

// Sequence extracts sequence i at padded length, with its padding mask.
func (b *Batch) Sequence(i int) *angle.Sequence {
	L, k := b.SeqLen(), b.Features()
	seq := angle.NewSequence(b.set, L)
	mask := seq.Mask()
	for r := 0; r < L; r++ {
		mask[r] = b.Valid(i, r)
		for f := 0; f < k; f++ {
			seq.Angles().Set(b.angles.At(i, r, f), r, f)
		}
	}
	return seq
}

// Clone returns a deep copy.
func (b *Batch) Clone() *Batch {
	ls := make([]int, len(b.lengths))
	copy(ls, b.lengths)
	return &Batch{set: b.set, angles: b.angles.Clone(), lengths: ls}
}
