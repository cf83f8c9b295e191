package angle

import (
	"github.com/amrhamedp/foldingdiff/internal/tensor"
)

// Sequence is an ordered run of per-residue angle tuples on the
// circular domain, plus a validity mask. Padded or otherwise invalid
// positions hold Sentinel and must not feed losses or geometry.
type Sequence struct {
	set    Set
	angles *tensor.Tensor // [L, set.Size()]
	mask   []bool         // valid positions, len L
}

// NewSequence creates a sequence of the given length with all
// positions valid and all angles at Sentinel.
func NewSequence(set Set, length int) *Sequence {
	mask := make([]bool, length)
	for i := range mask {
		mask[i] = true
	}
	return &Sequence{
		set:    set,
		angles: tensor.Zeros(tensor.Shape{length, set.Size()}),
		mask:   mask,
	}
}

// FromTensor wraps an existing [L, K] tensor as a sequence. A nil mask
// marks every position valid. The tensor is not copied.
func FromTensor(set Set, angles *tensor.Tensor, mask []bool) *Sequence {
	shape := angles.Shape()
	if len(shape) != 2 || shape[1] != set.Size() {
		panic("angle: tensor shape does not match angle set")
	}
	if mask == nil {
		mask = make([]bool, shape[0])
		for i := range mask {
			mask[i] = true
		}
	}
	return &Sequence{set: set, angles: angles, mask: mask}
}

// Set returns which angle features the sequence carries.
func (s *Sequence) Set() Set { return s.set }

// Len returns the number of residues, including padding.
func (s *Sequence) Len() int { return s.angles.Shape()[0] }

// Valid reports whether position i carries real data.
func (s *Sequence) Valid(i int) bool { return s.mask[i] }

// Mask returns the validity mask. The slice is shared, not copied.
func (s *Sequence) Mask() []bool { return s.mask }

// ValidLen returns the number of leading valid positions.
func (s *Sequence) ValidLen() int {
	n := 0
	for _, v := range s.mask {
		if !v {
			break
		}
		n++
	}
	return n
}

// At returns the feature f of residue i.
func (s *Sequence) At(i, f int) float64 { return s.angles.At(i, f) }

// SetAt stores the feature f of residue i, wrapped onto the domain.
func (s *Sequence) SetAt(v float64, i, f int) { s.angles.Set(Wrap(v), i, f) }

// Angles returns the backing [L, K] tensor. The tensor is shared.
func (s *Sequence) Angles() *tensor.Tensor { return s.angles }

// Clone returns a deep copy.
func (s *Sequence) Clone() *Sequence {
	mask := make([]bool, len(s.mask))
	copy(mask, s.mask)
	return &Sequence{set: s.set, angles: s.angles.Clone(), mask: mask}
}

// Trim returns a copy truncated to the first n residues, all valid.
func (s *Sequence) Trim(n int) *Sequence {
	out := NewSequence(s.set, n)
	k := s.set.Size()
	for i := 0; i < n; i++ {
		for f := 0; f < k; f++ {
			out.angles.Set(s.angles.At(i, f), i, f)
		}
	}
	return out
}
