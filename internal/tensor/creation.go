package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return New(shape)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float64) *Tensor {
	t := New(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from a standard normal
// distribution using the supplied source. The source is injected so
// callers control reproducibility; draws happen in flat index order.
func Randn(shape Shape, rng *rand.Rand) *Tensor {
	t := New(shape)
	for i := range t.data {
		t.data[i] = rng.NormFloat64()
	}
	return t
}
