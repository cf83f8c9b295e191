// Package tensor provides the dense float64 arrays that back angle batches.
//
// The diffusion core works on small rank-2 and rank-3 arrays
// ([length, angles] and [batch, length, angles]); a single float64
// dtype on the host CPU covers every operation it performs. The type
// keeps row-major strides so callers can index without reshaping.
package tensor

import "fmt"

// Tensor is a dense, row-major float64 array.
//
// Example:
//
//	t := tensor.Zeros(tensor.Shape{3, 4})
//	t.Set(1.5, 1, 2)
//	v := t.At(1, 2)
type Tensor struct {
	data   []float64
	shape  Shape
	stride []int
}

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	return &Tensor{
		data:   make([]float64, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t := New(shape)
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// Data returns the underlying flat slice (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Offset returns the flat index for the given multidimensional indices.
// Panics if indices are out of bounds.
func (t *Tensor) Offset(indices ...int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * t.stride[i]
	}
	return offset
}

// At returns the element at the given indices.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.Offset(indices...)]
}

// Set sets the element at the given indices.
func (t *Tensor) Set(value float64, indices ...int) {
	t.data[t.Offset(indices...)] = value
}

// Clone creates a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := New(t.shape)
	copy(c.data, t.data)
	return c
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor[float64]%v", t.shape)
}
