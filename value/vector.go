package value

import (
	"fmt"
	"slices"

	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/format"
)

// MaxSparseElements is the largest number of stored elements of a sparse vector.
const MaxSparseElements = 65535

// Vector is a dense or sparse numeric vector.
//
// Exactly one of the element slices is used, selected by Format. A binary
// vector packs 8 dimensions per byte. A sparse vector stores only the
// elements at Indices of a vector with NumDimensions dimensions.
type Vector struct {
	Format  format.VectorFormat
	Float32 []float32
	Float64 []float64
	Int8    []int8
	Binary  []uint8

	Sparse        bool
	NumDimensions uint32
	Indices       []uint32
}

// Float32Vector returns a dense float32 vector.
func Float32Vector(vals []float32) Vector {
	return Vector{Format: format.VectorFloat32, Float32: vals}
}

// Float64Vector returns a dense float64 vector.
func Float64Vector(vals []float64) Vector {
	return Vector{Format: format.VectorFloat64, Float64: vals}
}

// Int8Vector returns a dense int8 vector.
func Int8Vector(vals []int8) Vector {
	return Vector{Format: format.VectorInt8, Int8: vals}
}

// BinaryVector returns a dense packed-bit vector of len(packed)*8 dimensions.
func BinaryVector(packed []uint8) Vector {
	return Vector{Format: format.VectorBinary, Binary: packed}
}

// SparseVector returns a sparse vector with the elements of values stored at
// indices of a numDimensions-dimensional vector.
func SparseVector(numDimensions uint32, indices []uint32, values Vector) Vector {
	values.Sparse = true
	values.NumDimensions = numDimensions
	values.Indices = indices

	return values
}

// Len returns the number of stored elements (bytes for binary vectors).
func (v Vector) Len() int {
	switch v.Format {
	case format.VectorFloat32:
		return len(v.Float32)
	case format.VectorFloat64:
		return len(v.Float64)
	case format.VectorInt8:
		return len(v.Int8)
	case format.VectorBinary:
		return len(v.Binary)
	default:
		return 0
	}
}

// Dimensions returns the number of dimensions of v.
func (v Vector) Dimensions() uint32 {
	switch {
	case v.Sparse:
		return v.NumDimensions
	case v.Format == format.VectorBinary:
		return uint32(len(v.Binary)) * 8 //nolint: gosec
	default:
		return uint32(v.Len()) //nolint: gosec
	}
}

// Validate checks that v can be written as a VECTOR image.
//
// Returns:
//   - error: ErrUnsupportedFormat for an unknown format, ErrInvalidVector for
//     a sparse binary vector, mismatched indices, too many sparse elements or
//     an index outside the dimension count
func (v Vector) Validate() error {
	if !v.Format.IsValid() {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedFormat, v.Format)
	}
	if !v.Sparse {
		return nil
	}

	if v.Format == format.VectorBinary {
		return fmt.Errorf("%w: binary vectors cannot be sparse", errs.ErrInvalidVector)
	}
	if len(v.Indices) != v.Len() {
		return fmt.Errorf("%w: %d indices for %d values", errs.ErrInvalidVector, len(v.Indices), v.Len())
	}
	if len(v.Indices) > MaxSparseElements {
		return fmt.Errorf("%w: %d sparse elements, max %d", errs.ErrInvalidVector, len(v.Indices), MaxSparseElements)
	}
	for i, idx := range v.Indices {
		if idx >= v.NumDimensions {
			return fmt.Errorf("%w: index %d at position %d outside %d dimensions", errs.ErrInvalidVector, idx, i, v.NumDimensions)
		}
	}

	return nil
}

// Equal reports whether v and o have the same format, shape and elements.
func (v Vector) Equal(o Vector) bool {
	if v.Format != o.Format || v.Sparse != o.Sparse {
		return false
	}
	if v.Sparse && (v.NumDimensions != o.NumDimensions || !slices.Equal(v.Indices, o.Indices)) {
		return false
	}

	switch v.Format {
	case format.VectorFloat32:
		return slices.EqualFunc(v.Float32, o.Float32, func(a, b float32) bool {
			return floatsEqual(float64(a), float64(b))
		})
	case format.VectorFloat64:
		return slices.EqualFunc(v.Float64, o.Float64, floatsEqual)
	case format.VectorInt8:
		return slices.Equal(v.Int8, o.Int8)
	case format.VectorBinary:
		return slices.Equal(v.Binary, o.Binary)
	default:
		return true
	}
}

// Float64s returns the stored elements widened to float64. Binary vectors
// return their packed bytes.
func (v Vector) Float64s() []float64 {
	out := make([]float64, 0, v.Len())
	switch v.Format {
	case format.VectorFloat32:
		for _, f := range v.Float32 {
			out = append(out, float64(f))
		}
	case format.VectorFloat64:
		out = append(out, v.Float64...)
	case format.VectorInt8:
		for _, i := range v.Int8 {
			out = append(out, float64(i))
		}
	case format.VectorBinary:
		for _, b := range v.Binary {
			out = append(out, float64(b))
		}
	}

	return out
}

// Dense returns v with the elements of a sparse vector placed at their
// indices and zeros elsewhere. Dense vectors are returned unchanged.
// A sparse v must pass Validate.
func (v Vector) Dense() Vector {
	if !v.Sparse {
		return v
	}

	n := int(v.NumDimensions)
	out := Vector{Format: v.Format}
	switch v.Format {
	case format.VectorFloat32:
		out.Float32 = make([]float32, n)
		for i, idx := range v.Indices {
			out.Float32[idx] = v.Float32[i]
		}
	case format.VectorFloat64:
		out.Float64 = make([]float64, n)
		for i, idx := range v.Indices {
			out.Float64[idx] = v.Float64[i]
		}
	case format.VectorInt8:
		out.Int8 = make([]int8, n)
		for i, idx := range v.Indices {
			out.Int8[idx] = v.Int8[i]
		}
	}

	return out
}
