package blob

import (
	"fmt"
	"math"

	"github.com/arloliu/oson/buffer"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/format"
	"github.com/arloliu/oson/section"
	"github.com/arloliu/oson/value"
)

// VectorEncoder encodes vectors into VECTOR images.
//
// A VectorEncoder holds no state between calls and is safe for concurrent use.
type VectorEncoder struct{}

// NewVectorEncoder creates a new VectorEncoder.
func NewVectorEncoder() *VectorEncoder {
	return &VectorEncoder{}
}

// Encode returns the VECTOR image of v.
//
// The header version is the lowest able to describe v: 0 for float and int8
// vectors, 1 for binary vectors and 2 for sparse vectors.
//
// Returns:
//   - []byte: The image, owned by the caller
//   - error: ErrUnsupportedFormat or ErrInvalidVector when v fails Validate
func (e *VectorEncoder) Encode(v value.Vector) ([]byte, error) {
	w := buffer.NewWriter()
	defer w.Release()

	if err := writeVector(w, v); err != nil {
		return nil, err
	}

	return w.Clone(), nil
}

// writeVector appends the VECTOR image of v to w.
func writeVector(w *buffer.Writer, v value.Vector) error {
	if err := v.Validate(); err != nil {
		return err
	}

	count := uint64(v.Dimensions())
	if v.Format == format.VectorBinary {
		count = uint64(len(v.Binary)) * 8
	}
	if count > math.MaxUint32 {
		return fmt.Errorf("%w: %d dimensions", errs.ErrInvalidVector, count)
	}

	header := section.NewVectorHeader(v.Format, uint32(count), v.Sparse)
	header.Write(w)

	if v.Sparse {
		w.WriteUint16BE(uint16(len(v.Indices))) //nolint: gosec
		for _, idx := range v.Indices {
			w.WriteUint32BE(idx)
		}
	}

	switch v.Format {
	case format.VectorFloat32:
		for _, f := range v.Float32 {
			w.WriteBinaryFloat(f)
		}
	case format.VectorFloat64:
		for _, f := range v.Float64 {
			w.WriteBinaryDouble(f)
		}
	case format.VectorInt8:
		for _, i := range v.Int8 {
			w.WriteInt8(i)
		}
	case format.VectorBinary:
		w.WriteBytes(v.Binary)
	}

	return nil
}
