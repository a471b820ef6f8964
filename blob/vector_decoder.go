package blob

import (
	"fmt"

	"github.com/arloliu/oson/buffer"
	"github.com/arloliu/oson/encoding"
	"github.com/arloliu/oson/endian"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/format"
	"github.com/arloliu/oson/section"
	"github.com/arloliu/oson/value"
)

// VectorDecoder decodes a VECTOR image.
//
// Note: The VectorDecoder is NOT thread-safe and is consumed by Decode.
type VectorDecoder struct {
	r *buffer.Reader
}

// NewVectorDecoder creates a decoder over data. data is not modified or retained after Decode.
func NewVectorDecoder(data []byte) *VectorDecoder {
	return &VectorDecoder{r: buffer.NewReader(data)}
}

// Decode decodes the image.
//
// Returns:
//   - value.Vector: The dense or sparse vector
//   - error: ErrInvalidMagic, ErrUnsupportedVersion, ErrUnsupportedFormat,
//     ErrInvalidVector, or ErrUnexpectedEndOfData on a truncated image
func (d *VectorDecoder) Decode() (value.Vector, error) {
	return readVector(d.r)
}

// readVector reads one VECTOR image from r.
func readVector(r *buffer.Reader) (value.Vector, error) {
	header, err := section.ParseVectorHeader(r)
	if err != nil {
		return value.Vector{}, err
	}

	v := value.Vector{Format: header.Format}
	numElements := int(header.NumElements())

	switch {
	case header.Flags.IsSparse():
		if header.Format == format.VectorBinary {
			return value.Vector{}, fmt.Errorf("%w: sparse binary vector", errs.ErrInvalidVector)
		}

		n, err := r.ReadUint16BE()
		if err != nil {
			return value.Vector{}, err
		}
		raw, err := r.ReadBytes(int(n) * 4)
		if err != nil {
			return value.Vector{}, err
		}

		v.Sparse = true
		v.NumDimensions = header.Count
		v.Indices = make([]uint32, n)
		engine := endian.GetBigEndianEngine()
		for i := range v.Indices {
			v.Indices[i] = engine.Uint32(raw[4*i:])
		}
		numElements = int(n)
	case header.Format == format.VectorBinary && header.Count%8 != 0:
		return value.Vector{}, fmt.Errorf("%w: %d binary dimensions, not a multiple of 8", errs.ErrInvalidVector, header.Count)
	}

	if err := readVectorElements(r, &v, numElements); err != nil {
		return value.Vector{}, err
	}

	if v.Sparse {
		if err := v.Validate(); err != nil {
			return value.Vector{}, err
		}
	}

	return v, nil
}

func readVectorElements(r *buffer.Reader, v *value.Vector, n int) error {
	elemSize := 1
	switch v.Format {
	case format.VectorFloat32:
		elemSize = 4
	case format.VectorFloat64:
		elemSize = 8
	}

	payload, err := r.ReadBytes(n * elemSize)
	if err != nil {
		return err
	}

	switch v.Format {
	case format.VectorFloat32:
		v.Float32 = make([]float32, n)
		for i := range v.Float32 {
			if v.Float32[i], err = encoding.DecodeBinaryFloat(payload[4*i:]); err != nil {
				return err
			}
		}
	case format.VectorFloat64:
		v.Float64 = make([]float64, n)
		for i := range v.Float64 {
			if v.Float64[i], err = encoding.DecodeBinaryDouble(payload[8*i:]); err != nil {
				return err
			}
		}
	case format.VectorInt8:
		v.Int8 = make([]int8, n)
		for i, b := range payload {
			v.Int8[i] = int8(b)
		}
	case format.VectorBinary:
		v.Binary = append(make([]uint8, 0, n), payload...)
	}

	return nil
}
