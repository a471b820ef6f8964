package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/oson/endian"
	"github.com/arloliu/oson/errs"
)

// Binary float and double images are big-endian IEEE-754 with the sign bit
// flipped for non-negative values and every bit inverted for negative ones,
// so the byte images sort in numeric order.

// AppendBinaryDouble appends the 8-byte image of f to dst.
func AppendBinaryDouble(dst []byte, f float64) []byte {
	return endian.Network().AppendUint64(dst, orderedUint64(math.Float64bits(f)))
}

// EncodeBinaryDouble returns the 8-byte image of f.
func EncodeBinaryDouble(f float64) []byte {
	return AppendBinaryDouble(make([]byte, 0, 8), f)
}

// DecodeBinaryDouble decodes the first 8 bytes of buf. buf is not modified.
func DecodeBinaryDouble(buf []byte) (float64, error) {
	if len(buf) < 8 {
		return 0, fmt.Errorf("%w: binary double needs 8 bytes, got %d", errs.ErrBufferLengthInsufficient, len(buf))
	}

	return math.Float64frombits(unorderedUint64(endian.Network().Uint64(buf))), nil
}

// AppendBinaryFloat appends the 4-byte image of f to dst.
func AppendBinaryFloat(dst []byte, f float32) []byte {
	return endian.Network().AppendUint32(dst, orderedUint32(math.Float32bits(f)))
}

// EncodeBinaryFloat returns the 4-byte image of f.
func EncodeBinaryFloat(f float32) []byte {
	return AppendBinaryFloat(make([]byte, 0, 4), f)
}

// DecodeBinaryFloat decodes the first 4 bytes of buf. buf is not modified.
func DecodeBinaryFloat(buf []byte) (float32, error) {
	if len(buf) < 4 {
		return 0, fmt.Errorf("%w: binary float needs 4 bytes, got %d", errs.ErrBufferLengthInsufficient, len(buf))
	}

	return math.Float32frombits(unorderedUint32(endian.Network().Uint32(buf))), nil
}

func orderedUint64(bits uint64) uint64 {
	if bits&(1<<63) == 0 {
		return bits | 1<<63
	}

	return ^bits
}

func unorderedUint64(bits uint64) uint64 {
	if bits&(1<<63) != 0 {
		return bits &^ (1 << 63)
	}

	return ^bits
}

func orderedUint32(bits uint32) uint32 {
	if bits&(1<<31) == 0 {
		return bits | 1<<31
	}

	return ^bits
}

func unorderedUint32(bits uint32) uint32 {
	if bits&(1<<31) != 0 {
		return bits &^ (1 << 31)
	}

	return ^bits
}
