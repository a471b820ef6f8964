package buffer

import (
	"fmt"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/arloliu/oson/encoding"
	"github.com/arloliu/oson/endian"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/format"
)

// Reader is a read cursor over a fixed byte slice.
//
// Slices returned by ReadBytes alias the underlying data; use ReadBytesCopy
// when the result must outlive it.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Size returns the total length of the underlying data.
func (r *Reader) Size() int {
	return len(r.data)
}

// NumBytesLeft returns the number of unread bytes.
func (r *Reader) NumBytesLeft() int {
	return len(r.data) - r.pos
}

// SetPos moves the cursor to an absolute offset. pos may equal Size.
func (r *Reader) SetPos(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return fmt.Errorf("%w: seek to offset %d of %d", errs.ErrUnexpectedEndOfData, pos, len(r.data))
	}
	r.pos = pos

	return nil
}

func (r *Reader) need(n int) error {
	if n < 0 || n > len(r.data)-r.pos {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			errs.ErrUnexpectedEndOfData, n, r.pos, len(r.data)-r.pos)
	}

	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n

	return nil
}

// ReadBytes returns the next n bytes without copying.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n

	return b, nil
}

// ReadBytesCopy returns a copy of the next n bytes.
func (r *Reader) ReadBytesCopy(n int) ([]byte, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}

	return append(make([]byte, 0, n), b...), nil
}

// ReadUint8 reads one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++

	return v, nil
}

// ReadInt8 reads one byte as a two's complement value.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadUint16BE reads a big-endian uint16.
func (r *Reader) ReadUint16BE() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}

	return endian.GetBigEndianEngine().Uint16(b), nil
}

// ReadUint16LE reads a little-endian uint16.
func (r *Reader) ReadUint16LE() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}

	return endian.GetLittleEndianEngine().Uint16(b), nil
}

// ReadUint32BE reads a big-endian uint32.
func (r *Reader) ReadUint32BE() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}

	return endian.GetBigEndianEngine().Uint32(b), nil
}

// ReadUint64BE reads a big-endian uint64.
func (r *Reader) ReadUint64BE() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}

	return endian.GetBigEndianEngine().Uint64(b), nil
}

// readInteger reads a variable-length integer of at most maxSize magnitude bytes.
// With skip set the magnitude is consumed but not assembled.
func (r *Reader) readInteger(maxSize int, signed, skip bool) (uint64, bool, error) {
	start := r.pos

	size, err := r.ReadUint8()
	if err != nil {
		return 0, false, err
	}
	if size == 0 {
		return 0, false, nil
	}

	negative := size&0x80 != 0
	if negative {
		if !signed {
			return 0, false, fmt.Errorf("%w: length byte 0x%02x at offset %d", errs.ErrUnexpectedNegativeInteger, size, start)
		}
		size &= 0x7f
	}
	if int(size) > maxSize {
		return 0, false, fmt.Errorf("%w: %d bytes at offset %d, max %d", errs.ErrIntegerTooLarge, size, start, maxSize)
	}

	if skip {
		return 0, negative, r.Skip(int(size))
	}

	b, err := r.ReadBytes(int(size))
	if err != nil {
		return 0, false, err
	}

	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}

	return v, negative, nil
}

// ReadUB2 reads an unsigned variable-length integer of up to 2 bytes.
func (r *Reader) ReadUB2() (uint16, error) {
	v, _, err := r.readInteger(2, false, false)
	return uint16(v), err
}

// ReadUB4 reads an unsigned variable-length integer of up to 4 bytes.
func (r *Reader) ReadUB4() (uint32, error) {
	v, _, err := r.readInteger(4, false, false)
	return uint32(v), err
}

// ReadUB8 reads an unsigned variable-length integer of up to 8 bytes.
func (r *Reader) ReadUB8() (uint64, error) {
	v, _, err := r.readInteger(8, false, false)
	return v, err
}

// ReadSB2 reads a signed variable-length integer of up to 2 bytes.
func (r *Reader) ReadSB2() (int16, error) {
	v, err := r.readSigned(2)
	return int16(v), err
}

// ReadSB4 reads a signed variable-length integer of up to 4 bytes.
func (r *Reader) ReadSB4() (int32, error) {
	v, err := r.readSigned(4)
	return int32(v), err
}

// ReadSB8 reads a signed variable-length integer of up to 8 bytes.
func (r *Reader) ReadSB8() (int64, error) {
	return r.readSigned(8)
}

func (r *Reader) readSigned(maxSize int) (int64, error) {
	v, negative, err := r.readInteger(maxSize, true, false)
	if err != nil {
		return 0, err
	}
	if negative {
		return -int64(v), nil
	}

	return int64(v), nil
}

// SkipUB1 skips a single byte.
func (r *Reader) SkipUB1() error {
	return r.Skip(1)
}

// SkipUB2 skips an unsigned variable-length integer of up to 2 bytes.
func (r *Reader) SkipUB2() error {
	_, _, err := r.readInteger(2, false, true)
	return err
}

// SkipUB4 skips an unsigned variable-length integer of up to 4 bytes.
func (r *Reader) SkipUB4() error {
	_, _, err := r.readInteger(4, false, true)
	return err
}

// SkipUB8 skips an unsigned variable-length integer of up to 8 bytes.
func (r *Reader) SkipUB8() error {
	_, _, err := r.readInteger(8, false, true)
	return err
}

// SkipSB4 skips a signed variable-length integer of up to 4 bytes.
func (r *Reader) SkipSB4() error {
	_, _, err := r.readInteger(4, true, true)
	return err
}

// ReadBytesWithLength reads a length-prefixed value.
//
// A length byte of 0 or NullLengthIndicator yields nil. LongLengthIndicator
// introduces a chunked value, which is assembled into a fresh slice; short
// values alias the underlying data.
func (r *Reader) ReadBytesWithLength() ([]byte, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	switch n {
	case 0, NullLengthIndicator:
		return nil, nil
	case LongLengthIndicator:
		return r.readChunks()
	default:
		return r.ReadBytes(int(n))
	}
}

func (r *Reader) readChunks() ([]byte, error) {
	out := make([]byte, 0)
	for {
		chunkLen, err := r.ReadUB4()
		if err != nil {
			return nil, err
		}
		if chunkLen == 0 {
			return out, nil
		}

		chunk, err := r.ReadBytes(int(chunkLen))
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
}

// ReadOracleNumber reads a length-prefixed packed decimal and returns its text.
// The second result is false for a null value.
func (r *Reader) ReadOracleNumber() (string, bool, error) {
	b, err := r.ReadBytesWithLength()
	if err != nil || b == nil {
		return "", false, err
	}

	text, err := encoding.DecodeNumber(b)
	if err != nil {
		return "", false, err
	}

	return text, true, nil
}

// ReadOracleDate reads a length-prefixed 7, 11 or 13 byte date.
// The second result is false for a null value.
func (r *Reader) ReadOracleDate(loc *time.Location) (time.Time, bool, error) {
	b, err := r.ReadBytesWithLength()
	if err != nil || b == nil {
		return time.Time{}, false, err
	}

	t, err := encoding.DecodeDate(b, loc)
	if err != nil {
		return time.Time{}, false, err
	}

	return t, true, nil
}

// ReadBinaryDouble reads a length-prefixed binary double.
func (r *Reader) ReadBinaryDouble() (float64, bool, error) {
	b, err := r.ReadBytesWithLength()
	if err != nil || b == nil {
		return 0, false, err
	}

	f, err := encoding.DecodeBinaryDouble(b)
	if err != nil {
		return 0, false, err
	}

	return f, true, nil
}

// ReadBinaryFloat reads a length-prefixed binary float.
func (r *Reader) ReadBinaryFloat() (float32, bool, error) {
	b, err := r.ReadBytesWithLength()
	if err != nil || b == nil {
		return 0, false, err
	}

	f, err := encoding.DecodeBinaryFloat(b)
	if err != nil {
		return 0, false, err
	}

	return f, true, nil
}

// ReadBinaryInteger reads a length-prefixed big-endian two's complement
// integer of up to 4 bytes. A null value reads as 0.
func (r *Reader) ReadBinaryInteger() (int32, error) {
	start := r.pos

	b, err := r.ReadBytesWithLength()
	if err != nil || len(b) == 0 {
		return 0, err
	}
	if len(b) > 4 {
		return 0, fmt.Errorf("%w: %d bytes at offset %d, max 4", errs.ErrIntegerTooLarge, len(b), start)
	}

	v := int64(int8(b[0]))
	for _, c := range b[1:] {
		v = v<<8 | int64(c)
	}

	return int32(v), nil
}

// ReadBool reads a length-prefixed boolean; the last byte equal to 1 means true.
// The second result is false for a null value or an empty chunked value.
func (r *Reader) ReadBool() (bool, bool, error) {
	b, err := r.ReadBytesWithLength()
	if err != nil || len(b) == 0 {
		return false, false, err
	}

	return b[len(b)-1] == 1, true, nil
}

// ReadStr reads a length-prefixed string in the given character set form:
// UTF-8 for CharsetFormImplicit, UTF-16 big-endian for CharsetFormNChar.
// The second result is false for a null value.
func (r *Reader) ReadStr(form format.CharsetForm) (string, bool, error) {
	b, err := r.ReadBytesWithLength()
	if err != nil || b == nil {
		return "", false, err
	}

	if form != format.CharsetFormNChar {
		return string(b), true, nil
	}

	decoded, err := utf16BE.NewDecoder().Bytes(b)
	if err != nil {
		return "", false, fmt.Errorf("%w: utf-16 string: %v", errs.ErrInvalidValue, err)
	}

	return string(decoded), true, nil
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
