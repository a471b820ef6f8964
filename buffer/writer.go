package buffer

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/oson/encoding"
	"github.com/arloliu/oson/endian"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/format"
	"github.com/arloliu/oson/internal/pool"
)

// Slot is a fixed-width region reserved in a Writer and patched later.
type Slot struct {
	Pos   int
	Width int
}

// Writer is an append-only cursor over a pooled, chunk-growing buffer.
//
// Call Release when done; the slice returned by Bytes is invalid afterwards.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates a Writer backed by a buffer from the image pool.
func NewWriter() *Writer {
	return &Writer{
		buf:    pool.GetImageBuffer(),
		engine: endian.Network(),
	}
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the written bytes. The slice aliases the pooled buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Clone returns a copy of the written bytes owned by the caller.
func (w *Writer) Clone() []byte {
	return append(make([]byte, 0, w.buf.Len()), w.buf.Bytes()...)
}

// Reset discards the written bytes, keeping the capacity.
func (w *Writer) Reset() {
	w.buf.Reset()
}

// Release returns the buffer to the pool. The Writer must not be used afterwards.
func (w *Writer) Release() {
	pool.PutImageBuffer(w.buf)
	w.buf = nil
}

// Reserve appends n zero bytes and returns their start offset.
func (w *Writer) Reserve(n int) int {
	start := w.buf.ExtendOrGrow(n)
	clear(w.buf.B[start : start+n])

	return start
}

// ReserveSlot reserves a zeroed slot of width 1, 2 or 4 bytes.
func (w *Writer) ReserveSlot(width int) Slot {
	return Slot{Pos: w.Reserve(width), Width: width}
}

// PatchSlot writes v big-endian into a previously reserved slot.
//
// Returns:
//   - error: ErrInvalidSlot if the slot lies outside the written bytes, has an
//     unsupported width, or v does not fit the width
func (w *Writer) PatchSlot(s Slot, v uint32) error {
	if s.Pos < 0 || s.Pos+s.Width > w.buf.Len() {
		return fmt.Errorf("%w: slot at %d width %d beyond %d written bytes", errs.ErrInvalidSlot, s.Pos, s.Width, w.buf.Len())
	}

	b := w.buf.B[s.Pos : s.Pos+s.Width]
	switch s.Width {
	case 1:
		if v > math.MaxUint8 {
			return fmt.Errorf("%w: %d does not fit 1 byte", errs.ErrInvalidSlot, v)
		}
		b[0] = byte(v)
	case 2:
		if v > math.MaxUint16 {
			return fmt.Errorf("%w: %d does not fit 2 bytes", errs.ErrInvalidSlot, v)
		}
		w.engine.PutUint16(b, uint16(v))
	case 4:
		w.engine.PutUint32(b, v)
	default:
		return fmt.Errorf("%w: width %d", errs.ErrInvalidSlot, s.Width)
	}

	return nil
}

// WriteUint8 appends one byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf.MustWriteByte(v)
}

// WriteInt8 appends one two's complement byte.
func (w *Writer) WriteInt8(v int8) {
	w.buf.MustWriteByte(byte(v))
}

// WriteUint16BE appends a big-endian uint16.
func (w *Writer) WriteUint16BE(v uint16) {
	w.buf.Grow(2)
	w.buf.B = w.engine.AppendUint16(w.buf.B, v)
}

// WriteUint16LE appends a little-endian uint16.
func (w *Writer) WriteUint16LE(v uint16) {
	w.buf.Grow(2)
	w.buf.B = endian.GetLittleEndianEngine().AppendUint16(w.buf.B, v)
}

// WriteUint32BE appends a big-endian uint32.
func (w *Writer) WriteUint32BE(v uint32) {
	w.buf.Grow(4)
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)
}

// WriteInt32BE appends a big-endian two's complement int32.
func (w *Writer) WriteInt32BE(v int32) {
	w.WriteUint32BE(uint32(v))
}

// WriteUint64BE appends a big-endian uint64.
func (w *Writer) WriteUint64BE(v uint64) {
	w.buf.Grow(8)
	w.buf.B = w.engine.AppendUint64(w.buf.B, v)
}

// WriteBytes appends b.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.MustWrite(b)
}

// WriteString appends the UTF-8 bytes of s without a length prefix.
func (w *Writer) WriteString(s string) {
	w.buf.Grow(len(s))
	w.buf.B = append(w.buf.B, s...)
}

// WriteUB2 appends v as an unsigned variable-length integer of up to 2 bytes.
func (w *Writer) WriteUB2(v uint16) {
	switch {
	case v == 0:
		w.WriteUint8(0)
	case v <= math.MaxUint8:
		w.WriteUint8(1)
		w.WriteUint8(uint8(v))
	default:
		w.WriteUint8(2)
		w.WriteUint16BE(v)
	}
}

// WriteUB4 appends v as an unsigned variable-length integer of up to 4 bytes.
func (w *Writer) WriteUB4(v uint32) {
	switch {
	case v == 0:
		w.WriteUint8(0)
	case v <= math.MaxUint8:
		w.WriteUint8(1)
		w.WriteUint8(uint8(v))
	case v <= math.MaxUint16:
		w.WriteUint8(2)
		w.WriteUint16BE(uint16(v))
	default:
		w.WriteUint8(4)
		w.WriteUint32BE(v)
	}
}

// WriteUB8 appends v as an unsigned variable-length integer of up to 8 bytes.
func (w *Writer) WriteUB8(v uint64) {
	switch {
	case v == 0:
		w.WriteUint8(0)
	case v <= math.MaxUint8:
		w.WriteUint8(1)
		w.WriteUint8(uint8(v))
	case v <= math.MaxUint16:
		w.WriteUint8(2)
		w.WriteUint16BE(uint16(v))
	case v <= math.MaxUint32:
		w.WriteUint8(4)
		w.WriteUint32BE(uint32(v))
	default:
		w.WriteUint8(8)
		w.WriteUint64BE(v)
	}
}

// WriteBytesWithLength appends b behind a length prefix. Values of up to
// MaxShortLength bytes use a single length byte; longer values are written as
// LongLengthIndicator followed by UB4-prefixed chunks of at most ChunkSize
// bytes and a terminating zero length.
func (w *Writer) WriteBytesWithLength(b []byte) {
	if len(b) <= MaxShortLength {
		w.WriteUint8(uint8(len(b)))
		w.WriteBytes(b)

		return
	}

	w.WriteUint8(LongLengthIndicator)
	for len(b) > 0 {
		n := min(len(b), ChunkSize)
		w.WriteUB4(uint32(n))
		w.WriteBytes(b[:n])
		b = b[n:]
	}
	w.WriteUB4(0)
}

// WriteStr appends s behind a length prefix in the given character set form,
// the inverse of Reader.ReadStr.
func (w *Writer) WriteStr(s string, form format.CharsetForm) error {
	if form != format.CharsetFormNChar {
		w.WriteBytesWithLength([]byte(s))
		return nil
	}

	encoded, err := utf16BE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("%w: utf-16 string: %v", errs.ErrInvalidValue, err)
	}
	w.WriteBytesWithLength(encoded)

	return nil
}

// WriteOracleNumber appends a length byte and the packed decimal body of text.
func (w *Writer) WriteOracleNumber(text string) error {
	var scratch [encoding.NumberMaxSize]byte
	body, err := encoding.AppendNumber(scratch[:0], text)
	if err != nil {
		return err
	}

	w.WriteUint8(uint8(len(body)))
	w.WriteBytes(body)

	return nil
}

// WriteOracleDate appends the date image of t, preceded by its length byte
// when writeLength is set. Timestamps without a fractional second are written
// in the 7-byte form.
func (w *Writer) WriteOracleDate(t time.Time, typ format.DateType, loc *time.Location, writeLength bool) error {
	var scratch [13]byte
	image, err := encoding.AppendDate(scratch[:0], t, typ, loc)
	if err != nil {
		return err
	}

	if writeLength {
		w.WriteUint8(uint8(len(image)))
	}
	w.WriteBytes(image)

	return nil
}

// WriteBinaryDouble appends the 8-byte binary double image of f.
func (w *Writer) WriteBinaryDouble(f float64) {
	w.buf.Grow(8)
	w.buf.B = encoding.AppendBinaryDouble(w.buf.B, f)
}

// WriteBinaryFloat appends the 4-byte binary float image of f.
func (w *Writer) WriteBinaryFloat(f float32) {
	w.buf.Grow(4)
	w.buf.B = encoding.AppendBinaryFloat(w.buf.B, f)
}
