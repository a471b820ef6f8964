// Package buffer provides the byte cursors the image codecs are built on.
//
// A Reader walks a fixed byte slice with bounds-checked big-endian reads,
// variable-length integers and length-prefixed values. A Writer appends to a
// pooled buffer that grows in 64 KiB chunks and supports reserving fixed-width
// slots that are patched once their value is known:
//
//	w := buffer.NewWriter()
//	defer w.Release()
//
//	slot := w.ReserveSlot(4)
//	w.WriteBytes(payload)
//	if err := w.PatchSlot(slot, uint32(len(payload))); err != nil {
//	    return err
//	}
//
// Variable-length integers (UB2/UB4/UB8 unsigned, SB2/SB4/SB8 signed) are a
// length byte followed by that many big-endian magnitude bytes. Length 0 means
// the value zero; the high bit of the length byte marks a negative value.
//
// Neither type is safe for concurrent use.
package buffer

const (
	// MaxShortLength is the longest value written with a single length byte.
	MaxShortLength = 252
	// LongLengthIndicator introduces a chunked value: UB4 chunk lengths, each
	// followed by its bytes, terminated by a zero length.
	LongLengthIndicator = 254
	// NullLengthIndicator marks a null value.
	NullLengthIndicator = 255
	// ChunkSize is the largest chunk of a chunked value.
	ChunkSize = 64 * 1024
)
