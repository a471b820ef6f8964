package section

import (
	"fmt"

	"github.com/arloliu/oson/buffer"
	"github.com/arloliu/oson/errs"
)

// OSONHeader is the variable-size header at the start of an OSON image.
//
// Only Version, Flags and TreeSegSize are present for scalar images. The
// secondary flags and the long name fields exist only in version 3 images.
type OSONHeader struct {
	Version uint8
	Flags   OSONFlag
	// SecondaryFlags is only serialized for OSONVersionMaxFieldName65535.
	SecondaryFlags uint16

	NumShortFieldNames     uint32
	ShortFieldNamesSegSize uint32
	NumLongFieldNames      uint32
	LongFieldNamesSegSize  uint32

	TreeSegSize uint32
	// NumTinyNodes is always written as zero.
	NumTinyNodes uint16
}

// HasLongFieldNames returns whether the header describes a long field name segment.
func (h *OSONHeader) HasLongFieldNames() bool {
	return h.Version == OSONVersionMaxFieldName65535
}

// LongOffsetSize returns the byte width of long field name offsets: 2 or 4.
func (h *OSONHeader) LongOffsetSize() int {
	if h.SecondaryFlags&SecFlagFieldNamesSegUint16 != 0 {
		return 2
	}

	return 4
}

// NumFieldNames returns the total number of field names in both segments.
func (h *OSONHeader) NumFieldNames() int {
	return int(h.NumShortFieldNames) + int(h.NumLongFieldNames)
}

// Size returns the serialized size of the header in bytes.
func (h *OSONHeader) Size() int {
	size := 4 + 2 + h.Flags.TreeSegSizeWidth()
	if h.Flags.IsScalar() {
		return size
	}

	size += h.Flags.FieldIDSize() + h.Flags.ShortOffsetSize() + 2
	if h.HasLongFieldNames() {
		size += 2 + 4 + 4
	}

	return size
}

// Parse reads the header from r, leaving r positioned at the first field
// name segment (or at the tree segment for scalar images).
//
// Returns:
//   - error: ErrInvalidMagic, ErrUnsupportedVersion, or a cursor error on truncated input
func (h *OSONHeader) Parse(r *buffer.Reader) error {
	magic, err := r.ReadBytes(3)
	if err != nil {
		return err
	}
	if magic[0] != OSONMagic1 || magic[1] != OSONMagic2 || magic[2] != OSONMagic3 {
		return fmt.Errorf("%w: % x", errs.ErrInvalidMagic, magic)
	}

	if h.Version, err = r.ReadUint8(); err != nil {
		return err
	}
	if h.Version != OSONVersionMaxFieldName255 && h.Version != OSONVersionMaxFieldName65535 {
		return fmt.Errorf("%w: oson version %d", errs.ErrUnsupportedVersion, h.Version)
	}

	flags, err := r.ReadUint16BE()
	if err != nil {
		return err
	}
	h.Flags = OSONFlag(flags)

	if h.Flags.IsScalar() {
		h.TreeSegSize, err = ReadSized(r, h.Flags.TreeSegSizeWidth())
		return err
	}

	if h.NumShortFieldNames, err = ReadSized(r, h.Flags.FieldIDSize()); err != nil {
		return err
	}
	if h.ShortFieldNamesSegSize, err = ReadSized(r, h.Flags.ShortOffsetSize()); err != nil {
		return err
	}

	if h.HasLongFieldNames() {
		if h.SecondaryFlags, err = r.ReadUint16BE(); err != nil {
			return err
		}
		if h.NumLongFieldNames, err = r.ReadUint32BE(); err != nil {
			return err
		}
		if h.LongFieldNamesSegSize, err = r.ReadUint32BE(); err != nil {
			return err
		}
	}

	if h.TreeSegSize, err = ReadSized(r, h.Flags.TreeSegSizeWidth()); err != nil {
		return err
	}
	h.NumTinyNodes, err = r.ReadUint16BE()

	return err
}

// Write serializes the header to w. Field widths follow the flags, so the
// flags must already describe the counts and sizes being written.
func (h *OSONHeader) Write(w *buffer.Writer) {
	w.WriteUint8(OSONMagic1)
	w.WriteUint8(OSONMagic2)
	w.WriteUint8(OSONMagic3)
	w.WriteUint8(h.Version)
	w.WriteUint16BE(uint16(h.Flags))

	if h.Flags.IsScalar() {
		WriteSized(w, h.Flags.TreeSegSizeWidth(), h.TreeSegSize)
		return
	}

	WriteSized(w, h.Flags.FieldIDSize(), h.NumShortFieldNames)
	WriteSized(w, h.Flags.ShortOffsetSize(), h.ShortFieldNamesSegSize)
	if h.HasLongFieldNames() {
		w.WriteUint16BE(h.SecondaryFlags)
		w.WriteUint32BE(h.NumLongFieldNames)
		w.WriteUint32BE(h.LongFieldNamesSegSize)
	}
	WriteSized(w, h.Flags.TreeSegSizeWidth(), h.TreeSegSize)
	w.WriteUint16BE(h.NumTinyNodes)
}

// ParseOSONHeader parses an OSONHeader from the start of r.
func ParseOSONHeader(r *buffer.Reader) (OSONHeader, error) {
	h := OSONHeader{}
	if err := h.Parse(r); err != nil {
		return OSONHeader{}, err
	}

	return h, nil
}

// ReadSized reads a big-endian unsigned integer of 1, 2 or 4 bytes, the
// field widths used throughout OSON images.
func ReadSized(r *buffer.Reader, width int) (uint32, error) {
	switch width {
	case 1:
		v, err := r.ReadUint8()
		return uint32(v), err
	case 2:
		v, err := r.ReadUint16BE()
		return uint32(v), err
	default:
		return r.ReadUint32BE()
	}
}

// WriteSized writes v as a big-endian unsigned integer of 1, 2 or 4 bytes.
func WriteSized(w *buffer.Writer, width int, v uint32) {
	switch width {
	case 1:
		w.WriteUint8(uint8(v))
	case 2:
		w.WriteUint16BE(uint16(v))
	default:
		w.WriteUint32BE(v)
	}
}
