package section

import (
	"fmt"

	"github.com/arloliu/oson/buffer"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/format"
)

// VectorHeader is the fixed 17-byte header of a VECTOR image.
type VectorHeader struct {
	// Version is the lowest version able to describe the image.
	Version uint8
	Flags   VectorFlag
	Format  format.VectorFormat
	// Count is the number of dimensions. For sparse images it is the full
	// dimension count, not the number of stored elements.
	Count uint32
}

// NewVectorHeader builds the header written for a vector of the given format.
//
// Binary images reserve the norm bytes without flagging a norm; sparse images
// set the sparse flag and need version 2.
func NewVectorHeader(f format.VectorFormat, count uint32, sparse bool) VectorHeader {
	h := VectorHeader{
		Version: VectorVersionBase,
		Flags:   VectorFlag(VectorFlagNormSource | VectorFlagNorm),
		Format:  f,
		Count:   count,
	}

	if f == format.VectorBinary {
		h.Version = VectorVersionWithBinary
		h.Flags = VectorFlag(VectorFlagNormSource)
	}
	if sparse {
		h.Version = VectorVersionWithSparse
		h.Flags |= VectorFlag(VectorFlagSparse)
	}

	return h
}

// NumElements returns the number of stored element slots for a dense image:
// Count, or Count/8 bytes for the packed-bit format.
func (h *VectorHeader) NumElements() uint32 {
	if h.Format == format.VectorBinary {
		return h.Count / 8
	}

	return h.Count
}

// Parse reads the header from r, including the reserved norm bytes when present.
//
// Returns:
//   - error: ErrInvalidMagic, ErrUnsupportedVersion, ErrUnsupportedFormat, or a cursor error
func (h *VectorHeader) Parse(r *buffer.Reader) error {
	magic, err := r.ReadUint8()
	if err != nil {
		return err
	}
	if magic != VectorMagic {
		return fmt.Errorf("%w: vector magic 0x%02x", errs.ErrInvalidMagic, magic)
	}

	if h.Version, err = r.ReadUint8(); err != nil {
		return err
	}
	if h.Version > VectorVersionWithSparse {
		return fmt.Errorf("%w: vector version %d", errs.ErrUnsupportedVersion, h.Version)
	}

	flags, err := r.ReadUint16BE()
	if err != nil {
		return err
	}
	h.Flags = VectorFlag(flags)

	f, err := r.ReadUint8()
	if err != nil {
		return err
	}
	h.Format = format.VectorFormat(f)
	if !h.Format.IsValid() {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedFormat, f)
	}

	if h.Count, err = r.ReadUint32BE(); err != nil {
		return err
	}

	// binary images reserve the norm bytes without flagging them
	if h.Format == format.VectorBinary || h.Flags.HasNorm() {
		return r.Skip(VectorReservedSize)
	}

	return nil
}

// Write serializes the header to w, always reserving the 8 norm bytes.
func (h *VectorHeader) Write(w *buffer.Writer) {
	w.WriteUint8(VectorMagic)
	w.WriteUint8(h.Version)
	w.WriteUint16BE(uint16(h.Flags))
	w.WriteUint8(uint8(h.Format))
	w.WriteUint32BE(h.Count)
	w.Reserve(VectorReservedSize)
}

// ParseVectorHeader parses a VectorHeader from the start of r.
func ParseVectorHeader(r *buffer.Reader) (VectorHeader, error) {
	h := VectorHeader{}
	if err := h.Parse(r); err != nil {
		return VectorHeader{}, err
	}

	return h, nil
}
