package section

// OSONFlag is the 16-bit primary flags field of an OSON header.
type OSONFlag uint16

// NewOSONFlag returns the flags every encoded image starts from.
func NewOSONFlag() OSONFlag {
	return OSONFlag(FlagInlineLeaf)
}

// Has reports whether every bit of mask is set.
func (f OSONFlag) Has(mask uint16) bool {
	return uint16(f)&mask == mask
}

// Set sets the bits of mask.
func (f *OSONFlag) Set(mask uint16) {
	*f |= OSONFlag(mask)
}

// Clear clears the bits of mask.
func (f *OSONFlag) Clear(mask uint16) {
	*f &^= OSONFlag(mask)
}

// IsScalar returns whether the image holds a single scalar node.
func (f OSONFlag) IsScalar() bool {
	return f.Has(FlagIsScalar)
}

// HasRelativeOffsets returns whether container child offsets are relative to the container.
func (f OSONFlag) HasRelativeOffsets() bool {
	return f.Has(FlagRelativeOffset)
}

// FieldIDSize returns the byte width of field ids and of the short name count: 1, 2 or 4.
func (f OSONFlag) FieldIDSize() int {
	switch {
	case f.Has(FlagNumFieldNamesUint32):
		return 4
	case f.Has(FlagNumFieldNamesUint16):
		return 2
	default:
		return 1
	}
}

// SetFieldIDSize sets the field id width flags for the total number of unique field names.
func (f *OSONFlag) SetFieldIDSize(numFieldNames int) {
	f.Clear(FlagNumFieldNamesUint16 | FlagNumFieldNamesUint32)
	switch {
	case numFieldNames > 65535:
		f.Set(FlagNumFieldNamesUint32)
	case numFieldNames > 255:
		f.Set(FlagNumFieldNamesUint16)
	}
}

// ShortOffsetSize returns the byte width of the short segment size and name offsets: 2 or 4.
func (f OSONFlag) ShortOffsetSize() int {
	if f.Has(FlagFieldNamesSegUint32) {
		return 4
	}

	return 2
}

// TreeSegSizeWidth returns the byte width of the tree segment size: 2 or 4.
func (f OSONFlag) TreeSegSizeWidth() int {
	if f.Has(FlagTreeSegUint32) {
		return 4
	}

	return 2
}

// VectorFlag is the 16-bit flags field of a VECTOR header.
type VectorFlag uint16

// Has reports whether every bit of mask is set.
func (f VectorFlag) Has(mask uint16) bool {
	return uint16(f)&mask == mask
}

// IsSparse returns whether the image holds a sparse vector.
func (f VectorFlag) IsSparse() bool {
	return f.Has(VectorFlagSparse)
}

// HasNorm returns whether the reserved norm bytes are flagged as present.
func (f VectorFlag) HasNorm() bool {
	return f.Has(VectorFlagNorm)
}
