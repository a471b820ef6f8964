package section

// OSON image identification.
const (
	OSONMagic1 = 0xFF
	OSONMagic2 = 0x4A
	OSONMagic3 = 0x5A

	// OSONVersionMaxFieldName255 images only carry the short field name segment.
	OSONVersionMaxFieldName255 = 1
	// OSONVersionMaxFieldName65535 images add the secondary flags and the long field name segment.
	OSONVersionMaxFieldName65535 = 3
)

// OSON primary flags (16-bit, big-endian, right after the version byte).
const (
	FlagRelativeOffset      = 0x0001 // child offsets are relative to their container
	FlagInlineLeaf          = 0x0002
	FlagNumFieldNamesUint32 = 0x0008 // field ids and the short name count are 4 bytes
	FlagIsScalar            = 0x0010 // the tree is a single scalar node, no name segments
	FlagHashIDUint8         = 0x0100
	FlagNumFieldNamesUint16 = 0x0400 // field ids and the short name count are 2 bytes
	FlagFieldNamesSegUint32 = 0x0800 // short segment size and name offsets are 4 bytes
	FlagTreeSegUint32       = 0x1000 // tree segment size is 4 bytes
	FlagTinyNodesStat       = 0x2000

	// SecFlagFieldNamesSegUint16 marks 2-byte long field name offsets (4 bytes otherwise).
	SecFlagFieldNamesSegUint16 = 0x0100
)

// OSON tree node types.
const (
	NodeNull              = 0x30
	NodeTrue              = 0x31
	NodeFalse             = 0x32
	NodeStringLenUint8    = 0x33
	NodeNumberLenUint8    = 0x34
	NodeBinaryDouble      = 0x36
	NodeStringLenUint16   = 0x37
	NodeStringLenUint32   = 0x38
	NodeTimestamp         = 0x39
	NodeBinaryLenUint16   = 0x3A
	NodeBinaryLenUint32   = 0x3B
	NodeDate              = 0x3C
	NodeExtended          = 0x7B
	NodeTimestampTZ       = 0x7C
	NodeTimestamp7        = 0x7D
	NodeID                = 0x7E
	NodeBinaryFloat       = 0x7F
	NodeObject            = 0x84
	NodeArray             = 0xC0
	ExtendedNodeVector    = 0x01
	MaxInlineStringLength = 0x1F
)

// Container node bits.
const (
	ContainerMask           = 0x80
	ContainerArrayMask      = 0x40 // set for arrays, clear for objects
	ContainerOffsetUint32   = 0x20 // child offsets are 4 bytes, 2 otherwise
	ContainerChildrenMask   = 0x18
	ContainerChildrenUint8  = 0x00
	ContainerChildrenUint16 = 0x08
	ContainerChildrenUint32 = 0x10
	ContainerSharedFields   = 0x18 // child count and field ids live in another container
)

// Inline-length scalar node ranges, matched on the high nibble of the tag.
const (
	InlineNumberMask   = 0xF0
	InlineNumber       = 0x20 // body length is (tag & 0x0F) + 1
	InlineNumberAlt    = 0x60
	InlineInteger      = 0x40 // body length is tag & 0x0F
	InlineIntegerAlt   = 0x50
	InlineLengthMask   = 0x0F
	InlineStringPrefix = 0xE0 // tag & 0xE0 == 0 is a string of tag bytes
)

// Field name segment limits.
const (
	MaxShortFieldNameSize = 255
	MaxLongFieldNameSize  = 65535
	// MaxIDSize is the largest identifier carried by an ID node.
	MaxIDSize = 16
)

// VECTOR image identification and flags.
const (
	VectorMagic = 0xDB

	VectorVersionBase       = 0
	VectorVersionWithBinary = 1
	VectorVersionWithSparse = 2

	VectorFlagNorm       = 0x0002 // reserved norm bytes hold a norm
	VectorFlagNormSource = 0x0010
	VectorFlagSparse     = 0x0020 // count is the dimension count; indices follow the header

	// VectorHeaderSize is magic, version, flags, format, count and the 8 reserved norm bytes.
	VectorHeaderSize   = 17
	VectorReservedSize = 8
	// MaxSparseElements bounds the 16-bit element count of a sparse vector.
	MaxSparseElements = 65535
)
