// Package section defines the wire constants and header structures of OSON and VECTOR images.
//
// The encoders and decoders in package blob build on these types; this package
// only knows how headers are laid out, not how trees or vector bodies are built.
//
// # OSON Image Structure
//
// An OSON image is a header, up to two field name segments and a tree segment:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (variable, big-endian)                           │
//	│  - Magic FF 4A 5A, version (1 or 3), primary flags      │
//	│  - Short name count and segment size                    │
//	│  - Version 3: secondary flags, long name count and size │
//	│  - Tree segment size, tiny node count (always 0)        │
//	├─────────────────────────────────────────────────────────┤
//	│ Short Field Names Segment (names of at most 255 bytes)  │
//	│  - One hash byte per name                               │
//	│  - One offset per name (2 or 4 bytes)                   │
//	│  - Names, each prefixed by a 1-byte length              │
//	├─────────────────────────────────────────────────────────┤
//	│ Long Field Names Segment (version 3 only)               │
//	│  - One 2-byte hash entry per name                       │
//	│  - One offset per name (2 or 4 bytes)                   │
//	│  - Names, each prefixed by a 2-byte length              │
//	├─────────────────────────────────────────────────────────┤
//	│ Tree Segment                                            │
//	│  - Root node followed by all descendant nodes           │
//	└─────────────────────────────────────────────────────────┘
//
// Scalar images (FlagIsScalar) carry only the magic, version, flags and tree
// segment size before a single scalar node.
//
// # Header Field Widths
//
//	Field                 | Width              | Selected by
//	----------------------|--------------------|-------------------------------
//	Short name count      | 1, 2 or 4 bytes    | FlagNumFieldNamesUint16/Uint32
//	Short segment size    | 2 or 4 bytes       | FlagFieldNamesSegUint32
//	Long name offsets     | 2 or 4 bytes       | SecFlagFieldNamesSegUint16
//	Tree segment size     | 2 or 4 bytes       | FlagTreeSegUint32
//
// The field id width of object nodes equals the short name count width and is
// chosen from the total number of unique names in both segments.
//
// # Tree Nodes
//
// Every node starts with a type byte. Containers have the high bit set:
//
//	Bit 7   : container
//	Bit 6   : array (1) or object (0)
//	Bit 5   : child offsets are 4 bytes (1) or 2 bytes (0)
//	Bits 4-3: child count width 1/2/4 bytes, or 11 for a shared field id table
//
// An object is followed by its child count, one field id per child and one
// offset per child. An array has no field ids. Offsets are positions in the
// tree segment, or positions relative to the container when the image sets
// FlagRelativeOffset. A shared container stores an offset to another container
// in place of its child count, and borrows that container's count and field ids
// while keeping its own offset table.
//
// Scalars use the fixed tags NodeNull..NodeBinaryFloat or an inline-length
// range where the tag carries the body length:
//
//	Tag range        | Body
//	-----------------|---------------------------------------------
//	0x00-0x1F        | string of tag bytes
//	0x20-0x2F, 0x6x  | packed number of (tag & 0x0F) + 1 bytes
//	0x40-0x5F        | packed number of tag & 0x0F bytes
//
// # VECTOR Image Structure
//
//	Bytes  | Field       | Type   | Description
//	-------|-------------|--------|----------------------------------------
//	0      | Magic       | uint8  | 0xDB
//	1      | Version     | uint8  | 0 base, 1 binary format, 2 sparse
//	2-3    | Flags       | uint16 | VectorFlagNorm, NormSource, Sparse
//	4      | Format      | uint8  | format.VectorFormat
//	5-8    | Count       | uint32 | Dimension count
//	9-16   | Reserved    | 8 bytes| Norm space, currently zero
//
// Sparse images follow the header with a 2-byte element count and one 4-byte
// index per element. The element payload comes last: 4 bytes per float32,
// 8 per float64, 1 per int8, and one byte per 8 dimensions for binary vectors.
// Float payloads use the order-preserving transform of encoding.EncodeBinaryFloat.
package section
