package format

type (
	VectorFormat    uint8
	DateType        uint8
	CharsetForm     uint8
	CompressionType uint8
)

// Vector storage formats, as written in the vector image header.
const (
	VectorFloat32 VectorFormat = 2 // VectorFloat32 stores IEEE-754 single precision elements.
	VectorFloat64 VectorFormat = 3 // VectorFloat64 stores IEEE-754 double precision elements.
	VectorInt8    VectorFormat = 4 // VectorInt8 stores signed 8-bit elements.
	VectorBinary  VectorFormat = 5 // VectorBinary stores packed bits, 8 dimensions per byte.
)

// Date types select the byte width and calendar zone of an encoded date.
const (
	DateTypeDate         DateType = 1 // 7 bytes, calendar fields in the configured location.
	DateTypeTimestamp    DateType = 2 // 11 bytes, calendar fields in the configured location.
	DateTypeTimestampLTZ DateType = 3 // 11 bytes, UTC calendar fields.
	DateTypeTimestampTZ  DateType = 4 // 13 bytes, UTC calendar fields plus the zone offset.
)

// Charset forms select how string bytes are interpreted.
const (
	CharsetFormImplicit CharsetForm = 1 // CharsetFormImplicit is UTF-8.
	CharsetFormNChar    CharsetForm = 2 // CharsetFormNChar is UTF-16 big-endian.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (f VectorFormat) String() string {
	switch f {
	case VectorFloat32:
		return "Float32"
	case VectorFloat64:
		return "Float64"
	case VectorInt8:
		return "Int8"
	case VectorBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// IsValid reports whether f is one of the known vector formats.
func (f VectorFormat) IsValid() bool {
	return f >= VectorFloat32 && f <= VectorBinary
}

func (d DateType) String() string {
	switch d {
	case DateTypeDate:
		return "Date"
	case DateTypeTimestamp:
		return "Timestamp"
	case DateTypeTimestampLTZ:
		return "TimestampLTZ"
	case DateTypeTimestampTZ:
		return "TimestampTZ"
	default:
		return "Unknown"
	}
}

// Size returns the full encoded length of the date type in bytes.
func (d DateType) Size() int {
	switch d {
	case DateTypeDate:
		return 7
	case DateTypeTimestamp, DateTypeTimestampLTZ:
		return 11
	case DateTypeTimestampTZ:
		return 13
	default:
		return 0
	}
}

// UsesUTC reports whether calendar fields are taken in UTC rather than the configured location.
func (d DateType) UsesUTC() bool {
	return d == DateTypeTimestampLTZ || d == DateTypeTimestampTZ
}

func (c CharsetForm) String() string {
	switch c {
	case CharsetFormImplicit:
		return "Implicit"
	case CharsetFormNChar:
		return "NChar"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a lower-case name ("none", "zstd", "s2", "lz4") to its type.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
