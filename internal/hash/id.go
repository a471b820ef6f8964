package hash

import "github.com/cespare/xxhash/v2"

const (
	fieldNameSeed       = 0x811C9DC5
	fieldNameMultiplier = 16777619
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// FieldName computes the wire hash of an OSON field name: 32-bit FNV-1a over
// the UTF-8 bytes, truncated to the low 8 bits.
func FieldName(name string) uint8 {
	h := uint32(fieldNameSeed)
	for i := 0; i < len(name); i++ {
		h = (h ^ uint32(name[i])) * fieldNameMultiplier
	}

	return uint8(h)
}
