// Package endian provides the byte order engines used by the image cursors.
//
// OSON and vector images store every multi-byte field in network (big-endian)
// order. The only little-endian field the cursor ever reads is the 16-bit
// value behind Reader.ReadUint16LE, so both engines are exposed here and the
// buffer package picks one per call instead of hard-coding encoding/binary.
//
//	engine := endian.GetBigEndianEngine()
//	buf = engine.AppendUint32(buf, segmentSize)
//
// All functions in this package are safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine, the byte order of every image field.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Network returns the engine for image fields. It is the big-endian engine.
func Network() EndianEngine {
	return binary.BigEndian
}
