// Package value defines Value, the in-memory form of everything an OSON image
// can hold, and Vector, the in-memory form of a VECTOR image.
//
// Value is a closed tagged union. Numbers keep their decimal text so that
// transcoding never rounds; objects keep their fields in declared order and
// may repeat a name.
package value
