// Package encoding implements the scalar images shared by the OSON and
// vector codecs and by the byte cursors in package buffer.
//
// # Packed decimal
//
// Numbers travel as decimal text and are stored as an exponent byte followed
// by base-100 digit pairs:
//
//	body, err := encoding.EncodeNumber("-12.345") // 3E 59 43 33 66
//	text, err := encoding.DecodeNumber(body)      // "-12.345"
//
// Positive values set the high bit of the exponent byte and store each pair
// plus one. Negative values invert the exponent byte, store 101 minus each
// pair, and end with a 102 sentinel when shorter than 20 pairs. At most 40
// significant digits are accepted.
//
// # Binary float and double
//
// IEEE-754 big-endian images with the sign bit set for non-negative values and
// all bits inverted for negative ones, so that the images sort numerically.
//
// # Dates
//
// Dates are 7 bytes (century+100, year-in-century+100, month, day, hour+1,
// minute+1, second+1), 11 bytes (plus big-endian nanoseconds) or 13 bytes
// (plus the zone offset hour+20 and minute+60). Timestamps whose fractional
// second is zero are written in the 7-byte form unless AppendDateFixed is used.
package encoding
