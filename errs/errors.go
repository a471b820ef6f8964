// Package errs defines the sentinel errors returned by the oson packages.
//
// Every error produced by a codec wraps exactly one of these values with
// fmt.Errorf("%w: ...") so callers can match failure kinds with errors.Is
// while the message keeps the byte offset or offending value.
package errs

import "errors"

// Cursor errors.
var (
	// ErrUnexpectedEndOfData is returned when a read or skip needs more bytes than remain.
	ErrUnexpectedEndOfData = errors.New("unexpected end of data")
	// ErrIntegerTooLarge is returned when a variable-length integer declares more bytes than its width allows.
	ErrIntegerTooLarge = errors.New("integer too large")
	// ErrUnexpectedNegativeInteger is returned when an unsigned variable-length integer carries the sign bit.
	ErrUnexpectedNegativeInteger = errors.New("unexpected negative integer")
	// ErrInvalidSlot is returned when patching a slot that was never reserved or a value that does not fit it.
	ErrInvalidSlot = errors.New("invalid slot")
	// ErrBufferLengthInsufficient is returned when a fixed-size scalar buffer is shorter than required.
	ErrBufferLengthInsufficient = errors.New("buffer length insufficient")
)

// Scalar errors.
var (
	// ErrNumberNotRepresentable is returned when decimal text has too many digits or an exponent out of range.
	ErrNumberNotRepresentable = errors.New("number not representable")
	// ErrInvalidValue is returned when a value cannot be encoded by any node type.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidID is returned when an identifier is longer than allowed.
	ErrInvalidID = errors.New("invalid id")
)

// Image errors.
var (
	// ErrInvalidMagic is returned when an image does not start with the expected magic bytes.
	ErrInvalidMagic = errors.New("invalid magic")
	// ErrUnsupportedVersion is returned for an image version the decoder does not know.
	ErrUnsupportedVersion = errors.New("unsupported version")
	// ErrUnsupportedFormat is returned for an unknown vector storage format.
	ErrUnsupportedFormat = errors.New("unsupported vector format")
	// ErrUnsupportedNodeType is returned for a tree node tag the decoder does not know.
	ErrUnsupportedNodeType = errors.New("unsupported node type")
	// ErrFieldNameTooLong is returned when a field name exceeds the configured maximum.
	ErrFieldNameTooLong = errors.New("field name too long")
	// ErrInvalidOffset is returned when a tree offset points outside the tree segment.
	ErrInvalidOffset = errors.New("invalid offset")
	// ErrMaxDepthExceeded is returned when a tree nests deeper than the decoder allows.
	ErrMaxDepthExceeded = errors.New("maximum nesting depth exceeded")
	// ErrInvalidVector is returned when a vector is internally inconsistent.
	ErrInvalidVector = errors.New("invalid vector")
)
