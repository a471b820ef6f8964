// Package oson encodes and decodes the binary JSON (OSON) and VECTOR images
// exchanged with an Oracle database.
//
// An OSON image is a self-describing tree: a header, one or two field-name
// dictionaries and a tree segment of typed nodes linked by byte offsets. A
// VECTOR image is a small header followed by dense or sparse numeric elements.
//
// # Basic Usage
//
// Encoding a document:
//
//	doc := value.Object(
//	    value.F("name", value.String("probe-7")),
//	    value.F("reading", value.Number("12.345")),
//	    value.F("tags", value.Array(value.String("a"), value.String("b"))),
//	)
//	image, err := oson.EncodeOSON(doc)
//
// Decoding it back:
//
//	v, err := oson.DecodeOSON(image)
//	name, _ := v.Get("name")
//	fmt.Println(name.AsString())
//
// Vectors:
//
//	image, err := oson.EncodeVector(value.Float32Vector([]float32{1, 2, 3}))
//	vec, err := oson.DecodeVector(image)
//
// # Package Structure
//
// This package provides top-level wrappers around the blob package. For
// options such as the calendar zone of plain date-times, the field name size
// limit or the decoder nesting limit, pass blob options or use the blob
// encoders and decoders directly.
package oson

import (
	"github.com/arloliu/oson/blob"
	"github.com/arloliu/oson/section"
	"github.com/arloliu/oson/value"
)

// ImageKind identifies the kind of a serialized image by its leading bytes.
type ImageKind uint8

const (
	ImageUnknown ImageKind = iota
	ImageOSON
	ImageVector
)

func (k ImageKind) String() string {
	switch k {
	case ImageOSON:
		return "OSON"
	case ImageVector:
		return "VECTOR"
	default:
		return "Unknown"
	}
}

// DetectImage reports the image kind of data from its magic bytes.
func DetectImage(data []byte) ImageKind {
	switch {
	case len(data) >= 3 && data[0] == section.OSONMagic1 && data[1] == section.OSONMagic2 && data[2] == section.OSONMagic3:
		return ImageOSON
	case len(data) >= 1 && data[0] == section.VectorMagic:
		return ImageVector
	default:
		return ImageUnknown
	}
}

// EncodeOSON serializes v into an OSON image.
//
// Parameters:
//   - v: The value to encode; scalars produce a scalar image
//   - opts: Optional configuration (see blob.OSONEncoderOption)
//
// Returns:
//   - []byte: The image, owned by the caller
//   - error: ErrFieldNameTooLong, ErrNumberNotRepresentable or another errs sentinel
func EncodeOSON(v value.Value, opts ...blob.OSONEncoderOption) ([]byte, error) {
	encoder, err := blob.NewOSONEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return encoder.Encode(v)
}

// DecodeOSON parses an OSON image into a value tree.
//
// The returned value does not alias data.
func DecodeOSON(data []byte, opts ...blob.OSONDecoderOption) (value.Value, error) {
	decoder, err := blob.NewOSONDecoder(data, opts...)
	if err != nil {
		return value.Value{}, err
	}

	return decoder.Decode()
}

// EncodeVector serializes v into a VECTOR image.
func EncodeVector(v value.Vector) ([]byte, error) {
	return blob.NewVectorEncoder().Encode(v)
}

// DecodeVector parses a VECTOR image.
func DecodeVector(data []byte) (value.Vector, error) {
	return blob.NewVectorDecoder(data).Decode()
}
