// Package blob encodes and decodes the two self-contained binary images of
// this module: OSON documents and VECTOR images.
//
// # OSON
//
// An OSON image holds a tree of values: objects, arrays and scalars. Object
// keys are not stored inline. They are collected into field name segments at
// the front of the image and referenced from the tree by field id:
//
//	header | short field names | long field names | tree segment
//
// Names of up to 255 bytes go to the short segment, longer names to the long
// segment (version 3 images only). Within a segment the names are ordered by
// (hash, byte length, name) and numbered from 1, short names first.
//
// Encoding:
//
//	enc, err := blob.NewOSONEncoder()
//	if err != nil {
//		return err
//	}
//	data, err := enc.Encode(value.Object(
//		value.F("id", value.Int(42)),
//		value.F("tags", value.Array(value.String("a"), value.String("b"))),
//	))
//
// Decoding:
//
//	dec, err := blob.NewOSONDecoder(data, blob.WithLocation(time.UTC))
//	if err != nil {
//		return err
//	}
//	v, err := dec.Decode()
//
// A value that is neither an object nor an array is written as a scalar
// image: a short header followed by a single node.
//
// # VECTOR
//
// A VECTOR image holds one dense or sparse vector of float32, float64, int8
// or packed-bit elements:
//
//	data, err := blob.NewVectorEncoder().Encode(value.Float32Vector([]float32{1, 2, 3}))
//	vec, err := blob.NewVectorDecoder(data).Decode()
//
// VECTOR images are also embedded inside OSON trees for vector values.
//
// # Errors
//
// All failures wrap the sentinels of package errs and can be tested with
// errors.Is. A failed call returns no partial result.
package blob
