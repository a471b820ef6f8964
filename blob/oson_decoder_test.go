package blob

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/oson/buffer"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/internal/hash"
	"github.com/arloliu/oson/section"
	"github.com/arloliu/oson/value"
)

// buildImage assembles a version 1 OSON image from names in field id order
// and a raw tree segment.
func buildImage(t *testing.T, extraFlags uint16, names []string, tree []byte) []byte {
	t.Helper()

	w := buffer.NewWriter()
	defer w.Release()

	var segSize uint32
	for _, name := range names {
		segSize += uint32(1 + len(name))
	}

	header := section.OSONHeader{
		Version:                section.OSONVersionMaxFieldName255,
		Flags:                  section.NewOSONFlag(),
		NumShortFieldNames:     uint32(len(names)),
		ShortFieldNamesSegSize: segSize,
		TreeSegSize:            uint32(len(tree)),
	}
	header.Flags.Set(section.FlagHashIDUint8 | section.FlagTinyNodesStat | extraFlags)
	header.Write(w)

	for _, name := range names {
		w.WriteUint8(hash.FieldName(name))
	}
	var offset uint16
	for _, name := range names {
		w.WriteUint16BE(offset)
		offset += uint16(1 + len(name))
	}
	for _, name := range names {
		w.WriteUint8(uint8(len(name)))
		w.WriteString(name)
	}
	w.WriteBytes(tree)

	return w.Clone()
}

// buildScalarImage assembles a scalar OSON image around a single node.
func buildScalarImage(tree []byte) []byte {
	return append([]byte{0xFF, 0x4A, 0x5A, 0x01, 0x00, 0x12, byte(len(tree) >> 8), byte(len(tree))}, tree...)
}

func decodeImage(data []byte, opts ...OSONDecoderOption) (value.Value, error) {
	dec, err := NewOSONDecoder(data, opts...)
	if err != nil {
		return value.Value{}, err
	}

	return dec.Decode()
}

func TestOSONDecoder_SharedFieldIDs(t *testing.T) {
	tree := []byte{
		// 0: root array, two children
		0xE0, 0x02, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x00, 0x00, 0x1E,
		// 10: object with field ids 2, 1
		0xA4, 0x02, 0x02, 0x01, 0x00, 0x00, 0x00, 0x16, 0x00, 0x00, 0x00, 0x1A,
		// 22, 26: its values 1 and 2
		0x34, 0x02, 0xC1, 0x02,
		0x34, 0x02, 0xC1, 0x03,
		// 30: object sharing the field ids of the object at 10, with its own offsets
		0xBC, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x00, 0x00, 0x2B, 0x00, 0x00, 0x00, 0x2E,
		// 43, 46: its values "x" and true
		0x33, 0x01, 'x',
		0x31,
	}
	data := buildImage(t, 0, []string{"a", "b"}, tree)

	got, err := decodeImage(data)
	require.NoError(t, err)

	want := value.Array(
		value.Object(value.F("b", value.Int(1)), value.F("a", value.Int(2))),
		value.Object(value.F("b", value.String("x")), value.F("a", value.Bool(true))),
	)
	require.True(t, want.Equal(got), cmp.Diff(want, got))
}

func TestOSONDecoder_SharedFieldIDErrors(t *testing.T) {
	t.Run("shared node is a scalar", func(t *testing.T) {
		tree := []byte{
			0xBC, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00, 0x09,
			0x30,
		}
		_, err := decodeImage(buildImage(t, 0, []string{"a"}, tree))
		require.ErrorIs(t, err, errs.ErrInvalidOffset)
	})

	t.Run("shared node shares again", func(t *testing.T) {
		tree := []byte{
			0xBC, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x09,
			0x30,
		}
		_, err := decodeImage(buildImage(t, 0, []string{"a"}, tree))
		require.ErrorIs(t, err, errs.ErrInvalidOffset)
	})

	t.Run("shared offset beyond the tree", func(t *testing.T) {
		tree := []byte{0xBC, 0x00, 0x00, 0x10, 0x00}
		_, err := decodeImage(buildImage(t, 0, []string{"a"}, tree))
		require.ErrorIs(t, err, errs.ErrInvalidOffset)
	})
}

func TestOSONDecoder_RelativeOffsets(t *testing.T) {
	tree := []byte{
		// 0: object {k: <array at 7>}
		0xA4, 0x01, 0x01, 0x00, 0x00, 0x00, 0x07,
		// 7: array with children at 7+10 and 7+11
		0xE0, 0x02, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x00, 0x00, 0x0B,
		// 17, 18
		0x31,
		0x34, 0x02, 0xC1, 0x02,
	}
	data := buildImage(t, section.FlagRelativeOffset, []string{"k"}, tree)

	got, err := decodeImage(data)
	require.NoError(t, err)

	want := value.Object(value.F("k", value.Array(value.Bool(true), value.Int(1))))
	require.True(t, want.Equal(got), cmp.Diff(want, got))
}

func TestOSONDecoder_InlineNodesAndShortOffsets(t *testing.T) {
	tree := []byte{
		// 0: array with 16-bit offsets
		0xC0, 0x05, 0x00, 0x0C, 0x00, 0x0F, 0x00, 0x12, 0x00, 0x16, 0x00, 0x17,
		// 12: inline number, body length 2
		0x21, 0xC1, 0x02,
		// 15: inline integer, body length 2
		0x42, 0xC1, 0x0D,
		// 18: inline string
		0x03, 'a', 'b', 'c',
		// 22: empty inline string
		0x00,
		// 23: inline number, alternate range, body length 5
		0x64, 0x3E, 0x59, 0x43, 0x33, 0x66,
	}

	got, err := decodeImage(buildImage(t, 0, nil, tree))
	require.NoError(t, err)

	want := value.Array(
		value.Number("1"),
		value.Number("12"),
		value.String("abc"),
		value.String(""),
		value.Number("-12.345"),
	)
	require.True(t, want.Equal(got), cmp.Diff(want, got))
}

func TestOSONDecoder_ScalarNodes(t *testing.T) {
	loc := time.FixedZone("test", 3600)

	tests := []struct {
		name string
		tree []byte
		want value.Value
	}{
		{"null", []byte{0x30}, value.Null()},
		{"number", []byte{0x34, 0x01, 0x80}, value.Number("0")},
		{"float", []byte{0x7F, 0xBF, 0xC0, 0x00, 0x00}, value.Float32(1.5)},
		{"double", []byte{0x36, 0x40, 0x07, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, value.Float64(-1.5)},
		{"string uint16", []byte{0x37, 0x00, 0x02, 'o', 'k'}, value.String("ok")},
		{"string uint32", []byte{0x38, 0x00, 0x00, 0x00, 0x01, 'z'}, value.String("z")},
		{"binary uint32", []byte{0x3B, 0x00, 0x00, 0x00, 0x02, 0xDE, 0xAD}, value.Bytes([]byte{0xDE, 0xAD})},
		{"id", []byte{0x7E, 0x01, 0x42}, value.ID([]byte{0x42})},
		{
			"date",
			[]byte{0x3C, 120, 124, 2, 29, 1, 1, 1},
			value.DateTime(time.Date(2024, 2, 29, 0, 0, 0, 0, loc)),
		},
		{
			"timestamp",
			[]byte{0x39, 120, 124, 2, 29, 13, 31, 1, 0x07, 0x5B, 0xCD, 0x15},
			value.DateTime(time.Date(2024, 2, 29, 12, 30, 0, 123456789, loc)),
		},
		{
			"timestamp with zone",
			[]byte{0x7C, 120, 124, 2, 29, 11, 1, 1, 0, 0, 0, 0, 22, 90},
			value.ZonedDateTime(time.Date(2024, 2, 29, 12, 30, 0, 0, time.FixedZone("", 2*3600+30*60))),
		},
		{
			"vector",
			[]byte{0x7B, 0x01, 0x00, 0x00, 0x00, 0x0B, 0xDB, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x02, 0x01, 0xFF},
			value.FromVector(value.Int8Vector([]int8{1, -1})),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeImage(buildScalarImage(tt.tree), WithLocation(loc))
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), cmp.Diff(tt.want, got))
		})
	}
}

func TestOSONDecoder_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"empty", nil, errs.ErrUnexpectedEndOfData},
		{"bad magic", []byte{0xFF, 0x4A, 0x5B, 0x01, 0x00, 0x12, 0x00, 0x01, 0x30}, errs.ErrInvalidMagic},
		{"version 99", []byte{0xFF, 0x4A, 0x5A, 99, 0xFF, 0xFF}, errs.ErrUnsupportedVersion},
		{"version 2", []byte{0xFF, 0x4A, 0x5A, 0x02, 0x00, 0x12, 0x00, 0x01, 0x30}, errs.ErrUnsupportedVersion},
		{"unknown node type", buildScalarImage([]byte{0x35}), errs.ErrUnsupportedNodeType},
		{"unknown extended type", buildScalarImage([]byte{0x7B, 0x02, 0, 0, 0, 0}), errs.ErrUnsupportedNodeType},
		{"id too long", buildScalarImage(append([]byte{0x7E, 17}, make([]byte, 17)...)), errs.ErrInvalidID},
		{"truncated string", buildScalarImage([]byte{0x33, 0x05, 'a'}), errs.ErrUnexpectedEndOfData},
		{"empty number", buildScalarImage([]byte{0x34, 0x00}), errs.ErrBufferLengthInsufficient},
		{"bad date", buildScalarImage([]byte{0x3C, 120, 124, 13, 1, 1, 1, 1}), errs.ErrInvalidValue},
		{"bad embedded vector", buildScalarImage([]byte{0x7B, 0x01, 0, 0, 0, 1, 0xDA}), errs.ErrInvalidMagic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeImage(tt.data)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestOSONDecoder_TreeErrors(t *testing.T) {
	t.Run("child offset beyond the tree", func(t *testing.T) {
		tree := []byte{0xE0, 0x01, 0x00, 0x00, 0x01, 0x00}
		_, err := decodeImage(buildImage(t, 0, nil, tree))
		require.ErrorIs(t, err, errs.ErrInvalidOffset)
	})

	t.Run("field id zero", func(t *testing.T) {
		tree := []byte{0xA4, 0x01, 0x00, 0x00, 0x00, 0x00, 0x07, 0x30}
		_, err := decodeImage(buildImage(t, 0, []string{"a"}, tree))
		require.ErrorIs(t, err, errs.ErrInvalidValue)
	})

	t.Run("field id beyond the names", func(t *testing.T) {
		tree := []byte{0xA4, 0x01, 0x05, 0x00, 0x00, 0x00, 0x07, 0x30}
		_, err := decodeImage(buildImage(t, 0, []string{"a"}, tree))
		require.ErrorIs(t, err, errs.ErrInvalidValue)
	})

	t.Run("huge child count", func(t *testing.T) {
		tree := []byte{0xF0, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}
		_, err := decodeImage(buildImage(t, 0, nil, tree))
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfData)
	})

	t.Run("field name offset beyond the segment", func(t *testing.T) {
		data := buildImage(t, 0, []string{"a"}, []byte{0xA4, 0x00})
		// header (13) + hash (1): point the name offset past the 2 byte segment
		data[14], data[15] = 0x00, 0x05
		_, err := decodeImage(data)
		require.ErrorIs(t, err, errs.ErrInvalidOffset)
	})
}

func TestOSONDecoder_DepthLimit(t *testing.T) {
	t.Run("self reference", func(t *testing.T) {
		tree := []byte{0xE0, 0x01, 0x00, 0x00, 0x00, 0x00}
		_, err := decodeImage(buildImage(t, 0, nil, tree), WithMaxDepth(16))
		require.ErrorIs(t, err, errs.ErrMaxDepthExceeded)
	})

	t.Run("relative self reference", func(t *testing.T) {
		tree := []byte{0xE0, 0x01, 0x00, 0x00, 0x00, 0x00}
		_, err := decodeImage(buildImage(t, section.FlagRelativeOffset, nil, tree))
		require.ErrorIs(t, err, errs.ErrMaxDepthExceeded)
	})

	t.Run("nesting within the limit", func(t *testing.T) {
		doc := value.Null()
		for range 10 {
			doc = value.Array(doc)
		}
		data := encodeOSON(t, doc)

		_, err := decodeImage(data, WithMaxDepth(10))
		require.NoError(t, err)
		_, err = decodeImage(data, WithMaxDepth(9))
		require.ErrorIs(t, err, errs.ErrMaxDepthExceeded)
	})
}

func TestOSONDecoder_Truncation(t *testing.T) {
	doc := value.Object(
		value.F("name", value.String("oson")),
		value.F("list", value.Array(value.Int(1), value.Float64(2.5), value.Null())),
		value.F("when", value.DateTime(time.Date(2020, 1, 1, 0, 0, 0, 5000, time.UTC))),
	)
	data := encodeOSON(t, doc, WithLocation(time.UTC))

	for n := range len(data) {
		_, err := decodeImage(data[:n], WithLocation(time.UTC))
		require.Error(t, err, "prefix of %d bytes", n)
	}
}

func TestOSONCodec_RoundTrip(t *testing.T) {
	zone := time.FixedZone("", -(7*3600 + 30*60))

	tests := []struct {
		name string
		v    value.Value
	}{
		{"null", value.Null()},
		{"number", value.Number("-123.456e-7")},
		{"big number", value.Number("1234567890123456789012345678901234567890")},
		{"float32", value.Float32(float32(math.Inf(-1)))},
		{"float64 nan", value.Float64(math.NaN())},
		{"empty object", value.Object()},
		{"empty array", value.Array()},
		{"vector", value.FromVector(value.Float64Vector([]float64{1, 2, 3}))},
		{
			"document",
			value.Object(
				value.F("id", value.Int(42)),
				value.F("name", value.String("Widget")),
				value.F("price", value.Number("19.99")),
				value.F("ratio", value.Float64(0.125)),
				value.F("tags", value.Array(value.String("a"), value.String("b"), value.Null())),
				value.F("raw", value.Bytes([]byte{0, 1, 2, 255})),
				value.F("created", value.DateTime(time.Date(2021, 6, 1, 8, 0, 0, 0, time.UTC))),
				value.F("updated", value.DateTime(time.Date(2021, 6, 1, 8, 0, 0, 999999999, time.UTC))),
				value.F("zoned", value.ZonedDateTime(time.Date(1999, 12, 31, 23, 59, 59, 0, zone))),
				value.F("oid", value.ID([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})),
				value.F("embedding", value.FromVector(value.SparseVector(8, []uint32{2, 5}, value.Float32Vector([]float32{0.5, -0.5})))),
				value.F("bits", value.FromVector(value.BinaryVector([]uint8{0xF0}))),
				value.F("nested", value.Object(
					value.F("id", value.Int(7)),
					value.F("flag", value.Bool(false)),
					value.F("items", value.Array(value.Object(value.F("id", value.Int(1))), value.Object())),
				)),
				value.F("id", value.String("duplicate")),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeOSON(t, tt.v, WithLocation(time.UTC))
			got := decodeOSON(t, data, WithLocation(time.UTC))
			require.True(t, tt.v.Equal(got), cmp.Diff(tt.v, got))
		})
	}
}

func BenchmarkOSONDecoder_Document(b *testing.B) {
	enc, err := NewOSONEncoder()
	require.NoError(b, err)
	data, err := enc.Encode(benchmarkDocument())
	require.NoError(b, err)

	b.ReportAllocs()
	for b.Loop() {
		dec, err := NewOSONDecoder(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := dec.Decode(); err != nil {
			b.Fatal(err)
		}
	}
}
