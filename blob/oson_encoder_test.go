package blob

import (
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/oson/buffer"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/internal/hash"
	"github.com/arloliu/oson/section"
	"github.com/arloliu/oson/value"
)

func encodeOSON(t *testing.T, v value.Value, opts ...OSONEncoderOption) []byte {
	t.Helper()

	enc, err := NewOSONEncoder(opts...)
	require.NoError(t, err)
	data, err := enc.Encode(v)
	require.NoError(t, err)

	return data
}

func decodeOSON(t *testing.T, data []byte, opts ...OSONDecoderOption) value.Value {
	t.Helper()

	dec, err := NewOSONDecoder(data, opts...)
	require.NoError(t, err)
	v, err := dec.Decode()
	require.NoError(t, err)

	return v
}

func parseHeader(t *testing.T, data []byte) section.OSONHeader {
	t.Helper()

	h, err := section.ParseOSONHeader(buffer.NewReader(data))
	require.NoError(t, err)

	return h
}

func TestOSONEncoder_ScalarImages(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want []byte
	}{
		{"null", value.Null(), []byte{0xFF, 0x4A, 0x5A, 0x01, 0x00, 0x12, 0x00, 0x01, 0x30}},
		{"true", value.Bool(true), []byte{0xFF, 0x4A, 0x5A, 0x01, 0x00, 0x12, 0x00, 0x01, 0x31}},
		{"false", value.Bool(false), []byte{0xFF, 0x4A, 0x5A, 0x01, 0x00, 0x12, 0x00, 0x01, 0x32}},
		{"string", value.String("hi"), []byte{0xFF, 0x4A, 0x5A, 0x01, 0x00, 0x12, 0x00, 0x04, 0x33, 0x02, 'h', 'i'}},
		{"number", value.Int(12), []byte{0xFF, 0x4A, 0x5A, 0x01, 0x00, 0x12, 0x00, 0x04, 0x34, 0x02, 0xC1, 0x0D}},
		{"id", value.ID([]byte{0xAB, 0xCD}), []byte{0xFF, 0x4A, 0x5A, 0x01, 0x00, 0x12, 0x00, 0x04, 0x7E, 0x02, 0xAB, 0xCD}},
		{"bytes", value.Bytes([]byte{0x01}), []byte{0xFF, 0x4A, 0x5A, 0x01, 0x00, 0x12, 0x00, 0x04, 0x3A, 0x00, 0x01, 0x01}},
		{
			"double", value.Float64(1.5),
			[]byte{0xFF, 0x4A, 0x5A, 0x01, 0x00, 0x12, 0x00, 0x09, 0x36, 0xBF, 0xF8, 0, 0, 0, 0, 0, 0},
		},
		{
			"date", value.DateTime(time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)),
			[]byte{0xFF, 0x4A, 0x5A, 0x01, 0x00, 0x12, 0x00, 0x08, 0x7D, 120, 124, 3, 15, 11, 31, 46},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, encodeOSON(t, tt.v, WithLocation(time.UTC)))
		})
	}
}

func TestOSONEncoder_ObjectImage(t *testing.T) {
	data := encodeOSON(t, value.Object(value.F("a", value.Int(1))))

	want := []byte{
		0xFF, 0x4A, 0x5A, 0x01, // magic, version 1
		0x21, 0x02, // flags: tiny nodes stat, hash id uint8, inline leaf
		0x01,       // one short field name
		0x00, 0x02, // short segment size
		0x00, 0x0B, // tree segment size
		0x00, 0x00, // tiny nodes
		0x2C,       // hash of "a"
		0x00, 0x00, // offset of "a"
		0x01, 'a',
		0xA4, 0x01, // object, 32-bit offsets, one child
		0x01,                   // field id
		0x00, 0x00, 0x00, 0x07, // child offset
		0x34, 0x02, 0xC1, 0x02, // 1
	}
	require.Equal(t, want, data)
}

func TestOSONEncoder_ArrayImage(t *testing.T) {
	data := encodeOSON(t, value.Array(value.Null(), value.Bool(true)))

	want := []byte{
		0xFF, 0x4A, 0x5A, 0x01,
		0x21, 0x02,
		0x00,       // no field names
		0x00, 0x00, // empty short segment
		0x00, 0x0C,
		0x00, 0x00,
		0xE0, 0x02,
		0x00, 0x00, 0x00, 0x0A,
		0x00, 0x00, 0x00, 0x0B,
		0x30, 0x31,
	}
	require.Equal(t, want, data)
}

func TestOSONEncoder_FieldNameOrder(t *testing.T) {
	keys := []string{"name", "id", "b", "a", "k", "zz", "address", "aa"}
	fields := make([]value.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, value.F(k, value.Null()))
	}
	doc := value.Object(fields...)

	dec, err := NewOSONDecoder(encodeOSON(t, doc))
	require.NoError(t, err)
	got, err := dec.Decode()
	require.NoError(t, err)
	require.True(t, doc.Equal(got), cmp.Diff(doc, got))

	names := dec.FieldNames()
	require.Len(t, names, len(keys))
	require.True(t, slices.IsSortedFunc(names, func(a, b string) int {
		if ha, hb := hash.FieldName(a), hash.FieldName(b); ha != hb {
			return int(ha) - int(hb)
		}
		if len(a) != len(b) {
			return len(a) - len(b)
		}

		return strings.Compare(a, b)
	}), "field ids follow (hash, length, name) order: %v", names)
}

func TestOSONEncoder_DictionaryDeterminism(t *testing.T) {
	first := value.Object(
		value.F("id", value.Int(1)),
		value.F("name", value.String("x")),
		value.F("tags", value.Array(value.Object(value.F("k", value.Bool(true))))),
	)
	second := value.Object(
		value.F("tags", value.Array(value.Object(value.F("k", value.Bool(true))))),
		value.F("name", value.String("x")),
		value.F("id", value.Int(1)),
	)

	dictionary := func(data []byte) []byte {
		h := parseHeader(t, data)
		n := int(h.NumShortFieldNames)
		end := h.Size() + n + n*h.Flags.ShortOffsetSize() + int(h.ShortFieldNamesSegSize)

		return data[h.Size():end]
	}

	a := encodeOSON(t, first)
	b := encodeOSON(t, second)
	require.Equal(t, dictionary(a), dictionary(b))
	require.NotEqual(t, a, b, "declared field order still differs")

	gotFirst := decodeOSON(t, a)
	require.Equal(t, "id", gotFirst.Fields()[0].Name)
	gotSecond := decodeOSON(t, b)
	require.Equal(t, "tags", gotSecond.Fields()[0].Name)
}

func TestOSONEncoder_LongFieldNames(t *testing.T) {
	longName := strings.Repeat("L", 300)
	doc := value.Object(
		value.F("short", value.Int(1)),
		value.F(longName, value.String("long")),
	)

	data := encodeOSON(t, doc)
	h := parseHeader(t, data)
	require.Equal(t, uint8(section.OSONVersionMaxFieldName65535), h.Version)
	require.Equal(t, uint32(1), h.NumShortFieldNames)
	require.Equal(t, uint32(1), h.NumLongFieldNames)
	require.Equal(t, uint32(302), h.LongFieldNamesSegSize)
	require.Equal(t, uint16(section.SecFlagFieldNamesSegUint16), h.SecondaryFlags)

	dec, err := NewOSONDecoder(data)
	require.NoError(t, err)
	got, err := dec.Decode()
	require.NoError(t, err)
	require.True(t, doc.Equal(got), cmp.Diff(doc, got))
	require.Equal(t, []string{"short", longName}, dec.FieldNames())

	t.Run("rejected by a 255 byte limit", func(t *testing.T) {
		enc, err := NewOSONEncoder(WithMaxFieldNameSize(255))
		require.NoError(t, err)
		_, err = enc.Encode(doc)
		require.ErrorIs(t, err, errs.ErrFieldNameTooLong)
	})

	t.Run("longer than 65535 bytes", func(t *testing.T) {
		enc, err := NewOSONEncoder()
		require.NoError(t, err)
		_, err = enc.Encode(value.Object(value.F(strings.Repeat("x", 65536), value.Null())))
		require.ErrorIs(t, err, errs.ErrFieldNameTooLong)
	})
}

func TestOSONEncoder_WideFieldIDs(t *testing.T) {
	fields := make([]value.Field, 0, 300)
	for i := range 300 {
		fields = append(fields, value.F("field_"+strconv.Itoa(i), value.Int(int64(i))))
	}
	doc := value.Object(fields...)

	data := encodeOSON(t, doc)
	h := parseHeader(t, data)
	require.Equal(t, 2, h.Flags.FieldIDSize())
	require.Equal(t, uint32(300), h.NumShortFieldNames)

	got := decodeOSON(t, data)
	require.True(t, doc.Equal(got))
}

func TestOSONEncoder_LargeTree(t *testing.T) {
	big := strings.Repeat("s", 70000)
	blob := make([]byte, 70000)
	for i := range blob {
		blob[i] = byte(i)
	}
	doc := value.Array(value.String(big), value.Bytes(blob))

	data := encodeOSON(t, doc)
	h := parseHeader(t, data)
	require.True(t, h.Flags.Has(section.FlagTreeSegUint32))
	require.Greater(t, h.TreeSegSize, uint32(140000))

	got := decodeOSON(t, data)
	require.True(t, doc.Equal(got))
}

func TestOSONEncoder_Errors(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		err  error
	}{
		{"id too long", value.ID(make([]byte, 17)), errs.ErrInvalidID},
		{"number out of range", value.Array(value.Number("1e200")), errs.ErrNumberNotRepresentable},
		{"number not numeric", value.Object(value.F("n", value.Number("abc"))), errs.ErrNumberNotRepresentable},
		{"invalid vector", value.FromVector(value.Vector{Format: 1}), errs.ErrUnsupportedFormat},
		{"date out of range", value.DateTime(time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)), errs.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewOSONEncoder()
			require.NoError(t, err)
			_, err = enc.Encode(tt.v)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestOSONEncoder_Options(t *testing.T) {
	_, err := NewOSONEncoder(WithMaxFieldNameSize(1000))
	require.ErrorIs(t, err, errs.ErrInvalidValue)

	_, err = NewOSONDecoder(nil, WithMaxDepth(0))
	require.ErrorIs(t, err, errs.ErrInvalidValue)

	enc, err := NewOSONEncoder(WithLocation(nil), WithMaxFieldNameSize(255))
	require.NoError(t, err)
	assert.Equal(t, time.Local, enc.Location())
	assert.Equal(t, 255, enc.MaxFieldNameSize())
	assert.Equal(t, DefaultMaxDepth, enc.MaxDepth())
}

func TestOSONEncoder_Reuse(t *testing.T) {
	enc, err := NewOSONEncoder()
	require.NoError(t, err)

	first, err := enc.Encode(value.Object(value.F("a", value.Int(1)), value.F("b", value.Int(2))))
	require.NoError(t, err)
	second, err := enc.Encode(value.Object(value.F("c", value.Int(3))))
	require.NoError(t, err)

	require.Equal(t, uint32(2), parseHeader(t, first).NumShortFieldNames)
	require.Equal(t, uint32(1), parseHeader(t, second).NumShortFieldNames)
	require.Equal(t, `{"c":3}`, decodeOSON(t, second).String())
}

func TestOSONEncoder_FieldNameStats(t *testing.T) {
	enc, err := NewOSONEncoder()
	require.NoError(t, err)

	_, err = enc.Encode(value.Object(
		value.F("a", value.Int(1)),
		value.F("b", value.Array(value.Object(value.F("a", value.Int(2)), value.F("c", value.Null())))),
	))
	require.NoError(t, err)
	require.Equal(t, 3, enc.FieldNameCount())
	require.False(t, enc.HasNameCollision())

	_, err = enc.Encode(value.Int(7))
	require.NoError(t, err)
	require.Equal(t, 0, enc.FieldNameCount(), "scalar images track no names")
	require.False(t, enc.HasNameCollision())
}

func BenchmarkOSONEncoder_Document(b *testing.B) {
	doc := benchmarkDocument()
	enc, err := NewOSONEncoder()
	require.NoError(b, err)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := enc.Encode(doc); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkDocument() value.Value {
	items := make([]value.Value, 0, 100)
	for i := range 100 {
		items = append(items, value.Object(
			value.F("id", value.Int(int64(i))),
			value.F("name", value.String("item")),
			value.F("price", value.Number("19.99")),
			value.F("active", value.Bool(i%2 == 0)),
		))
	}

	return value.Object(
		value.F("items", value.Array(items...)),
		value.F("count", value.Int(100)),
	)
}
