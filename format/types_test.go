package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorFormat(t *testing.T) {
	require.Equal(t, "Float32", VectorFloat32.String())
	require.Equal(t, "Binary", VectorBinary.String())
	require.Equal(t, "Unknown", VectorFormat(9).String())

	require.True(t, VectorInt8.IsValid())
	require.False(t, VectorFormat(1).IsValid())
	require.False(t, VectorFormat(6).IsValid())
}

func TestDateType(t *testing.T) {
	tests := []struct {
		typ    DateType
		size   int
		utc    bool
		String string
	}{
		{DateTypeDate, 7, false, "Date"},
		{DateTypeTimestamp, 11, false, "Timestamp"},
		{DateTypeTimestampLTZ, 11, true, "TimestampLTZ"},
		{DateTypeTimestampTZ, 13, true, "TimestampTZ"},
	}

	for _, tt := range tests {
		t.Run(tt.String, func(t *testing.T) {
			require.Equal(t, tt.size, tt.typ.Size())
			require.Equal(t, tt.utc, tt.typ.UsesUTC())
			require.Equal(t, tt.String, tt.typ.String())
		})
	}
}

func TestParseCompressionType(t *testing.T) {
	c, ok := ParseCompressionType("zstd")
	require.True(t, ok)
	require.Equal(t, CompressionZstd, c)

	c, ok = ParseCompressionType("")
	require.True(t, ok)
	require.Equal(t, CompressionNone, c)

	_, ok = ParseCompressionType("gzip")
	require.False(t, ok)
	require.Equal(t, "LZ4", CompressionLZ4.String())
}
