package encoding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/oson/errs"
)

func TestEncodeNumber(t *testing.T) {
	tests := []struct {
		text string
		want []byte
	}{
		{"0", []byte{0x80}},
		{"1", []byte{0xC1, 0x02}},
		{"-1", []byte{0x3E, 0x64, 0x66}},
		{"12", []byte{0xC1, 0x0D}},
		{"99", []byte{0xC1, 0x64}},
		{"100", []byte{0xC2, 0x02}},
		{"-100", []byte{0x3D, 0x64, 0x66}},
		{"1200", []byte{0xC2, 0x0D}},
		{"0.5", []byte{0xC0, 0x33}},
		{"-0.5", []byte{0x3F, 0x33, 0x66}},
		{"0.01", []byte{0xC0, 0x02}},
		{"123.456", []byte{0xC2, 0x02, 0x18, 0x2E, 0x3D}},
		{"-12.345", []byte{0x3E, 0x59, 0x43, 0x33, 0x66}},
		{"3.14159", []byte{0xC1, 0x04, 0x0F, 0x10, 0x5B}},
		{"1e125", []byte{0xFF, 0x0B}},
		{"1e-130", []byte{0x80, 0x02}},
		{"1.20E3", []byte{0xC2, 0x0D}},
		{"+12", []byte{0xC1, 0x0D}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := EncodeNumber(tt.text)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeNumber_Zero(t *testing.T) {
	for _, text := range []string{"0", "-0", "0.000", "0e10", "-0.0"} {
		got, err := EncodeNumber(text)
		require.NoError(t, err, text)
		require.Equal(t, []byte{0x80}, got, text)
	}
}

func TestEncodeNumber_NotRepresentable(t *testing.T) {
	tests := []string{
		"1e126",
		"1e-131",
		"1" + strings.Repeat("2", 40),
		"NaN",
		"Infinity",
		"abc",
		"",
		"1..2",
		"123e124",
		strings.Repeat("9", 40) + "e100",
		"-123e124",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, err := EncodeNumber(text)
			require.ErrorIs(t, err, errs.ErrNumberNotRepresentable)
		})
	}
}

func TestEncodeNumber_MaxDigits(t *testing.T) {
	text := strings.Repeat("9", 40)
	got, err := EncodeNumber(text)
	require.NoError(t, err)
	require.Len(t, got, 21)

	neg, err := EncodeNumber("-" + text)
	require.NoError(t, err)
	require.Len(t, neg, 21, "no sentinel at 40 digits")

	decoded, err := DecodeNumber(neg)
	require.NoError(t, err)
	require.Equal(t, "-"+text, decoded)
}

func TestAppendNumber(t *testing.T) {
	dst := []byte{0xAA}
	dst, err := AppendNumber(dst, "12")
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xC1, 0x0D}, dst)

	dst, err = AppendNumber(dst, "nope")
	require.Error(t, err)
	require.Equal(t, []byte{0xAA, 0xC1, 0x0D}, dst, "dst untouched on error")
}

func TestDecodeNumber(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want string
	}{
		{"zero", []byte{0x80}, "0"},
		{"single byte negative", []byte{0x3F}, "-1e126"},
		{"one", []byte{0xC1, 0x02}, "1"},
		{"minus one", []byte{0x3E, 0x64, 0x66}, "-1"},
		{"hundreds", []byte{0xC2, 0x0D}, "1200"},
		{"half", []byte{0xC0, 0x33}, "0.5"},
		{"hundredth", []byte{0xC0, 0x02}, "0.01"},
		{"fraction", []byte{0xC2, 0x02, 0x18, 0x2E, 0x3D}, "123.456"},
		{"negative fraction", []byte{0x3E, 0x59, 0x43, 0x33, 0x66}, "-12.345"},
		{"largest exponent", []byte{0xFF, 0x0B}, "1" + strings.Repeat("0", 125)},
		{"smallest exponent", []byte{0x80, 0x02}, "0." + strings.Repeat("0", 129) + "1"},
		{"trailing zero pair", []byte{0xC1, 0x02, 0x01}, "1"},
		{"pair of one hundred", []byte{0xC1, 101}, "100"},
		{"negative pair of one hundred", []byte{0x3E, 0x01, 0x66}, "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeNumber(tt.body)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeNumber_Invalid(t *testing.T) {
	_, err := DecodeNumber(nil)
	require.ErrorIs(t, err, errs.ErrBufferLengthInsufficient)

	_, err = DecodeNumber([]byte{0xC1, 0x00})
	require.ErrorIs(t, err, errs.ErrNumberNotRepresentable)

	_, err = DecodeNumber([]byte{0xC1, 0x66})
	require.ErrorIs(t, err, errs.ErrNumberNotRepresentable)

	_, err = DecodeNumber([]byte{0x3E, 0x00, 0x66})
	require.ErrorIs(t, err, errs.ErrNumberNotRepresentable)
}

func TestEncodeNumber_LargestMagnitude(t *testing.T) {
	text := strings.Repeat("9", 40) + "e86"
	body, err := EncodeNumber(text)
	require.NoError(t, err)
	require.Equal(t, byte(0xFF), body[0])

	got, err := DecodeNumber(body)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("9", 40)+strings.Repeat("0", 86), got)
}

func TestNumberRoundTrip(t *testing.T) {
	tests := []string{
		"7", "-7", "10", "-10", "25.5", "1234567890123456789012345678901234567890",
		"0.000001", "-0.000001", "98765.4321", "-1000000", "0.1", "42.42",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			body, err := EncodeNumber(text)
			require.NoError(t, err)
			got, err := DecodeNumber(body)
			require.NoError(t, err)
			require.Equal(t, text, got)
		})
	}
}

func BenchmarkEncodeNumber(b *testing.B) {
	dst := make([]byte, 0, NumberMaxSize)
	for b.Loop() {
		_, _ = AppendNumber(dst[:0], "-12345.6789")
	}
}

func BenchmarkDecodeNumber(b *testing.B) {
	body, _ := EncodeNumber("-12345.6789")
	for b.Loop() {
		_, _ = DecodeNumber(body)
	}
}
