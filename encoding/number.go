package encoding

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v2"

	"github.com/arloliu/oson/errs"
)

const (
	// NumberMaxDigits is the largest count of significant decimal digits a packed decimal holds.
	NumberMaxDigits = 40
	// NumberMaxSize is the largest encoded body: exponent byte, 20 digit pairs, sentinel.
	NumberMaxSize = 22

	numberExponentBias     = 192
	numberZeroExponent     = 0x80
	numberNegativeSentinel = 102
	numberMinExponent      = -131 // exclusive
	numberMaxExponent      = 126  // exclusive
)

// EncodeNumber encodes decimal text as a packed decimal body: one exponent
// byte followed by base-100 digit pairs (and the 102 sentinel for negative
// values shorter than the maximum). The body carries no length prefix.
//
// Accepted text is anything apd parses as a finite decimal, e.g. "12",
// "-0.5", "1.25e-3". Negative zero encodes as zero.
//
// Returns:
//   - []byte: Encoded body, 1 to NumberMaxSize bytes
//   - error: ErrNumberNotRepresentable for non-finite input, more than
//     NumberMaxDigits significant digits, an exponent out of range, or a
//     magnitude of 1e126 or more
func EncodeNumber(text string) ([]byte, error) {
	return AppendNumber(nil, text)
}

// AppendNumber appends the packed decimal body of text to dst.
func AppendNumber(dst []byte, text string) ([]byte, error) {
	var d apd.Decimal
	if _, _, err := d.SetString(text); err != nil {
		return dst, fmt.Errorf("%w: %q: %v", errs.ErrNumberNotRepresentable, text, err)
	}

	return AppendDecimal(dst, &d)
}

// AppendDecimal appends the packed decimal body of d to dst.
func AppendDecimal(dst []byte, d *apd.Decimal) ([]byte, error) {
	if d.Form != apd.Finite {
		return dst, fmt.Errorf("%w: %s", errs.ErrNumberNotRepresentable, d.String())
	}

	digits := d.Coeff.String()
	exponent := int(d.Exponent)

	digits = strings.TrimLeft(digits, "0")
	if trimmed := strings.TrimRight(digits, "0"); len(trimmed) != len(digits) {
		exponent += len(digits) - len(trimmed)
		digits = trimmed
	}

	if digits == "" {
		return append(dst, numberZeroExponent), nil
	}

	if len(digits) > NumberMaxDigits || exponent >= numberMaxExponent || exponent <= numberMinExponent {
		return dst, fmt.Errorf("%w: %s", errs.ErrNumberNotRepresentable, d.String())
	}

	if exponent%2 != 0 {
		exponent--
		digits += "0"
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}

	// The exponent byte counts digit pairs ahead of the point, so a short
	// trailing exponent can still overflow it once the mantissa is long.
	wire := (exponent+len(digits))/2 + numberExponentBias
	if wire > 0xFF || wire < numberZeroExponent {
		return dst, fmt.Errorf("%w: %s", errs.ErrNumberNotRepresentable, d.String())
	}

	negative := d.Negative
	exponentOnWire := byte(wire)
	if negative {
		exponentOnWire ^= 0xFF
	}

	dst = append(dst, exponentOnWire)
	for i := 0; i < len(digits); i += 2 {
		pair := (digits[i]-'0')*10 + (digits[i+1] - '0')
		if negative {
			dst = append(dst, 101-pair)
		} else {
			dst = append(dst, pair+1)
		}
	}
	if negative && len(digits) < NumberMaxDigits {
		dst = append(dst, numberNegativeSentinel)
	}

	return dst, nil
}

// DecodeNumber decodes a packed decimal body into canonical decimal text.
//
// The text never uses exponent notation except for the single-byte negative
// image, which stands for "-1e126". Fractions carry a leading zero ("0.5"),
// integers carry no decimal point ("1200").
//
// Returns:
//   - string: Decimal text
//   - error: ErrBufferLengthInsufficient for an empty body, or
//     ErrNumberNotRepresentable for a mantissa byte outside 0..100 once the
//     +1 (or 101-) offset is removed
func DecodeNumber(buf []byte) (string, error) {
	if len(buf) == 0 {
		return "", fmt.Errorf("%w: empty number", errs.ErrBufferLengthInsufficient)
	}

	exponent := int(buf[0])
	positive := exponent&0x80 != 0
	if !positive {
		exponent ^= 0xFF
	}
	exponent -= numberExponentBias + 1
	pointIndex := exponent*2 + 2

	if len(buf) == 1 {
		if positive {
			return "0", nil
		}

		return "-1e126", nil
	}

	numBytes := len(buf)
	if !positive && buf[numBytes-1] == numberNegativeSentinel {
		numBytes--
	}

	digits := make([]byte, 0, 2*numBytes)
	for i := 1; i < numBytes; i++ {
		var pair int
		if positive {
			pair = int(buf[i]) - 1
		} else {
			pair = 101 - int(buf[i])
		}
		if pair < 0 || pair > 100 {
			return "", fmt.Errorf("%w: mantissa byte %d at index %d", errs.ErrNumberNotRepresentable, buf[i], i)
		}
		if pair == 100 {
			// A leading "10" takes one extra position ahead of the point.
			digits = append(digits, '1', '0', '0')
			pointIndex++

			continue
		}
		digits = append(digits, byte('0'+pair/10), byte('0'+pair%10))
	}

	for len(digits) > 0 && digits[0] == '0' {
		digits = digits[1:]
		pointIndex--
	}
	for len(digits) > 0 && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
	}
	if len(digits) == 0 {
		return "0", nil
	}

	var sb strings.Builder
	sb.Grow(len(digits) + 8)
	if !positive {
		sb.WriteByte('-')
	}

	switch {
	case pointIndex <= 0:
		sb.WriteString("0.")
		sb.WriteString(strings.Repeat("0", -pointIndex))
		sb.Write(digits)
	case pointIndex >= len(digits):
		sb.Write(digits)
		sb.WriteString(strings.Repeat("0", pointIndex-len(digits)))
	default:
		sb.Write(digits[:pointIndex])
		sb.WriteByte('.')
		sb.Write(digits[pointIndex:])
	}

	return sb.String(), nil
}
