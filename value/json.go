package value

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v2"

	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/format"
)

// FromJSON parses a JSON document into a Value.
//
// Object field order and duplicate names are preserved and numbers keep
// their text, so no precision is lost.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSON(dec)
	if err != nil {
		return Value{}, err
	}

	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, fmt.Errorf("%w: json: %v", errs.ErrInvalidValue, err)
		}

		return Value{}, fmt.Errorf("%w: json: trailing data %v", errs.ErrInvalidValue, tok)
	}

	return v, nil
}

func decodeJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("%w: json: %v", errs.ErrInvalidValue, err)
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t.String()), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		}
	}

	return Value{}, fmt.Errorf("%w: json: unexpected token %v", errs.ErrInvalidValue, tok)
}

func decodeJSONObject(dec *json.Decoder) (Value, error) {
	fields := []Field{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("%w: json: %v", errs.ErrInvalidValue, err)
		}
		name, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: json: object key %v", errs.ErrInvalidValue, tok)
		}

		v, err := decodeJSON(dec)
		if err != nil {
			return Value{}, err
		}
		fields = append(fields, Field{Name: name, Value: v})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("%w: json: %v", errs.ErrInvalidValue, err)
	}

	return Object(fields...), nil
}

func decodeJSONArray(dec *json.Decoder) (Value, error) {
	elems := []Value{}
	for dec.More() {
		v, err := decodeJSON(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}

	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("%w: json: %v", errs.ErrInvalidValue, err)
	}

	return Array(elems...), nil
}

// MarshalJSON renders v as JSON.
//
// Binary values are base64 strings, identifiers hex strings, date-times
// RFC 3339 strings, and non-finite floats the strings "NaN", "+Inf", "-Inf".
// Dense vectors are arrays; sparse vectors are objects with numDimensions,
// indices and values members.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil)
}

// String returns the JSON text of v.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%%!(%v)", err)
	}

	return string(b)
}

func (v Value) appendJSON(dst []byte) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return append(dst, "null"...), nil
	case KindBool:
		return strconv.AppendBool(dst, v.b), nil
	case KindNumber:
		return appendJSONNumber(dst, v.s)
	case KindFloat32:
		return appendJSONFloat(dst, v.f, 32), nil
	case KindFloat64:
		return appendJSONFloat(dst, v.f, 64), nil
	case KindString:
		return appendJSONString(dst, v.s), nil
	case KindBytes:
		return appendJSONString(dst, base64.StdEncoding.EncodeToString(v.raw)), nil
	case KindDateTime:
		return appendJSONString(dst, v.t.Format(time.RFC3339Nano)), nil
	case KindID:
		return appendJSONString(dst, hex.EncodeToString(v.raw)), nil
	case KindArray:
		dst = append(dst, '[')
		for i, e := range v.elems {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			if dst, err = e.appendJSON(dst); err != nil {
				return nil, err
			}
		}

		return append(dst, ']'), nil
	case KindObject:
		dst = append(dst, '{')
		for i, f := range v.flds {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendJSONString(dst, f.Name)
			dst = append(dst, ':')
			var err error
			if dst, err = f.Value.appendJSON(dst); err != nil {
				return nil, err
			}
		}

		return append(dst, '}'), nil
	case KindVector:
		return v.AsVector().appendJSON(dst), nil
	default:
		return nil, fmt.Errorf("%w: kind %d", errs.ErrInvalidValue, v.kind)
	}
}

// MarshalJSON renders v as described on Value.MarshalJSON.
func (v Vector) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil), nil
}

func (v Vector) appendJSON(dst []byte) []byte {
	bitSize := 64
	if v.Format == format.VectorFloat32 {
		bitSize = 32
	}

	appendElems := func(dst []byte) []byte {
		dst = append(dst, '[')
		for i, f := range v.Float64s() {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendJSONFloat(dst, f, bitSize)
		}

		return append(dst, ']')
	}

	if !v.Sparse {
		return appendElems(dst)
	}

	dst = append(dst, `{"numDimensions":`...)
	dst = strconv.AppendUint(dst, uint64(v.NumDimensions), 10)
	dst = append(dst, `,"indices":[`...)
	for i, idx := range v.Indices {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = strconv.AppendUint(dst, uint64(idx), 10)
	}
	dst = append(dst, `],"values":`...)
	dst = appendElems(dst)

	return append(dst, '}')
}

func appendJSONNumber(dst []byte, text string) ([]byte, error) {
	if isJSONNumber(text) {
		return append(dst, text...), nil
	}

	d, _, err := apd.NewFromString(text)
	if err != nil || d.Form != apd.Finite {
		return nil, fmt.Errorf("%w: number %q", errs.ErrInvalidValue, text)
	}

	return append(dst, d.String()...), nil
}

func isJSONNumber(text string) bool {
	_, err := json.Marshal(json.Number(text))
	return err == nil && text != ""
}

func appendJSONFloat(dst []byte, f float64, bitSize int) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, `"NaN"`...)
	case math.IsInf(f, 1):
		return append(dst, `"+Inf"`...)
	case math.IsInf(f, -1):
		return append(dst, `"-Inf"`...)
	default:
		return strconv.AppendFloat(dst, f, 'g', -1, bitSize)
	}
}

func appendJSONString(dst []byte, s string) []byte {
	b, _ := json.Marshal(s) // strings always marshal
	return append(dst, b...)
}
