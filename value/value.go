package value

import (
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v2"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindDateTime
	KindID
	KindArray
	KindObject
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindDateTime:
		return "DateTime"
	case KindID:
		return "ID"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	case KindVector:
		return "Vector"
	default:
		return "Unknown"
	}
}

// Field is one name/value pair of an object.
type Field struct {
	Name  string
	Value Value
}

// Value is a single OSON value. The zero Value is null.
//
// Accessors return the zero value of their type when called on another kind.
type Value struct {
	kind  Kind
	b     bool
	s     string
	f     float64
	raw   []byte
	t     time.Time
	zoned bool
	elems []Value
	flds  []Field
	vec   *Vector
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a decimal number from its text. The text is not validated
// here; encoders reject text that is not a finite decimal.
func Number(text string) Value {
	return Value{kind: KindNumber, s: text}
}

// Int returns a decimal number holding v.
func Int(v int64) Value {
	return Number(strconv.FormatInt(v, 10))
}

// Uint returns a decimal number holding v.
func Uint(v uint64) Value {
	return Number(strconv.FormatUint(v, 10))
}

// NumberFromFloat returns a decimal number holding the shortest text that
// round-trips f.
func NumberFromFloat(f float64) Value {
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// Decimal returns a decimal number holding d.
func Decimal(d *apd.Decimal) Value {
	return Number(d.String())
}

// Float32 returns a binary float value.
func Float32(f float32) Value {
	return Value{kind: KindFloat32, f: float64(f)}
}

// Float64 returns a binary double value.
func Float64(f float64) Value {
	return Value{kind: KindFloat64, f: f}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Bytes returns an opaque binary value.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, raw: b}
}

// DateTime returns a date-time without a zone. It is stored as calendar
// fields in the location the encoder is configured with.
func DateTime(t time.Time) Value {
	return Value{kind: KindDateTime, t: t}
}

// ZonedDateTime returns a date-time that keeps the UTC offset of t.
func ZonedDateTime(t time.Time) Value {
	return Value{kind: KindDateTime, t: t, zoned: true}
}

// ID returns an opaque identifier of at most 16 bytes.
func ID(b []byte) Value {
	return Value{kind: KindID, raw: b}
}

// Array returns an array of the given elements.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{kind: KindArray, elems: elems}
}

// Object returns an object with the given fields in order.
func Object(fields ...Field) Value {
	if fields == nil {
		fields = []Field{}
	}

	return Value{kind: KindObject, flds: fields}
}

// FromVector returns a value holding v.
func FromVector(v Vector) Value {
	return Value{kind: KindVector, vec: &v}
}

// F is shorthand for a Field.
func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool {
	return v.kind == KindArray || v.kind == KindObject
}

func (v Value) AsBool() bool {
	return v.kind == KindBool && v.b
}

// AsNumber returns the decimal text of a number.
func (v Value) AsNumber() string {
	if v.kind != KindNumber {
		return ""
	}

	return v.s
}

// AsDecimal parses the decimal text of a number.
func (v Value) AsDecimal() (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(v.AsNumber())
	return d, err
}

func (v Value) AsFloat32() float32 {
	if v.kind != KindFloat32 {
		return 0
	}

	return float32(v.f)
}

func (v Value) AsFloat64() float64 {
	if v.kind != KindFloat64 && v.kind != KindFloat32 {
		return 0
	}

	return v.f
}

func (v Value) AsString() string {
	if v.kind != KindString {
		return ""
	}

	return v.s
}

// AsBytes returns the bytes of a binary or identifier value.
func (v Value) AsBytes() []byte {
	if v.kind != KindBytes && v.kind != KindID {
		return nil
	}

	return v.raw
}

func (v Value) AsTime() time.Time {
	return v.t
}

// IsZoned reports whether a date-time keeps its UTC offset.
func (v Value) IsZoned() bool {
	return v.kind == KindDateTime && v.zoned
}

// Elements returns the elements of an array.
func (v Value) Elements() []Value {
	return v.elems
}

// Fields returns the fields of an object in order.
func (v Value) Fields() []Field {
	return v.flds
}

// AsVector returns the vector held by v.
func (v Value) AsVector() Vector {
	if v.vec == nil {
		return Vector{}
	}

	return *v.vec
}

// Len returns the number of elements or fields of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindObject:
		return len(v.flds)
	default:
		return 0
	}
}

// Get returns the value of the first field named name.
func (v Value) Get(name string) (Value, bool) {
	for _, f := range v.flds {
		if f.Name == name {
			return f.Value, true
		}
	}

	return Value{}, false
}

// Index returns the i-th array element.
func (v Value) Index(i int) (Value, bool) {
	if i < 0 || i >= len(v.elems) {
		return Value{}, false
	}

	return v.elems[i], true
}
