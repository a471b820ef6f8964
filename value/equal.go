package value

import (
	"bytes"
	"math"

	"github.com/cockroachdb/apd/v2"
)

// Equal reports whether v and o hold the same value.
//
// Numbers compare numerically, so "1.50" equals "1.5". Date-times compare as
// instants; zoned date-times must also carry the same UTC offset. Floats
// compare by value, with NaN equal to NaN.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return numbersEqual(v.s, o.s)
	case KindFloat32, KindFloat64:
		return floatsEqual(v.f, o.f)
	case KindString:
		return v.s == o.s
	case KindBytes, KindID:
		return bytes.Equal(v.raw, o.raw)
	case KindDateTime:
		if v.zoned != o.zoned || !v.t.Equal(o.t) {
			return false
		}
		if !v.zoned {
			return true
		}
		_, off1 := v.t.Zone()
		_, off2 := o.t.Zone()

		return off1 == off2
	case KindArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}

		return true
	case KindObject:
		if len(v.flds) != len(o.flds) {
			return false
		}
		for i := range v.flds {
			if v.flds[i].Name != o.flds[i].Name || !v.flds[i].Value.Equal(o.flds[i].Value) {
				return false
			}
		}

		return true
	case KindVector:
		return v.AsVector().Equal(o.AsVector())
	default:
		return false
	}
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}

	da, _, err := apd.NewFromString(a)
	if err != nil {
		return false
	}
	db, _, err := apd.NewFromString(b)
	if err != nil {
		return false
	}

	return da.Cmp(db) == 0
}

func floatsEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
