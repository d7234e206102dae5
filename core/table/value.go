package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindInt
	KindDate
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInt:
		return "int"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// DateLayout is the text form of date values.
const DateLayout = "2006-01-02"

// Value is a single table cell. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	i    int64
	date time.Time
}

// Null returns the missing-value marker.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a float value. NaN becomes null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{kind: KindNumber, num: f}
}

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Date returns a calendar-date value. The time of day and location of t are dropped.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Kind reports the type held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the missing-value marker.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string held by v.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Float returns v as a float for both numeric kinds.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// Int returns the integer held by v.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Time returns the date held by v, at midnight UTC.
func (v Value) Time() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// Text returns the text form of v as written to output files.
// Null renders as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return ""
	}
}

// Equal reports whether v and o hold the same value. Null equals null, and
// the two numeric kinds compare by value.
func (v Value) Equal(o Value) bool {
	return v.Key() == o.Key()
}

// Key returns a string that is identical for equal values and distinct
// otherwise. The kind prefix keeps "2000" and 2000 apart.
func (v Value) Key() string {
	switch v.kind {
	case KindString:
		return "s:" + v.str
	case KindNumber, KindInt:
		f, _ := v.Float()
		if f == 0 {
			f = 0 // -0 and 0 are the same value
		}
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	case KindDate:
		return "d:" + v.date.Format(DateLayout)
	default:
		return "z:"
	}
}

// rank orders kinds for mixed-kind comparisons. Null sorts last.
func (v Value) rank() int {
	switch v.kind {
	case KindNumber, KindInt:
		return 0
	case KindDate:
		return 1
	case KindString:
		return 2
	default:
		return 3
	}
}

// Compare orders a before b in ascending order and returns -1, 0 or +1.
// Null values sort after everything else.
func Compare(a, b Value) int {
	ra, rb := a.rank(), b.rank()
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNumber, KindInt:
		fa, _ := a.Float()
		fb, _ := b.Float()
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case KindDate:
		return a.date.Compare(b.date)
	case KindString:
		return strings.Compare(a.str, b.str)
	}
	return 0
}
