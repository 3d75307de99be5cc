package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/cage1016/adder/pkg/calc"
)

// Kind tags the shape an operand arrived in.
type Kind int

const (
	KindAbsent Kind = iota
	KindNull
	KindString
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "absent"
	}
}

// Operand is a raw add input: either missing, null, a string or a number.
// The zero value is an absent operand.
type Operand struct {
	kind Kind
	text string
	num  float64
}

// Absent returns an operand that was not supplied at all.
func Absent() Operand { return Operand{} }
func Null() Operand { return Operand{kind: KindNull} }
func String(s string) Operand { return Operand{kind: KindString, text: s} }
func Number(f float64) Operand { return Operand{kind: KindNumber, num: f} }

// Kind reports how the operand was supplied.
func (o Operand) Kind() Kind { return o.kind }

// Text returns the string form of a string operand.
func (o Operand) Text() string { return o.text }

// Missing reports whether the operand counts as not supplied: absent, null
// or the empty string. A numeric zero is present.
func (o Operand) Missing() bool {
	switch o.kind {
	case KindAbsent, KindNull:
		return true
	case KindString:
		return o.text == ""
	}
	return false
}

// Float normalizes the operand to a float64. Strings follow calc.ParseFloat,
// missing operands are NaN.
func (o Operand) Float() float64 {
	switch o.kind {
	case KindNumber:
		return o.num
	case KindString:
		return calc.ParseFloat(o.text)
	}
	return math.NaN()
}

func (o Operand) String() string {
	switch o.kind {
	case KindString:
		return strconv.Quote(o.text)
	case KindNumber:
		return strconv.FormatFloat(o.num, 'g', -1, 64)
	}
	return o.kind.String()
}

// UnmarshalJSON accepts null, strings and numbers. Any other JSON value is
// kept as its raw text, which never parses to a number.
func (o *Operand) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*o = Null()
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = String(s)
	case len(b) > 0 && (b[0] == '-' || ('0' <= b[0] && b[0] <= '9')):
		*o = Number(calc.ParseFloat(string(b)))
	default:
		*o = String(string(b))
	}
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON. Absent operands encode as
// null; non-finite numbers encode as strings that parse back to the same
// value.
func (o Operand) MarshalJSON() ([]byte, error) {
	switch o.kind {
	case KindString:
		return json.Marshal(o.text)
	case KindNumber:
		switch {
		case math.IsNaN(o.num):
			return []byte(`"NaN"`), nil
		case math.IsInf(o.num, 1):
			return []byte(`"Infinity"`), nil
		case math.IsInf(o.num, -1):
			return []byte(`"-Infinity"`), nil
		}
		return json.Marshal(o.num)
	}
	return []byte("null"), nil
}
