package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tells the four extractor outputs apart
type Kind uint8

// Kinds
const (
	KindAbsent Kind = iota
	KindBool
	KindScalar
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return "absent"
	}
}

// Value is one extractor output; the zero Value is Absent
type Value struct {
	kind   Kind
	b      bool
	scalar string
	items  []string
}

// Absent is the "no signal" output
func Absent() Value { return Value{} }

// Bool is a boolean output
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Scalar is a single string output
func Scalar(s string) Value { return Value{kind: KindScalar, scalar: s} }

// Count is a Scalar holding n in decimal
func Count(n int) Value { return Scalar(strconv.Itoa(n)) }

// List is a list output; each item becomes its own flag
func List(items ...string) Value { return Value{kind: KindList, items: items} }

// Kind reports the output kind
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload
func (v Value) Bool() bool { return v.b }

// Scalar returns the scalar payload
func (v Value) Scalar() string { return v.scalar }

// Items returns the list payload
func (v Value) Items() []string { return v.items }

// Of lifts a raw field value; anything that is not absent, bool or a list is coerced to a scalar string
func Of(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Absent()
	case bool:
		return Bool(x)
	case string:
		return Scalar(x)
	case json.Number:
		return Scalar(x.String())
	case float64:
		return Scalar(strconv.FormatFloat(x, 'f', -1, 64))
	case int:
		return Scalar(strconv.Itoa(x))
	case int64:
		return Scalar(strconv.FormatInt(x, 10))
	case []string:
		return List(x...)
	case []any:
		items := make([]string, 0, len(x))
		for _, it := range x {
			if s, ok := it.(string); ok {
				items = append(items, s)
				continue
			}
			items = append(items, fmt.Sprint(it))
		}
		return List(items...)
	}
	return Scalar(fmt.Sprint(raw))
}
