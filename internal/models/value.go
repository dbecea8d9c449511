package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind discriminates the variants of a logged Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindBool
	KindFloatVector
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindFloatVector:
		return "float_vector"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the shapes an observation can take:
// string, int, float, bool, or a vector of floats.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	i64  int64
	b    bool
	vec  []float64
}

func StringValue(s string) Value    { return Value{kind: KindString, str: s} }
func IntValue(i int64) Value        { return Value{kind: KindInt, i64: i} }
func FloatValue(f float64) Value    { return Value{kind: KindFloat, num: f} }
func BoolValue(b bool) Value        { return Value{kind: KindBool, b: b} }
func VectorValue(v []float64) Value { return Value{kind: KindFloatVector, vec: v} }

func (v Value) Kind() ValueKind { return v.kind }

// Str returns the string variant; zero value for other kinds.
func (v Value) Str() string { return v.str }

// Int returns the int variant; zero value for other kinds.
func (v Value) Int() int64 { return v.i64 }

// Float returns the float variant; zero value for other kinds.
func (v Value) Float() float64 { return v.num }

// Bool returns the bool variant; zero value for other kinds.
func (v Value) Bool() bool { return v.b }

// Vector returns the float-vector variant; nil for other kinds.
func (v Value) Vector() []float64 { return v.vec }

// AsFloat converts numeric variants to float64. Non-numeric kinds
// report false.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.num, true
	case KindInt:
		return float64(v.i64), true
	default:
		return 0, false
	}
}

// Equal compares two values including their kind tags.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.i64 == o.i64
	case KindFloat:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindFloatVector:
		if len(v.vec) != len(o.vec) {
			return false
		}
		for i := range v.vec {
			if v.vec[i] != o.vec[i] {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindFloatVector:
		return fmt.Sprintf("%v", v.vec)
	}
	return ""
}

// MarshalJSON encodes the value as its natural JSON shape: strings as
// strings, numbers as numbers, bools as bools, vectors as arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return json.Marshal(v.i64)
	case KindFloat:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindFloatVector:
		if v.vec == nil {
			return json.Marshal([]float64{})
		}
		return json.Marshal(v.vec)
	}
	return nil, fmt.Errorf("cannot marshal value of kind %v", v.kind)
}

// UnmarshalJSON infers the variant from the JSON shape. Whole JSON
// numbers decode as ints, fractional ones as floats.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromInterface(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// FromInterface builds a Value from a dynamically typed observation,
// e.g. one decoded from JSON. Whole numbers become ints, numeric
// slices become float vectors.
func FromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q", t.String())
		}
		return FloatValue(f), nil
	case int:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return IntValue(int64(t)), nil
		}
		return FloatValue(t), nil
	case []float64:
		return VectorValue(t), nil
	case []interface{}:
		vec := make([]float64, 0, len(t))
		for _, el := range t {
			switch n := el.(type) {
			case json.Number:
				f, err := n.Float64()
				if err != nil {
					return Value{}, fmt.Errorf("invalid vector element %q", n.String())
				}
				vec = append(vec, f)
			case float64:
				vec = append(vec, n)
			default:
				return Value{}, fmt.Errorf("vector element %T is not numeric", el)
			}
		}
		return VectorValue(vec), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

// Embedding wraps a feature value that is a numeric vector rather than
// a scalar. Exported embedding features always carry this type.
type Embedding struct {
	Vector []float64 `json:"vector"`
}

// NewEmbedding wraps a logged value as a vector embedding. Scalar
// numeric values become single-element vectors.
func NewEmbedding(v Value) Embedding {
	switch v.Kind() {
	case KindFloatVector:
		return Embedding{Vector: v.Vector()}
	case KindFloat:
		return Embedding{Vector: []float64{v.Float()}}
	case KindInt:
		return Embedding{Vector: []float64{float64(v.Int())}}
	default:
		return Embedding{}
	}
}
