package types

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ValueKind is the kind of a literal value.
type ValueKind int32

const (
	ValueKind_UNSPECIFIED       ValueKind = 0
	ValueKind_NULL              ValueKind = 1
	ValueKind_CURRENT_TIMESTAMP ValueKind = 2
	ValueKind_STRING            ValueKind = 3
	ValueKind_INT               ValueKind = 4
	ValueKind_FLOAT             ValueKind = 5
)

func (k ValueKind) String() string {
	switch k {
	case ValueKind_NULL:
		return "NULL"
	case ValueKind_CURRENT_TIMESTAMP:
		return "CURRENT_TIMESTAMP"
	case ValueKind_STRING:
		return "STRING"
	case ValueKind_INT:
		return "INT"
	case ValueKind_FLOAT:
		return "FLOAT"
	default:
		return "UNSPECIFIED"
	}
}

const (
	nullKeyword             = "null"
	currentTimestampKeyword = "current_timestamp"
)

// Value is a typed literal, such as a column default.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
}

// NullValue returns the NULL literal.
func NullValue() *Value {
	return &Value{Kind: ValueKind_NULL}
}

// CurrentTimestampValue returns the CURRENT_TIMESTAMP literal.
func CurrentTimestampValue() *Value {
	return &Value{Kind: ValueKind_CURRENT_TIMESTAMP}
}

// StringValue returns a string literal.
func StringValue(s string) *Value {
	return &Value{Kind: ValueKind_STRING, Str: s}
}

// IntValue returns an integer literal.
func IntValue(i int64) *Value {
	return &Value{Kind: ValueKind_INT, Int: i}
}

// FloatValue returns a floating-point literal.
func FloatValue(f float64) *Value {
	return &Value{Kind: ValueKind_FLOAT, Float: f}
}

// Keyword folds a value whose text is `null` or `current_timestamp` (any case)
// into the matching keyword kind. Other values are returned unchanged.
func (v *Value) Keyword() *Value {
	if v == nil {
		return nil
	}
	switch strings.ToLower(v.String()) {
	case nullKeyword:
		return NullValue()
	case currentTimestampKeyword:
		return CurrentTimestampValue()
	}
	return v
}

// String renders the value the way it appears in domain signatures.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case ValueKind_NULL:
		return nullKeyword
	case ValueKind_CURRENT_TIMESTAMP:
		return currentTimestampKeyword
	case ValueKind_INT:
		return strconv.FormatInt(v.Int, 10)
	case ValueKind_FLOAT:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	default:
		return v.Str
	}
}

// Equal reports whether two values have the same kind and content.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueKind_INT:
		return v.Int == o.Int
	case ValueKind_FLOAT:
		return v.Float == o.Float
	case ValueKind_STRING:
		return v.Str == o.Str
	default:
		return true
	}
}

func (v *Value) scalar() any {
	switch v.Kind {
	case ValueKind_INT:
		return v.Int
	case ValueKind_FLOAT:
		return v.Float
	default:
		return v.String()
	}
}

// MarshalYAML implements yaml.Marshaler.
func (v *Value) MarshalYAML() (interface{}, error) {
	return v.scalar(), nil
}

// MarshalJSON implements json.Marshaler.
func (v *Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.scalar())
}

// UnmarshalYAML implements yaml.Unmarshaler. Quoted and plain strings become
// string values unless they spell null or current_timestamp.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: value must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		*v = *NullValue()
	case "!!int":
		i, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return errors.Wrapf(err, "line %d: invalid integer %q", node.Line, node.Value)
		}
		*v = *IntValue(i)
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return errors.Wrapf(err, "line %d: invalid float %q", node.Line, node.Value)
		}
		*v = *FloatValue(f)
	default:
		*v = *StringValue(node.Value).Keyword()
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = *NullValue()
	case json.Number:
		if i, err := x.Int64(); err == nil {
			*v = *IntValue(i)
			return nil
		}
		f, err := x.Float64()
		if err != nil {
			return errors.Wrapf(err, "invalid number %q", x.String())
		}
		*v = *FloatValue(f)
	case string:
		*v = *StringValue(x).Keyword()
	default:
		return errors.Errorf("value must be a scalar, got %T", raw)
	}
	return nil
}
