package blackboard

import "github.com/dukex/betula/pkg/model"

// The concrete Value implementations every stock node type and the
// treesupport codecs exchange over the blackboard. Each is a thin,
// immutable wrapper: Clone returns a copy so a reader can never observe a
// writer's later mutation.

type StringValue string

func (StringValue) Type() model.ValueType   { return "string" }
func (v StringValue) Clone() Value          { return v }
func (v StringValue) String() string        { return string(v) }

type FloatValue float64

func (FloatValue) Type() model.ValueType { return "float" }
func (v FloatValue) Clone() Value        { return v }

type BoolValue bool

func (BoolValue) Type() model.ValueType { return "bool" }
func (v BoolValue) Clone() Value        { return v }

// MapValue is a shallow-cloned string-keyed bag, used for JSON-shaped
// payloads such as an HTTP response body or a queue message.
type MapValue map[string]any

func (MapValue) Type() model.ValueType { return "map" }

func (v MapValue) Clone() Value {
	out := make(MapValue, len(v))
	for k, val := range v {
		out[k] = val
	}

	return out
}

// ListValue is a shallow-cloned ordered sequence of arbitrary JSON-shaped
// values.
type ListValue []any

func (ListValue) Type() model.ValueType { return "list" }

func (v ListValue) Clone() Value {
	out := make(ListValue, len(v))
	copy(out, v)

	return out
}
