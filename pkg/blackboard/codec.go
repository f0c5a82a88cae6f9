package blackboard

import (
	"encoding/json"
	"reflect"

	"github.com/dukex/betula/pkg/model"
)

// StringCodec, FloatCodec, BoolCodec, MapCodec, and ListCodec are the
// protocol.ValueCodec implementations for the stock Value types, each a
// thin encoding/json wrapper plus an Equal (== for the scalar types,
// reflect.DeepEqual for maps and lists).

type StringCodec struct{}

func (StringCodec) Type() model.ValueType { return "string" }

func (StringCodec) Encode(value Value) ([]byte, error) {
	v, ok := value.(StringValue)
	if !ok {
		return nil, model.NewError(model.KindTypeMismatch, "Encode", "expected blackboard.StringValue")
	}

	return json.Marshal(v)
}

func (StringCodec) Decode(blob []byte) (Value, error) {
	var v StringValue
	if err := json.Unmarshal(blob, &v); err != nil {
		return nil, err
	}

	return v, nil
}

func (StringCodec) Clone(value Value) Value { return value.Clone() }

func (StringCodec) Equal(a, b Value) bool { return a == b }

type FloatCodec struct{}

func (FloatCodec) Type() model.ValueType { return "float" }

func (FloatCodec) Encode(value Value) ([]byte, error) {
	v, ok := value.(FloatValue)
	if !ok {
		return nil, model.NewError(model.KindTypeMismatch, "Encode", "expected blackboard.FloatValue")
	}

	return json.Marshal(v)
}

func (FloatCodec) Decode(blob []byte) (Value, error) {
	var v FloatValue
	if err := json.Unmarshal(blob, &v); err != nil {
		return nil, err
	}

	return v, nil
}

func (FloatCodec) Clone(value Value) Value { return value.Clone() }

func (FloatCodec) Equal(a, b Value) bool { return a == b }

type BoolCodec struct{}

func (BoolCodec) Type() model.ValueType { return "bool" }

func (BoolCodec) Encode(value Value) ([]byte, error) {
	v, ok := value.(BoolValue)
	if !ok {
		return nil, model.NewError(model.KindTypeMismatch, "Encode", "expected blackboard.BoolValue")
	}

	return json.Marshal(v)
}

func (BoolCodec) Decode(blob []byte) (Value, error) {
	var v BoolValue
	if err := json.Unmarshal(blob, &v); err != nil {
		return nil, err
	}

	return v, nil
}

func (BoolCodec) Clone(value Value) Value { return value.Clone() }

func (BoolCodec) Equal(a, b Value) bool { return a == b }

type MapCodec struct{}

func (MapCodec) Type() model.ValueType { return "map" }

func (MapCodec) Encode(value Value) ([]byte, error) {
	v, ok := value.(MapValue)
	if !ok {
		return nil, model.NewError(model.KindTypeMismatch, "Encode", "expected blackboard.MapValue")
	}

	return json.Marshal(v)
}

func (MapCodec) Decode(blob []byte) (Value, error) {
	v := make(MapValue)
	if err := json.Unmarshal(blob, &v); err != nil {
		return nil, err
	}

	return v, nil
}

func (MapCodec) Clone(value Value) Value { return value.Clone() }

func (MapCodec) Equal(a, b Value) bool { return reflect.DeepEqual(a, b) }

type ListCodec struct{}

func (ListCodec) Type() model.ValueType { return "list" }

func (ListCodec) Encode(value Value) ([]byte, error) {
	v, ok := value.(ListValue)
	if !ok {
		return nil, model.NewError(model.KindTypeMismatch, "Encode", "expected blackboard.ListValue")
	}

	return json.Marshal(v)
}

func (ListCodec) Decode(blob []byte) (Value, error) {
	var v ListValue
	if err := json.Unmarshal(blob, &v); err != nil {
		return nil, err
	}

	return v, nil
}

func (ListCodec) Clone(value Value) Value { return value.Clone() }

func (ListCodec) Equal(a, b Value) bool { return reflect.DeepEqual(a, b) }
