package protocol

import (
	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
)

// ValueCodec (de)serializes one ValueType for embedding in a serialized
// tree document's blackboard entries and for BlackboardUpdate events.
type ValueCodec interface {
	Type() model.ValueType
	Encode(value blackboard.Value) ([]byte, error)
	Decode(blob []byte) (blackboard.Value, error)
	Clone(value blackboard.Value) blackboard.Value
	Equal(a, b blackboard.Value) bool
}
