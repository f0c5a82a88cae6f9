package decorator

import (
	"encoding/json"

	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

// StatusValueCodec is the protocol.ValueCodec for the node_status
// ValueType StatusWrite/StatusRead exchange over the blackboard.
type StatusValueCodec struct{}

func (StatusValueCodec) Type() model.ValueType { return "node_status" }

func (StatusValueCodec) Encode(value blackboard.Value) ([]byte, error) {
	v, ok := value.(statusValue)
	if !ok {
		return nil, model.NewError(model.KindTypeMismatch, "Encode", "expected decorator.statusValue")
	}

	return json.Marshal(model.NodeStatus(v))
}

func (StatusValueCodec) Decode(blob []byte) (blackboard.Value, error) {
	var status model.NodeStatus
	if err := json.Unmarshal(blob, &status); err != nil {
		return nil, err
	}

	return statusValue(status), nil
}

func (StatusValueCodec) Clone(value blackboard.Value) blackboard.Value { return value.Clone() }

func (StatusValueCodec) Equal(a, b blackboard.Value) bool { return a == b }

type constantFactory struct {
	nodeType model.NodeType
	create   func(model.NodeId) tree.Node
}

func NewSucceedNodeFactory() constantFactory {
	return constantFactory{nodeType: SucceedType, create: NewSucceed}
}

func NewFailNodeFactory() constantFactory {
	return constantFactory{nodeType: FailType, create: NewFail}
}

func NewConstantRunningNodeFactory() constantFactory {
	return constantFactory{nodeType: RunningType, create: NewRunning}
}

func (f constantFactory) Type() model.NodeType                     { return f.nodeType }
func (f constantFactory) Create(id model.NodeId) (tree.Node, error) { return f.create(id), nil }
func (constantFactory) DefaultConfig() any                          { return nil }
func (constantFactory) DecodeConfig([]byte) (any, error)            { return nil, nil }
func (constantFactory) EncodeConfig(tree.Node) ([]byte, error)      { return nil, nil }

func (constantFactory) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindDecorator, tree.OptionallyDecoratingBounds
}

func (constantFactory) PortSchema(any) []model.Port { return nil }

type retryFactory struct{}

func NewRetryNodeFactory() retryFactory { return retryFactory{} }

func (retryFactory) Type() model.NodeType                     { return RetryType }
func (retryFactory) Create(id model.NodeId) (tree.Node, error) { return NewRetry(id), nil }
func (retryFactory) DefaultConfig() any                        { return RetryConfig{} }

func (retryFactory) DecodeConfig(blob []byte) (any, error) {
	var cfg RetryConfig
	if len(blob) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(blob, &cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (retryFactory) EncodeConfig(node tree.Node) ([]byte, error) {
	r, ok := node.(*Retry)
	if !ok {
		return nil, model.NewError(model.KindTypeMismatch, "EncodeConfig", "expected *decorator.Retry")
	}

	return json.Marshal(r.config)
}

func (retryFactory) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindDecorator, tree.DecoratorBounds
}

func (retryFactory) PortSchema(any) []model.Port { return nil }

type statusWriteFactory struct{}

func NewStatusWriteNodeFactory() statusWriteFactory { return statusWriteFactory{} }

func (statusWriteFactory) Type() model.NodeType { return StatusWriteType }

func (statusWriteFactory) Create(id model.NodeId) (tree.Node, error) {
	return NewStatusWrite(id), nil
}

func (statusWriteFactory) DefaultConfig() any                     { return nil }
func (statusWriteFactory) DecodeConfig([]byte) (any, error)       { return nil, nil }
func (statusWriteFactory) EncodeConfig(tree.Node) ([]byte, error) { return nil, nil }

func (statusWriteFactory) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindDecorator, tree.DecoratorBounds
}

func (statusWriteFactory) PortSchema(any) []model.Port {
	return []model.Port{{Name: PortStatus, Direction: model.PortDirectionOutput, Type: "node_status"}}
}

type statusReadFactory struct{}

func NewStatusReadNodeFactory() statusReadFactory { return statusReadFactory{} }

func (statusReadFactory) Type() model.NodeType { return StatusReadType }

func (statusReadFactory) Create(id model.NodeId) (tree.Node, error) {
	return NewStatusRead(id), nil
}

func (statusReadFactory) DefaultConfig() any                     { return nil }
func (statusReadFactory) DecodeConfig([]byte) (any, error)       { return nil, nil }
func (statusReadFactory) EncodeConfig(tree.Node) ([]byte, error) { return nil, nil }

func (statusReadFactory) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindDecorator, tree.DecoratorBounds
}

func (statusReadFactory) PortSchema(any) []model.Port {
	return []model.Port{{Name: PortStatus, Direction: model.PortDirectionInput, Type: "node_status"}}
}
