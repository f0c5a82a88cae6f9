package decorator

import (
	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const (
	StatusWriteType model.NodeType = "status_write"
	StatusReadType  model.NodeType = "status_read"
)

const PortStatus = "status"

// statusValue is the blackboard.Value carrier for a NodeStatus.
type statusValue model.NodeStatus

func (statusValue) Type() model.ValueType { return "node_status" }
func (v statusValue) Clone() blackboard.Value { return v }

// StatusWrite ticks its child and writes its resulting status to a
// blackboard output port, then reports the child's status unchanged.
type StatusWrite struct {
	id     model.NodeId
	status blackboard.Output[statusValue]
}

func NewStatusWrite(id model.NodeId) *StatusWrite { return &StatusWrite{id: id} }

func (n *StatusWrite) Type() model.NodeType { return StatusWriteType }

func (n *StatusWrite) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindDecorator, tree.DecoratorBounds
}

func (n *StatusWrite) Ports() []model.Port {
	return []model.Port{{Name: PortStatus, Direction: model.PortDirectionOutput, Type: "node_status"}}
}

func (n *StatusWrite) GetConfig() (any, error) { return nil, nil }

func (n *StatusWrite) SetConfig(any) error { return nil }

func (n *StatusWrite) Reset() {}

func (n *StatusWrite) BindPort(port model.Port, bb *blackboard.Blackboard, key string) error {
	if port.Name != PortStatus {
		return model.NewError(model.KindNotFound, "BindPort", "unknown port "+port.Name).WithNode(n.id)
	}

	n.status = blackboard.BindOutput[statusValue](bb, key)

	return nil
}

func (n *StatusWrite) UnbindPort(portName string) {
	if portName == PortStatus {
		n.status = blackboard.Output[statusValue]{}
	}
}

func (n *StatusWrite) Tick(ctx *tree.TickContext) (model.NodeStatus, error) {
	if ctx.ChildCount() == 0 {
		return model.StatusFailure, model.NewError(model.KindMissingChild, "Tick", "status_write has no child").WithNode(n.id)
	}

	status, err := ctx.TickChild(0)
	if err != nil {
		return model.StatusFailure, err
	}

	_ = n.status.Set(statusValue(status))

	return status, nil
}

// StatusRead ignores its child's own outcome and instead reports
// whatever status was last written to its input port, defaulting to
// Failure if nothing has been written yet. It still ticks the child
// first, in declared-order, so any side effects the child has still run.
type StatusRead struct {
	id     model.NodeId
	status blackboard.Input[statusValue]
}

func NewStatusRead(id model.NodeId) *StatusRead { return &StatusRead{id: id} }

func (n *StatusRead) Type() model.NodeType { return StatusReadType }

func (n *StatusRead) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindDecorator, tree.DecoratorBounds
}

func (n *StatusRead) Ports() []model.Port {
	return []model.Port{{Name: PortStatus, Direction: model.PortDirectionInput, Type: "node_status"}}
}

func (n *StatusRead) GetConfig() (any, error) { return nil, nil }

func (n *StatusRead) SetConfig(any) error { return nil }

func (n *StatusRead) Reset() {}

func (n *StatusRead) BindPort(port model.Port, bb *blackboard.Blackboard, key string) error {
	if port.Name != PortStatus {
		return model.NewError(model.KindNotFound, "BindPort", "unknown port "+port.Name).WithNode(n.id)
	}

	n.status = blackboard.BindInput[statusValue](bb, key)

	return nil
}

func (n *StatusRead) UnbindPort(portName string) {
	if portName == PortStatus {
		n.status = blackboard.Input[statusValue]{}
	}
}

func (n *StatusRead) Tick(ctx *tree.TickContext) (model.NodeStatus, error) {
	if ctx.ChildCount() == 0 {
		return model.StatusFailure, model.NewError(model.KindMissingChild, "Tick", "status_read has no child").WithNode(n.id)
	}

	if _, err := ctx.TickChild(0); err != nil {
		return model.StatusFailure, err
	}

	read, err := n.status.Get()
	if err != nil {
		return model.StatusFailure, nil
	}

	return model.NodeStatus(read), nil
}
