// Package decorator implements the stock decorator node types: the three
// constant-status decorators, Retry, and the StatusRead/StatusWrite
// pair.
package decorator

import (
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const (
	SucceedType model.NodeType = "succeed"
	FailType    model.NodeType = "fail"
	RunningType model.NodeType = "constant_running"
)

// constant is optionally-decorating (§3.3): with a child, it ticks it
// (Running lets it keep running this and later ticks) and always reports
// the same fixed status once the child settles, ignoring the child's
// Success/Failure outcome; with no child, it reports the fixed status
// directly, per §4.1's "if 0 children, still return the constant".
type constant struct {
	id       model.NodeId
	nodeType model.NodeType
	fixed    model.NodeStatus
}

func NewSucceed(id model.NodeId) tree.Node {
	return &constant{id: id, nodeType: SucceedType, fixed: model.StatusSuccess}
}

func NewFail(id model.NodeId) tree.Node {
	return &constant{id: id, nodeType: FailType, fixed: model.StatusFailure}
}

func NewRunning(id model.NodeId) tree.Node {
	return &constant{id: id, nodeType: RunningType, fixed: model.StatusRunning}
}

func (c *constant) Type() model.NodeType { return c.nodeType }

func (c *constant) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindDecorator, tree.OptionallyDecoratingBounds
}

func (c *constant) Ports() []model.Port { return nil }

func (c *constant) GetConfig() (any, error) { return nil, nil }

func (c *constant) SetConfig(any) error { return nil }

func (c *constant) Reset() {}

func (c *constant) Tick(ctx *tree.TickContext) (model.NodeStatus, error) {
	if ctx.ChildCount() == 0 {
		return c.fixed, nil
	}

	status, err := ctx.TickChild(0)
	if err != nil {
		return model.StatusFailure, err
	}

	if status == model.StatusRunning {
		return model.StatusRunning, nil
	}

	return c.fixed, nil
}
