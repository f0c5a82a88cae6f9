package composite

import (
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const IfThenElseType model.NodeType = "if_then_else"

// IfThenElse ticks child 0 (the condition); on Success it ticks child 1
// (the then branch), on Failure child 2 (the else branch, optional), and
// on Running propagates Running without ticking either branch this pass.
type IfThenElse struct {
	id      model.NodeId
	running int // -1 = not inside a branch, else the branch child index being resumed.
}

func NewIfThenElse(id model.NodeId) *IfThenElse { return &IfThenElse{id: id, running: -1} }

func (n *IfThenElse) Type() model.NodeType { return IfThenElseType }

func (n *IfThenElse) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindComposite, tree.CompositeBounds(2, 3)
}

func (n *IfThenElse) Ports() []model.Port { return nil }

func (n *IfThenElse) GetConfig() (any, error) { return nil, nil }

func (n *IfThenElse) SetConfig(any) error { return nil }

func (n *IfThenElse) Reset() { n.running = -1 }

func (n *IfThenElse) Tick(ctx *tree.TickContext) (model.NodeStatus, error) {
	if n.running < 0 {
		condStatus, err := ctx.TickChild(0)
		if err != nil {
			return model.StatusFailure, err
		}

		switch condStatus {
		case model.StatusRunning:
			return model.StatusRunning, nil
		case model.StatusSuccess:
			n.running = 1
		case model.StatusFailure:
			if ctx.ChildCount() < 3 {
				return model.StatusFailure, nil
			}

			n.running = 2
		}
	}

	status, err := ctx.TickChild(n.running)
	if err != nil {
		return model.StatusFailure, err
	}

	if status != model.StatusRunning {
		n.running = -1
	}

	return status, nil
}
