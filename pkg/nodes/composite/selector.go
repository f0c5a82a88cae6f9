package composite

import (
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const SelectorType model.NodeType = "selector"

// Selector (a.k.a fallback) ticks children in order, stopping and
// returning Success or Running at the first child that doesn't return
// Failure; only reports Failure once every child has.
type Selector struct {
	id      model.NodeId
	running int
}

func NewSelector(id model.NodeId) *Selector { return &Selector{id: id} }

func (s *Selector) Type() model.NodeType { return SelectorType }

func (s *Selector) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindComposite, tree.CompositeBounds(0, -1)
}

func (s *Selector) Ports() []model.Port { return nil }

func (s *Selector) GetConfig() (any, error) { return nil, nil }

func (s *Selector) SetConfig(any) error { return nil }

func (s *Selector) Reset() { s.running = 0 }

func (s *Selector) Tick(ctx *tree.TickContext) (model.NodeStatus, error) {
	n := ctx.ChildCount()
	if n == 0 {
		return model.StatusFailure, nil
	}

	for i := s.running; i < n; i++ {
		status, err := ctx.TickChild(i)
		if err != nil {
			return model.StatusFailure, err
		}

		switch status {
		case model.StatusRunning:
			s.running = i
			return model.StatusRunning, nil
		case model.StatusSuccess:
			s.running = 0
			return model.StatusSuccess, nil
		}
	}

	s.running = 0

	return model.StatusFailure, nil
}
