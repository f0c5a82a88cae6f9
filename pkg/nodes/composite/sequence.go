// Package composite implements the stock composite node types: Sequence,
// Selector, Parallel, and IfThenElse.
package composite

import (
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const SequenceType model.NodeType = "sequence"

// Sequence ticks children in order, stopping and returning Failure or
// Running at the first child that doesn't return Success; it resumes
// from the child that last reported Running rather than re-ticking
// earlier children, since they already succeeded this pass.
type Sequence struct {
	id      model.NodeId
	running int
}

func NewSequence(id model.NodeId) *Sequence { return &Sequence{id: id} }

func (s *Sequence) Type() model.NodeType { return SequenceType }

func (s *Sequence) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindComposite, tree.CompositeBounds(0, -1)
}

func (s *Sequence) Ports() []model.Port { return nil }

func (s *Sequence) GetConfig() (any, error) { return nil, nil }

func (s *Sequence) SetConfig(any) error { return nil }

func (s *Sequence) Reset() { s.running = 0 }

func (s *Sequence) Tick(ctx *tree.TickContext) (model.NodeStatus, error) {
	n := ctx.ChildCount()
	if n == 0 {
		return model.StatusSuccess, nil
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
		case model.StatusFailure:
			s.running = 0
			return model.StatusFailure, nil
		}
	}

	s.running = 0

	return model.StatusSuccess, nil
}
