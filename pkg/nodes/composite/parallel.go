package composite

import (
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const ParallelType model.NodeType = "parallel"

// ParallelConfig sets the success threshold: report Success once at
// least this many children have reported Success this tick.
type ParallelConfig struct {
	SuccessThreshold int `json:"success_threshold"`
}

// Parallel ticks every child every tick, unconditionally. It reports
// Success once success_threshold children succeeded, Failure once
// success can no longer be reached given how many have already failed,
// and Running otherwise.
type Parallel struct {
	id     model.NodeId
	config ParallelConfig
}

func NewParallel(id model.NodeId) *Parallel {
	return &Parallel{id: id, config: ParallelConfig{SuccessThreshold: 1}}
}

func (p *Parallel) Type() model.NodeType { return ParallelType }

func (p *Parallel) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindComposite, tree.CompositeBounds(0, -1)
}

func (p *Parallel) Ports() []model.Port { return nil }

func (p *Parallel) GetConfig() (any, error) { return p.config, nil }

func (p *Parallel) SetConfig(config any) error {
	cfg, ok := config.(ParallelConfig)
	if !ok {
		return model.NewError(model.KindTypeMismatch, "SetConfig", "expected composite.ParallelConfig").WithNode(p.id)
	}

	p.config = cfg

	return nil
}

func (p *Parallel) Reset() {}

func (p *Parallel) Tick(ctx *tree.TickContext) (model.NodeStatus, error) {
	n := ctx.ChildCount()

	var successCount, failureCount int

	for i := 0; i < n; i++ {
		status, err := ctx.TickChild(i)
		if err != nil {
			return model.StatusFailure, err
		}

		switch status {
		case model.StatusSuccess:
			successCount++
		case model.StatusFailure:
			failureCount++
		}
	}

	failureThreshold := n - p.config.SuccessThreshold
	if failureThreshold < 0 {
		failureThreshold = 0
	}

	switch {
	case successCount >= p.config.SuccessThreshold:
		return model.StatusSuccess, nil
	case failureCount > failureThreshold:
		return model.StatusFailure, nil
	default:
		return model.StatusRunning, nil
	}
}
