package decorator

import (
	"time"

	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const RetryType model.NodeType = "retry"

// RetryConfig sets the window a child is allowed to keep failing in
// before Retry gives up and reports the failure through.
type RetryConfig struct {
	Interval time.Duration `json:"interval"`
}

// Retry ticks its child every call. A Failure is masked as Running for up
// to Interval since the child's first Failure in the current streak; once
// Interval elapses, the real Failure is reported and the streak resets. A
// Success resets the streak immediately.
type Retry struct {
	id           model.NodeId
	config       RetryConfig
	failingSince time.Time
}

func NewRetry(id model.NodeId) *Retry { return &Retry{id: id} }

func (r *Retry) Type() model.NodeType { return RetryType }

func (r *Retry) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindDecorator, tree.DecoratorBounds
}

func (r *Retry) Ports() []model.Port { return nil }

func (r *Retry) GetConfig() (any, error) { return r.config, nil }

func (r *Retry) SetConfig(config any) error {
	cfg, ok := config.(RetryConfig)
	if !ok {
		return model.NewError(model.KindTypeMismatch, "SetConfig", "expected decorator.RetryConfig").WithNode(r.id)
	}

	r.config = cfg

	return nil
}

// Reset clears the failure streak, as happens on structural mutation
// (e.g. a hot SetConfig): the next Failure starts a fresh window measured
// against whatever Interval is now configured.
func (r *Retry) Reset() { r.failingSince = time.Time{} }

func (r *Retry) Tick(ctx *tree.TickContext) (model.NodeStatus, error) {
	if ctx.ChildCount() == 0 {
		return model.StatusFailure, model.NewError(model.KindMissingChild, "Tick", "retry has no child").WithNode(r.id)
	}

	status, err := ctx.TickChild(0)
	if err != nil {
		return model.StatusFailure, err
	}

	switch status {
	case model.StatusSuccess:
		r.failingSince = time.Time{}
		return model.StatusSuccess, nil
	case model.StatusRunning:
		return model.StatusRunning, nil
	}

	now := ctx.Now()

	if r.failingSince.IsZero() {
		r.failingSince = now
	}

	if now.Sub(r.failingSince) < r.config.Interval {
		return model.StatusRunning, nil
	}

	r.failingSince = time.Time{}

	return model.StatusFailure, nil
}
