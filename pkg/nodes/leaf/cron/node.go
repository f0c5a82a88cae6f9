// Package cron implements the CronGate node: an optionally-decorating
// node that reports Success (or, wrapping a child, ticks that child) only
// on ticks at or after its cron schedule's next fire time, and Failure
// otherwise.
package cron

import (
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const NodeType model.NodeType = "cron_gate"

type Config struct {
	Expression string `json:"expression"`
	Timezone   string `json:"timezone"`
}

type Node struct {
	id       model.NodeId
	config   Config
	schedule robfigcron.Schedule
	loc      *time.Location
	next     time.Time
	primed   bool
}

func New(id model.NodeId) *Node { return &Node{id: id, loc: time.UTC} }

func (n *Node) Type() model.NodeType { return NodeType }

func (n *Node) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindDecorator, tree.OptionallyDecoratingBounds
}

func (n *Node) Ports() []model.Port { return nil }

func (n *Node) GetConfig() (any, error) { return n.config, nil }

func (n *Node) SetConfig(config any) error {
	cfg, ok := config.(Config)
	if !ok {
		return model.NewError(model.KindTypeMismatch, "SetConfig", "expected cron.Config").WithNode(n.id)
	}

	sched, err := robfigcron.ParseStandard(cfg.Expression)
	if err != nil {
		return model.Wrap(model.KindDecodeError, "SetConfig", err).WithNode(n.id)
	}

	loc := time.UTC

	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return model.Wrap(model.KindDecodeError, "SetConfig", err).WithNode(n.id)
		}

		loc = l
	}

	n.config = cfg
	n.schedule = sched
	n.loc = loc
	n.primed = false

	return nil
}

// Reset re-arms the gate against the current time on the next tick, used
// after structural mutation invalidates any pending schedule state.
func (n *Node) Reset() { n.primed = false }

func (n *Node) Tick(ctx *tree.TickContext) (model.NodeStatus, error) {
	if n.schedule == nil {
		return model.StatusFailure, model.NewError(model.KindNotFound, "Tick", "no cron expression configured").WithNode(n.id)
	}

	now := ctx.Now().In(n.loc)

	if !n.primed {
		n.next = n.schedule.Next(now)
		n.primed = true

		return model.StatusFailure, nil
	}

	if now.Before(n.next) {
		return model.StatusFailure, nil
	}

	n.next = n.schedule.Next(now)

	if ctx.ChildCount() == 0 {
		return model.StatusSuccess, nil
	}

	return ctx.TickChild(0)
}
