package tree

import (
	"time"

	"github.com/dukex/betula/pkg/model"
)

// TickContext is granted to a node's Tick call. It exposes the node's
// ordered children and monotonic timing; a composite drives children via
// TickChild, a decorator drives its single child the same way, a leaf
// uses neither.
type TickContext struct {
	tree *Tree
	self model.NodeId
	now  time.Time
	tick uint64
	// events accumulates NodeStatus events in tick order for the caller's
	// telemetry; nil when the caller doesn't want them (rare, tests only).
	events *[]NodeTickEvent
}

// ChildCount reports how many children this node currently has.
func (c *TickContext) ChildCount() int {
	entry := c.tree.nodes[c.self]
	if entry == nil {
		return 0
	}

	return len(entry.children)
}

// Now is the wall-clock time captured once at the start of this root tick;
// every node observes the same instant during one tick.
func (c *TickContext) Now() time.Time { return c.now }

// TickCounter is the logical tick counter for this root tick.
func (c *TickContext) TickCounter() uint64 { return c.tick }

// TickChild recurses into child index (0-based, in declared order),
// preserving the non-reentrancy and cycle-detection invariants of the
// engine.
func (c *TickContext) TickChild(index int) (model.NodeStatus, error) {
	entry := c.tree.nodes[c.self]
	if entry == nil {
		return "", model.NewError(model.KindNotFound, "TickChild", "node vanished mid-tick").WithNode(c.self)
	}

	if index < 0 || index >= len(entry.children) {
		return "", model.NewError(model.KindNotFound, "TickChild", "child index out of range").WithNode(c.self)
	}

	return c.tree.tickNode(entry.children[index], c.now, c.tick, c.events)
}
