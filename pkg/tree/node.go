// Package tree implements the Tree graph, the Node capability interface,
// and the depth-first tick driver described by the runtime's execution
// model.
package tree

import (
	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
)

// Node is the capability set every node type implements. Composite,
// Decorator, and Leaf are not a class hierarchy: Kind() is a tagged
// variant, observed rather than inherited.
type Node interface {
	// Tick executes one tick. ctx grants access to this node's ordered
	// children (composites/decorators drive them via ctx.TickChild); leaves
	// use neither.
	Tick(ctx *TickContext) (model.NodeStatus, error)

	// Ports declares this node's static ports; may depend on the current
	// configuration, but must be stable between reconfiguration events.
	Ports() []model.Port

	// Kind reports whether this node is a Leaf, Decorator, or Composite,
	// and for composites, the child-count bounds it accepts.
	Kind() (model.NodeKind, model.ChildBounds)

	// GetConfig/SetConfig round-trip the node's opaque, per-type
	// configuration value.
	GetConfig() (any, error)
	SetConfig(config any) error

	// Reset clears internal tick state, invoked after a mutation that
	// invalidates it (e.g. the child list changed, or SetConfig ran).
	Reset()

	// Type returns the NodeType tag used for registry lookup on
	// reserialization.
	Type() model.NodeType
}

// PortBinder is implemented by nodes that declare ports. The engine calls
// BindPort/UnbindPort whenever a connection attaches to or detaches from
// one of this node's ports; the node is expected to store the resulting
// blackboard.Input[T]/Output[T] handle for use during Tick.
type PortBinder interface {
	BindPort(port model.Port, bb *blackboard.Blackboard, key string) error
	UnbindPort(portName string)
}

// Leaf, Decorator, Composite bounds, provided for node authors so they
// don't have to spell out {0,0}/{1,1} by hand.
var (
	LeafBounds      = model.ChildBounds{Min: 0, Max: 0}
	DecoratorBounds = model.ChildBounds{Min: 1, Max: 1}
)

// CompositeBounds builds an (min,max) bound for a composite; pass max<0
// for unbounded.
func CompositeBounds(min, max int) model.ChildBounds {
	return model.ChildBounds{Min: min, Max: max}
}

// OptionallyDecoratingBounds is for node types that operate as either
// Leaf (0 children) or Decorator (1 child) depending on how they were
// wired, per spec: "must not depend on which configuration is passed
// beyond that switch."
var OptionallyDecoratingBounds = model.ChildBounds{Min: 0, Max: 1}
