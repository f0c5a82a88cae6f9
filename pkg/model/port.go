package model

// PortDirection is exclusive: an Input port reads, an Output port writes.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

// Port is a named, typed, directional endpoint by which a node reads or
// writes a blackboard value.
type Port struct {
	Name      string        `json:"name"`
	Direction PortDirection `json:"direction"`
	Type      ValueType     `json:"value_type"`
}

// PortRef addresses one port on one node.
type PortRef struct {
	Node NodeId `json:"node"`
	Port string `json:"port"`
}

// PortConnection links one or more ports on nodes to a named key on one
// blackboard. All ports on a connection must agree on ValueType; at most
// one Output port per connection (single-writer); multiple Input ports
// are allowed (multi-reader).
type PortConnection struct {
	ID         PortConnectionId `json:"id"`
	Blackboard BlackboardId     `json:"blackboard"`
	Key        string           `json:"key"`
	Ports      []PortRef        `json:"ports"`
}

// NodeStatus is returned by every tick of every node.
type NodeStatus string

const (
	StatusSuccess NodeStatus = "success"
	StatusFailure NodeStatus = "failure"
	StatusRunning NodeStatus = "running"
)

// NodeKind tags whether a node is a Leaf, Decorator, or Composite. A
// single node declares exactly one, though "optionally-decorating" node
// types may behave as either depending on how many children they are
// given (0 vs 1).
type NodeKind int

const (
	KindLeaf NodeKind = iota
	KindDecorator
	KindComposite
)

func (k NodeKind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindDecorator:
		return "decorator"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// ChildBounds describes the cardinality a composite accepts. Leaf is
// always {0,0}; a Decorator is {1,1}, or {0,1} when it also works
// without a child; composites declare their own bounds (Max < 0 means
// unbounded).
type ChildBounds struct {
	Min int
	Max int
}

func (b ChildBounds) Unbounded() bool { return b.Max < 0 }

func (b ChildBounds) Allows(n int) bool {
	if n < b.Min {
		return false
	}

	return b.Unbounded() || n <= b.Max
}
