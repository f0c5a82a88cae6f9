package tree

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
)

type nodeEntry struct {
	node      Node
	nodeType  model.NodeType
	parent    model.NodeId
	hasParent bool
	children  []model.NodeId
	ticking   bool // non-reentrancy guard: set for the duration of one Tick call.
}

type blackboardEntry struct {
	bb          *blackboard.Blackboard
	connections map[model.PortConnectionId]model.PortConnection
}

// NodeTickEvent records the outcome of one node's tick during one root
// tick, in the order the node was ticked.
type NodeTickEvent struct {
	Node   model.NodeId
	Status model.NodeStatus
	Err    error
}

// Tree is the in-memory graph: a node set, a parent->ordered-children
// relation, a blackboard set, and a set of port connections, plus a
// distinguished (optional) root.
//
// A Tree is owned single-threadedly by whichever goroutine calls its
// methods; pkg/runner is the only intended caller during normal
// operation, per the concurrency model (all mutation and ticking happen
// on the runner's owner thread).
type Tree struct {
	nodes       map[model.NodeId]*nodeEntry
	blackboards map[model.BlackboardId]*blackboardEntry
	connections map[model.PortConnectionId]model.PortConnection
	root        model.NodeId
	hasRoot     bool
	tickCounter uint64
}

func New() *Tree {
	return &Tree{
		nodes:       make(map[model.NodeId]*nodeEntry),
		blackboards: make(map[model.BlackboardId]*blackboardEntry),
		connections: make(map[model.PortConnectionId]model.PortConnection),
	}
}

// Nodes returns every NodeId in the tree, order unspecified.
func (t *Tree) Nodes() []model.NodeId {
	ids := make([]model.NodeId, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}

	return ids
}

// SortedNodes returns every NodeId ordered lexicographically on the
// 128-bit representation, as required for deterministic encoding.
func (t *Tree) SortedNodes() []model.NodeId {
	ids := t.Nodes()
	sort.Slice(ids, func(i, j int) bool { return model.CompareNodeId(ids[i], ids[j]) < 0 })

	return ids
}

func (t *Tree) Node(id model.NodeId) (Node, bool) {
	e, ok := t.nodes[id]
	if !ok {
		return nil, false
	}

	return e.node, true
}

func (t *Tree) NodeType(id model.NodeId) (model.NodeType, bool) {
	e, ok := t.nodes[id]
	if !ok {
		return "", false
	}

	return e.nodeType, true
}

func (t *Tree) Children(id model.NodeId) ([]model.NodeId, error) {
	e, ok := t.nodes[id]
	if !ok {
		return nil, model.NewError(model.KindNotFound, "Children", "node not present").WithNode(id)
	}

	out := make([]model.NodeId, len(e.children))
	copy(out, e.children)

	return out, nil
}

func (t *Tree) Root() (model.NodeId, bool) { return t.root, t.hasRoot }

// AddNode inserts a freshly-constructed node under id. Fails with
// KindDuplicateId if id is already present.
func (t *Tree) AddNode(id model.NodeId, nodeType model.NodeType, node Node) error {
	if _, exists := t.nodes[id]; exists {
		return model.NewError(model.KindDuplicateId, "AddNode", "id already present").WithNode(id)
	}

	t.nodes[id] = &nodeEntry{node: node, nodeType: nodeType}

	return nil
}

// RemoveNode removes a node, detaching it from its parent's child list and
// dropping any connections that reference it. If cascade is false and the
// node has children, KindHasChildren is returned and nothing is changed;
// if cascade is true the whole subtree is removed. This mode is
// policy-configurable rather than fixed; see DESIGN.md's Open Question
// decisions.
func (t *Tree) RemoveNode(id model.NodeId, cascade bool) error {
	entry, ok := t.nodes[id]
	if !ok {
		return model.NewError(model.KindNotFound, "RemoveNode", "node not present").WithNode(id)
	}

	if len(entry.children) > 0 && !cascade {
		return model.NewError(model.KindHasChildren, "RemoveNode", "node has children").WithNode(id)
	}

	toRemove := []model.NodeId{id}
	if cascade {
		toRemove = t.subtreeOf(id)
	}

	for _, victim := range toRemove {
		t.detachFromParent(victim)
		t.dropConnectionsFor(victim)

		// Host integration contract (§6.3): background work a node owns
		// must be cancelled and joined when the node is removed.
		if closer, ok := t.nodes[victim].node.(io.Closer); ok {
			_ = closer.Close()
		}

		delete(t.nodes, victim)

		if t.hasRoot && t.root == victim {
			t.hasRoot = false
		}
	}

	return nil
}

func (t *Tree) subtreeOf(id model.NodeId) []model.NodeId {
	var out []model.NodeId

	var walk func(model.NodeId)
	walk = func(cur model.NodeId) {
		out = append(out, cur)
		if e := t.nodes[cur]; e != nil {
			for _, c := range e.children {
				walk(c)
			}
		}
	}
	walk(id)

	return out
}

func (t *Tree) detachFromParent(id model.NodeId) {
	entry, ok := t.nodes[id]
	if !ok || !entry.hasParent {
		return
	}

	parent := t.nodes[entry.parent]
	if parent == nil {
		return
	}

	for i, c := range parent.children {
		if c == id {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}

	entry.hasParent = false
}

func (t *Tree) dropConnectionsFor(id model.NodeId) {
	for connID, conn := range t.connections {
		keep := false

		for _, p := range conn.Ports {
			if p.Node != id {
				keep = true
			}
		}

		if !keep {
			t.removeConnection(connID)
		} else {
			ports := conn.Ports[:0]
			for _, p := range conn.Ports {
				if p.Node != id {
					ports = append(ports, p)
				}
			}

			conn.Ports = ports
			t.connections[connID] = conn
		}
	}
}

// SetChildren replaces the ordered child list of parent. Rejects a set
// that would introduce a cycle, reference a missing node, or exceed the
// node's declared child-count bounds.
func (t *Tree) SetChildren(parent model.NodeId, children []model.NodeId) error {
	parentEntry, ok := t.nodes[parent]
	if !ok {
		return model.NewError(model.KindNotFound, "SetChildren", "parent not present").WithNode(parent)
	}

	_, bounds := parentEntry.node.Kind()
	if !bounds.Allows(len(children)) {
		return model.NewError(model.KindCapacityExceeded, "SetChildren",
			fmt.Sprintf("node accepts [%d,%d] children, got %d", bounds.Min, bounds.Max, len(children))).
			WithNode(parent)
	}

	for _, c := range children {
		if _, ok := t.nodes[c]; !ok {
			return model.NewError(model.KindNotFound, "SetChildren", "child not present").WithNode(c)
		}
	}

	if t.wouldCycle(parent, children) {
		return model.NewError(model.KindCycle, "SetChildren", "assignment introduces a cycle").WithNode(parent)
	}

	// Detach the old children's parent pointers, then attach the new ones.
	for _, old := range parentEntry.children {
		if e := t.nodes[old]; e != nil && e.hasParent && e.parent == parent {
			e.hasParent = false
		}
	}

	for _, c := range children {
		if e := t.nodes[c]; e != nil {
			if e.hasParent && e.parent != parent {
				t.detachFromParent(c)
			}

			e.parent = parent
			e.hasParent = true
		}
	}

	parentEntry.children = append([]model.NodeId(nil), children...)
	parentEntry.node.Reset()

	return nil
}

// wouldCycle reports whether making `children` the children of `parent`
// would make parent reachable from itself.
func (t *Tree) wouldCycle(parent model.NodeId, children []model.NodeId) bool {
	visited := map[model.NodeId]bool{parent: true}

	var walk func(model.NodeId) bool
	walk = func(id model.NodeId) bool {
		if id == parent {
			return true
		}

		if visited[id] {
			return false
		}

		visited[id] = true

		var kids []model.NodeId
		if id == parent {
			kids = children
		} else if e := t.nodes[id]; e != nil {
			kids = e.children
		}

		for _, k := range kids {
			if k == parent || walk(k) {
				return true
			}
		}

		return false
	}

	for _, c := range children {
		if walk(c) {
			return true
		}
	}

	return false
}

// SetRoot sets or clears (id == nil) the distinguished root.
func (t *Tree) SetRoot(id *model.NodeId) error {
	if id == nil {
		t.hasRoot = false
		t.root = model.NodeId{}

		return nil
	}

	if _, ok := t.nodes[*id]; !ok {
		return model.NewError(model.KindNotFound, "SetRoot", "node not present").WithNode(*id)
	}

	t.root = *id
	t.hasRoot = true

	return nil
}

// AddBlackboard registers a new, empty blackboard under id.
func (t *Tree) AddBlackboard(id model.BlackboardId) error {
	if _, exists := t.blackboards[id]; exists {
		return model.NewError(model.KindDuplicateId, "AddBlackboard", "id already present").WithBlackboard(id)
	}

	t.blackboards[id] = &blackboardEntry{
		bb:          blackboard.New(id),
		connections: make(map[model.PortConnectionId]model.PortConnection),
	}

	return nil
}

// RemoveBlackboard removes a blackboard; fails with KindHasChildren if
// connections still reference it, unless force is true.
func (t *Tree) RemoveBlackboard(id model.BlackboardId, force bool) error {
	entry, ok := t.blackboards[id]
	if !ok {
		return model.NewError(model.KindNotFound, "RemoveBlackboard", "blackboard not present").WithBlackboard(id)
	}

	if len(entry.connections) > 0 && !force {
		return model.NewError(model.KindHasChildren, "RemoveBlackboard", "blackboard still has connections").
			WithBlackboard(id)
	}

	for connID := range entry.connections {
		t.removeConnection(connID)
	}

	delete(t.blackboards, id)

	return nil
}

func (t *Tree) Blackboard(id model.BlackboardId) (*blackboard.Blackboard, bool) {
	e, ok := t.blackboards[id]
	if !ok {
		return nil, false
	}

	return e.bb, true
}

func (t *Tree) Blackboards() []model.BlackboardId {
	ids := make([]model.BlackboardId, 0, len(t.blackboards))
	for id := range t.blackboards {
		ids = append(ids, id)
	}

	return ids
}

// Connections lists every currently active port connection.
func (t *Tree) Connections() []model.PortConnection {
	out := make([]model.PortConnection, 0, len(t.connections))
	for _, c := range t.connections {
		out = append(out, c)
	}

	return out
}

// Connect creates or replaces a port connection: all ports must declare
// the same ValueType, at most one may be an Output port, and every
// referenced node/port/blackboard must exist.
func (t *Tree) Connect(conn model.PortConnection) error {
	bbEntry, ok := t.blackboards[conn.Blackboard]
	if !ok {
		return model.NewError(model.KindNotFound, "Connect", "blackboard not present").WithBlackboard(conn.Blackboard)
	}

	if len(conn.Ports) == 0 {
		return model.NewError(model.KindMissingChild, "Connect", "connection has no ports")
	}

	var (
		valueType   model.ValueType
		outputCount int
	)

	resolved := make([]struct {
		ref  model.PortRef
		port model.Port
	}, 0, len(conn.Ports))

	for _, ref := range conn.Ports {
		nodeEntry, ok := t.nodes[ref.Node]
		if !ok {
			return model.NewError(model.KindNotFound, "Connect", "node not present").WithNode(ref.Node)
		}

		var found *model.Port

		for _, p := range nodeEntry.node.Ports() {
			if p.Name == ref.Port {
				pp := p
				found = &pp

				break
			}
		}

		if found == nil {
			return model.NewError(model.KindNotFound, "Connect", "port not declared on node").WithNode(ref.Node)
		}

		if valueType == "" {
			valueType = found.Type
		} else if valueType != found.Type {
			return model.NewError(model.KindTypeMismatch, "Connect", "ports disagree on ValueType")
		}

		if found.Direction == model.PortDirectionOutput {
			outputCount++
		}

		resolved = append(resolved, struct {
			ref  model.PortRef
			port model.Port
		}{ref, *found})
	}

	if outputCount > 1 {
		return model.NewError(model.KindMultipleWriters, "Connect", "more than one output port on connection")
	}

	if outputCount == 1 {
		if err := bbEntry.bb.BindWriter(conn.Key, conn.ID); err != nil {
			return err
		}
	}

	// Remove a stale connection of the same id first, so re-Connect acts as
	// replace.
	if _, exists := t.connections[conn.ID]; exists {
		if err := t.Disconnect(conn.ID); err != nil {
			return err
		}
	}

	for _, r := range resolved {
		binder, ok := t.nodes[r.ref.Node].node.(PortBinder)
		if !ok {
			continue
		}

		if err := binder.BindPort(r.port, bbEntry.bb, conn.Key); err != nil {
			return err
		}
	}

	t.connections[conn.ID] = conn
	bbEntry.connections[conn.ID] = conn

	return nil
}

// Disconnect removes a port connection.
func (t *Tree) Disconnect(id model.PortConnectionId) error {
	conn, ok := t.connections[id]
	if !ok {
		return model.NewError(model.KindNotFound, "Disconnect", "connection not present").WithConnection(id)
	}

	t.removeConnection(id)

	for _, ref := range conn.Ports {
		if nodeEntry, ok := t.nodes[ref.Node]; ok {
			if binder, ok := nodeEntry.node.(PortBinder); ok {
				binder.UnbindPort(ref.Port)
			}
		}
	}

	return nil
}

func (t *Tree) removeConnection(id model.PortConnectionId) {
	conn, ok := t.connections[id]
	if !ok {
		return
	}

	if bbEntry, ok := t.blackboards[conn.Blackboard]; ok {
		delete(bbEntry.connections, id)

		hasOutput := false

		for _, ref := range conn.Ports {
			if nodeEntry, ok := t.nodes[ref.Node]; ok {
				for _, p := range nodeEntry.node.Ports() {
					if p.Name == ref.Port && p.Direction == model.PortDirectionOutput {
						hasOutput = true
					}
				}
			}
		}

		if hasOutput {
			bbEntry.bb.UnbindWriter(conn.Key, id)
		}
	}

	delete(t.connections, id)
}

// Tick drives one root tick: pre-tick mutation is the runner's
// responsibility (§4.3 step 1), this call performs step 2 (tick) and
// gives the caller the harvested per-node statuses for step 3.
func (t *Tree) Tick() (model.NodeStatus, []NodeTickEvent, error) {
	if !t.hasRoot {
		return "", nil, model.NewError(model.KindNotFound, "Tick", "tree has no root")
	}

	t.tickCounter++
	now := time.Now()

	var events []NodeTickEvent

	status, err := t.tickNode(t.root, now, t.tickCounter, &events)

	return status, events, err
}

// TickCounter reports the logical tick counter, monotone across ticks.
func (t *Tree) TickCounter() uint64 { return t.tickCounter }

// Close releases background work owned by every node in the tree, per the
// host integration contract (§6.3). Callers that replace a whole tree
// wholesale (loading a snapshot, rolling back a rejected batch) must call
// this on the discarded tree first, the same way RemoveNode does per node.
func (t *Tree) Close() error {
	for _, entry := range t.nodes {
		if closer, ok := entry.node.(io.Closer); ok {
			_ = closer.Close()
		}
	}

	return nil
}

func (t *Tree) tickNode(id model.NodeId, now time.Time, counter uint64, events *[]NodeTickEvent) (status model.NodeStatus, err error) {
	entry, ok := t.nodes[id]
	if !ok {
		return "", model.NewError(model.KindNotFound, "Tick", "node not present").WithNode(id)
	}

	if entry.ticking {
		return "", model.NewError(model.KindCycle, "Tick", "node re-entered within one root tick").WithNode(id)
	}

	entry.ticking = true
	defer func() { entry.ticking = false }()

	ctx := &TickContext{tree: t, self: id, now: now, tick: counter, events: events}

	defer func() {
		if r := recover(); r != nil {
			status = model.StatusFailure
			err = model.NewError(model.KindTickPanic, "Tick", fmt.Sprintf("%v", r)).WithNode(id)

			if events != nil {
				*events = append(*events, NodeTickEvent{Node: id, Status: status, Err: err})
			}
		}
	}()

	status, err = entry.node.Tick(ctx)
	if events != nil {
		*events = append(*events, NodeTickEvent{Node: id, Status: status, Err: err})
	}

	return status, err
}
