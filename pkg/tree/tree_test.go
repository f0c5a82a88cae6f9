package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/nodes/composite"
	"github.com/dukex/betula/pkg/nodes/decorator"
	"github.com/dukex/betula/pkg/nodes/leaf/transform"
	"github.com/dukex/betula/pkg/tree"
)

func buildSequenceOfTwoSucceeds(t *testing.T) (*tree.Tree, model.NodeId) {
	t.Helper()

	tr := tree.New()

	rootID := model.NewNodeId()
	require.NoError(t, tr.AddNode(rootID, composite.SequenceType, composite.NewSequence(rootID)))

	childA := model.NewNodeId()
	childB := model.NewNodeId()
	require.NoError(t, tr.AddNode(childA, decorator.SucceedType, decorator.NewSucceed(childA)))
	require.NoError(t, tr.AddNode(childB, decorator.SucceedType, decorator.NewSucceed(childB)))

	require.NoError(t, tr.SetChildren(rootID, []model.NodeId{childA, childB}))
	require.NoError(t, tr.SetRoot(&rootID))

	return tr, rootID
}

func TestTickRunsSequenceToSuccess(t *testing.T) {
	tr, _ := buildSequenceOfTwoSucceeds(t)

	status, events, err := tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, status)
	assert.Len(t, events, 3, "root plus both children")
}

func TestTickFailsWithoutRoot(t *testing.T) {
	tr := tree.New()

	_, _, err := tr.Tick()
	require.Error(t, err)

	kind, ok := model.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, model.KindNotFound, kind)
}

func TestAddNodeRejectsDuplicateId(t *testing.T) {
	tr := tree.New()
	id := model.NewNodeId()

	require.NoError(t, tr.AddNode(id, decorator.SucceedType, decorator.NewSucceed(id)))

	err := tr.AddNode(id, decorator.SucceedType, decorator.NewSucceed(id))
	require.Error(t, err)

	kind, _ := model.KindOf(err)
	assert.Equal(t, model.KindDuplicateId, kind)
}

func TestSetChildrenRejectsCycles(t *testing.T) {
	tr := tree.New()

	parent := model.NewNodeId()
	child := model.NewNodeId()

	require.NoError(t, tr.AddNode(parent, composite.SequenceType, composite.NewSequence(parent)))
	require.NoError(t, tr.AddNode(child, composite.SequenceType, composite.NewSequence(child)))

	require.NoError(t, tr.SetChildren(parent, []model.NodeId{child}))

	err := tr.SetChildren(child, []model.NodeId{parent})
	require.Error(t, err)

	kind, _ := model.KindOf(err)
	assert.Equal(t, model.KindCycle, kind)
}

func TestSetChildrenRejectsBoundsViolation(t *testing.T) {
	tr := tree.New()

	parent := model.NewNodeId()
	require.NoError(t, tr.AddNode(parent, decorator.RetryType, decorator.NewRetry(parent)))

	a := model.NewNodeId()
	b := model.NewNodeId()
	require.NoError(t, tr.AddNode(a, decorator.SucceedType, decorator.NewSucceed(a)))
	require.NoError(t, tr.AddNode(b, decorator.SucceedType, decorator.NewSucceed(b)))

	err := tr.SetChildren(parent, []model.NodeId{a, b})
	require.Error(t, err)

	kind, _ := model.KindOf(err)
	assert.Equal(t, model.KindCapacityExceeded, kind)
}

func TestRemoveNodeWithChildrenRequiresCascade(t *testing.T) {
	tr, rootID := buildSequenceOfTwoSucceeds(t)

	err := tr.RemoveNode(rootID, false)
	require.Error(t, err)

	kind, _ := model.KindOf(err)
	assert.Equal(t, model.KindHasChildren, kind)

	require.NoError(t, tr.RemoveNode(rootID, true))
	_, ok := tr.Node(rootID)
	assert.False(t, ok)

	_, hasRoot := tr.Root()
	assert.False(t, hasRoot)
}

func TestConstantDecoratorReportsFixedStatusWithNoChild(t *testing.T) {
	tr := tree.New()

	id := model.NewNodeId()
	require.NoError(t, tr.AddNode(id, decorator.SucceedType, decorator.NewSucceed(id)))
	require.NoError(t, tr.SetRoot(&id))

	status, _, err := tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, status)
}

func TestRetryWithNoChildReportsMissingChild(t *testing.T) {
	tr := tree.New()

	id := model.NewNodeId()
	require.NoError(t, tr.AddNode(id, decorator.RetryType, decorator.NewRetry(id)))
	require.NoError(t, tr.SetRoot(&id))

	status, _, err := tr.Tick()
	require.Error(t, err)
	assert.Equal(t, model.StatusFailure, status)

	kind, ok := model.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, model.KindMissingChild, kind)
}

// closeTrackingNode is a minimal leaf that records whether Close was
// called, standing in for a host-integration node with a background
// worker to exercise Tree.RemoveNode's close-on-remove contract.
type closeTrackingNode struct {
	id     model.NodeId
	closed *bool
}

func (n *closeTrackingNode) Type() model.NodeType { return "close_tracking" }
func (n *closeTrackingNode) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindLeaf, tree.LeafBounds
}
func (n *closeTrackingNode) Ports() []model.Port                          { return nil }
func (n *closeTrackingNode) GetConfig() (any, error)                      { return nil, nil }
func (n *closeTrackingNode) SetConfig(any) error                          { return nil }
func (n *closeTrackingNode) Reset()                                       {}
func (n *closeTrackingNode) Tick(*tree.TickContext) (model.NodeStatus, error) {
	return model.StatusSuccess, nil
}
func (n *closeTrackingNode) Close() error { *n.closed = true; return nil }

func TestRemoveNodeClosesNodesImplementingCloser(t *testing.T) {
	tr := tree.New()

	closed := false
	id := model.NewNodeId()
	require.NoError(t, tr.AddNode(id, "close_tracking", &closeTrackingNode{id: id, closed: &closed}))

	require.NoError(t, tr.RemoveNode(id, false))
	assert.True(t, closed, "RemoveNode should close a node implementing io.Closer")
}

// TestConnectedOutputPortWriteIsReadableAfterTick exercises the primary
// data-flow path end to end: Connect binds an output port to a
// blackboard key before anything has ever been written to it (the normal
// order of operations), and the node's own Tick then writes through that
// port. The written value must be readable afterward.
func TestConnectedOutputPortWriteIsReadableAfterTick(t *testing.T) {
	tr := tree.New()

	bbID := model.NewBlackboardId()
	require.NoError(t, tr.AddBlackboard(bbID))

	nodeID := model.NewNodeId()
	node := transform.New(nodeID)
	require.NoError(t, node.SetConfig(transform.Config{Expression: "hello"}))
	require.NoError(t, tr.AddNode(nodeID, transform.NodeType, node))

	require.NoError(t, tr.Connect(model.PortConnection{
		ID:         model.NewPortConnectionId(),
		Blackboard: bbID,
		Key:        "result",
		Ports:      []model.PortRef{{Node: nodeID, Port: "result"}},
	}))

	require.NoError(t, tr.SetRoot(&nodeID))

	status, _, err := tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, status)

	bb, ok := tr.Blackboard(bbID)
	require.True(t, ok)

	value, ok := bb.Read("result")
	require.True(t, ok, "value written through a connected output port must be readable")
	assert.Equal(t, blackboard.StringValue("hello"), value)
}

func TestSetChildrenRejectsSelfReference(t *testing.T) {
	tr := tree.New()

	rootID := model.NewNodeId()
	require.NoError(t, tr.AddNode(rootID, composite.SequenceType, composite.NewSequence(rootID)))

	err := tr.SetChildren(rootID, []model.NodeId{rootID})
	require.Error(t, err)

	kind, _ := model.KindOf(err)
	assert.Equal(t, model.KindCycle, kind)
}
