package treesupport_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/nodes/composite"
	"github.com/dukex/betula/pkg/nodes/decorator"
	"github.com/dukex/betula/pkg/registry"
	"github.com/dukex/betula/pkg/tree"
	"github.com/dukex/betula/pkg/treesupport"
)

func newSupport() *treesupport.TreeSupport {
	support := treesupport.New()
	registry.RegisterStockTypes(support, logrus.StandardLogger())

	return support
}

func buildSampleTree(t *testing.T) *tree.Tree {
	t.Helper()

	tr := tree.New()

	rootID := model.NewNodeId()
	require.NoError(t, tr.AddNode(rootID, composite.SequenceType, composite.NewSequence(rootID)))

	childA := model.NewNodeId()
	childB := model.NewNodeId()
	require.NoError(t, tr.AddNode(childA, decorator.SucceedType, decorator.NewSucceed(childA)))
	require.NoError(t, tr.AddNode(childB, decorator.FailType, decorator.NewFail(childB)))

	require.NoError(t, tr.SetChildren(rootID, []model.NodeId{childA, childB}))
	require.NoError(t, tr.SetRoot(&rootID))

	return tr
}

func TestEncodeDecodeRoundTripsNodeStructure(t *testing.T) {
	support := newSupport()
	original := buildSampleTree(t)

	doc, err := treesupport.Encode(original, support)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 3)
	assert.Len(t, doc.Children, 2)

	decoded, failure, err := treesupport.Decode(doc, support)
	require.NoError(t, err)
	require.True(t, failure.Empty())

	root, ok := decoded.Root()
	require.True(t, ok)

	children, err := decoded.Children(root)
	require.NoError(t, err)
	assert.Len(t, children, 2)
}

func TestEncodeDecodeRoundTripsBlackboardValue(t *testing.T) {
	support := newSupport()
	original := tree.New()

	bbID := model.NewBlackboardId()
	require.NoError(t, original.AddBlackboard(bbID))

	bb, ok := original.Blackboard(bbID)
	require.True(t, ok)
	require.NoError(t, bb.Write("greeting", blackboard.StringValue("hello")))

	doc, err := treesupport.Encode(original, support)
	require.NoError(t, err)
	require.Len(t, doc.Blackboards, 1)

	decoded, failure, err := treesupport.Decode(doc, support)
	require.NoError(t, err)
	require.True(t, failure.Empty())

	decodedBB, ok := decoded.Blackboard(bbID)
	require.True(t, ok)

	value, ok := decodedBB.Read("greeting")
	require.True(t, ok)
	assert.Equal(t, blackboard.StringValue("hello"), value)
}

func TestDecodeReportsUnknownNodeType(t *testing.T) {
	support := newSupport()

	unknownID := model.NewNodeId()
	doc := treesupport.Document{
		Version: treesupport.CurrentVersion,
		Nodes:   []treesupport.NodeDoc{{ID: unknownID, Type: "totally_unregistered"}},
	}

	decoded, failure, err := treesupport.Decode(doc, support)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	require.False(t, failure.Empty())

	ids, ok := failure.UnknownNodeTypes["totally_unregistered"]
	require.True(t, ok)
	assert.Contains(t, ids, unknownID)

	_, present := decoded.Node(unknownID)
	assert.False(t, present)
}

func TestDecodeReportsUnknownValueType(t *testing.T) {
	support := newSupport()

	bbID := model.NewBlackboardId()
	doc := treesupport.Document{
		Version: treesupport.CurrentVersion,
		Blackboards: []treesupport.BlackboardDoc{
			{ID: bbID, Entries: []treesupport.EntryDoc{{Key: "k", ValueType: "not_a_type", InitialValue: []byte(`"x"`)}}},
		},
	}

	_, failure, err := treesupport.Decode(doc, support)
	require.NoError(t, err)
	require.False(t, failure.Empty())

	ids, ok := failure.UnknownValueTypes["not_a_type"]
	require.True(t, ok)
	assert.Contains(t, ids, bbID)
}
