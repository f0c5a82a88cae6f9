package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukex/betula/pkg/model"
)

func TestErrorIsMatchesSentinelByKind(t *testing.T) {
	err := model.NewError(model.KindNotFound, "Load", "no such document")

	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.False(t, errors.Is(err, model.ErrCycle))
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	underlying := fmt.Errorf("boom")
	err := model.Wrap(model.KindDecodeError, "Decode", underlying)

	assert.True(t, errors.Is(err, model.ErrDecodeError))
	assert.ErrorIs(t, err, underlying)
}

func TestKindOfExtractsKindFromWrappedError(t *testing.T) {
	err := fmt.Errorf("context: %w", model.NewError(model.KindCycle, "AddChild", "would cycle"))

	kind, ok := model.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, model.KindCycle, kind)
}

func TestKindOfReportsFalseForPlainError(t *testing.T) {
	_, ok := model.KindOf(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestErrorBuildersAttachContext(t *testing.T) {
	nodeID := model.NewNodeId()
	err := model.NewError(model.KindHasChildren, "RemoveNode", "").
		WithNode(nodeID).
		WithAffected(nodeID)

	assert.Equal(t, nodeID, *err.NodeID)
	assert.Contains(t, err.AffectedNodes, nodeID)
}
