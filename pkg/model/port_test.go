package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukex/betula/pkg/model"
)

func TestChildBoundsAllowsRespectsMinAndMax(t *testing.T) {
	bounds := model.ChildBounds{Min: 1, Max: 3}

	assert.False(t, bounds.Allows(0))
	assert.True(t, bounds.Allows(1))
	assert.True(t, bounds.Allows(3))
	assert.False(t, bounds.Allows(4))
}

func TestChildBoundsUnboundedAllowsAnyCountAboveMin(t *testing.T) {
	bounds := model.ChildBounds{Min: 0, Max: -1}

	assert.True(t, bounds.Unbounded())
	assert.True(t, bounds.Allows(0))
	assert.True(t, bounds.Allows(1000))
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "leaf", model.KindLeaf.String())
	assert.Equal(t, "decorator", model.KindDecorator.String())
	assert.Equal(t, "composite", model.KindComposite.String())
	assert.Equal(t, "unknown", model.NodeKind(99).String())
}
