package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/model"
)

func TestNodeIdJSONRoundTrips(t *testing.T) {
	id := model.NewNodeId()

	blob, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded model.NodeId

	require.NoError(t, json.Unmarshal(blob, &decoded))
	assert.Equal(t, id, decoded)
}

func TestParseNodeIdRejectsGarbage(t *testing.T) {
	_, err := model.ParseNodeId("not-a-uuid")
	assert.Error(t, err)
}

func TestCompareNodeIdOrdersDistinctIds(t *testing.T) {
	a := model.NewNodeId()
	b := model.NewNodeId()

	if a == b {
		t.Skip("collided on random ids")
	}

	assert.NotEqual(t, 0, model.CompareNodeId(a, b))
	assert.Equal(t, 0, model.CompareNodeId(a, a))
}

func TestNodeIdIsZero(t *testing.T) {
	var zero model.NodeId

	assert.True(t, zero.IsZero())
	assert.False(t, model.NewNodeId().IsZero())
}
