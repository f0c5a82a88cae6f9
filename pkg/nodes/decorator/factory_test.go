package decorator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
)

func TestConstantFactoriesReportDistinctTypes(t *testing.T) {
	assert.Equal(t, SucceedType, NewSucceedNodeFactory().Type())
	assert.Equal(t, FailType, NewFailNodeFactory().Type())
	assert.Equal(t, RunningType, NewConstantRunningNodeFactory().Type())

	node, err := NewSucceedNodeFactory().Create(model.NewNodeId())
	require.NoError(t, err)
	assert.IsType(t, &constant{}, node)
}

func TestRetryFactoryRoundTripsConfig(t *testing.T) {
	factory := NewRetryNodeFactory()

	node, err := factory.Create(model.NewNodeId())
	require.NoError(t, err)

	blob, err := factory.EncodeConfig(node)
	require.NoError(t, err)

	decoded, err := factory.DecodeConfig(blob)
	require.NoError(t, err)
	assert.Equal(t, RetryConfig{}, decoded)
}

func TestRetryFactoryEncodeConfigRejectsWrongNodeType(t *testing.T) {
	factory := NewRetryNodeFactory()

	other, err := NewSucceedNodeFactory().Create(model.NewNodeId())
	require.NoError(t, err)

	_, err = factory.EncodeConfig(other)
	assert.Error(t, err)
}

func TestStatusWriteFactoryPortSchema(t *testing.T) {
	factory := NewStatusWriteNodeFactory()
	ports := factory.PortSchema(nil)
	require.Len(t, ports, 1)
	assert.Equal(t, PortStatus, ports[0].Name)
	assert.Equal(t, model.PortDirectionOutput, ports[0].Direction)
}

func TestStatusReadFactoryPortSchema(t *testing.T) {
	factory := NewStatusReadNodeFactory()
	ports := factory.PortSchema(nil)
	require.Len(t, ports, 1)
	assert.Equal(t, PortStatus, ports[0].Name)
	assert.Equal(t, model.PortDirectionInput, ports[0].Direction)
}

func TestStatusValueCodecRoundTrips(t *testing.T) {
	codec := StatusValueCodec{}
	assert.Equal(t, model.ValueType("node_status"), codec.Type())

	original := statusValue(model.StatusSuccess)

	blob, err := codec.Encode(original)
	require.NoError(t, err)

	decoded, err := codec.Decode(blob)
	require.NoError(t, err)
	assert.True(t, codec.Equal(original, decoded))
}

func TestStatusValueCodecEncodeRejectsWrongValueType(t *testing.T) {
	codec := StatusValueCodec{}

	_, err := codec.Encode(fakeValue{})
	assert.Error(t, err)
}

type fakeValue struct{}

func (fakeValue) Type() model.ValueType         { return "fake" }
func (v fakeValue) Clone() blackboard.Value     { return v }
