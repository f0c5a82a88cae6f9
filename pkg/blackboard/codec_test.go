package blackboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringCodecRoundTrips(t *testing.T) {
	codec := StringCodec{}

	blob, err := codec.Encode(StringValue("hello"))
	require.NoError(t, err)

	decoded, err := codec.Decode(blob)
	require.NoError(t, err)
	assert.True(t, codec.Equal(StringValue("hello"), decoded))
}

func TestStringCodecEncodeRejectsWrongValueType(t *testing.T) {
	codec := StringCodec{}

	_, err := codec.Encode(FloatValue(1))
	assert.Error(t, err)
}

func TestFloatCodecRoundTrips(t *testing.T) {
	codec := FloatCodec{}

	blob, err := codec.Encode(FloatValue(3.5))
	require.NoError(t, err)

	decoded, err := codec.Decode(blob)
	require.NoError(t, err)
	assert.True(t, codec.Equal(FloatValue(3.5), decoded))
}

func TestBoolCodecRoundTrips(t *testing.T) {
	codec := BoolCodec{}

	blob, err := codec.Encode(BoolValue(true))
	require.NoError(t, err)

	decoded, err := codec.Decode(blob)
	require.NoError(t, err)
	assert.True(t, codec.Equal(BoolValue(true), decoded))
}

func TestMapCodecRoundTrips(t *testing.T) {
	codec := MapCodec{}
	original := MapValue{"a": "b", "n": float64(3)}

	blob, err := codec.Encode(original)
	require.NoError(t, err)

	decoded, err := codec.Decode(blob)
	require.NoError(t, err)
	assert.True(t, codec.Equal(original, decoded))
}

func TestListCodecRoundTrips(t *testing.T) {
	codec := ListCodec{}
	original := ListValue{"a", float64(1), true}

	blob, err := codec.Encode(original)
	require.NoError(t, err)

	decoded, err := codec.Decode(blob)
	require.NoError(t, err)
	assert.True(t, codec.Equal(original, decoded))
}

func TestMapValueCloneIsIndependent(t *testing.T) {
	original := MapValue{"a": 1}
	clone := original.Clone().(MapValue)
	clone["a"] = 2

	assert.Equal(t, 1, original["a"])
}

func TestListValueCloneIsIndependent(t *testing.T) {
	original := ListValue{1, 2}
	clone := original.Clone().(ListValue)
	clone[0] = 99

	assert.Equal(t, 1, original[0])
}
