package control_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/control"
	"github.com/dukex/betula/pkg/model"
)

func TestEncodeDecodeCommandRoundTrips(t *testing.T) {
	cmd := control.AddNode{
		Base: control.Base{Correlation: "corr-1"},
		Node: model.NewNodeId(),
		Type: "sequence",
	}

	blob, err := control.EncodeCommand(cmd)
	require.NoError(t, err)

	decoded, err := control.DecodeCommand(blob)
	require.NoError(t, err)

	addNode, ok := decoded.(*control.AddNode)
	require.True(t, ok)
	assert.Equal(t, cmd.Node, addNode.Node)
	assert.Equal(t, "corr-1", addNode.CorrelationID())
}

func TestDecodeCommandRejectsUnknownKind(t *testing.T) {
	_, err := control.DecodeCommand([]byte(`{"kind":"control.NotARealCommand","payload":{}}`))
	assert.Error(t, err)
}

func TestEncodeDecodeEventRoundTrips(t *testing.T) {
	event := control.CommandAck{CorrelationID: "corr-2"}

	blob, err := control.EncodeEvent(event)
	require.NoError(t, err)

	decoded, err := control.DecodeEvent(blob)
	require.NoError(t, err)

	ack, ok := decoded.(*control.CommandAck)
	require.True(t, ok)
	assert.True(t, ack.Ok())
	assert.Equal(t, "corr-2", ack.CorrelationID)
}

func TestInProcessPairDeliversCommandsAndEvents(t *testing.T) {
	client, server, err := control.NewInProcessPair(nil)
	require.NoError(t, err)

	defer client.Close()
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, client.Send(ctx, control.Ping{Nonce: "abc"}))

	select {
	case cmd := <-server.Commands():
		ping, ok := cmd.(*control.Ping)
		require.True(t, ok)
		assert.Equal(t, "abc", ping.Nonce)
	case <-ctx.Done():
		t.Fatal("timed out waiting for command")
	}

	require.NoError(t, server.Emit(ctx, control.Pong{Nonce: "abc"}))

	select {
	case event := <-client.Events():
		pong, ok := event.(*control.Pong)
		require.True(t, ok)
		assert.Equal(t, "abc", pong.Nonce)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}
