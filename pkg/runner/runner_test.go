package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/control"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/registry"
	"github.com/dukex/betula/pkg/runner"
	"github.com/dukex/betula/pkg/treesupport"
)

func newTestRunner(t *testing.T) (*runner.Runner, control.TreeClient) {
	t.Helper()

	support := treesupport.New()
	registry.RegisterStockTypes(support, logrus.StandardLogger())

	client, server, err := control.NewInProcessPair(nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		server.Close()
	})

	return runner.New(support, server, logrus.StandardLogger()), client
}

func waitForAck(t *testing.T, events <-chan control.Event, correlation string, timeout time.Duration) control.CommandAck {
	t.Helper()

	deadline := time.After(timeout)

	for {
		select {
		case event := <-events:
			if ack, ok := event.(*control.CommandAck); ok && ack.CorrelationID == correlation {
				return *ack
			}
		case <-deadline:
			t.Fatalf("timed out waiting for ack of %s", correlation)
		}
	}
}

func TestRunnerAppliesAddNodeAndTicksToSuccess(t *testing.T) {
	r, client := newTestRunner(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	go r.Run(ctx)

	nodeID := model.NewNodeId()
	require.NoError(t, client.Send(ctx, control.AddNode{
		Base: control.Base{Correlation: "add-1"},
		Node: nodeID,
		Type: "succeed",
	}))
	ack := waitForAck(t, client.Events(), "add-1", 2*time.Second)
	assert.True(t, ack.Ok(), "AddNode should succeed: %+v", ack)

	require.NoError(t, client.Send(ctx, control.SetRoot{
		Base: control.Base{Correlation: "root-1"},
		Node: &nodeID,
	}))
	ack = waitForAck(t, client.Events(), "root-1", 2*time.Second)
	assert.True(t, ack.Ok(), "SetRoot should succeed: %+v", ack)

	require.NoError(t, client.Send(ctx, control.SetRunState{
		Base:  control.Base{Correlation: "run-1"},
		State: control.RunStateRunning,
	}))
	ack = waitForAck(t, client.Events(), "run-1", 2*time.Second)
	assert.True(t, ack.Ok(), "SetRunState should succeed: %+v", ack)

	deadline := time.After(2 * time.Second)

	for {
		select {
		case event := <-client.Events():
			if status, ok := event.(*control.NodeStatus); ok && status.Node == nodeID {
				assert.Equal(t, model.StatusSuccess, status.Status)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for a NodeStatus event")
		}
	}
}

func TestRunnerRejectsAddNodeWithUnknownType(t *testing.T) {
	r, client := newTestRunner(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	go r.Run(ctx)

	require.NoError(t, client.Send(ctx, control.AddNode{
		Base: control.Base{Correlation: "add-bad"},
		Node: model.NewNodeId(),
		Type: "not_a_real_type",
	}))

	ack := waitForAck(t, client.Events(), "add-bad", 2*time.Second)
	assert.False(t, ack.Ok())
	assert.Equal(t, model.KindUnknownType, ack.Kind)
}

func TestRunnerEmitsBlackboardUpdateAfterWrite(t *testing.T) {
	r, client := newTestRunner(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	go r.Run(ctx)

	bbID := model.NewBlackboardId()
	require.NoError(t, client.Send(ctx, control.AddBlackboard{
		Base:       control.Base{Correlation: "bb-1"},
		Blackboard: bbID,
	}))
	ack := waitForAck(t, client.Events(), "bb-1", 2*time.Second)
	require.True(t, ack.Ok(), "AddBlackboard should succeed: %+v", ack)

	writerID := model.NewNodeId()
	require.NoError(t, client.Send(ctx, control.AddNode{
		Base: control.Base{Correlation: "add-write"},
		Node: writerID,
		Type: "status_write",
	}))
	ack = waitForAck(t, client.Events(), "add-write", 2*time.Second)
	require.True(t, ack.Ok(), "AddNode(status_write) should succeed: %+v", ack)

	childID := model.NewNodeId()
	require.NoError(t, client.Send(ctx, control.AddNode{
		Base: control.Base{Correlation: "add-child"},
		Node: childID,
		Type: "succeed",
	}))
	ack = waitForAck(t, client.Events(), "add-child", 2*time.Second)
	require.True(t, ack.Ok(), "AddNode(succeed) should succeed: %+v", ack)

	require.NoError(t, client.Send(ctx, control.SetChildren{
		Base:     control.Base{Correlation: "children-1"},
		Parent:   writerID,
		Children: []model.NodeId{childID},
	}))
	ack = waitForAck(t, client.Events(), "children-1", 2*time.Second)
	require.True(t, ack.Ok(), "SetChildren should succeed: %+v", ack)

	require.NoError(t, client.Send(ctx, control.Connect{
		Base:       control.Base{Correlation: "connect-1"},
		Connection: model.NewPortConnectionId(),
		Blackboard: bbID,
		Key:        "status",
		Ports:      []model.PortRef{{Node: writerID, Port: "status"}},
	}))
	ack = waitForAck(t, client.Events(), "connect-1", 2*time.Second)
	require.True(t, ack.Ok(), "Connect should succeed: %+v", ack)

	require.NoError(t, client.Send(ctx, control.SetRoot{
		Base: control.Base{Correlation: "root-1"},
		Node: &writerID,
	}))
	ack = waitForAck(t, client.Events(), "root-1", 2*time.Second)
	require.True(t, ack.Ok(), "SetRoot should succeed: %+v", ack)

	require.NoError(t, client.Send(ctx, control.SetRunState{
		Base:  control.Base{Correlation: "run-1"},
		State: control.RunStateRunning,
	}))
	ack = waitForAck(t, client.Events(), "run-1", 2*time.Second)
	require.True(t, ack.Ok(), "SetRunState should succeed: %+v", ack)

	deadline := time.After(2 * time.Second)

	for {
		select {
		case event := <-client.Events():
			if update, ok := event.(*control.BlackboardUpdate); ok {
				assert.Equal(t, bbID, update.Blackboard)
				assert.Equal(t, "status", update.Key)
				assert.NotEmpty(t, update.EncodedValue)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for a BlackboardUpdate event")
		}
	}
}

func TestRunnerPingRespondsWithPong(t *testing.T) {
	r, client := newTestRunner(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	go r.Run(ctx)

	require.NoError(t, client.Send(ctx, control.Ping{
		Base:  control.Base{Correlation: "ping-1"},
		Nonce: "xyz",
	}))

	deadline := time.After(2 * time.Second)

	for {
		select {
		case event := <-client.Events():
			if pong, ok := event.(*control.Pong); ok {
				assert.Equal(t, "xyz", pong.Nonce)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for pong")
		}
	}
}
