package control

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	CommandTopic = "betula.commands"
	EventTopic   = "betula.events"
)

// TreeClient is the caller-side handle onto a running tree: send commands,
// observe the event stream. Implementations must preserve per-direction
// delivery order.
type TreeClient interface {
	// Send publishes cmd. Pass commands by value (control.AddNode{...},
	// not &control.AddNode{...}) — the wire envelope's type tag is derived
	// from cmd's concrete type, and the receiving end always decodes into
	// pointers, so a pointer-typed cmd would round-trip under a
	// "*control.AddNode" tag the decoder never matches.
	Send(ctx context.Context, cmd Command) error
	// Events yields every emitted event, decoded from the wire envelope —
	// callers type-switch on pointer types (*CommandAck, not CommandAck),
	// since DecodeEvent always constructs pointers.
	Events() <-chan Event
	Close() error
}

// TreeServer is the runner-side handle: consume commands, publish events.
type TreeServer interface {
	Commands() <-chan Command
	Emit(ctx context.Context, event Event) error
	Close() error
}

// envelope carries a Command/Event's concrete type tag alongside its JSON
// payload, since watermill messages are opaque byte payloads.
type envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeCommand and DecodeCommand expose the wire envelope used between
// TreeClient and TreeServer to callers that need to cross a boundary the
// in-process pair doesn't cover, such as pkg/web's HTTP binding.
func EncodeCommand(cmd Command) ([]byte, error) { return encodeCommand(cmd) }
func DecodeCommand(data []byte) (Command, error) { return decodeCommand(data) }
func EncodeEvent(event Event) ([]byte, error)    { return encodeEvent(event) }
func DecodeEvent(data []byte) (Event, error)     { return decodeEvent(data) }

func encodeCommand(cmd Command) ([]byte, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{Kind: fmt.Sprintf("%T", cmd), Payload: payload})
}

func decodeCommand(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	var cmd Command

	switch env.Kind {
	case "control.AddNode":
		cmd = &AddNode{}
	case "control.RemoveNode":
		cmd = &RemoveNode{}
	case "control.SetChildren":
		cmd = &SetChildren{}
	case "control.SetRoot":
		cmd = &SetRoot{}
	case "control.SetConfig":
		cmd = &SetConfig{}
	case "control.AddBlackboard":
		cmd = &AddBlackboard{}
	case "control.RemoveBlackboard":
		cmd = &RemoveBlackboard{}
	case "control.Connect":
		cmd = &Connect{}
	case "control.Disconnect":
		cmd = &Disconnect{}
	case "control.SetRunState":
		cmd = &SetRunState{}
	case "control.SetTickRate":
		cmd = &SetTickRate{}
	case "control.LoadTree":
		cmd = &LoadTree{}
	case "control.DumpTree":
		cmd = &DumpTree{}
	case "control.Ping":
		cmd = &Ping{}
	default:
		return nil, fmt.Errorf("control: unknown command kind %q", env.Kind)
	}

	if err := json.Unmarshal(env.Payload, cmd); err != nil {
		return nil, err
	}

	return cmd, nil
}

func encodeEvent(event Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{Kind: fmt.Sprintf("%T", event), Payload: payload})
}

func decodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	var event Event

	switch env.Kind {
	case "control.CommandAck":
		event = &CommandAck{}
	case "control.NodeStatus":
		event = &NodeStatus{}
	case "control.BlackboardUpdate":
		event = &BlackboardUpdate{}
	case "control.TreeReplaced":
		event = &TreeReplaced{}
	case "control.Tick":
		event = &Tick{}
	case "control.RunStateChanged":
		event = &RunStateChanged{}
	case "control.DumpTreeResult":
		event = &DumpTreeResult{}
	case "control.Pong":
		event = &Pong{}
	default:
		return nil, fmt.Errorf("control: unknown event kind %q", env.Kind)
	}

	if err := json.Unmarshal(env.Payload, event); err != nil {
		return nil, err
	}

	return event, nil
}

// channel is the shared implementation behind both the client and server
// ends of an in-process watermill gochannel pair.
type channel struct {
	pub message.Publisher
	sub message.Subscriber
}

// NewInProcessPair builds one command bus and one event bus, each an independent
// watermill gochannel, and hands back the client and server ends bound
// to them.
func NewInProcessPair(logger watermill.LoggerAdapter) (TreeClient, TreeServer, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	cmdBus := gochannelNew(logger)
	eventBus := gochannelNew(logger)

	cmdMessages, err := cmdBus.Subscribe(context.Background(), CommandTopic)
	if err != nil {
		return nil, nil, err
	}

	eventMessages, err := eventBus.Subscribe(context.Background(), EventTopic)
	if err != nil {
		return nil, nil, err
	}

	client := &inProcessClient{pub: cmdBus, sub: eventBus, events: make(chan Event, 256)}
	server := &inProcessServer{pub: eventBus, sub: cmdBus, commands: make(chan Command, 256)}

	go pumpEvents(eventMessages, client.events)
	go pumpCommands(cmdMessages, server.commands)

	return client, server, nil
}

func pumpCommands(messages <-chan *message.Message, out chan<- Command) {
	for msg := range messages {
		cmd, err := decodeCommand(msg.Payload)
		if err != nil {
			msg.Nack()
			continue
		}

		out <- cmd
		msg.Ack()
	}

	close(out)
}

func pumpEvents(messages <-chan *message.Message, out chan<- Event) {
	for msg := range messages {
		event, err := decodeEvent(msg.Payload)
		if err != nil {
			msg.Nack()
			continue
		}

		out <- event
		msg.Ack()
	}

	close(out)
}

type inProcessClient struct {
	pub    message.Publisher
	sub    message.Subscriber
	events chan Event
}

func (c *inProcessClient) Send(_ context.Context, cmd Command) error {
	data, err := encodeCommand(cmd)
	if err != nil {
		return err
	}

	return c.pub.Publish(CommandTopic, message.NewMessage(watermill.NewUUID(), data))
}

func (c *inProcessClient) Events() <-chan Event { return c.events }

func (c *inProcessClient) Close() error {
	if err := c.pub.Close(); err != nil {
		return err
	}

	return c.sub.Close()
}

type inProcessServer struct {
	pub      message.Publisher
	sub      message.Subscriber
	commands chan Command
}

func (s *inProcessServer) Commands() <-chan Command { return s.commands }

func (s *inProcessServer) Emit(_ context.Context, event Event) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}

	return s.pub.Publish(EventTopic, message.NewMessage(watermill.NewUUID(), data))
}

func (s *inProcessServer) Close() error {
	if err := s.pub.Close(); err != nil {
		return err
	}

	return s.sub.Close()
}
