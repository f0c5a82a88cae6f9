// Package queuepoll implements the QueuePoll leaf: a background goroutine
// blocks on a Redis list pop and forwards messages through a channel;
// Tick drains that channel non-blockingly, so a slow queue never stalls
// the tick loop. This is the canonical "late blackboard write" shape:
// the write to the output port happens on the runner's own goroutine,
// during Tick, never from the background goroutine itself.
package queuepoll

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const NodeType model.NodeType = "queue_poll"

const PortMessage = "message"

type Config struct {
	Addr string `json:"addr"`
	Key  string `json:"key"`
}

type Node struct {
	id     model.NodeId
	config Config

	client  *redis.Client
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	pending chan string
	started bool

	message blackboard.Output[blackboard.StringValue]
}

func New(id model.NodeId) *Node {
	return &Node{id: id, pending: make(chan string, 64)}
}

func (n *Node) Type() model.NodeType { return NodeType }

func (n *Node) Kind() (model.NodeKind, model.ChildBounds) { return model.KindLeaf, tree.LeafBounds }

func (n *Node) Ports() []model.Port {
	return []model.Port{{Name: PortMessage, Direction: model.PortDirectionOutput, Type: "string"}}
}

func (n *Node) GetConfig() (any, error) { return n.config, nil }

func (n *Node) SetConfig(config any) error {
	cfg, ok := config.(Config)
	if !ok {
		return model.NewError(model.KindTypeMismatch, "SetConfig", "expected queuepoll.Config").WithNode(n.id)
	}

	if cfg.Key == "" {
		return model.NewError(model.KindTypeMismatch, "SetConfig", "key must not be empty").WithNode(n.id)
	}

	n.stopConsumer()

	if n.client != nil {
		_ = n.client.Close()
	}

	n.config = cfg
	n.client = redis.NewClient(&redis.Options{Addr: cfg.Addr})
	n.started = false

	return nil
}

func (n *Node) startConsumer() {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	n.wg.Add(1)

	go func() {
		defer n.wg.Done()

		for {
			result, err := n.client.BLPop(ctx, 2*time.Second, n.config.Key).Result()
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				continue
			}

			if len(result) == 2 {
				select {
				case n.pending <- result[1]:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}

func (n *Node) stopConsumer() {
	if n.cancel != nil {
		n.cancel()
		n.wg.Wait()
	}
}

// Close stops the background consumer goroutine. The runner calls this
// when the node is removed from the tree.
func (n *Node) Close() error {
	n.stopConsumer()

	if n.client != nil {
		return n.client.Close()
	}

	return nil
}

func (n *Node) Reset() {}

func (n *Node) BindPort(port model.Port, bb *blackboard.Blackboard, key string) error {
	if port.Name != PortMessage {
		return model.NewError(model.KindNotFound, "BindPort", "unknown port "+port.Name).WithNode(n.id)
	}

	n.message = blackboard.BindOutput[blackboard.StringValue](bb, key)

	return nil
}

func (n *Node) UnbindPort(portName string) {
	if portName == PortMessage {
		n.message = blackboard.Output[blackboard.StringValue]{}
	}
}

// Tick drains at most one queued message per tick, reporting Running
// while the queue is empty so a Sequence parent doesn't treat "nothing
// arrived yet" as failure. The background consumer goroutine is started
// lazily here, on the first tick after configuration, not from SetConfig:
// a node sitting in the tree unticked must not open a Redis connection.
func (n *Node) Tick(*tree.TickContext) (model.NodeStatus, error) {
	if !n.started {
		n.startConsumer()
		n.started = true
	}

	select {
	case msg := <-n.pending:
		if err := n.message.Set(blackboard.StringValue(msg)); err != nil {
			return model.StatusFailure, err
		}

		return model.StatusSuccess, nil
	default:
		return model.StatusRunning, nil
	}
}
