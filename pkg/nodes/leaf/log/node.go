// Package log implements the Log leaf: renders a message from the
// blackboard and writes it through a structured logger.
package log

import (
	"github.com/sirupsen/logrus"

	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const NodeType model.NodeType = "log"

const PortMessage = "message"

type Config struct {
	Level string `json:"level"`
}

func DefaultConfig() Config { return Config{Level: "info"} }

type Node struct {
	id      model.NodeId
	config  Config
	logger  *logrus.Entry
	message blackboard.Input[blackboard.StringValue]
}

func New(id model.NodeId, logger *logrus.Logger) *Node {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Node{id: id, config: DefaultConfig(), logger: logger.WithField("node", id.String())}
}

func (n *Node) Type() model.NodeType { return NodeType }

func (n *Node) Kind() (model.NodeKind, model.ChildBounds) { return model.KindLeaf, tree.LeafBounds }

func (n *Node) Ports() []model.Port {
	return []model.Port{{Name: PortMessage, Direction: model.PortDirectionInput, Type: "string"}}
}

func (n *Node) GetConfig() (any, error) { return n.config, nil }

func (n *Node) SetConfig(config any) error {
	cfg, ok := config.(Config)
	if !ok {
		return model.NewError(model.KindTypeMismatch, "SetConfig", "expected log.Config").WithNode(n.id)
	}

	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		return model.NewError(model.KindTypeMismatch, "SetConfig", "unknown level "+cfg.Level).WithNode(n.id)
	}

	n.config = cfg

	return nil
}

func (n *Node) Reset() {}

func (n *Node) BindPort(port model.Port, bb *blackboard.Blackboard, key string) error {
	if port.Name != PortMessage {
		return model.NewError(model.KindNotFound, "BindPort", "unknown port "+port.Name).WithNode(n.id)
	}

	n.message = blackboard.BindInput[blackboard.StringValue](bb, key)

	return nil
}

func (n *Node) UnbindPort(portName string) {
	if portName == PortMessage {
		n.message = blackboard.Input[blackboard.StringValue]{}
	}
}

func (n *Node) Tick(*tree.TickContext) (model.NodeStatus, error) {
	message, err := n.message.Get()
	if err != nil {
		return model.StatusFailure, model.Wrap(model.KindNotFound, "Tick", err).WithNode(n.id)
	}

	switch n.config.Level {
	case "debug":
		n.logger.Debug(string(message))
	case "warn":
		n.logger.Warn(string(message))
	case "error":
		n.logger.Error(string(message))
	default:
		n.logger.Info(string(message))
	}

	return model.StatusSuccess, nil
}
