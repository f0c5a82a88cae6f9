package queuepoll

import (
	"encoding/json"

	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

type nodeFactory struct{}

func NewQueuePollNodeFactory() nodeFactory { return nodeFactory{} }

func (nodeFactory) Type() model.NodeType                     { return NodeType }
func (nodeFactory) Create(id model.NodeId) (tree.Node, error) { return New(id), nil }
func (nodeFactory) DefaultConfig() any                        { return Config{} }

func (nodeFactory) DecodeConfig(blob []byte) (any, error) {
	var cfg Config
	if len(blob) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(blob, &cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (nodeFactory) EncodeConfig(node tree.Node) ([]byte, error) {
	n, ok := node.(*Node)
	if !ok {
		return nil, model.NewError(model.KindTypeMismatch, "EncodeConfig", "expected *queuepoll.Node")
	}

	return json.Marshal(n.config)
}

func (nodeFactory) Kind() (model.NodeKind, model.ChildBounds) { return model.KindLeaf, tree.LeafBounds }

func (nodeFactory) PortSchema(any) []model.Port {
	return []model.Port{{Name: PortMessage, Direction: model.PortDirectionOutput, Type: "string"}}
}
