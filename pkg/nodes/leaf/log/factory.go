package log

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

type nodeFactory struct {
	logger *logrus.Logger
}

func NewLogNodeFactory(logger *logrus.Logger) nodeFactory {
	return nodeFactory{logger: logger}
}

func (f nodeFactory) Type() model.NodeType { return NodeType }

func (f nodeFactory) Create(id model.NodeId) (tree.Node, error) {
	return New(id, f.logger), nil
}

func (nodeFactory) DefaultConfig() any { return DefaultConfig() }

func (nodeFactory) DecodeConfig(blob []byte) (any, error) {
	cfg := DefaultConfig()
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
		return nil, model.NewError(model.KindTypeMismatch, "EncodeConfig", "expected *log.Node")
	}

	return json.Marshal(n.config)
}

func (nodeFactory) Kind() (model.NodeKind, model.ChildBounds) { return model.KindLeaf, tree.LeafBounds }

func (nodeFactory) PortSchema(any) []model.Port {
	return []model.Port{{Name: PortMessage, Direction: model.PortDirectionInput, Type: "string"}}
}
