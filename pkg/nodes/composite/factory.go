package composite

import (
	"encoding/json"

	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

// sequenceFactory, selectorFactory, and ifThenElseFactory produce nodes
// with no configuration of their own; only Parallel has a config blob.

type sequenceFactory struct{}

func NewSequenceNodeFactory() sequenceFactory { return sequenceFactory{} }

func (sequenceFactory) Type() model.NodeType                     { return SequenceType }
func (sequenceFactory) Create(id model.NodeId) (tree.Node, error) { return NewSequence(id), nil }
func (sequenceFactory) DefaultConfig() any                        { return nil }
func (sequenceFactory) DecodeConfig([]byte) (any, error)          { return nil, nil }
func (sequenceFactory) EncodeConfig(tree.Node) ([]byte, error)    { return nil, nil }

func (sequenceFactory) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindComposite, tree.CompositeBounds(0, -1)
}

func (sequenceFactory) PortSchema(any) []model.Port { return nil }

type selectorFactory struct{}

func NewSelectorNodeFactory() selectorFactory { return selectorFactory{} }

func (selectorFactory) Type() model.NodeType                     { return SelectorType }
func (selectorFactory) Create(id model.NodeId) (tree.Node, error) { return NewSelector(id), nil }
func (selectorFactory) DefaultConfig() any                        { return nil }
func (selectorFactory) DecodeConfig([]byte) (any, error)          { return nil, nil }
func (selectorFactory) EncodeConfig(tree.Node) ([]byte, error)    { return nil, nil }

func (selectorFactory) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindComposite, tree.CompositeBounds(0, -1)
}

func (selectorFactory) PortSchema(any) []model.Port { return nil }

type ifThenElseFactory struct{}

func NewIfThenElseNodeFactory() ifThenElseFactory { return ifThenElseFactory{} }

func (ifThenElseFactory) Type() model.NodeType { return IfThenElseType }

func (ifThenElseFactory) Create(id model.NodeId) (tree.Node, error) {
	return NewIfThenElse(id), nil
}

func (ifThenElseFactory) DefaultConfig() any                     { return nil }
func (ifThenElseFactory) DecodeConfig([]byte) (any, error)       { return nil, nil }
func (ifThenElseFactory) EncodeConfig(tree.Node) ([]byte, error) { return nil, nil }

func (ifThenElseFactory) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindComposite, tree.CompositeBounds(2, 3)
}

func (ifThenElseFactory) PortSchema(any) []model.Port { return nil }

type parallelFactory struct{}

func NewParallelNodeFactory() parallelFactory { return parallelFactory{} }

func (parallelFactory) Type() model.NodeType                     { return ParallelType }
func (parallelFactory) Create(id model.NodeId) (tree.Node, error) { return NewParallel(id), nil }
func (parallelFactory) DefaultConfig() any                        { return ParallelConfig{SuccessThreshold: 1} }

func (parallelFactory) DecodeConfig(blob []byte) (any, error) {
	cfg := ParallelConfig{SuccessThreshold: 1}
	if len(blob) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(blob, &cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (parallelFactory) EncodeConfig(node tree.Node) ([]byte, error) {
	p, ok := node.(*Parallel)
	if !ok {
		return nil, model.NewError(model.KindTypeMismatch, "EncodeConfig", "expected *composite.Parallel")
	}

	return json.Marshal(p.config)
}

func (parallelFactory) Kind() (model.NodeKind, model.ChildBounds) {
	return model.KindComposite, tree.CompositeBounds(0, -1)
}

func (parallelFactory) PortSchema(any) []model.Port { return nil }
