// Package treesupport implements the type-erased serialization registry
// (node factories keyed by NodeType, value codecs keyed by ValueType) and
// the deterministic, partial-tolerant serialized tree document codec.
package treesupport

import (
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/protocol"
)

// TreeSupport is the registry a runner consults to construct nodes from a
// serialized document and to serialize a live Tree back out. It is built
// once at startup (every stock node type plus any host-specific leaf
// types registered) and treated as read-only afterward.
type TreeSupport struct {
	factories map[model.NodeType]protocol.NodeFactory
	codecs    map[model.ValueType]protocol.ValueCodec
}

func New() *TreeSupport {
	return &TreeSupport{
		factories: make(map[model.NodeType]protocol.NodeFactory),
		codecs:    make(map[model.ValueType]protocol.ValueCodec),
	}
}

// RegisterNodeFactory adds or replaces the factory for its declared
// NodeType.
func (ts *TreeSupport) RegisterNodeFactory(f protocol.NodeFactory) {
	ts.factories[f.Type()] = f
}

// RegisterValueCodec adds or replaces the codec for its declared
// ValueType.
func (ts *TreeSupport) RegisterValueCodec(c protocol.ValueCodec) {
	ts.codecs[c.Type()] = c
}

func (ts *TreeSupport) NodeFactory(t model.NodeType) (protocol.NodeFactory, bool) {
	f, ok := ts.factories[t]
	return f, ok
}

func (ts *TreeSupport) ValueCodec(t model.ValueType) (protocol.ValueCodec, bool) {
	c, ok := ts.codecs[t]
	return c, ok
}

// NodeTypes lists every registered NodeType, order unspecified.
func (ts *TreeSupport) NodeTypes() []model.NodeType {
	out := make([]model.NodeType, 0, len(ts.factories))
	for t := range ts.factories {
		out = append(out, t)
	}

	return out
}

// ValueTypes lists every registered ValueType, order unspecified.
func (ts *TreeSupport) ValueTypes() []model.ValueType {
	out := make([]model.ValueType, 0, len(ts.codecs))
	for t := range ts.codecs {
		out = append(out, t)
	}

	return out
}
