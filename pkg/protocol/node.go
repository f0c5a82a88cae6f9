// Package protocol defines the interfaces a TreeSupport registry keys its
// node factories and value codecs by: the pluggable-type contract for the
// runtime.
package protocol

import (
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

// NodeFactory creates node instances of one NodeType and describes their
// static shape: default configuration, config (de)serialization, kind,
// and the port schema a given configuration produces.
type NodeFactory interface {
	// Type returns the NodeType this factory produces.
	Type() model.NodeType

	// Create builds a fresh node instance, before any configuration is
	// applied.
	Create(id model.NodeId) (tree.Node, error)

	// DefaultConfig returns the default configuration for a newly
	// created node.
	DefaultConfig() any

	// DecodeConfig parses a config blob (as embedded in a serialized tree
	// document) into the type-specific configuration value.
	DecodeConfig(blob []byte) (any, error)

	// EncodeConfig serializes a node's current configuration back to a
	// config blob.
	EncodeConfig(node tree.Node) ([]byte, error)

	// Kind reports this type's NodeKind and (for composites) child-count
	// bounds, without needing a live instance.
	Kind() (model.NodeKind, model.ChildBounds)

	// PortSchema reports the ports a node of this type declares given a
	// decoded configuration value; ports may depend on configuration.
	PortSchema(config any) []model.Port
}
