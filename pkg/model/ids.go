// Package model defines the core, dependency-free types of the behavior
// tree runtime: identifiers, ports, node status, and the error taxonomy.
package model

import "github.com/google/uuid"

// NodeId identifies a node uniquely and stably across serialization.
type NodeId uuid.UUID

// BlackboardId identifies a blackboard uniquely and stably across serialization.
type BlackboardId uuid.UUID

// PortConnectionId identifies a port connection uniquely and stably across serialization.
type PortConnectionId uuid.UUID

// NewNodeId returns a fresh random NodeId.
func NewNodeId() NodeId { return NodeId(uuid.New()) }

// NewBlackboardId returns a fresh random BlackboardId.
func NewBlackboardId() BlackboardId { return BlackboardId(uuid.New()) }

// NewPortConnectionId returns a fresh random PortConnectionId.
func NewPortConnectionId() PortConnectionId { return PortConnectionId(uuid.New()) }

func (id NodeId) String() string           { return uuid.UUID(id).String() }
func (id BlackboardId) String() string     { return uuid.UUID(id).String() }
func (id PortConnectionId) String() string { return uuid.UUID(id).String() }

func (id NodeId) IsZero() bool           { return id == NodeId{} }
func (id BlackboardId) IsZero() bool     { return id == BlackboardId{} }
func (id PortConnectionId) IsZero() bool { return id == PortConnectionId{} }

// ParseNodeId parses the canonical RFC 4122 textual form of a NodeId.
func ParseNodeId(s string) (NodeId, error) {
	u, err := uuid.Parse(s)

	return NodeId(u), err
}

// ParseBlackboardId parses the canonical RFC 4122 textual form of a BlackboardId.
func ParseBlackboardId(s string) (BlackboardId, error) {
	u, err := uuid.Parse(s)

	return BlackboardId(u), err
}

// ParsePortConnectionId parses the canonical RFC 4122 textual form of a PortConnectionId.
func ParsePortConnectionId(s string) (PortConnectionId, error) {
	u, err := uuid.Parse(s)

	return PortConnectionId(u), err
}

// NodeType is a string tag, globally unique within a TreeSupport registry,
// used to look up the factory that can (re)construct a node of this type.
type NodeType string

// ValueType is a string tag, globally unique within a TreeSupport registry,
// naming the runtime type of a blackboard value.
type ValueType string
