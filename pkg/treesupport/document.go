package treesupport

import "github.com/dukex/betula/pkg/model"

// Document is the self-describing serialized-tree wire format:
// deterministic under Encode, partial-tolerant under Decode.
type Document struct {
	Version     int              `json:"version"`
	Nodes       []NodeDoc        `json:"nodes"`
	Blackboards []BlackboardDoc  `json:"blackboards"`
	Children    []ChildDoc       `json:"children"`
	Connections []ConnectionDoc  `json:"connections"`
	Root        *model.NodeId    `json:"root,omitempty"`
}

const CurrentVersion = 1

type NodeDoc struct {
	ID         model.NodeId    `json:"id"`
	Type       model.NodeType  `json:"type"`
	ConfigBlob []byte          `json:"config_blob,omitempty"`
}

type BlackboardDoc struct {
	ID      model.BlackboardId `json:"id"`
	Entries []EntryDoc         `json:"entries"`
}

type EntryDoc struct {
	Key          string          `json:"key"`
	ValueType    model.ValueType `json:"value_type"`
	InitialValue []byte          `json:"initial_value,omitempty"`
}

type ChildDoc struct {
	Parent model.NodeId `json:"parent"`
	Index  int          `json:"index"`
	Child  model.NodeId `json:"child"`
}

type ConnectionDoc struct {
	ID         model.PortConnectionId `json:"id"`
	Blackboard model.BlackboardId     `json:"blackboard"`
	Key        string                 `json:"key"`
	Ports      []PortRefDoc           `json:"ports"`
}

type PortRefDoc struct {
	Node model.NodeId `json:"node"`
	Port string       `json:"port_name"`
}

// DecodeFailure is returned by Decode when one or more NodeType/ValueType
// tags in the document are unregistered; it names every affected NodeId
// so a client can highlight exactly what didn't load.
type DecodeFailure struct {
	UnknownNodeTypes  map[model.NodeType][]model.NodeId
	UnknownValueTypes map[model.ValueType][]model.BlackboardId
}

func (f *DecodeFailure) Empty() bool {
	return len(f.UnknownNodeTypes) == 0 && len(f.UnknownValueTypes) == 0
}

func newDecodeFailure() *DecodeFailure {
	return &DecodeFailure{
		UnknownNodeTypes:  make(map[model.NodeType][]model.NodeId),
		UnknownValueTypes: make(map[model.ValueType][]model.BlackboardId),
	}
}
