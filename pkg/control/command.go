// Package control implements the InteractionCommand/InteractionEvent
// taxonomy the runner and its clients exchange over the command/event
// channels, plus an in-process channel pair built on watermill's
// gochannel transport.
package control

import (
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/treesupport"
)

// RunState is the runner's externally-observable execution mode.
type RunState string

const (
	RunStateIdle    RunState = "idle"
	RunStateRunning RunState = "running"
	RunStatePaused  RunState = "paused"
	RunStateStep    RunState = "step"
)

// Command is the tagged-union of every command a client can send.
// Concrete types embed Base for the correlation id every command carries.
type Command interface {
	CorrelationID() string
	commandTag()
}

type Base struct {
	Correlation string `json:"correlation_id"`
}

func (b Base) CorrelationID() string { return b.Correlation }

type AddNode struct {
	Base
	Node       model.NodeId   `json:"node"`
	Type       model.NodeType `json:"type"`
	ConfigBlob []byte         `json:"config_blob,omitempty"`
}

func (AddNode) commandTag() {}

type RemoveNode struct {
	Base
	Node    model.NodeId `json:"node"`
	Cascade bool         `json:"cascade"`
}

func (RemoveNode) commandTag() {}

type SetChildren struct {
	Base
	Parent   model.NodeId   `json:"parent"`
	Children []model.NodeId `json:"children"`
}

func (SetChildren) commandTag() {}

type SetRoot struct {
	Base
	Node *model.NodeId `json:"node,omitempty"`
}

func (SetRoot) commandTag() {}

type SetConfig struct {
	Base
	Node       model.NodeId `json:"node"`
	ConfigBlob []byte       `json:"config_blob"`
}

func (SetConfig) commandTag() {}

type AddBlackboard struct {
	Base
	Blackboard model.BlackboardId `json:"blackboard"`
}

func (AddBlackboard) commandTag() {}

type RemoveBlackboard struct {
	Base
	Blackboard model.BlackboardId `json:"blackboard"`
	Force      bool               `json:"force"`
}

func (RemoveBlackboard) commandTag() {}

type Connect struct {
	Base
	Connection model.PortConnectionId `json:"connection"`
	Blackboard model.BlackboardId     `json:"blackboard"`
	Key        string                 `json:"key"`
	Ports      []model.PortRef        `json:"ports"`
}

func (Connect) commandTag() {}

type Disconnect struct {
	Base
	Connection model.PortConnectionId `json:"connection"`
}

func (Disconnect) commandTag() {}

type SetRunState struct {
	Base
	State RunState `json:"state"`
}

func (SetRunState) commandTag() {}

type SetTickRate struct {
	Base
	Hz float64 `json:"hz"`
}

func (SetTickRate) commandTag() {}

type LoadTree struct {
	Base
	Document treesupport.Document `json:"document"`
}

func (LoadTree) commandTag() {}

type DumpTree struct {
	Base
}

func (DumpTree) commandTag() {}

type Ping struct {
	Base
	Nonce string `json:"nonce"`
}

func (Ping) commandTag() {}
