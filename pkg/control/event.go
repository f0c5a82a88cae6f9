package control

import (
	"time"

	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/treesupport"
)

// Event is the tagged-union of every event the runner can emit.
type Event interface {
	eventTag()
}

// CommandAck reports the outcome of one previously-sent Command. Kind is
// empty on success.
type CommandAck struct {
	CorrelationID string          `json:"correlation_id"`
	Kind          model.ErrorKind `json:"kind,omitempty"`
	Message       string          `json:"message,omitempty"`
}

func (CommandAck) eventTag() {}

func (a CommandAck) Ok() bool { return a.Kind == "" }

type NodeStatus struct {
	Node        model.NodeId    `json:"node"`
	Status      model.NodeStatus `json:"status"`
	TickCounter uint64          `json:"tick_counter"`
}

func (NodeStatus) eventTag() {}

type BlackboardUpdate struct {
	Blackboard    model.BlackboardId `json:"blackboard"`
	Key           string             `json:"key"`
	EncodedValue  []byte             `json:"encoded_value"`
	TickCounter   uint64             `json:"tick_counter"`
}

func (BlackboardUpdate) eventTag() {}

type TreeReplaced struct{}

func (TreeReplaced) eventTag() {}

type Tick struct {
	Counter  uint64        `json:"counter"`
	Duration time.Duration `json:"duration"`
}

func (Tick) eventTag() {}

type RunStateChanged struct {
	State RunState `json:"state"`
}

func (RunStateChanged) eventTag() {}

// DumpTreeResult carries the document a DumpTree command produced back
// to the caller; the runner emits it right after the CommandAck for that
// DumpTree command.
type DumpTreeResult struct {
	CorrelationID string               `json:"correlation_id"`
	Document      treesupport.Document `json:"document"`
}

func (DumpTreeResult) eventTag() {}

type Pong struct {
	Nonce string `json:"nonce"`
}

func (Pong) eventTag() {}
