// Package web exposes the control channel (pkg/control) over HTTP: a
// convenience binding for clients that talk HTTP instead of embedding
// pkg/control directly. It carries no semantics of its own beyond
// translating requests into control.Command values and control.Event
// values into responses.
package web

import "github.com/dukex/betula/pkg/control"

// TreeListResponse is the body of GET /trees.
type TreeListResponse struct {
	Names []string `json:"names"`
}

// POST /trees/{name}/commands takes the same {"kind": "...", "payload":
// {...}} envelope control.EncodeCommand produces, decoded with
// control.DecodeCommand, so an HTTP client and an embedded TreeClient
// agree on one command wire format.

// CommandResponse reports the ack and the batch of events the server
// received together with it: every event in that batch, whichever
// command produced it. Events the runner emits after the ack (a
// DumpTreeResult, the Ticks that follow SetRunState{Running}) appear
// only if they arrived in the same batch.
type CommandResponse struct {
	Ack    control.CommandAck `json:"ack"`
	Events []control.Event    `json:"events,omitempty"`
}

// RunStateRequest is the body of POST /trees/{name}/run-state.
type RunStateRequest struct {
	State control.RunState `json:"state" validate:"required,oneof=idle running paused step"`
}

// EventPage is the body of GET /trees/{name}/events: a cursor into the
// server's bounded in-memory event window plus the events found there.
type EventPage struct {
	Cursor int             `json:"cursor"`
	Events []control.Event `json:"events"`
}
