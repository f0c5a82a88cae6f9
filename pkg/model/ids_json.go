package model

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// MarshalJSON renders the id per RFC 4122, matching the serialized tree
// document requirement in the control channel contract.
func (id NodeId) MarshalJSON() ([]byte, error) { return json.Marshal(uuid.UUID(id).String()) }

func (id *NodeId) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}

	*id = NodeId(u)

	return nil
}

func (id BlackboardId) MarshalJSON() ([]byte, error) { return json.Marshal(uuid.UUID(id).String()) }

func (id *BlackboardId) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}

	*id = BlackboardId(u)

	return nil
}

func (id PortConnectionId) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id).String())
}

func (id *PortConnectionId) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}

	*id = PortConnectionId(u)

	return nil
}

// CompareNodeId gives the lexicographic order over the 128-bit
// representation required for deterministic tree document encoding.
func CompareNodeId(a, b NodeId) int {
	return bytes.Compare(a[:], b[:])
}

func CompareBlackboardId(a, b BlackboardId) int {
	return bytes.Compare(a[:], b[:])
}

func ComparePortConnectionId(a, b PortConnectionId) int {
	return bytes.Compare(a[:], b[:])
}
