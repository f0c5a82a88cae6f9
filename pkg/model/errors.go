package model

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the error taxonomy surfaced uniformly through
// CommandAck and node/tree return values.
type ErrorKind string

const (
	// Structural.
	KindNotFound          ErrorKind = "not_found"
	KindDuplicateId       ErrorKind = "duplicate_id"
	KindCycle             ErrorKind = "cycle"
	KindHasChildren       ErrorKind = "has_children"
	KindCapacityExceeded  ErrorKind = "capacity_exceeded"
	KindMissingChild      ErrorKind = "missing_child"
	// Typing.
	KindTypeMismatch      ErrorKind = "type_mismatch"
	KindMultipleWriters   ErrorKind = "multiple_writers"
	KindUnknownType       ErrorKind = "unknown_type"
	// Serialization.
	KindDecodeError       ErrorKind = "decode_error"
	KindEncodeError       ErrorKind = "encode_error"
	// Runtime.
	KindTickPanic         ErrorKind = "tick_panic"
	KindCancelled         ErrorKind = "cancelled"
	// Transport.
	KindDisconnected      ErrorKind = "disconnected"
)

// Error is the structured error type carried by every fallible operation
// in the runtime. It always names a Kind so callers can branch on
// errors.Is against the sentinels below, or inspect Kind directly for
// uniform reporting through CommandAck / RFC 7807 responses.
type Error struct {
	Kind ErrorKind
	// Op is the operation that failed, e.g. "AddNode", "Connect".
	Op string
	// NodeID/BlackboardID/ConnectionID/AffectedNodes give context, filled in
	// as applicable; left as the zero value otherwise.
	NodeID        *NodeId
	BlackboardID  *BlackboardId
	ConnectionID  *PortConnectionId
	AffectedNodes []NodeId
	Message       string
	Err           error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is implements kind-based comparison: errors.Is(err, model.ErrNotFound)
// succeeds for any *Error carrying KindNotFound, regardless of context.
func (e *Error) Is(target error) bool {
	kindErr, ok := target.(*kindSentinel)
	if !ok {
		return false
	}

	return e.Kind == kindErr.kind
}

type kindSentinel struct{ kind ErrorKind }

func (k *kindSentinel) Error() string { return string(k.kind) }

// Sentinels usable with errors.Is(err, model.ErrX).
var (
	ErrNotFound         error = &kindSentinel{KindNotFound}
	ErrDuplicateId      error = &kindSentinel{KindDuplicateId}
	ErrCycle            error = &kindSentinel{KindCycle}
	ErrHasChildren      error = &kindSentinel{KindHasChildren}
	ErrCapacityExceeded error = &kindSentinel{KindCapacityExceeded}
	ErrMissingChild     error = &kindSentinel{KindMissingChild}
	ErrTypeMismatch     error = &kindSentinel{KindTypeMismatch}
	ErrMultipleWriters  error = &kindSentinel{KindMultipleWriters}
	ErrUnknownType      error = &kindSentinel{KindUnknownType}
	ErrDecodeError      error = &kindSentinel{KindDecodeError}
	ErrEncodeError      error = &kindSentinel{KindEncodeError}
	ErrTickPanic        error = &kindSentinel{KindTickPanic}
	ErrCancelled        error = &kindSentinel{KindCancelled}
	ErrDisconnected     error = &kindSentinel{KindDisconnected}
)

// NewError builds an *Error, the constructor every package should use
// instead of ad-hoc fmt.Errorf so Kind is never dropped on the floor.
func NewError(kind ErrorKind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap builds an *Error around an existing error, preserving it via Unwrap.
func Wrap(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) WithNode(id NodeId) *Error {
	e.NodeID = &id
	return e
}

func (e *Error) WithBlackboard(id BlackboardId) *Error {
	e.BlackboardID = &id
	return e
}

func (e *Error) WithConnection(id PortConnectionId) *Error {
	e.ConnectionID = &id
	return e
}

func (e *Error) WithAffected(ids ...NodeId) *Error {
	e.AffectedNodes = append(e.AffectedNodes, ids...)
	return e
}

// KindOf extracts the ErrorKind from err if it (or something it wraps) is
// a *Error, otherwise reports false.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return "", false
}
