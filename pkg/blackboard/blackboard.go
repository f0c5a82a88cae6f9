// Package blackboard implements the typed key/value store nodes read from
// and write to via port connections.
package blackboard

import (
	"sort"
	"sync"

	"github.com/dukex/betula/pkg/model"
)

// Value is an opaque typed datum. Implementations may share values by
// reference; a write replaces the entry rather than mutating it in place,
// so a Value obtained from Read is a stable snapshot.
type Value interface {
	// Type reports the ValueType this value round-trips through TreeSupport as.
	Type() model.ValueType
	// Clone returns an independent (or O(1) reference-counted immutable)
	// copy, used when handing the value to more than one reader.
	Clone() Value
}

// entry is the (typed value, single-writer-connection) pair stored per key.
type entry struct {
	valueType model.ValueType
	value     Value
	writer    *model.PortConnectionId // at most one, per the single-writer invariant.
}

// Blackboard is a mapping (key -> Value) plus a type registry (key ->
// ValueType) and the connections currently bound to it. It is owned
// exclusively by the runner thread; the mutex here guards against the
// rare case of a leaf node's helper goroutine reading it directly instead
// of going through a late blackboard write (still recommended against,
// see the host-integration contract, but not fatal if it happens).
type Blackboard struct {
	mu      sync.RWMutex
	id      model.BlackboardId
	name    string
	entries map[string]*entry
	dirty   map[string]bool
}

func New(id model.BlackboardId) *Blackboard {
	return &Blackboard{id: id, entries: make(map[string]*entry), dirty: make(map[string]bool)}
}

func (b *Blackboard) ID() model.BlackboardId { return b.id }

func (b *Blackboard) Name() string { return b.name }

func (b *Blackboard) SetName(name string) { b.name = name }

// Keys returns every key currently known to the blackboard, in no
// particular order; callers that need determinism should sort.
func (b *Blackboard) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}

	return keys
}

// TypeOf reports the ValueType fixed for key by its first write, or false
// if the key has never been written.
func (b *Blackboard) TypeOf(key string) (model.ValueType, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[key]
	if !ok || e.valueType == "" {
		return "", false
	}

	return e.valueType, true
}

// Read returns the most recent write to key. NotSet is reported via ok=false.
func (b *Blackboard) Read(key string) (Value, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[key]
	if !ok || e.value == nil {
		return nil, false
	}

	return e.value.Clone(), true
}

// Write replaces the value at key. The first write to a key fixes its
// ValueType; subsequent writes of a different type fail with
// KindTypeMismatch unless ResetType is called first. A key can exist
// with its type still unfixed (e.g. BindWriter ran ahead of any write,
// as Tree.Connect does when binding an output port): that placeholder's
// empty valueType is not itself a fixed type, so the first write still
// adopts value.Type() rather than mismatching against it.
func (b *Blackboard) Write(key string, value Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok {
		b.entries[key] = &entry{valueType: value.Type(), value: value}
		b.dirty[key] = true

		return nil
	}

	if e.valueType == "" {
		e.valueType = value.Type()
	} else if e.valueType != value.Type() {
		return model.NewError(model.KindTypeMismatch, "Write",
			"key "+key+" is typed "+string(e.valueType)+", got "+string(value.Type()))
	}

	e.value = value
	b.dirty[key] = true

	return nil
}

// DrainDirty returns, in sorted order, every key written since the last
// DrainDirty call, and clears the dirty set. The runner calls this once
// per root tick to emit BlackboardUpdate events in the order §5 requires:
// after that tick's NodeStatus events, before the next tick's.
func (b *Blackboard) DrainDirty() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.dirty) == 0 {
		return nil
	}

	keys := make([]string, 0, len(b.dirty))
	for k := range b.dirty {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	b.dirty = make(map[string]bool)

	return keys
}

// ResetType clears a key's fixed type along with its value, allowing the
// next write to establish a new type. Used only by structural mutation
// (e.g. reconnecting a key to a differently-typed output).
func (b *Blackboard) ResetType(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
}

// BindWriter records port as the connection's writer for key, failing
// with KindMultipleWriters if another connection already owns it.
func (b *Blackboard) BindWriter(key string, conn model.PortConnectionId) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok {
		e = &entry{}
		b.entries[key] = e
	}

	if e.writer != nil && *e.writer != conn {
		return model.NewError(model.KindMultipleWriters, "Connect",
			"key "+key+" already has a writer")
	}

	e.writer = &conn

	return nil
}

// UnbindWriter releases the writer slot for key if it was held by conn.
func (b *Blackboard) UnbindWriter(key string, conn model.PortConnectionId) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e, ok := b.entries[key]; ok && e.writer != nil && *e.writer == conn {
		e.writer = nil
	}
}

// Clear removes every key, used when a blackboard is reset wholesale.
func (b *Blackboard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = make(map[string]*entry)
}
