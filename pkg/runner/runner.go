// Package runner implements the background tick loop and its
// Idle/Running/Paused run states (plus single Step): the single owner
// thread that holds a Tree and drives it from a control.TreeServer.
// Cancelling the context passed to Run ends the loop; no RunState value
// represents a terminated runner.
package runner

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/betula/pkg/control"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/otelhelper"
	"github.com/dukex/betula/pkg/tree"
	"github.com/dukex/betula/pkg/treesupport"
)

var tracer = otel.Tracer("github.com/dukex/betula/pkg/runner")

// Runner owns a Tree exclusively: every mutation and every tick happens
// on the goroutine that calls Run. External goroutines only reach it
// through the control.TreeServer's command channel.
type Runner struct {
	tree    *tree.Tree
	support *treesupport.TreeSupport
	server  control.TreeServer
	logger  *logrus.Entry

	state      control.RunState
	tickPeriod time.Duration
	stepOnce   bool
	tickCount  uint64
}

func New(support *treesupport.TreeSupport, server control.TreeServer, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Runner{
		tree:       tree.New(),
		support:    support,
		server:     server,
		logger:     logger.WithField("component", "runner"),
		state:      control.RunStateIdle,
		tickPeriod: 100 * time.Millisecond,
	}
}

// Run drives the drain-then-tick loop until ctx is cancelled; no command
// ends it. It runs on its own goroutine, the tree's single owner thread
// for its whole lifetime.
func (r *Runner) Run(ctx context.Context) error {
	timer := time.NewTimer(r.tickPeriod)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.terminate(ctx)
			return ctx.Err()
		case <-timer.C:
		}

		r.drainAndApply(ctx)

		if r.state == control.RunStateRunning || r.stepOnce {
			r.tickRoot(ctx)
		}

		if r.stepOnce {
			r.stepOnce = false
			r.setState(ctx, control.RunStatePaused)
		}

		timer.Reset(r.tickPeriod)
	}
}

// terminate sets the state back to Idle, without emitting
// RunStateChanged, then drains any commands still queued and acks each
// with KindCancelled.
func (r *Runner) terminate(ctx context.Context) {
	r.state = control.RunStateIdle

	for {
		select {
		case cmd, ok := <-r.server.Commands():
			if !ok {
				return
			}

			_ = r.server.Emit(ctx, control.CommandAck{
				CorrelationID: cmd.CorrelationID(),
				Kind:          model.KindCancelled,
				Message:       "runner terminated",
			})
		default:
			return
		}
	}
}

// drainAndApply applies every command currently queued as one atomic
// batch: a snapshot is taken first, and if any command in the batch
// fails, the tree is restored from the snapshot before acks are emitted,
// so a partially-applied batch is never observable.
func (r *Runner) drainAndApply(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "runner.drain")
	defer span.End()

	var batch []control.Command

drain:
	for {
		select {
		case cmd, ok := <-r.server.Commands():
			if !ok {
				return
			}

			batch = append(batch, cmd)
		default:
			break drain
		}
	}

	if len(batch) == 0 {
		return
	}

	span.SetAttributes(attribute.Int("betula.command.batch_size", len(batch)))

	snapshot, snapErr := treesupport.Encode(r.tree, r.support)

	acks := make([]control.CommandAck, 0, len(batch))
	failed := false

	for _, cmd := range batch {
		if consumed := r.handleImmediate(ctx, cmd); consumed {
			continue
		}

		ack := apply(r.tree, r.support, cmd)
		acks = append(acks, ack)

		if commandFailed(ack) {
			failed = true
		}
	}

	if failed && snapErr == nil {
		if restored, _, err := treesupport.Decode(snapshot, r.support); err == nil {
			_ = r.tree.Close()
			r.tree = restored
		} else {
			r.logger.WithError(err).Error("failed to restore snapshot after a rejected command batch")
		}
	}

	for _, ack := range acks {
		_ = r.server.Emit(ctx, ack)
	}
}

// handleImmediate services the commands that aren't structural tree
// mutations (Ping, SetRunState, SetTickRate, LoadTree, DumpTree) and
// reports whether it consumed cmd.
func (r *Runner) handleImmediate(ctx context.Context, cmd control.Command) bool {
	switch c := cmd.(type) {
	case *control.Ping:
		_ = r.server.Emit(ctx, control.CommandAck{CorrelationID: c.CorrelationID()})
		_ = r.server.Emit(ctx, control.Pong{Nonce: c.Nonce})

		return true
	case *control.SetRunState:
		if c.State == control.RunStateStep {
			r.stepOnce = true
			_ = r.server.Emit(ctx, control.CommandAck{CorrelationID: c.CorrelationID()})

			return true
		}

		r.setState(ctx, c.State)
		_ = r.server.Emit(ctx, control.CommandAck{CorrelationID: c.CorrelationID()})

		return true
	case *control.SetTickRate:
		if c.Hz > 0 {
			r.tickPeriod = time.Duration(float64(time.Second) / c.Hz)
		}

		_ = r.server.Emit(ctx, control.CommandAck{CorrelationID: c.CorrelationID()})

		return true
	case *control.LoadTree:
		restored, failure, err := treesupport.Decode(c.Document, r.support)
		if err != nil {
			_ = r.server.Emit(ctx, control.CommandAck{CorrelationID: c.CorrelationID(), Kind: model.KindDecodeError, Message: err.Error()})
			return true
		}

		_ = r.tree.Close()
		r.tree = restored
		_ = r.server.Emit(ctx, control.CommandAck{CorrelationID: c.CorrelationID()})
		_ = r.server.Emit(ctx, control.TreeReplaced{})

		if failure != nil && !failure.Empty() {
			r.logger.WithField("unknown_node_types", failure.UnknownNodeTypes).Warn("tree loaded with unresolved types")
		}

		return true
	case *control.DumpTree:
		doc, err := treesupport.Encode(r.tree, r.support)
		if err != nil {
			_ = r.server.Emit(ctx, control.CommandAck{CorrelationID: c.CorrelationID(), Kind: model.KindEncodeError, Message: err.Error()})
			return true
		}

		_ = r.server.Emit(ctx, control.CommandAck{CorrelationID: c.CorrelationID()})
		_ = r.server.Emit(ctx, control.DumpTreeResult{CorrelationID: c.CorrelationID(), Document: doc})

		return true
	}

	return false
}

func (r *Runner) setState(ctx context.Context, state control.RunState) {
	if r.state == state {
		return
	}

	r.state = state
	_ = r.server.Emit(ctx, control.RunStateChanged{State: state})
}

// tickRoot performs one root tick and emits its events in the strict
// order the runner guarantees: Tick, then per-node NodeStatus, in tick
// order.
func (r *Runner) tickRoot(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "runner.tick")
	defer span.End()

	start := time.Now()

	status, events, err := r.tree.Tick()
	if err != nil {
		otelhelper.SetError(span, err)
		r.logger.WithError(err).Warn("tick failed")

		return
	}

	r.tickCount = r.tree.TickCounter()
	span.SetAttributes(attribute.Int64(otelhelper.TickCounterKey, int64(r.tickCount)))

	_ = r.server.Emit(ctx, control.Tick{Counter: r.tickCount, Duration: time.Since(start)})

	for _, ev := range events {
		_ = r.server.Emit(ctx, control.NodeStatus{Node: ev.Node, Status: ev.Status, TickCounter: r.tickCount})

		if ev.Status == model.StatusFailure && ev.Err != nil {
			_, nodeSpan := tracer.Start(ctx, "runner.tick.node", trace.WithAttributes(
				attribute.String(otelhelper.NodeIDKey, ev.Node.String()),
			))
			otelhelper.SetError(nodeSpan, ev.Err)
			nodeSpan.End()
		}
	}

	r.emitBlackboardUpdates(ctx, r.tickCount)

	_ = status
}

// emitBlackboardUpdates drains every blackboard's keys written during the
// tick that just completed and emits one BlackboardUpdate per key, after
// this tick's NodeStatus events and before the next tick's, per §5's
// ordering guarantee.
func (r *Runner) emitBlackboardUpdates(ctx context.Context, counter uint64) {
	ids := r.tree.Blackboards()
	sort.Slice(ids, func(i, j int) bool { return model.CompareBlackboardId(ids[i], ids[j]) < 0 })

	for _, bid := range ids {
		bb, ok := r.tree.Blackboard(bid)
		if !ok {
			continue
		}

		for _, key := range bb.DrainDirty() {
			value, ok := bb.Read(key)
			if !ok {
				continue
			}

			codec, ok := r.support.ValueCodec(value.Type())
			if !ok {
				continue
			}

			blob, err := codec.Encode(value)
			if err != nil {
				r.logger.WithError(err).WithField("key", key).Warn("failed to encode blackboard value for BlackboardUpdate")
				continue
			}

			_ = r.server.Emit(ctx, control.BlackboardUpdate{
				Blackboard:   bid,
				Key:          key,
				EncodedValue: blob,
				TickCounter:  counter,
			})
		}
	}
}
