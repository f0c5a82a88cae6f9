package runner

import (
	"github.com/dukex/betula/pkg/control"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
	"github.com/dukex/betula/pkg/treesupport"
)

// apply executes one command against t, returning the CommandAck to
// emit. A structural/typing failure never touches t: every mutating
// branch below either fully succeeds or returns before mutating,
// every returned error carries a Kind, so acks never fall back to a bare message.
func apply(t *tree.Tree, ts *treesupport.TreeSupport, cmd control.Command) control.CommandAck {
	ack := control.CommandAck{CorrelationID: cmd.CorrelationID()}

	var err error

	switch c := cmd.(type) {
	case *control.AddNode:
		err = applyAddNode(t, ts, c)
	case *control.RemoveNode:
		err = t.RemoveNode(c.Node, c.Cascade)
	case *control.SetChildren:
		err = t.SetChildren(c.Parent, c.Children)
	case *control.SetRoot:
		err = t.SetRoot(c.Node)
	case *control.SetConfig:
		err = applySetConfig(t, ts, c)
	case *control.AddBlackboard:
		err = t.AddBlackboard(c.Blackboard)
	case *control.RemoveBlackboard:
		err = t.RemoveBlackboard(c.Blackboard, c.Force)
	case *control.Connect:
		err = t.Connect(model.PortConnection{ID: c.Connection, Blackboard: c.Blackboard, Key: c.Key, Ports: c.Ports})
	case *control.Disconnect:
		err = t.Disconnect(c.Connection)
	case *control.Ping, *control.SetRunState, *control.SetTickRate, *control.LoadTree, *control.DumpTree:
		// Handled directly by the runner loop, not the structural applier.
	default:
		err = model.NewError(model.KindUnknownType, "apply", "unrecognized command")
	}

	if err != nil {
		if kind, ok := model.KindOf(err); ok {
			ack.Kind = kind
		} else {
			ack.Kind = model.KindDecodeError
		}

		ack.Message = err.Error()
	}

	return ack
}

func applyAddNode(t *tree.Tree, ts *treesupport.TreeSupport, c *control.AddNode) error {
	factory, ok := ts.NodeFactory(c.Type)
	if !ok {
		return model.NewError(model.KindUnknownType, "AddNode", "no factory registered for "+string(c.Type)).WithNode(c.Node)
	}

	node, err := factory.Create(c.Node)
	if err != nil {
		return model.Wrap(model.KindDecodeError, "AddNode", err).WithNode(c.Node)
	}

	if len(c.ConfigBlob) > 0 {
		config, err := factory.DecodeConfig(c.ConfigBlob)
		if err != nil {
			return model.Wrap(model.KindDecodeError, "AddNode", err).WithNode(c.Node)
		}

		if err := node.SetConfig(config); err != nil {
			return err
		}
	}

	return t.AddNode(c.Node, c.Type, node)
}

func applySetConfig(t *tree.Tree, ts *treesupport.TreeSupport, c *control.SetConfig) error {
	node, ok := t.Node(c.Node)
	if !ok {
		return model.NewError(model.KindNotFound, "SetConfig", "node not present").WithNode(c.Node)
	}

	nodeType, _ := t.NodeType(c.Node)

	factory, ok := ts.NodeFactory(nodeType)
	if !ok {
		return model.NewError(model.KindUnknownType, "SetConfig", "no factory registered for "+string(nodeType)).WithNode(c.Node)
	}

	config, err := factory.DecodeConfig(c.ConfigBlob)
	if err != nil {
		return model.Wrap(model.KindDecodeError, "SetConfig", err).WithNode(c.Node)
	}

	if err := node.SetConfig(config); err != nil {
		return err
	}

	node.Reset()

	return nil
}

// commandFailed reports whether ack represents a failed command.
func commandFailed(ack control.CommandAck) bool { return !ack.Ok() }
