// Package transform implements the Transform leaf: renders a Go template
// expression against the blackboard input and writes the rendered string
// back out.
package transform

import (
	"bytes"
	"text/template"

	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const NodeType model.NodeType = "transform"

const (
	PortInput  = "input"
	PortResult = "result"
)

type Config struct {
	Expression string `json:"expression"`
}

type Node struct {
	id     model.NodeId
	config Config
	tmpl   *template.Template

	input  blackboard.Input[blackboard.StringValue]
	result blackboard.Output[blackboard.StringValue]
}

func New(id model.NodeId) *Node { return &Node{id: id} }

func (n *Node) Type() model.NodeType { return NodeType }

func (n *Node) Kind() (model.NodeKind, model.ChildBounds) { return model.KindLeaf, tree.LeafBounds }

func (n *Node) Ports() []model.Port {
	return []model.Port{
		{Name: PortInput, Direction: model.PortDirectionInput, Type: "string"},
		{Name: PortResult, Direction: model.PortDirectionOutput, Type: "string"},
	}
}

func (n *Node) GetConfig() (any, error) { return n.config, nil }

func (n *Node) SetConfig(config any) error {
	cfg, ok := config.(Config)
	if !ok {
		return model.NewError(model.KindTypeMismatch, "SetConfig", "expected transform.Config").WithNode(n.id)
	}

	if cfg.Expression == "" {
		return model.NewError(model.KindTypeMismatch, "SetConfig", "expression must not be empty").WithNode(n.id)
	}

	tmpl, err := template.New(n.id.String()).Parse(cfg.Expression)
	if err != nil {
		return model.Wrap(model.KindDecodeError, "SetConfig", err).WithNode(n.id)
	}

	n.config = cfg
	n.tmpl = tmpl

	return nil
}

func (n *Node) Reset() {}

func (n *Node) BindPort(port model.Port, bb *blackboard.Blackboard, key string) error {
	switch port.Name {
	case PortInput:
		n.input = blackboard.BindInput[blackboard.StringValue](bb, key)
	case PortResult:
		n.result = blackboard.BindOutput[blackboard.StringValue](bb, key)
	default:
		return model.NewError(model.KindNotFound, "BindPort", "unknown port "+port.Name).WithNode(n.id)
	}

	return nil
}

func (n *Node) UnbindPort(portName string) {
	switch portName {
	case PortInput:
		n.input = blackboard.Input[blackboard.StringValue]{}
	case PortResult:
		n.result = blackboard.Output[blackboard.StringValue]{}
	}
}

func (n *Node) Tick(*tree.TickContext) (model.NodeStatus, error) {
	if n.tmpl == nil {
		return model.StatusFailure, model.NewError(model.KindNotFound, "Tick", "no expression configured").WithNode(n.id)
	}

	input, _ := n.input.Get() // absent input renders against the zero value, same as an empty string field.

	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, map[string]any{"input": string(input)}); err != nil {
		return model.StatusFailure, model.Wrap(model.KindDecodeError, "Tick", err).WithNode(n.id)
	}

	if err := n.result.Set(blackboard.StringValue(buf.String())); err != nil {
		return model.StatusFailure, err
	}

	return model.StatusSuccess, nil
}
