// Package httprequest implements the HTTPRequest leaf: reads a URL (and
// optional body) from the blackboard, performs one HTTP call, and writes
// the response back.
package httprequest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

const NodeType model.NodeType = "http_request"

const (
	PortURL      = "url"
	PortBody     = "body"
	PortResponse = "response"
	PortError    = "error"
)

// Config is the node's opaque per-type configuration, round-tripped
// through GetConfig/SetConfig and the tree document.
type Config struct {
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers,omitempty"`
	Timeout time.Duration     `json:"timeout"`
	Retries int               `json:"retries"`
}

func DefaultConfig() Config {
	return Config{Method: http.MethodGet, Timeout: 30 * time.Second, Retries: 1}
}

// Node performs one HTTP request per tick and reports Success/Failure
// depending on the response status; it never returns Running, so a
// caller wanting async behavior uses a leaf fed by a background
// goroutine instead (see leaf/queuepoll).
type Node struct {
	id     model.NodeId
	config Config
	client *http.Client

	url      blackboard.Input[blackboard.StringValue]
	body     blackboard.Input[blackboard.StringValue]
	response blackboard.Output[blackboard.MapValue]
	errOut   blackboard.Output[blackboard.StringValue]
}

func New(id model.NodeId) *Node {
	cfg := DefaultConfig()

	return &Node{id: id, config: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (n *Node) Type() model.NodeType { return NodeType }

func (n *Node) Kind() (model.NodeKind, model.ChildBounds) { return model.KindLeaf, tree.LeafBounds }

func (n *Node) Ports() []model.Port {
	return []model.Port{
		{Name: PortURL, Direction: model.PortDirectionInput, Type: "string"},
		{Name: PortBody, Direction: model.PortDirectionInput, Type: "string"},
		{Name: PortResponse, Direction: model.PortDirectionOutput, Type: "map"},
		{Name: PortError, Direction: model.PortDirectionOutput, Type: "string"},
	}
}

func (n *Node) GetConfig() (any, error) { return n.config, nil }

func (n *Node) SetConfig(config any) error {
	cfg, ok := config.(Config)
	if !ok {
		return model.NewError(model.KindTypeMismatch, "SetConfig", "expected httprequest.Config").WithNode(n.id)
	}

	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.Retries <= 0 {
		cfg.Retries = 1
	}

	n.config = cfg
	n.client = &http.Client{Timeout: cfg.Timeout}

	return nil
}

func (n *Node) Reset() {}

func (n *Node) BindPort(port model.Port, bb *blackboard.Blackboard, key string) error {
	switch port.Name {
	case PortURL:
		n.url = blackboard.BindInput[blackboard.StringValue](bb, key)
	case PortBody:
		n.body = blackboard.BindInput[blackboard.StringValue](bb, key)
	case PortResponse:
		n.response = blackboard.BindOutput[blackboard.MapValue](bb, key)
	case PortError:
		n.errOut = blackboard.BindOutput[blackboard.StringValue](bb, key)
	default:
		return model.NewError(model.KindNotFound, "BindPort", "unknown port "+port.Name).WithNode(n.id)
	}

	return nil
}

func (n *Node) UnbindPort(portName string) {
	switch portName {
	case PortURL:
		n.url = blackboard.Input[blackboard.StringValue]{}
	case PortBody:
		n.body = blackboard.Input[blackboard.StringValue]{}
	case PortResponse:
		n.response = blackboard.Output[blackboard.MapValue]{}
	case PortError:
		n.errOut = blackboard.Output[blackboard.StringValue]{}
	}
}

func (n *Node) Tick(*tree.TickContext) (model.NodeStatus, error) {
	rawURL, err := n.url.Get()
	if err != nil {
		return model.StatusFailure, model.Wrap(model.KindNotFound, "Tick", err).WithNode(n.id)
	}

	url, err := render(string(rawURL), nil)
	if err != nil {
		return n.fail(err.Error()), nil
	}

	var reqBody io.Reader

	if raw, err := n.body.Get(); err == nil {
		rendered, rerr := render(string(raw), nil)
		if rerr != nil {
			return n.fail(rerr.Error()), nil
		}

		reqBody = strings.NewReader(rendered)
	}

	var lastErr error

	for attempt := 1; attempt <= n.config.Retries; attempt++ {
		if attempt > 1 {
			time.Sleep(100 * time.Millisecond)
		}

		result, err := n.perform(url, reqBody)
		if err == nil {
			if setErr := n.response.Set(result); setErr != nil {
				return model.StatusFailure, setErr
			}

			return model.StatusSuccess, nil
		}

		lastErr = err
	}

	return n.fail(lastErr.Error()), nil
}

func (n *Node) fail(message string) model.NodeStatus {
	_ = n.errOut.Set(blackboard.StringValue(message))
	return model.StatusFailure
}

func (n *Node) perform(url string, body io.Reader) (blackboard.MapValue, error) {
	req, err := http.NewRequestWithContext(context.Background(), n.config.Method, url, body)
	if err != nil {
		return nil, err
	}

	for k, v := range n.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, model.NewError(model.KindDecodeError, "perform", string(respBody)).WithNode(n.id)
	}

	result := blackboard.MapValue{
		"status_code": resp.StatusCode,
		"body":        string(respBody),
	}

	var parsed any
	if json.Unmarshal(respBody, &parsed) == nil {
		result["json"] = parsed
	}

	return result, nil
}

// render applies Go's text/template against an optional data map,
// leaving the input untouched when it has no template actions.
func render(input string, data map[string]any) (string, error) {
	if !strings.Contains(input, "{{") {
		return input, nil
	}

	tmpl, err := template.New("").Parse(input)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
