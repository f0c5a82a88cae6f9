package web

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/dukex/betula/pkg/control"
	"github.com/dukex/betula/pkg/persistence"
)

// maxEventWindow bounds how many past events GET /trees/{name}/events
// can page back through; older events are dropped as new ones arrive.
const maxEventWindow = 4096

// Server binds one running tree's control.TreeClient and its
// persistence.Repository to HTTP handlers. It owns a background
// goroutine that drains the client's event stream into a bounded
// window so long-poll requests don't each need their own subscription.
type Server struct {
	client   control.TreeClient
	repo     persistence.Repository
	validate *validator.Validate
	logger   *logrus.Entry

	mu          sync.Mutex
	cond        *sync.Cond
	events      []control.Event
	windowStart int64
}

func NewServer(client control.TreeClient, repo persistence.Repository, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		client:   client,
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.WithField("component", "web"),
	}
	s.cond = sync.NewCond(&s.mu)

	go s.pump()

	return s
}

func (s *Server) pump() {
	for event := range s.client.Events() {
		s.mu.Lock()

		s.events = append(s.events, event)
		if len(s.events) > maxEventWindow {
			drop := len(s.events) - maxEventWindow
			s.events = s.events[drop:]
			s.windowStart += int64(drop)
		}

		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

// eventsSince blocks until at least one event past cursor is available
// or timeout elapses, then returns the page and the cursor to resume
// from.
func (s *Server) eventsSince(cursor int64, timeout time.Duration) ([]control.Event, int64) {
	deadline := time.Now().Add(timeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if cursor < s.windowStart {
			cursor = s.windowStart
		}

		offset := int(cursor - s.windowStart)
		if offset < len(s.events) {
			page := append([]control.Event(nil), s.events[offset:]...)
			return page, s.windowStart + int64(len(s.events))
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, cursor
		}

		waitCh := make(chan struct{})

		go func() {
			<-time.After(remaining)
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
			close(waitCh)
		}()

		s.cond.Wait()

		select {
		case <-waitCh:
		default:
		}
	}
}

// App wires the tree control routes onto a fresh fiber.App.
func (s *Server) App() *fiber.App {
	app := fiber.New()

	app.Get("/health", s.HealthCheck)

	trees := app.Group("/trees")
	trees.Get("/", s.ListTrees)
	trees.Get("/:name", s.GetTree)
	trees.Put("/:name", s.LoadTree)
	trees.Post("/:name/commands", s.SubmitCommand)
	trees.Get("/:name/events", s.PollEvents)
	trees.Post("/:name/run-state", s.SetRunState)

	return app
}

func (s *Server) HealthCheck(c fiber.Ctx) error {
	if err := s.repo.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "healthy"})
}

func (s *Server) ListTrees(c fiber.Ctx) error {
	names, err := s.repo.List(c.Context())
	if err != nil {
		return handleRepositoryError(c, err)
	}

	return c.JSON(TreeListResponse{Names: names})
}

func (s *Server) GetTree(c fiber.Ctx) error {
	name := c.Params("name")

	doc, err := s.repo.Load(c.Context(), name)
	if err != nil {
		return handleRepositoryError(c, err)
	}

	return c.JSON(doc)
}

// LoadTree persists the request body under name and issues it to the
// running tree as a control.LoadTree command, waiting for the ack.
func (s *Server) LoadTree(c fiber.Ctx) error {
	name := c.Params("name")

	var cmd control.LoadTree
	if err := c.Bind().JSON(&cmd.Document); err != nil {
		return badRequest(c, "invalid tree document: "+err.Error())
	}

	if err := s.repo.Save(c.Context(), name, cmd.Document); err != nil {
		return handleRepositoryError(c, err)
	}

	cmd.Correlation = name + ":" + time.Now().UTC().Format(time.RFC3339Nano)

	return s.dispatch(c, cmd)
}

// SubmitCommand decodes the request body as a control.Command envelope
// and forwards it to the running tree, returning its ack (and any
// events produced before the response is written).
func (s *Server) SubmitCommand(c fiber.Ctx) error {
	cmd, err := control.DecodeCommand(c.Body())
	if err != nil {
		return badRequest(c, err.Error())
	}

	return s.dispatch(c, cmd)
}

func (s *Server) SetRunState(c fiber.Ctx) error {
	var req RunStateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid JSON: "+err.Error())
	}

	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	return s.dispatch(c, control.SetRunState{State: req.State})
}

// dispatch sends cmd, then blocks briefly for its correlated
// CommandAck (and events emitted alongside it) before responding, so
// callers get a synchronous view of one command's outcome.
func (s *Server) dispatch(c fiber.Ctx, cmd control.Command) error {
	correlation := cmd.CorrelationID()

	if err := s.client.Send(c.Context(), cmd); err != nil {
		return internalError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	ack, events := s.waitForAck(ctx, correlation)
	if ack == nil {
		return internalError(c, context.DeadlineExceeded)
	}

	return c.JSON(CommandResponse{Ack: *ack, Events: events})
}

func (s *Server) waitForAck(ctx context.Context, correlation string) (*control.CommandAck, []control.Event) {
	cursor := s.currentCursor()

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		default:
		}

		page, next := s.eventsSince(cursor, 250*time.Millisecond)
		cursor = next

		for _, ev := range page {
			// the in-process transport round-trips every event through
			// JSON, so what arrives here is always the pointer type
			// DecodeEvent constructs, never the value the runner emitted.
			if ack, ok := ev.(*control.CommandAck); ok && ack.CorrelationID == correlation {
				return ack, page
			}
		}

		if ctx.Err() != nil {
			return nil, nil
		}
	}
}

func (s *Server) currentCursor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.windowStart + int64(len(s.events))
}

func (s *Server) PollEvents(c fiber.Ctx) error {
	cursor := int64(0)
	if q := c.Query("cursor"); q != "" {
		parsed, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return badRequest(c, "invalid cursor")
		}

		cursor = parsed
	}

	events, next := s.eventsSince(cursor, 25*time.Second)

	return c.JSON(EventPage{Cursor: int(next), Events: events})
}
