package live

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/yigit/tourofcourses/internal/client"
	"github.com/yigit/tourofcourses/internal/pkg/async"
	"github.com/yigit/tourofcourses/internal/ui/routes"
	"github.com/yigit/tourofcourses/internal/ui/views"
)

// fallbackPath is where Back goes when there is no history
const fallbackPath = "/dashboard"

// Frame is one rendered state of the page sent to the browser
type Frame struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	HTML  string `json:"html"`
	// Busy is set while fetches, saves or debounced searches are outstanding.
	Busy bool `json:"busy"`
	// Ack is the highest event sequence number applied to this frame.
	Ack int64 `json:"ack"`
}

// Session is one browser tab. Everything below the loop marker is owned by
// the loop goroutine.
type Session struct {
	ctx      context.Context
	cancel   context.CancelFunc
	loop     *async.Loop
	svc      client.CourseService
	renderer *views.Renderer
	table    routes.Table
	opts     views.Options
	logger   zerolog.Logger
	send     func([]byte) bool

	messages views.Messages
	pending  atomic.Int64
	once     sync.Once

	// loop
	history []string
	path    string
	view    views.View
	ack     int64
	last    Frame
	sent    bool
}

// Path reports the current route; only valid on the loop
func (s *Session) Path() string { return s.path }

func (s *Session) start(m routes.Match) {
	go s.loop.Run(s.ctx)
	s.loop.Dispatch(func() { s.activate(m) })
}

// HandleMessage decodes a browser event and queues it on the loop
func (s *Session) HandleMessage(data []byte) {
	var ev views.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		s.logger.Warn().Err(err).Str("message", string(data)).Msg("Failed to decode browser event")
		return
	}
	s.loop.Dispatch(func() { s.handle(ev) })
}

// Close tears the session down. Safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		s.loop.Call(func() {
			if s.view != nil {
				s.view.Close()
			}
		})
		s.cancel()
		s.loop.Stop()
		s.logger.Debug().Msg("Live session closed")
	})
}

func (s *Session) handle(ev views.Event) {
	switch {
	case ev.Kind == views.EventNavigate:
		s.Navigate(ev.Path)
	case ev.Kind == views.EventPopState:
		s.popTo(ev.Path)
	case ev.Kind == views.EventClick && ev.Action == "clear-messages":
		s.messages.Clear()
	case s.view != nil:
		s.view.Handle(ev)
	}
	if ev.Seq > s.ack {
		s.ack = ev.Seq
	}
}

// Context is canceled when the session closes
func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) Service() client.CourseService { return s.svc }

func (s *Session) Logger() *zerolog.Logger { return &s.logger }

func (s *Session) Dispatch(fn func()) bool { return s.loop.Dispatch(fn) }

// Track counts outstanding work for the busy flag
func (s *Session) Track() func() {
	s.pending.Add(1)
	var once sync.Once
	return func() { once.Do(func() { s.pending.Add(-1) }) }
}

// Navigate moves to path and records the current route in history.
// Unknown paths are logged and ignored.
func (s *Session) Navigate(path string) {
	m, err := s.table.Resolve(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Ignoring navigation to unknown path")
		return
	}
	if m.Path == s.path {
		return
	}
	if s.path != "" {
		s.history = append(s.history, s.path)
	}
	s.activate(m)
}

// Back returns to the previous route, or the dashboard without one
func (s *Session) Back() {
	target := fallbackPath
	if n := len(s.history); n > 0 {
		target = s.history[n-1]
		s.history = s.history[:n-1]
	}
	m, err := s.table.Resolve(target)
	if err != nil {
		s.logger.Error().Err(err).Str("path", target).Msg("History entry no longer resolves")
		return
	}
	s.activate(m)
}

// popTo follows a browser history move the page already made
func (s *Session) popTo(path string) {
	m, err := s.table.Resolve(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Ignoring popstate to unknown path")
		return
	}
	if n := len(s.history); n > 0 && s.history[n-1] == m.Path {
		s.history = s.history[:n-1]
	}
	if m.Path != s.path {
		s.activate(m)
	}
}

func (s *Session) activate(m routes.Match) {
	view, err := views.ForRoute(m, s, s.opts)
	if err != nil {
		s.logger.Error().Err(err).Str("path", m.Path).Msg("Route has no view")
		return
	}
	if s.view != nil {
		s.view.Close()
	}
	s.view = view
	s.path = m.Path
	s.logger.Debug().Str("path", m.Path).Str("view", view.Tag()).Msg("Activated view")
	view.Init()
}

// flush runs after every loop task and pushes a frame when the page changed
func (s *Session) flush() {
	if s.view == nil {
		return
	}
	html, err := s.renderer.Root(views.Root{View: s.view, Messages: s.messages.List()})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to render frame")
		return
	}

	frame := Frame{
		Path:  s.path,
		Title: views.Title,
		HTML:  html,
		Busy:  s.pending.Load() > 0,
		Ack:   s.ack,
	}
	if s.sent && frame == s.last {
		return
	}

	data, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode frame")
		return
	}
	if !s.send(data) {
		s.cancel()
		return
	}
	s.last, s.sent = frame, true
}
