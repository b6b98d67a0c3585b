package live

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/tourofcourses/internal/client"
	"github.com/yigit/tourofcourses/internal/pkg/async"
	"github.com/yigit/tourofcourses/internal/pkg/websocket"
	"github.com/yigit/tourofcourses/internal/ui/routes"
	"github.com/yigit/tourofcourses/internal/ui/views"
)

// loopQueue is how many tasks a session may have queued
const loopQueue = 128

// errClosed is returned by Open once the manager has been shut down
var errClosed = errors.New("live sessions are closed")

// Manager creates live sessions and serves the UI's HTML pages
type Manager struct {
	svc      client.CourseService
	renderer *views.Renderer
	table    routes.Table
	opts     views.Options
	logger   zerolog.Logger

	closed atomic.Bool
	mu     sync.Mutex
	open   map[string]*Session
}

// NewManager creates a session manager over the given data service
func NewManager(svc client.CourseService, renderer *views.Renderer, opts views.Options, logger zerolog.Logger) *Manager {
	return &Manager{
		svc:      svc,
		renderer: renderer,
		table:    routes.Default,
		opts:     opts,
		logger:   logger,
		open:     make(map[string]*Session),
	}
}

// Open is the websocket SessionFactory. The initial route comes from the
// path query parameter.
func (m *Manager) Open(c *gin.Context, clientID string, send func([]byte) bool) (websocket.Session, error) {
	if m.closed.Load() {
		return nil, errClosed
	}
	path := c.DefaultQuery("path", "/")
	match, err := m.table.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open session: %w", err)
	}

	s := m.newSession(clientID, send)
	s.start(match)
	m.logger.Info().Str("clientID", clientID).Str("path", match.Path).Msg("Live session opened")
	return s, nil
}

func (m *Manager) newSession(id string, send func([]byte) bool) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ctx:      ctx,
		cancel:   cancel,
		renderer: m.renderer,
		table:    m.table,
		opts:     m.opts,
		logger:   m.logger.With().Str("session", id).Logger(),
		send:     send,
	}
	s.svc = client.WithMessages(m.svc, &s.messages)
	s.loop = async.NewLoop(loopQueue, s.flush)

	m.mu.Lock()
	m.open[id] = s
	m.mu.Unlock()
	go func() {
		<-s.loop.Stopped()
		m.mu.Lock()
		delete(m.open, id)
		m.mu.Unlock()
	}()
	return s
}

// Count returns the number of open sessions
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}

// Shutdown closes every session and refuses new ones
func (m *Manager) Shutdown() {
	m.closed.Store(true)
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.open))
	for _, s := range m.open {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Page renders the HTML shell for a UI path. The view is not initialized;
// the page shows its loading state until the live session takes over.
func (m *Manager) Page(c *gin.Context) {
	path := c.Request.URL.Path
	match, err := m.table.Resolve(path)
	if err != nil {
		m.logger.Debug().Str("path", path).Msg("Unknown UI path")
		m.document(c, http.StatusNotFound, path, nil)
		return
	}
	if match.Path != path {
		c.Redirect(http.StatusFound, match.Path)
		return
	}

	view, err := views.ForRoute(match, nil, m.opts)
	if err != nil {
		m.logger.Error().Err(err).Str("path", path).Msg("Route has no view")
		m.document(c, http.StatusInternalServerError, path, nil)
		return
	}
	m.document(c, http.StatusOK, match.Path, view)
}

func (m *Manager) document(c *gin.Context, status int, path string, view views.View) {
	root, err := m.renderer.Root(views.Root{View: view})
	if err != nil {
		m.logger.Error().Err(err).Str("path", path).Msg("Failed to render page")
		c.String(http.StatusInternalServerError, "render failed")
		return
	}

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := m.renderer.Document(c.Writer, views.Document{Path: path, Root: template.HTML(root)}); err != nil {
		m.logger.Error().Err(err).Str("path", path).Msg("Failed to write page")
	}
}
