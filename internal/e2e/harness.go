// Package e2e drives the running application the way the browser shim
// does: it loads pages over HTTP, opens the live websocket, sends user
// events and queries the rendered frames with CSS selectors.
package e2e

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/tourofcourses/internal/bootstrap"
	"github.com/yigit/tourofcourses/internal/config"
	"github.com/yigit/tourofcourses/internal/seed"
	"github.com/yigit/tourofcourses/internal/ui/live"
	"github.com/yigit/tourofcourses/internal/ui/views"
)

// idleTimeout bounds every wait for a quiescent page
const idleTimeout = 5 * time.Second

// App is a fully wired server on a loopback listener
type App struct {
	URL  string
	Deps *bootstrap.Dependencies
}

// StartApp boots the application with its own API as data service
func StartApp(t testing.TB) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewUnstartedServer(nil)
	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.API.BaseURL = "http://" + srv.Listener.Addr().String() + "/api"

	lgr := zerolog.Nop()
	deps, err := bootstrap.BuildDependencies(cfg, lgr)
	require.NoError(t, err)
	srv.Config.Handler = bootstrap.WithCORS(cfg, bootstrap.SetupRouter(cfg, deps, lgr))

	ctx, cancel := context.WithCancel(context.Background())
	go deps.Hub.Run(ctx)
	srv.Start()

	t.Cleanup(func() {
		deps.Sessions.Shutdown()
		cancel()
		srv.Close()
		_ = deps.CourseClient.Close()
	})
	return &App{URL: srv.URL, Deps: deps}
}

// Reset restores the seeded catalogue. A page load starts from the seed.
func (a *App) Reset() {
	a.Deps.Repos.CourseRepository.Reset(seed.Courses())
}

// Browser is one tab connected to the app
type Browser struct {
	t   testing.TB
	app *App

	conn   *websocket.Conn
	frames chan live.Frame
	seq    int64
	frame  live.Frame
	doc    *goquery.Document
}

// NewBrowser creates a tab; call Get to load a page
func NewBrowser(t testing.TB, app *App) *Browser {
	t.Helper()
	b := &Browser{t: t, app: app}
	t.Cleanup(b.disconnect)
	return b
}

// Get reloads the app at path: the backend is reset, the page is fetched
// and a new live session is opened where the page landed.
func (b *Browser) Get(path string) {
	b.t.Helper()
	b.disconnect()
	b.app.Reset()

	res, err := http.Get(b.app.URL + path)
	require.NoError(b.t, err)
	defer res.Body.Close()
	require.Equal(b.t, http.StatusOK, res.StatusCode, "GET %s", path)

	page, err := goquery.NewDocumentFromReader(res.Body)
	require.NoError(b.t, err)
	landed, ok := page.Find("app-root").Attr("data-path")
	require.True(b.t, ok, "page has no app-root")

	b.connect(landed)
	b.WaitIdle()
}

func (b *Browser) connect(path string) {
	b.t.Helper()
	wsURL := "ws" + strings.TrimPrefix(b.app.URL, "http") + "/live?path=" + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(b.t, err)

	b.conn = conn
	b.seq = 0
	b.frames = make(chan live.Frame, 256)
	go b.readFrames(conn, b.frames)
}

func (b *Browser) readFrames(conn *websocket.Conn, out chan<- live.Frame) {
	defer close(out)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		sc := bufio.NewScanner(bytes.NewReader(data))
		sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for sc.Scan() {
			var f live.Frame
			if err := json.Unmarshal(sc.Bytes(), &f); err != nil {
				continue
			}
			out <- f
		}
	}
}

func (b *Browser) disconnect() {
	if b.conn != nil {
		_ = b.conn.Close()
		b.conn = nil
	}
}

func (b *Browser) send(ev views.Event) {
	b.t.Helper()
	b.seq++
	ev.Seq = b.seq
	data, err := json.Marshal(ev)
	require.NoError(b.t, err)
	require.NoError(b.t, b.conn.WriteMessage(websocket.TextMessage, data))
}

// WaitIdle blocks until the server has applied every sent event and has no
// outstanding work
func (b *Browser) WaitIdle() {
	b.t.Helper()
	deadline := time.After(idleTimeout)
	for {
		select {
		case f, ok := <-b.frames:
			require.True(b.t, ok, "live connection closed")
			b.frame = f
			if f.Ack >= b.seq && !f.Busy {
				b.parse()
				return
			}
		case <-deadline:
			b.t.Fatalf("page not idle after %s (ack=%d seq=%d busy=%v)", idleTimeout, b.frame.Ack, b.seq, b.frame.Busy)
		}
	}
}

func (b *Browser) parse() {
	b.t.Helper()
	page := "<html><head><title>" + html.EscapeString(b.frame.Title) + "</title></head><body><app-root>" +
		b.frame.HTML + "</app-root></body></html>"
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(b.t, err)
	b.doc = doc
}

// Path is the route the page shows
func (b *Browser) Path() string { return b.frame.Path }

// Title is the document title
func (b *Browser) Title() string { return b.doc.Find("title").Text() }

// Find queries the current page
func (b *Browser) Find(selector string) *goquery.Selection {
	return b.doc.Find(selector)
}

// Texts returns the trimmed text of every match
func (b *Browser) Texts(selector string) []string {
	return b.Find(selector).Map(func(_ int, s *goquery.Selection) string {
		return Text(s)
	})
}

// Text returns s's text with whitespace runs collapsed, like a rendered page
func Text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// Click activates the first element of sel: a link navigates, a button
// sends its action. Other elements forward to the nearest interactive
// ancestor, then to their first interactive descendant.
func (b *Browser) Click(sel *goquery.Selection) {
	b.t.Helper()
	el := sel.First()
	require.Equal(b.t, 1, el.Length(), "nothing to click")

	target := el.Closest("[data-nav], [data-click]")
	if target.Length() == 0 {
		target = el.Find("[data-nav], [data-click]").First()
	}
	require.Equal(b.t, 1, target.Length(), "element is not clickable")

	if _, ok := target.Attr("data-nav"); ok {
		b.send(views.Event{Kind: views.EventNavigate, Path: target.AttrOr("href", "")})
	} else {
		b.send(views.Event{
			Kind:   views.EventClick,
			Action: target.AttrOr("data-click", ""),
			ID:     target.AttrOr("data-id", ""),
		})
	}
	b.WaitIdle()
}

// ClickButton clicks the first button whose text is text, within scope if
// given
func (b *Browser) ClickButton(text string, scope ...*goquery.Selection) {
	b.t.Helper()
	within := b.doc.Selection
	if len(scope) > 0 {
		within = scope[0]
	}
	btn := within.Find("button").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return Text(s) == text
	})
	require.NotZero(b.t, btn.Length(), "no button %q", text)
	b.Click(btn)
}

// SendKeys types text into the first element of sel one key at a time
func (b *Browser) SendKeys(sel *goquery.Selection, text string) {
	b.t.Helper()
	input := sel.First()
	action, ok := input.Attr("data-input")
	require.True(b.t, ok, "element does not accept input")

	value := input.AttrOr("value", "")
	for _, r := range text {
		value += string(r)
		b.send(views.Event{Kind: views.EventInput, Action: action, Value: value})
	}
	b.WaitIdle()
}

// PopState reports a browser history move to path
func (b *Browser) PopState(path string) {
	b.t.Helper()
	b.send(views.Event{Kind: views.EventPopState, Path: path})
	b.WaitIdle()
}
