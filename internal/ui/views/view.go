package views

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/tourofcourses/internal/client"
	"github.com/yigit/tourofcourses/internal/pkg/async"
	"github.com/yigit/tourofcourses/internal/ui/routes"
)

// Title is the application title shown in <title> and the page heading
const Title = "Tour of Courses"

// State is a view's lifecycle position
type State int

const (
	StateLoading State = iota
	StateReady
	StateEditing
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEditing:
		return "editing"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event kinds sent by the browser shim
const (
	EventNavigate = "navigate"
	EventPopState = "popstate"
	EventClick    = "click"
	EventInput    = "input"
)

// Event is one user interaction. Action names the data-click or data-input
// attribute of the element, ID its data-id.
type Event struct {
	Seq    int64  `json:"seq"`
	Kind   string `json:"kind"`
	Path   string `json:"path,omitempty"`
	Action string `json:"action,omitempty"`
	ID     string `json:"id,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Host is what a view needs from its session. Every method except Dispatch
// and Track must be called on the session loop.
type Host interface {
	Context() context.Context
	Service() client.CourseService
	Logger() *zerolog.Logger
	// Dispatch queues fn on the session loop; false once the session closed.
	Dispatch(fn func()) bool
	// Track marks async work as outstanding until done is called.
	Track() (done func())
	Navigate(path string)
	Back()
}

// View is a routed component
type View interface {
	Tag() string
	Init()
	Handle(ev Event)
	// Model returns the data the view's template renders.
	Model() any
	Close()
}

// Options tune view behavior
type Options struct {
	SearchDebounce  time.Duration
	DashboardOffset int
	DashboardSize   int
}

// DefaultOptions mirror the configuration defaults
func DefaultOptions() Options {
	return Options{
		SearchDebounce:  300 * time.Millisecond,
		DashboardOffset: 1,
		DashboardSize:   4,
	}
}

// ForRoute builds the view a resolved route activates
func ForRoute(m routes.Match, h Host, opts Options) (View, error) {
	switch m.Route.Kind {
	case routes.KindDashboard:
		return NewDashboard(h, opts), nil
	case routes.KindCourses:
		return NewCourses(h), nil
	case routes.KindDetail:
		return NewDetail(h, m.ID()), nil
	default:
		return nil, fmt.Errorf("no view for route kind %s", m.Route.Kind)
	}
}

// run executes fn off-loop and hands its result to then on the loop
func run[T any](h Host, ctx context.Context, fn func(context.Context) (T, error), then func(T, error)) {
	done := h.Track()
	async.Go(ctx, fn).Then(h.Dispatch, func(v T, err error) {
		defer done()
		then(v, err)
	})
}
