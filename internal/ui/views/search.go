package views

import (
	"context"
	"strings"
	"time"

	"github.com/yigit/tourofcourses/internal/app/models"
)

// Search runs a debounced, last-result-wins course search.
//
// Each keystroke restarts the idle timer. When it fires, the current term is
// issued unless it equals the previously issued one. Every issued search gets
// a sequence number and only the newest may update the results; issuing a
// new one also cancels the request it supersedes.
type Search struct {
	host  Host
	delay time.Duration

	term    string
	results []models.Course

	keystroke uint64
	timer     *time.Timer
	timerDone func()

	issued     uint64
	lastIssued string
	hasIssued  bool
	cancel     context.CancelFunc
}

// SearchModel is rendered by the app-course-search template
type SearchModel struct {
	Term    string
	Results []models.Course
}

// NewSearch creates a search component with the given idle delay
func NewSearch(h Host, delay time.Duration) *Search {
	return &Search{host: h, delay: delay}
}

// Input records a keystroke
func (s *Search) Input(term string) {
	s.term = term
	s.keystroke++
	seq := s.keystroke

	s.stopTimer()
	done := s.host.Track()
	s.timerDone = done
	s.timer = time.AfterFunc(s.delay, func() {
		s.host.Dispatch(func() {
			defer done()
			s.fire(seq)
		})
	})
}

func (s *Search) stopTimer() {
	if s.timer != nil && s.timer.Stop() {
		s.timerDone()
	}
	s.timer, s.timerDone = nil, nil
}

// fire runs on the loop once the idle delay for keystroke seq elapsed
func (s *Search) fire(seq uint64) {
	if seq != s.keystroke {
		return
	}
	s.timer, s.timerDone = nil, nil

	term := s.term
	if s.hasIssued && term == s.lastIssued {
		return
	}
	s.hasIssued = true
	s.lastIssued = term
	s.issued++
	id := s.issued

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if strings.TrimSpace(term) == "" {
		s.results = nil
		return
	}

	ctx, cancel := context.WithCancel(s.host.Context())
	s.cancel = cancel
	svc := s.host.Service()
	run(s.host, ctx, func(ctx context.Context) ([]models.Course, error) {
		return svc.Search(ctx, term)
	}, func(courses []models.Course, err error) {
		if id != s.issued {
			return
		}
		cancel()
		s.cancel = nil
		if err != nil {
			s.host.Logger().Error().Err(err).Str("term", term).Msg("Course search failed")
			return
		}
		s.results = courses
	})
}

func (s *Search) Model() SearchModel {
	return SearchModel{Term: s.term, Results: s.results}
}

// Close stops pending timers and requests
func (s *Search) Close() {
	s.stopTimer()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	// Invalidate anything still in flight.
	s.keystroke++
	s.issued++
}
