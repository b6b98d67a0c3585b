package views

import (
	"github.com/yigit/tourofcourses/internal/app/models"
)

// Dashboard shows a handful of top courses and hosts the search box
type Dashboard struct {
	host    Host
	offset  int
	size    int
	state   State
	courses []models.Course
	search  *Search
}

// DashboardModel is rendered by the app-dashboard template
type DashboardModel struct {
	State   State
	Courses []models.Course
	Search  SearchModel
}

// NewDashboard creates the dashboard view
func NewDashboard(h Host, opts Options) *Dashboard {
	return &Dashboard{
		host:   h,
		offset: opts.DashboardOffset,
		size:   opts.DashboardSize,
		search: NewSearch(h, opts.SearchDebounce),
	}
}

func (d *Dashboard) Tag() string { return "app-dashboard" }

// Init fetches the course list
func (d *Dashboard) Init() {
	d.state = StateLoading
	svc := d.host.Service()
	run(d.host, d.host.Context(), svc.List, func(courses []models.Course, err error) {
		if err != nil {
			d.host.Logger().Error().Err(err).Msg("Dashboard failed to load courses")
			d.state = StateFailed
			return
		}
		d.courses = topCourses(courses, d.offset, d.size)
		d.state = StateReady
	})
}

// Handle forwards search keystrokes
func (d *Dashboard) Handle(ev Event) {
	if ev.Kind == EventInput && ev.Action == "search" {
		d.search.Input(ev.Value)
	}
}

func (d *Dashboard) Model() any {
	return DashboardModel{
		State:   d.state,
		Courses: d.courses,
		Search:  d.search.Model(),
	}
}

func (d *Dashboard) Close() {
	d.search.Close()
}

// topCourses returns courses[offset:offset+size], clamped to the list
func topCourses(courses []models.Course, offset, size int) []models.Course {
	if offset >= len(courses) {
		return []models.Course{}
	}
	end := offset + size
	if end > len(courses) {
		end = len(courses)
	}
	return append([]models.Course(nil), courses[offset:end]...)
}
