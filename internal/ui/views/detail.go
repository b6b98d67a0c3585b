package views

import (
	"context"
	"strings"

	"github.com/yigit/tourofcourses/internal/app/models"
)

// Detail edits a single course
type Detail struct {
	host   Host
	id     int64
	state  State
	course *models.Course
	saving bool
	closed bool
}

// DetailModel is rendered by the app-course-detail template. Course is nil
// until the fetch succeeds.
type DetailModel struct {
	State  State
	Course *models.Course
}

// NewDetail creates the detail view for course id
func NewDetail(h Host, id int64) *Detail {
	return &Detail{host: h, id: id}
}

func (d *Detail) Tag() string { return "app-course-detail" }

// Init fetches the course
func (d *Detail) Init() {
	d.state = StateLoading
	svc := d.host.Service()
	run(d.host, d.host.Context(), func(ctx context.Context) (models.Course, error) {
		return svc.Get(ctx, d.id)
	}, func(course models.Course, err error) {
		if err != nil {
			d.host.Logger().Error().Err(err).Int64("courseID", d.id).Msg("Failed to load course")
			d.state = StateFailed
			return
		}
		d.course = &course
		d.state = StateReady
	})
}

func (d *Detail) Handle(ev Event) {
	switch {
	case ev.Kind == EventInput && ev.Action == "name":
		d.SetName(ev.Value)
	case ev.Kind == EventClick && ev.Action == "save":
		d.Save()
	case ev.Kind == EventClick && ev.Action == "back":
		d.host.Back()
	}
}

// SetName updates the local copy; the heading follows it on the next render
func (d *Detail) SetName(name string) {
	if d.course == nil {
		return
	}
	d.course.Name = name
	d.state = StateEditing
}

// Save commits the trimmed name and navigates back once the backend confirms.
// A blank name is never sent.
func (d *Detail) Save() {
	if d.course == nil || d.saving {
		return
	}
	name := strings.TrimSpace(d.course.Name)
	if name == "" {
		return
	}
	d.course.Name = name
	course := *d.course
	d.saving = true

	svc := d.host.Service()
	run(d.host, d.host.Context(), func(ctx context.Context) (models.Course, error) {
		return svc.Update(ctx, course)
	}, func(_ models.Course, err error) {
		d.saving = false
		if err != nil {
			d.host.Logger().Error().Err(err).Int64("courseID", course.ID).Msg("Failed to save course")
			return
		}
		// The user may have navigated away while the update was in flight.
		if !d.closed {
			d.host.Back()
		}
	})
}

func (d *Detail) Model() any {
	var course *models.Course
	if d.course != nil {
		c := *d.course
		course = &c
	}
	return DetailModel{State: d.state, Course: course}
}

func (d *Detail) Close() {
	d.closed = true
}
