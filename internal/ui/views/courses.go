package views

import (
	"context"
	"strconv"
	"strings"

	"github.com/yigit/tourofcourses/internal/app/models"
	"github.com/yigit/tourofcourses/internal/pkg/async"
)

// Courses lists every course with add and delete controls
type Courses struct {
	host    Host
	state   State
	courses []models.Course
	newName string
}

// CoursesModel is rendered by the app-courses template
type CoursesModel struct {
	State   State
	Courses []models.Course
	NewName string
}

// NewCourses creates the list view
func NewCourses(h Host) *Courses {
	return &Courses{host: h}
}

func (c *Courses) Tag() string { return "app-courses" }

// Init fetches the course list
func (c *Courses) Init() {
	c.state = StateLoading
	svc := c.host.Service()
	run(c.host, c.host.Context(), svc.List, func(courses []models.Course, err error) {
		if err != nil {
			c.host.Logger().Error().Err(err).Msg("Courses view failed to load courses")
			c.state = StateFailed
			return
		}
		c.courses = courses
		c.state = StateReady
	})
}

func (c *Courses) Handle(ev Event) {
	switch {
	case ev.Kind == EventInput && ev.Action == "new-name":
		c.newName = ev.Value
	case ev.Kind == EventClick && ev.Action == "add":
		c.Add(c.newName)
	case ev.Kind == EventClick && ev.Action == "delete":
		id, err := strconv.ParseInt(ev.ID, 10, 64)
		if err != nil {
			c.host.Logger().Warn().Str("id", ev.ID).Msg("Ignoring delete with malformed id")
			return
		}
		c.Delete(id)
	}
}

// Add creates a course from the trimmed name and appends it once stored.
// Blank names are ignored.
func (c *Courses) Add(name string) {
	name = strings.TrimSpace(name)
	c.newName = ""
	if name == "" {
		return
	}

	svc := c.host.Service()
	run(c.host, c.host.Context(), func(ctx context.Context) (models.Course, error) {
		return svc.Create(ctx, name)
	}, func(course models.Course, err error) {
		if err != nil {
			c.host.Logger().Error().Err(err).Str("name", name).Msg("Failed to add course")
			return
		}
		c.courses = append(c.courses, course)
	})
}

// Delete drops the row right away and tells the backend afterwards. The
// backend outcome is only logged.
func (c *Courses) Delete(id int64) {
	kept := c.courses[:0:0]
	for _, course := range c.courses {
		if course.ID != id {
			kept = append(kept, course)
		}
	}
	c.courses = kept

	svc := c.host.Service()
	done := c.host.Track()
	async.Go(c.host.Context(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, svc.Delete(ctx, id)
	}).Then(c.host.Dispatch, func(_ struct{}, err error) {
		defer done()
		if err != nil {
			c.host.Logger().Error().Err(err).Int64("courseID", id).Msg("Failed to delete course")
		}
	})
}

func (c *Courses) Model() any {
	return CoursesModel{
		State:   c.state,
		Courses: c.courses,
		NewName: c.newName,
	}
}

func (c *Courses) Close() {}
