package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/tourofcourses/internal/app/models"
)

// MessageSink receives one human-readable line per data-service call
type MessageSink interface {
	Add(message string)
}

// WithMessages decorates a CourseService so every call reports to sink.
// Add may be called from any goroutine.
func WithMessages(next CourseService, sink MessageSink) CourseService {
	return &messagingService{next: next, sink: sink}
}

type messagingService struct {
	next CourseService
	sink MessageSink
}

func (m *messagingService) log(err error, format string, args ...any) {
	msg := "CourseService: " + fmt.Sprintf(format, args...)
	if err != nil {
		msg += " failed: " + err.Error()
	}
	m.sink.Add(msg)
}

func (m *messagingService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := m.next.List(ctx)
	if err != nil {
		m.log(err, "getCourses")
	} else {
		m.log(nil, "fetched courses")
	}
	return courses, err
}

func (m *messagingService) Get(ctx context.Context, id int64) (models.Course, error) {
	course, err := m.next.Get(ctx, id)
	if err != nil {
		m.log(err, "getCourse id=%d", id)
	} else {
		m.log(nil, "fetched course id=%d", id)
	}
	return course, err
}

func (m *messagingService) Create(ctx context.Context, name string) (models.Course, error) {
	course, err := m.next.Create(ctx, name)
	if err != nil {
		m.log(err, "addCourse")
	} else {
		m.log(nil, "added course w/ id=%d", course.ID)
	}
	return course, err
}

func (m *messagingService) Update(ctx context.Context, course models.Course) (models.Course, error) {
	updated, err := m.next.Update(ctx, course)
	if err != nil {
		m.log(err, "updateCourse")
	} else {
		m.log(nil, "updated course id=%d", course.ID)
	}
	return updated, err
}

func (m *messagingService) Delete(ctx context.Context, id int64) error {
	err := m.next.Delete(ctx, id)
	if err != nil {
		m.log(err, "deleteCourse")
	} else {
		m.log(nil, "deleted course id=%d", id)
	}
	return err
}

func (m *messagingService) Search(ctx context.Context, term string) ([]models.Course, error) {
	courses, err := m.next.Search(ctx, term)
	switch {
	case errors.Is(err, context.Canceled):
		// superseded by a newer term
	case err != nil:
		m.log(err, "searchCourses")
	case len(courses) > 0:
		m.log(nil, "found courses matching %q", term)
	default:
		m.log(nil, "no courses matching %q", term)
	}
	return courses, err
}
