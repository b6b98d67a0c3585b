package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/yigit/tourofcourses/internal/app/models"
	"github.com/yigit/tourofcourses/internal/app/models/dto"
	"github.com/yigit/tourofcourses/internal/pkg/apperrors"
)

// CourseService is the views' gateway to course data. Every call reaches the
// backend over HTTP; callers run it off their event loop.
type CourseService interface {
	List(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id int64) (models.Course, error)
	Create(ctx context.Context, name string) (models.Course, error)
	Update(ctx context.Context, course models.Course) (models.Course, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]models.Course, error)
}

// HTTPCourseService talks to the JSON API with resty
type HTTPCourseService struct {
	http   *resty.Client
	logger zerolog.Logger
}

// NewHTTPCourseService creates a client for the API mounted at baseURL (e.g. http://host/api)
func NewHTTPCourseService(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPCourseService {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &HTTPCourseService{
		http:   c,
		logger: logger,
	}
}

// Close releases idle connections
func (s *HTTPCourseService) Close() error {
	return s.http.Close()
}

// List fetches every course
func (s *HTTPCourseService) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	res, err := s.http.R().
		SetContext(ctx).
		SetResult(&courses).
		Get("/courses")
	if err := s.check(ctx, res, err, "list courses"); err != nil {
		return nil, err
	}
	return courses, nil
}

// Get fetches one course by id
func (s *HTTPCourseService) Get(ctx context.Context, id int64) (models.Course, error) {
	var course models.Course
	res, err := s.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetResult(&course).
		Get("/courses/{id}")
	if err := s.check(ctx, res, err, fmt.Sprintf("get course id=%d", id)); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// Create posts a new course and returns the stored entity
func (s *HTTPCourseService) Create(ctx context.Context, name string) (models.Course, error) {
	var course models.Course
	res, err := s.http.R().
		SetContext(ctx).
		SetBody(dto.CreateCourseRequest{Name: name}).
		SetResult(&course).
		Post("/courses")
	if err := s.check(ctx, res, err, "create course"); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// Update replaces a course's name
func (s *HTTPCourseService) Update(ctx context.Context, course models.Course) (models.Course, error) {
	var updated models.Course
	res, err := s.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(course.ID, 10)).
		SetBody(dto.UpdateCourseRequest{ID: course.ID, Name: course.Name}).
		SetResult(&updated).
		Put("/courses/{id}")
	if err := s.check(ctx, res, err, fmt.Sprintf("update course id=%d", course.ID)); err != nil {
		return models.Course{}, err
	}
	return updated, nil
}

// Delete removes a course
func (s *HTTPCourseService) Delete(ctx context.Context, id int64) error {
	res, err := s.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Delete("/courses/{id}")
	return s.check(ctx, res, err, fmt.Sprintf("delete course id=%d", id))
}

// Search returns courses whose name contains term. A blank term yields an
// empty result without a round trip.
func (s *HTTPCourseService) Search(ctx context.Context, term string) ([]models.Course, error) {
	if strings.TrimSpace(term) == "" {
		return []models.Course{}, nil
	}

	var courses []models.Course
	res, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("name", term).
		SetResult(&courses).
		Get("/courses")
	if err := s.check(ctx, res, err, fmt.Sprintf("search courses term=%q", term)); err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// check maps a resty outcome onto the apperrors taxonomy
func (s *HTTPCourseService) check(ctx context.Context, res *resty.Response, err error, op string) error {
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		s.logger.Warn().Err(err).Str("op", op).Msg("Course API unreachable")
		return fmt.Errorf("%s: %w: %v", op, apperrors.ErrTransport, err)
	}

	switch code := res.StatusCode(); {
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, apperrors.ErrCourseNotFound)
	case code >= 200 && code < 300:
		return nil
	default:
		s.logger.Warn().Int("status", code).Str("op", op).Msg("Course API returned an error status")
		return fmt.Errorf("%s: %w: status %d", op, apperrors.ErrTransport, code)
	}
}

// IsNotFound reports whether err means the course does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrCourseNotFound)
}
