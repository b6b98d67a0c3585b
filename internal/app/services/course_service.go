package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/tourofcourses/internal/app/models"
	"github.com/yigit/tourofcourses/internal/app/repositories"
	"github.com/yigit/tourofcourses/internal/pkg/apperrors"
)

// CourseService defines the interface for the mock backend's course operations
type CourseService interface {
	GetAllCourses(ctx context.Context) ([]models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (models.Course, error)
	SearchCourses(ctx context.Context, term string) ([]models.Course, error)
	CreateCourse(ctx context.Context, name string) (models.Course, error)
	UpdateCourse(ctx context.Context, course models.Course) (models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	CountCourses() int
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo *repositories.CourseRepository
	logger     zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo *repositories.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// GetAllCourses retrieves all courses
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return models.Course{}, s.wrap(err, "get", id)
	}
	return course, nil
}

// SearchCourses returns the courses whose name contains term. Inputs are
// taken as-is, so an empty term matches every course.
func (s *courseServiceImpl) SearchCourses(ctx context.Context, term string) ([]models.Course, error) {
	courses, err := s.courseRepo.SearchByName(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}
	return courses, nil
}

// CreateCourse stores a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, name string) (models.Course, error) {
	course, err := s.courseRepo.Create(ctx, name)
	if err != nil {
		return models.Course{}, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Debug().Int64("courseID", course.ID).Str("name", course.Name).Msg("Course created")
	return course, nil
}

// UpdateCourse overwrites an existing course
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	updated, err := s.courseRepo.Update(ctx, course)
	if err != nil {
		return models.Course{}, s.wrap(err, "update", course.ID)
	}

	s.logger.Debug().Int64("courseID", updated.ID).Str("name", updated.Name).Msg("Course updated")
	return updated, nil
}

// DeleteCourse removes a course
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return s.wrap(err, "delete", id)
	}

	s.logger.Debug().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// CountCourses reports the store size
func (s *courseServiceImpl) CountCourses() int {
	return s.courseRepo.Count()
}

func (s *courseServiceImpl) wrap(err error, op string, id int64) error {
	if errors.Is(err, apperrors.ErrCourseNotFound) {
		return fmt.Errorf("%w: id=%d", apperrors.ErrCourseNotFound, id)
	}
	return fmt.Errorf("failed to %s course %d: %w", op, id, err)
}
