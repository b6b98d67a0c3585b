package repositories

import (
	"context"
	"strings"
	"sync"

	"github.com/yigit/tourofcourses/internal/app/models"
	"github.com/yigit/tourofcourses/internal/pkg/apperrors"
)

// firstCourseID is handed out when the store is empty.
const firstCourseID int64 = 11

// CourseRepository is the in-memory course store. It keeps insertion order,
// which is the "source order" the dashboard and list views rely on.
type CourseRepository struct {
	mu      sync.RWMutex
	courses []models.Course
}

// NewCourseRepository creates a repository holding a copy of the given courses
func NewCourseRepository(initial []models.Course) *CourseRepository {
	r := &CourseRepository{}
	r.Reset(initial)
	return r
}

// Reset replaces the whole collection
func (r *CourseRepository) Reset(courses []models.Course) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.courses = append(make([]models.Course, 0, len(courses)), courses...)
}

// GetAll returns every course in source order
func (r *CourseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return append(make([]models.Course, 0, len(r.courses)), r.courses...), nil
}

// Count returns the number of stored courses
func (r *CourseRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.courses)
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (models.Course, error) {
	if err := ctx.Err(); err != nil {
		return models.Course{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Course{}, apperrors.ErrCourseNotFound
	}
	return r.courses[i], nil
}

// Create stores a new course under max(id)+1 and returns it
func (r *CourseRepository) Create(ctx context.Context, name string) (models.Course, error) {
	if err := ctx.Err(); err != nil {
		return models.Course{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	course := models.Course{ID: r.nextID(), Name: name}
	r.courses = append(r.courses, course)
	return course, nil
}

// Update overwrites the name of an existing course
func (r *CourseRepository) Update(ctx context.Context, course models.Course) (models.Course, error) {
	if err := ctx.Err(); err != nil {
		return models.Course{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(course.ID)
	if i < 0 {
		return models.Course{}, apperrors.ErrCourseNotFound
	}
	r.courses[i].Name = course.Name
	return r.courses[i], nil
}

// Delete removes a course by ID
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return apperrors.ErrCourseNotFound
	}
	r.courses = append(r.courses[:i], r.courses[i+1:]...)
	return nil
}

// SearchByName returns the courses whose name contains term, ignoring case
func (r *CourseRepository) SearchByName(ctx context.Context, term string) ([]models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)

	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.Course, 0)
	for _, c := range r.courses {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

// indexOf must be called with the lock held
func (r *CourseRepository) indexOf(id int64) int {
	for i, c := range r.courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// nextID must be called with the write lock held
func (r *CourseRepository) nextID() int64 {
	if len(r.courses) == 0 {
		return firstCourseID
	}
	maxID := r.courses[0].ID
	for _, c := range r.courses[1:] {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	return maxID + 1
}
