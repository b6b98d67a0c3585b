package repositories

import "github.com/yigit/tourofcourses/internal/app/models"

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository *CourseRepository
}

// NewRepositories initializes all repositories with the given initial courses
func NewRepositories(initialCourses []models.Course) *Repositories {
	return &Repositories{
		CourseRepository: NewCourseRepository(initialCourses),
	}
}
