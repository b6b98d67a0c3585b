package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/tourofcourses/internal/app/models"
	"github.com/yigit/tourofcourses/internal/app/repositories"
	"github.com/yigit/tourofcourses/internal/pkg/apperrors"
	"github.com/yigit/tourofcourses/internal/seed"
)

func newService() CourseService {
	return NewCourseService(repositories.NewCourseRepository(seed.Courses()), zerolog.Nop())
}

func TestCourseService_GetReturnsLastWrite(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.CreateCourse(ctx, "Alice")
	require.NoError(t, err)
	got, err := svc.GetCourseByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.UpdateCourse(ctx, models.Course{ID: created.ID, Name: "Alicia"})
	require.NoError(t, err)
	got, err = svc.GetCourseByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
}

func TestCourseService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.GetCourseByID(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.ErrorContains(t, err, "id=404")

	_, err = svc.UpdateCourse(ctx, models.Course{ID: 404, Name: "x"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	assert.ErrorIs(t, svc.DeleteCourse(ctx, 404), apperrors.ErrCourseNotFound)
	assert.Equal(t, 10, svc.CountCourses())
}

func TestCourseService_InputsAcceptedAsIs(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.CreateCourse(ctx, "  padded  ")
	require.NoError(t, err)
	assert.Equal(t, "  padded  ", created.Name)

	all, err := svc.SearchCourses(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 11)
}
