package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/tourofcourses/internal/app/controllers"
	"github.com/yigit/tourofcourses/internal/app/models"
	"github.com/yigit/tourofcourses/internal/app/repositories"
	"github.com/yigit/tourofcourses/internal/app/routes"
	"github.com/yigit/tourofcourses/internal/app/services"
	"github.com/yigit/tourofcourses/internal/pkg/apperrors"
	"github.com/yigit/tourofcourses/internal/seed"
)

// newBackend starts the real API over the seeded store
func newBackend(t *testing.T) (*HTTPCourseService, *atomic.Int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repositories.NewCourseRepository(seed.Courses())
	router := gin.New()
	var hits atomic.Int64
	router.Use(func(c *gin.Context) { hits.Add(1); c.Next() })
	routes.SetupRouter(router, controllers.NewCourseController(services.NewCourseService(repo, zerolog.Nop())))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	svc := NewHTTPCourseService(srv.URL+"/api/", 2*time.Second, zerolog.Nop())
	t.Cleanup(func() { _ = svc.Close() })
	return svc, &hits
}

func TestHTTPCourseService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBackend(t)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 10)

	magneta, err := svc.Get(ctx, 15)
	require.NoError(t, err)
	assert.Equal(t, models.Course{ID: 15, Name: "Magneta"}, magneta)

	created, err := svc.Create(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, models.Course{ID: 21, Name: "Alice"}, created)

	updated, err := svc.Update(ctx, models.Course{ID: 15, Name: "MagnetaX"})
	require.NoError(t, err)
	assert.Equal(t, "MagnetaX", updated.Name)

	require.NoError(t, svc.Delete(ctx, 15))
	_, err = svc.Get(ctx, 15)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.True(t, IsNotFound(err))

	all, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestHTTPCourseService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBackend(t)

	_, err := svc.Update(ctx, models.Course{ID: 404, Name: "x"})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 404), apperrors.ErrCourseNotFound)
}

func TestHTTPCourseService_Search(t *testing.T) {
	ctx := context.Background()
	svc, hits := newBackend(t)

	got, err := svc.Search(ctx, "Ma")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = svc.Search(ctx, "Magn")
	require.NoError(t, err)
	assert.Equal(t, []models.Course{{ID: 15, Name: "Magneta"}}, got)

	got, err = svc.Search(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	before := hits.Load()
	got, err = svc.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, before, hits.Load(), "blank term must not reach the backend")
}

func TestHTTPCourseService_TransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewHTTPCourseService(srv.URL, time.Second, zerolog.Nop())
	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrTransport)

	srv.Close()
	_, err = svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestHTTPCourseService_Canceled(t *testing.T) {
	svc, _ := newBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingSink struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingSink) Add(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

func TestWithMessages(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBackend(t)
	sink := &recordingSink{}
	wrapped := WithMessages(svc, sink)

	_, _ = wrapped.List(ctx)
	_, _ = wrapped.Get(ctx, 15)
	_, _ = wrapped.Create(ctx, "Alice")
	_, _ = wrapped.Get(ctx, 99)

	require.Len(t, sink.msgs, 4)
	assert.Equal(t, "CourseService: fetched courses", sink.msgs[0])
	assert.Equal(t, "CourseService: fetched course id=15", sink.msgs[1])
	assert.Equal(t, "CourseService: added course w/ id=21", sink.msgs[2])
	assert.Contains(t, sink.msgs[3], "CourseService: getCourse id=99 failed")
}

func TestWithMessages_CanceledSearchIsSilent(t *testing.T) {
	svc, _ := newBackend(t)
	sink := &recordingSink{}
	wrapped := WithMessages(svc, sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := wrapped.Search(ctx, "Ma")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.msgs)

	_, err = wrapped.Search(context.Background(), "Ma")
	require.NoError(t, err)
	assert.Equal(t, []string{`CourseService: found courses matching "Ma"`}, sink.msgs)
}
