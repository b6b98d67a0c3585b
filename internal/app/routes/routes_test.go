package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/tourofcourses/internal/app/controllers"
	"github.com/yigit/tourofcourses/internal/app/models"
	"github.com/yigit/tourofcourses/internal/app/models/dto"
	"github.com/yigit/tourofcourses/internal/app/repositories"
	"github.com/yigit/tourofcourses/internal/app/services"
	"github.com/yigit/tourofcourses/internal/seed"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repositories.NewCourseRepository(seed.Courses())
	ctrl := controllers.NewCourseController(services.NewCourseService(repo, zerolog.Nop()))

	router := gin.New()
	SetupRouter(router, ctrl)
	return router
}

func do(router http.Handler, method, path string, body ...any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if len(body) > 0 {
		switch b := body[0].(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCoursesAPI_List(t *testing.T) {
	router := newRouter(t)

	rec := do(router, http.MethodGet, "/api/courses")
	require.Equal(t, http.StatusOK, rec.Code)

	courses := decode[[]models.Course](t, rec)
	assert.Len(t, courses, 10)
	assert.Equal(t, models.Course{ID: 11, Name: "Mr. Nice"}, courses[0])
}

func TestCoursesAPI_Search(t *testing.T) {
	router := newRouter(t)

	for _, path := range []string{"/api/courses?name=mag", "/api/courses/?name=mag"} {
		rec := do(router, http.MethodGet, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		courses := decode[[]models.Course](t, rec)
		assert.Equal(t, []models.Course{{ID: 15, Name: "Magneta"}, {ID: 19, Name: "Magma"}}, courses, path)
	}

	rec := do(router, http.MethodGet, "/api/courses?name=nothing-like-this")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCoursesAPI_GetByID(t *testing.T) {
	router := newRouter(t)

	rec := do(router, http.MethodGet, "/api/courses/15")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":15,"name":"Magneta"}`, rec.Body.String())

	rec = do(router, http.MethodGet, "/api/courses/99")
	require.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decode[dto.ErrorResponse](t, rec)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, errResp.Error.Code)
	assert.Equal(t, dto.ErrorSeverityError, errResp.Error.Severity)

	rec = do(router, http.MethodGet, "/api/courses/abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errResp = decode[dto.ErrorResponse](t, rec)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errResp.Error.Code)
}

func TestCoursesAPI_Create(t *testing.T) {
	router := newRouter(t)

	rec := do(router, http.MethodPost, "/api/courses", dto.CreateCourseRequest{Name: "Alice"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":21,"name":"Alice"}`, rec.Body.String())

	rec = do(router, http.MethodPost, "/api/courses", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCoursesAPI_Update(t *testing.T) {
	router := newRouter(t)

	rec := do(router, http.MethodPut, "/api/courses/15", models.Course{ID: 15, Name: "MagnetaX"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":15,"name":"MagnetaX"}`, rec.Body.String())

	rec = do(router, http.MethodGet, "/api/courses/15")
	assert.JSONEq(t, `{"id":15,"name":"MagnetaX"}`, rec.Body.String())

	t.Run("id in body only", func(t *testing.T) {
		rec := do(router, http.MethodPut, "/api/courses", models.Course{ID: 16, Name: "RubberMan2"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":16,"name":"RubberMan2"}`, rec.Body.String())
	})

	t.Run("mismatched ids", func(t *testing.T) {
		rec := do(router, http.MethodPut, "/api/courses/15", models.Course{ID: 16, Name: "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := do(router, http.MethodPut, "/api/courses/99", models.Course{Name: "x"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCoursesAPI_Delete(t *testing.T) {
	router := newRouter(t)

	rec := do(router, http.MethodDelete, "/api/courses/15")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodGet, "/api/courses/15")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodDelete, "/api/courses/15")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9, decode[dto.HealthResponse](t, rec).Courses)
}
