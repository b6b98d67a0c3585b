package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/tourofcourses/internal/app/models"
	"github.com/yigit/tourofcourses/internal/app/models/dto"
	"github.com/yigit/tourofcourses/internal/app/services"
	"github.com/yigit/tourofcourses/internal/middleware"
	"github.com/yigit/tourofcourses/internal/pkg/apperrors"
)

// CourseController serves the mock backend's course endpoints
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// GetCourses lists courses, or searches them when a name is given
// @Summary List or search courses
// @Description Returns all courses in source order. With the name query parameter, returns the courses whose name contains it, ignoring case.
// @Tags courses
// @Produce json
// @Param name query string false "Case-insensitive name fragment"
// @Success 200 {array} models.Course "Courses"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	var (
		courses []models.Course
		err     error
	)
	if term, ok := ctx.GetQuery("name"); ok {
		courses, err = c.courseService.SearchCourses(ctx, term)
	} else {
		courses, err = c.courseService.GetAllCourses(ctx)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, courses)
}

// GetCourseByID retrieves a course by ID
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID" Format(int64)
// @Success 200 {object} models.Course "Course"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	course, err := c.courseService.GetCourseByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, course)
}

// CreateCourse adds a course
// @Summary Create a course
// @Description Stores a new course under the next free id (max existing id plus one).
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course name"
// @Success 201 {object} models.Course "Created course"
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(ctx, "Invalid course data", err)
		return
	}

	course, err := c.courseService.CreateCourse(ctx, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, course)
}

// UpdateCourse overwrites a course's name
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID" Format(int64)
// @Param request body dto.UpdateCourseRequest true "Course"
// @Success 200 {object} models.Course "Updated course"
// @Failure 400 {object} dto.ErrorResponse "Malformed body or id"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(ctx, "Invalid course data", err)
		return
	}
	if req.ID != 0 && req.ID != id {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("course ID in body does not match path"))
		return
	}

	c.update(ctx, models.Course{ID: id, Name: req.Name})
}

// UpdateCourseFromBody overwrites a course identified by the id in the body
// @Summary Update a course (id in body)
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.UpdateCourseRequest true "Course"
// @Success 200 {object} models.Course "Updated course"
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses [put]
func (c *CourseController) UpdateCourseFromBody(ctx *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(ctx, "Invalid course data", err)
		return
	}
	if req.ID == 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("course ID is required"))
		return
	}

	c.update(ctx, models.Course{ID: req.ID, Name: req.Name})
}

func (c *CourseController) update(ctx *gin.Context, course models.Course) {
	updated, err := c.courseService.UpdateCourse(ctx, course)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// DeleteCourse removes a course
// @Summary Delete a course
// @Tags courses
// @Param id path int true "Course ID" Format(int64)
// @Success 204 "Course deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Health reports liveness and the store size
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (c *CourseController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Courses: c.courseService.CountCourses(),
	})
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.BadRequest(ctx, "Invalid course ID", nil)
		return 0, false
	}
	return id, true
}
