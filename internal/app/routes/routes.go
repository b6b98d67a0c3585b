package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/tourofcourses/internal/app/controllers"
)

// APIPrefix is where the mock backend is mounted
const APIPrefix = "/api"

// SetupRouter configures the JSON API routes
func SetupRouter(router *gin.Engine, courseController *controllers.CourseController) {
	api := router.Group(APIPrefix)

	api.GET("/health", courseController.Health)

	courses := api.Group("/courses")
	{
		courses.GET("", courseController.GetCourses)
		// The search form is GET /courses/?name=term.
		courses.GET("/", courseController.GetCourses)
		courses.GET("/:id", courseController.GetCourseByID)
		courses.POST("", courseController.CreateCourse)
		courses.PUT("", courseController.UpdateCourseFromBody)
		courses.PUT("/:id", courseController.UpdateCourse)
		courses.DELETE("/:id", courseController.DeleteCourse)
	}
}
