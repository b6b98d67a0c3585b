package live

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/tourofcourses/internal/app/models/dto"
	"github.com/yigit/tourofcourses/internal/pkg/websocket"
	"github.com/yigit/tourofcourses/internal/ui/assets"
)

// SetupRouter mounts the UI pages, the live socket and the static assets.
// Unmatched paths outside /api get the not-found page.
func SetupRouter(router *gin.Engine, m *Manager, ws *websocket.Handler, apiPrefix string) {
	router.GET("/", m.Page)
	router.GET("/dashboard", m.Page)
	router.GET("/courses", m.Page)
	router.GET("/detail/:id", m.Page)

	router.GET("/live", ws.HandleConnection)
	router.StaticFS("/assets", assets.FS())

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, apiPrefix+"/") {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "No such endpoint"),
			))
			return
		}
		m.Page(c)
	})
}
