package bootstrap

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/tourofcourses/internal/app/controllers"
	appRepos "github.com/yigit/tourofcourses/internal/app/repositories"
	appRoutes "github.com/yigit/tourofcourses/internal/app/routes"
	appServices "github.com/yigit/tourofcourses/internal/app/services"
	"github.com/yigit/tourofcourses/internal/client"
	"github.com/yigit/tourofcourses/internal/config"
	appMiddleware "github.com/yigit/tourofcourses/internal/middleware"
	"github.com/yigit/tourofcourses/internal/pkg/logger"
	"github.com/yigit/tourofcourses/internal/pkg/websocket"
	"github.com/yigit/tourofcourses/internal/seed"
	"github.com/yigit/tourofcourses/internal/ui/live"
	"github.com/yigit/tourofcourses/internal/ui/views"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos            *appRepos.Repositories
	CourseService    appServices.CourseService // Interface type
	CourseController *appControllers.CourseController
	CourseClient     *client.HTTPCourseService
	Renderer         *views.Renderer
	Hub              *websocket.Hub
	Sessions         *live.Manager
	LiveHandler      *websocket.Handler
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := SetupLogger(cfg)
	return cfg, lgr, nil
}

// SetupLogger applies the logging section and returns the global logger
func SetupLogger(cfg *config.Config) zerolog.Logger {
	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return lgr
}

// BuildDependencies initializes the store, the API layer and the live UI.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(seed.DefaultData(cfg.Seed.Enabled, lgr))
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, lgr.With().Str("component", "course-service").Logger())
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)

	deps.CourseClient = client.NewHTTPCourseService(cfg.APIBaseURL(), cfg.API.Timeout, lgr.With().Str("component", "course-client").Logger())

	renderer, err := views.NewRenderer()
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to load view templates")
		return nil, err
	}
	deps.Renderer = renderer

	deps.Sessions = live.NewManager(deps.CourseClient, deps.Renderer, views.Options{
		SearchDebounce:  cfg.UI.SearchDebounce,
		DashboardOffset: cfg.UI.DashboardOffset,
		DashboardSize:   cfg.UI.DashboardSize,
	}, lgr.With().Str("component", "live").Logger())

	wsLogger := lgr.With().Str("component", "websocket").Logger()
	deps.Hub = websocket.NewHub(wsLogger)
	deps.LiveHandler = websocket.NewHandler(deps.Hub, deps.Sessions.Open, wsLogger)

	lgr.Info().Str("apiBaseURL", cfg.APIBaseURL()).Msg("Dependencies built")
	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("ginMode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestID(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.CourseController)
	live.SetupRouter(router, deps.Sessions, deps.LiveHandler, appRoutes.APIPrefix)

	return router
}

// WithCORS wraps the router with the configured cross-origin policy
func WithCORS(cfg *config.Config, router http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", appMiddleware.RequestIDHeader},
		ExposedHeaders: []string{appMiddleware.RequestIDHeader},
	}).Handler(router)
}
