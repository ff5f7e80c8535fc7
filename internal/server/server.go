// Package server contains the HTTP handlers for the dashboard API.
package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	_ "socialautomator/docs" // swagger docs
	"socialautomator/internal/auth"
	"socialautomator/internal/bootstrap"
	"socialautomator/internal/config"
	"socialautomator/internal/middleware"
	"socialautomator/internal/models"
	"socialautomator/internal/observability"
	"socialautomator/internal/repository"
	"socialautomator/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	runtime        *bootstrap.Runtime
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	limiter        *middleware.Limiter

	gate             *auth.Gate
	notifications    repository.NotificationRepository
	postService      *service.PostService
	analyticsService *service.AnalyticsService
	adminService     *service.AdminService
}

// NewServer creates a server over an initialized runtime.
func NewServer(rt *bootstrap.Runtime) *Server {
	return &Server{
		config:           rt.Config,
		runtime:          rt,
		db:               rt.DB,
		redis:            rt.Redis,
		promMiddleware:   middleware.InitMetrics("socialautomator-api"),
		limiter:          middleware.NewLimiter(rt.Redis, rt.Config.Env),
		gate:             rt.Gate,
		notifications:    rt.Notifications,
		postService:      rt.PostService,
		analyticsService: rt.AnalyticsService,
		adminService:     rt.AdminService,
	}
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "SocialAutomator API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			observability.GlobalLogger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses keep their headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Disposition, X-Trace-ID",
		AllowCredentials: s.config.AllowedOrigins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", s.limiter.Handler(10, 5*time.Minute, middleware.FailOpen, "login"), s.Login)
	authGroup.Post("/logout", s.AuthRequired(), s.Logout)
	authGroup.Get("/me", s.Me)

	protected := api.Group("", s.AuthRequired())

	posts := protected.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", s.CreatePost)
	// Specific routes before generic /:id
	posts.Get("/stats", s.GetPostStats)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	protected.Get("/notifications", s.GetNotifications)

	analytics := protected.Group("/analytics")
	analytics.Get("/overview", s.GetAnalyticsOverview)
	analytics.Get("/timeline", s.GetAnalyticsTimeline)
	analytics.Get("/platforms/:platform", s.GetPlatformAnalytics)

	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/content-insights", s.GetContentInsights)

	users := admin.Group("/users")
	users.Get("/", s.QueryUsers)
	table := users.Group("/table")
	table.Get("/", s.GetUserTable)
	table.Put("/search", s.SetUserTableSearch)
	table.Post("/sort", s.ToggleUserTableSort)
	table.Post("/select-all", s.SelectAllUsers)
	table.Post("/select/:id", s.ToggleUserSelection)
	table.Post("/bulk/:action", s.BulkUserAction)
	table.Get("/export", s.ExportUsers)
	users.Post("/:id/status", s.ChangeUserStatus)

	admin.Get("/settings", s.GetSettings)
	admin.Put("/settings", s.UpdateSettings)
	admin.Post("/settings/reset", s.ResetSettings)
	admin.Get("/activity", s.GetActivity)
}

// LivenessCheck handles GET /health/live
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports the optional database and Redis dependencies. A
// dependency that is not configured does not make the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "disabled"
	if s.db != nil {
		dbStatus = "healthy"
		sqlDB, err := s.db.DB()
		if err != nil {
			dbStatus = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
		}
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// bearerToken returns the token from an "Authorization: Bearer" header.
func bearerToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// setSession stores the resolved session in locals and the user context.
func setSession(c *fiber.Ctx, session *auth.Session) {
	c.Locals(localSession, session)
	c.Locals(middleware.LocalUserID, session.User.ID)
	c.SetUserContext(observability.WithUserID(c.UserContext(), session.User.ID))
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		session, err := s.gate.Resolve(c.UserContext(), token)
		if err != nil {
			return s.respondServiceError(c, err)
		}

		setSession(c, session)
		return c.Next()
	}
}

// AdminRequired rejects non-admin sessions with 403. It must follow AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !currentSession(c).IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	observability.GlobalLogger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server and releases the runtime.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			observability.GlobalLogger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}
	if s.runtime != nil {
		s.runtime.Close()
	}
	observability.GlobalLogger.Info("Server shutdown complete")
	return nil
}
