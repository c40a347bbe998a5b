package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/guidely/guidely-backend/internal/config"
	"github.com/guidely/guidely-backend/internal/handler"
	"github.com/guidely/guidely-backend/internal/middleware"
	"github.com/guidely/guidely-backend/internal/response"
	"github.com/guidely/guidely-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Follow    *handler.FollowHandler
	Student   *handler.StudentHandler
	Class     *handler.ClassHandler
	Guide     *handler.GuideHandler
	Report    *handler.ReportHandler
	Scoring   *handler.ScoringHandler
	Upload    *handler.UploadHandler
	Dashboard *handler.DashboardHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list; otherwise
	// allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded attachments statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth group: login and register are public, the rest need a token.
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// The scoring endpoint fronts a paid completion service; keep it behind
	// a tighter per-IP budget than the rest of the API.
	scoringLimiter := middleware.NewRateLimiter(20, time.Minute)

	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		// Student-side routes.
		studentOnly := api.Group("")
		studentOnly.Use(middleware.RequireStudent())
		{
			studentOnly.GET("/follows", handlers.Follow.List)
			studentOnly.POST("/follows/:teacher_id", handlers.Follow.Follow)
			studentOnly.DELETE("/follows/:teacher_id", handlers.Follow.Unfollow)

			studentOnly.GET("/feed", handlers.Guide.Feed)
			studentOnly.GET("/my-grade-reports", handlers.Report.MyGradeReports)
		}

		// Teacher-side routes.
		teacherOnly := api.Group("")
		teacherOnly.Use(middleware.RequireTeacher())
		{
			teacherOnly.GET("/students/search", handlers.Student.Search)
			teacherOnly.GET("/students/suggest", handlers.Student.Suggest)

			teacherOnly.GET("/student-classes", handlers.Class.List)
			teacherOnly.POST("/student-classes", handlers.Class.Assign)
			teacherOnly.DELETE("/student-classes/:id", handlers.Class.Remove)

			teacherOnly.POST("/study-guides", handlers.Guide.Create)
			teacherOnly.GET("/study-guides", handlers.Guide.ListOwned)
			teacherOnly.POST("/study-guides/:id/publish", handlers.Guide.Publish)
			teacherOnly.POST("/study-guides/:id/share", handlers.Guide.Share)
			teacherOnly.DELETE("/study-guides/:id", handlers.Guide.Delete)

			teacherOnly.POST("/grade-reports", handlers.Report.Create)
			teacherOnly.GET("/grade-reports/student/:student_id", handlers.Report.ListForStudent)
			teacherOnly.DELETE("/grading-results/:id", handlers.Report.Delete)

			teacherOnly.POST("/score-short-answer", scoringLimiter.Middleware(), handlers.Scoring.ScoreShortAnswer)
			teacherOnly.POST("/uploads", handlers.Upload.Upload)

			teacherOnly.GET("/dashboard", handlers.Dashboard.GetDashboard)
		}

		// Shared routes: access is resolved inside the service.
		api.GET("/follows/:teacher_id", handlers.Follow.GetStatus)
		api.GET("/study-guides/:id", handlers.Guide.Get)
		api.GET("/study-guides/:id/payload", handlers.Guide.GetPayload)
	}

	return router
}
