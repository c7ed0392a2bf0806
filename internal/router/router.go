package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/edufin/finboard-backend/internal/config"
	"github.com/edufin/finboard-backend/internal/handler"
	"github.com/edufin/finboard-backend/internal/middleware"
	"github.com/edufin/finboard-backend/internal/response"
	"github.com/edufin/finboard-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Meta      *handler.MetaHandler
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

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally for log correlation.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	// Rate limiter for the login route.
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/current-user", middleware.RequireAuth(authService), handlers.Auth.CurrentUser)
	}

	// ─── 2. Meta (dictionary) ──────────────────────────────────────────
	router.GET("/api/meta", middleware.RequireAuth(authService), handlers.Meta.GetMeta)

	// ─── 3. Dashboard Group (JWT + visibility scoping) ─────────────────
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(middleware.RequireAuth(authService))
	{
		dashboard.GET("/summary", handlers.Dashboard.GetSummary)
		dashboard.GET("/class-type", handlers.Dashboard.GetClassType)
		dashboard.GET("/monthly", handlers.Dashboard.GetMonthlyTrend)
		dashboard.GET("/campus-income", handlers.Dashboard.GetCampusIncome)
		dashboard.GET("/course-type-income", handlers.Dashboard.GetCourseTypeIncome)
		dashboard.GET("/teacher-rank", handlers.Dashboard.GetTeacherRank)
		dashboard.GET("/class-rank", handlers.Dashboard.GetClassRank)
		dashboard.GET("/payment-details", handlers.Dashboard.GetPaymentDetails)
		dashboard.GET("/refund-details", handlers.Dashboard.GetRefundDetails)
		dashboard.GET("/pivot", handlers.Dashboard.GetPivot)
	}

	return router
}
