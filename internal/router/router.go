package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nokhba/academy-backend/internal/config"
	"github.com/nokhba/academy-backend/internal/handler"
	"github.com/nokhba/academy-backend/internal/middleware"
	"github.com/nokhba/academy-backend/internal/model"
	"github.com/nokhba/academy-backend/internal/response"
	"github.com/nokhba/academy-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	StudentPortal *handler.StudentPortalHandler
	Quiz          *handler.QuizHandler
	Chat          *handler.ChatHandler
	Admin         *handler.AdminHandler
	WS            *handler.WSHandler
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiters for the endpoints where abuse is cheapest.
	authLimiter := middleware.NewRateLimiter(30, time.Minute)
	chatLimiter := middleware.NewRateLimiter(20, time.Minute)
	redeemLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/signup", handlers.Auth.StudentSignup)
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/lessons", handlers.StudentPortal.ListLessons)

		studentAPI.POST("/lessons/:lesson_id/quiz/start", handlers.Quiz.StartQuiz)
		studentAPI.GET("/lessons/:lesson_id/quiz/state", handlers.Quiz.GetQuizState)
		studentAPI.PUT("/lessons/:lesson_id/quiz/answers", handlers.Quiz.SelectAnswer)
		studentAPI.POST("/lessons/:lesson_id/quiz/submit", handlers.Quiz.SubmitQuiz)
		studentAPI.POST("/lessons/:lesson_id/quiz/abandon", handlers.Quiz.AbandonQuiz)

		studentAPI.GET("/wallet", handlers.StudentPortal.GetWallet)
		studentAPI.POST("/wallet/redeem", redeemLimiter.Middleware(), handlers.StudentPortal.RedeemCode)

		studentAPI.GET("/chat", handlers.Chat.GetHistory)
		studentAPI.POST("/chat", chatLimiter.Middleware(), handlers.Chat.SendMessage)
		studentAPI.DELETE("/chat", handlers.Chat.ClearHistory)
	}

	// ─── 3. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireStudentWSAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		ws.GET("/student/events", handlers.WS.EventStream)
	}

	// ─── 4. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Lesson authoring
		adminAPI.GET("/lessons",
			middleware.RequirePermission(model.PermissionLessonsWrite),
			handlers.Admin.ListLessons,
		)
		adminAPI.POST("/lessons",
			middleware.RequirePermission(model.PermissionLessonsWrite),
			handlers.Admin.CreateLesson,
		)
		adminAPI.DELETE("/lessons/:lesson_id",
			middleware.RequirePermission(model.PermissionLessonsWrite),
			handlers.Admin.DeleteLesson,
		)

		// Recharge codes
		adminAPI.GET("/codes",
			middleware.RequirePermission(model.PermissionCodesWrite),
			handlers.Admin.ListCodes,
		)
		adminAPI.POST("/codes",
			middleware.RequirePermission(model.PermissionCodesWrite),
			handlers.Admin.MintCode,
		)

		// Student roster
		adminAPI.GET("/students",
			middleware.RequirePermission(model.PermissionStudentsRead),
			handlers.Admin.ListStudents,
		)
	}

	return router
}
