package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/jobnest-backend/config"
	"github.com/jobnest/jobnest-backend/internal/app/controller"
	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/middleware"
	"github.com/jobnest/jobnest-backend/internal/ratelimit"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	authController     *controller.AuthController
	adminController    *controller.AdminController
	documentController *controller.DocumentController
	authMiddleware     *middleware.AuthMiddleware
	limiter            ratelimit.Limiter
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	adminController *controller.AdminController,
	documentController *controller.DocumentController,
	authMiddleware *middleware.AuthMiddleware,
	limiter ratelimit.Limiter,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		adminController:    adminController,
		documentController: documentController,
		authMiddleware:     authMiddleware,
		limiter:            limiter,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	// the rate limiter keys on ClientIP, which only honours X-Forwarded-For from these peers
	if err := router.SetTrustedProxies(r.config.Server.TrustedProxies); err != nil {
		logger.Error("Invalid trusted proxies, trusting none", err, map[string]interface{}{
			"trusted_proxies": r.config.Server.TrustedProxies,
		})
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "JobNest API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// every API route is rate limited per client IP
	api := router.Group("/api", middleware.RateLimitMiddleware(r.limiter))

	v1 := api.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/verify-reset-token", r.authController.VerifyResetToken)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
		}

		// the guard covers reads and writes alike
		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(model.RoleAdmin, model.RoleSuperadmin),
		)
		{
			admin.GET("/users", r.adminController.ListUsers)
			admin.GET("/employers/:id/documents", r.adminController.ListEmployerDocuments)

			superadmin := admin.Group("", r.authMiddleware.RequireRole(model.RoleSuperadmin))
			{
				superadmin.PUT("/users/:id/role", r.adminController.UpdateRole)
				superadmin.POST("/users/:id/deactivate", r.adminController.DeactivateUser)
			}
		}

		employer := v1.Group("/employer",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(model.RoleEmployer),
		)
		{
			employer.GET("/documents", r.documentController.List)
			employer.POST("/documents", r.documentController.CreateUpload)
			employer.DELETE("/documents/:id", r.documentController.Delete)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
