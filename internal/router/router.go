package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rapex-ph/onboarding-backend/config"
	"github.com/rapex-ph/onboarding-backend/internal/app/controller"
	"github.com/rapex-ph/onboarding-backend/internal/middleware"
)

type Router struct {
	registrationController *controller.RegistrationController
	catalogController      *controller.CatalogController
	merchantController     *controller.MerchantController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	registrationController *controller.RegistrationController,
	catalogController *controller.CatalogController,
	merchantController *controller.MerchantController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		registrationController: registrationController,
		catalogController:      catalogController,
		merchantController:     merchantController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "RAPEX Onboarding API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		registration := v1.Group("/registration")
		{
			registration.POST("/step", r.registrationController.SaveStep)
			registration.POST("/documents", r.registrationController.UploadDocuments)
			registration.POST("/otp", r.registrationController.RequestOTP)
			registration.POST("/complete", r.registrationController.Complete)
			registration.GET("/status", r.registrationController.Status)
			registration.POST("/check-username", r.registrationController.CheckUsername)
			registration.POST("/check-email", r.registrationController.CheckEmail)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/categories", r.catalogController.ListCategories)
			catalog.GET("/types", r.catalogController.ListTypes)
			catalog.GET("/document-requirements", r.catalogController.DocumentRequirements)
		}

		merchant := v1.Group("/merchant")
		merchant.Use(r.authMiddleware.Authenticate())
		{
			merchant.GET("/me", r.merchantController.GetProfile)
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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
