package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ads_platform_backend/handlers"
	"ads_platform_backend/metrics"
	"ads_platform_backend/middleware"
	"ads_platform_backend/services"
	"ads_platform_backend/store"
)

// Dependencies are the shared components the routes are built from.
type Dependencies struct {
	Store         store.Storage
	Tokens        *middleware.TokenService
	Limiter       *middleware.RateLimiter
	Metrics       *metrics.Metrics
	Log           logrus.FieldLogger
	MaxImageBytes int64
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	// Initialize services
	images := services.NewImageService(deps.Store, deps.MaxImageBytes, deps.Metrics)
	ads := services.NewAdsService(deps.Store, images, deps.Metrics, deps.Log)
	comments := services.NewCommentService(deps.Store, deps.Metrics)
	users := services.NewUserService(deps.Store)
	auth := services.NewAuthService(deps.Store, deps.Tokens)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(auth, deps.Log)
	adsHandler := handlers.NewAdsHandler(ads, images, deps.Log)
	commentHandler := handlers.NewCommentHandler(comments, deps.Log)
	userHandler := handlers.NewUserHandler(users, deps.Log)
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Log)

	// Multipart bodies beyond this spill to temp files.
	r.MaxMultipartMemory = deps.MaxImageBytes + 1<<20

	r.GET("/health", healthHandler.HealthCheck)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Public routes
	public := r.Group("/")
	public.Use(deps.Limiter.Handler())
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
		public.GET("/ads", adsHandler.GetAllAds)
		public.GET("/ads/:id/image", adsHandler.GetAdImage)
	}

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.Store, deps.Log), deps.Limiter.Handler())
	{
		// Ad routes
		protected.POST("/ads", adsHandler.CreateAd)
		protected.GET("/ads/me", adsHandler.GetMyAds)
		protected.GET("/ads/search", adsHandler.SearchAds)
		protected.GET("/ads/:id", adsHandler.GetAd)
		protected.PATCH("/ads/:id", adsHandler.UpdateAd)
		protected.DELETE("/ads/:id", adsHandler.DeleteAd)
		protected.PATCH("/ads/:id/image", adsHandler.UpdateAdImage)

		// Comment routes
		protected.GET("/ads/:id/comments", commentHandler.GetComments)
		protected.POST("/ads/:id/comments", commentHandler.CreateComment)
		protected.GET("/ads/:id/comments/:commentId", commentHandler.GetComment)
		protected.PATCH("/ads/:id/comments/:commentId", commentHandler.UpdateComment)
		protected.DELETE("/ads/:id/comments/:commentId", commentHandler.DeleteComment)

		// User routes
		protected.GET("/users/me", userHandler.GetMe)
		protected.PATCH("/users/me", userHandler.UpdateMe)
		protected.POST("/users/set_password", userHandler.SetPassword)
	}
}
