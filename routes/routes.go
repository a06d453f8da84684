package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/talash/api-go/config"
	"github.com/talash/api-go/controllers"
	"github.com/talash/api-go/middleware"
	"github.com/talash/api-go/services"
	"github.com/talash/api-go/storage"
	"github.com/talash/api-go/utils"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, blobs storage.BlobStore, googleConfig *config.GoogleConfig) {
	domains := utils.NewEmailDomainValidator(config.AllowedEmailDomains())
	moderation := services.NewModerationService(db, blobs)

	// Initialize controllers
	authController := controllers.NewAuthController(db, googleConfig, domains)
	itemController := controllers.NewItemController(db, moderation)
	adminController := controllers.NewAdminController(db, moderation)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/auth/signup", authController.Signup)
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/refresh-token", authController.RefreshToken)
		public.POST("/admin/signup", authController.AdminSignup)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/logout", authController.Logout)
		protected.GET("/auth/profile", authController.GetProfile)

		SetupItemRoutes(public, protected, itemController)
		SetupAdminRoutes(protected, adminController)
	}
}
