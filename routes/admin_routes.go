package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/talash/api-go/controllers"
)

func SetupAdminRoutes(protected *gin.RouterGroup, adminController *controllers.AdminController) {
	admin := protected.Group("/admin")
	{
		admin.GET("/dashboard", adminController.Dashboard)
		admin.GET("/items/:variant", adminController.ListItems)
		admin.POST("/items/:variant", adminController.AddItem)
		admin.POST("/items/:variant/:id/approve", adminController.ApproveItem)
		admin.POST("/items/:variant/:id/reject", adminController.RejectItem)
	}
}
