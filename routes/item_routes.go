package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/talash/api-go/controllers"
)

func SetupItemRoutes(public *gin.RouterGroup, protected *gin.RouterGroup, itemController *controllers.ItemController) {
	// Browsing is public; approved items only unless the filter says otherwise.
	publicItems := public.Group("/items")
	{
		publicItems.GET("/found", itemController.GetFoundItems)
		publicItems.GET("/found/:id", itemController.GetFoundItem)
		publicItems.GET("/lost", itemController.GetLostItems)
		publicItems.GET("/lost/:id", itemController.GetLostItem)
	}

	items := protected.Group("/items")
	{
		items.POST("/found", itemController.ReportFoundItem)
		items.POST("/lost", itemController.ReportLostItem)
		items.DELETE("/found/:id", itemController.DeleteFoundItem)
		items.DELETE("/lost/:id", itemController.DeleteLostItem)
	}

	// Caller's own reports, every status included
	users := protected.Group("/users")
	{
		users.GET("/me/items/found", itemController.GetMyFoundItems)
		users.GET("/me/items/lost", itemController.GetMyLostItems)
	}
}
