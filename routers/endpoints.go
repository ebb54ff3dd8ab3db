package routers

import (
	"proxpeek/controllers"

	limit "github.com/aviddiviner/gin-limit"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GinRouter struct {
	Engine  *gin.Engine
	IRoutes gin.IRoutes
}

// Inject provides db and manager to every handler.
func Inject(db *gorm.DB, manager *controllers.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Set("manager", manager)
		c.Next()
	}
}

// Setup api endpoints for tests
func SetupEndpoints(db *gorm.DB, manager *controllers.Manager) GinRouter {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Inject(db, manager))
	api := r.Group("/api/v1").Use(limit.MaxAllowed(30))
	{
		api = GetEndpoints(api)
	}

	return GinRouter{r, api}
}

func GetEndpoints(api gin.IRoutes) gin.IRoutes {
	api.GET("/vms", ListVMs)
	api.POST("/refresh", Refresh)
	api.POST("/vms/:type/:vmid/toggle", ToggleVM)
	api.GET("/settings", GetSettings)
	api.PUT("/settings", UpdateSettings)
	api.DELETE("/settings", ResetSettings)
	api.GET("/actions", ListActions)

	return api
}
