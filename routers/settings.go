package routers

import (
	"net/http"

	"proxpeek/config"
	"proxpeek/controllers"

	"github.com/gin-gonic/gin"
)

func GetSettings(c *gin.Context) {
	manager := c.MustGet("manager").(*controllers.Manager)
	c.JSON(http.StatusOK, gin.H{
		"settings": manager.Settings().Masked(),
		"ready":    manager.AppReady(),
	})
}

// UpdateSettings stores the four connection settings. The token may be left
// empty to keep the current one.
func UpdateSettings(c *gin.Context) {
	manager := c.MustGet("manager").(*controllers.Manager)

	var settings config.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if settings.APIToken == "" {
		settings.APIToken = manager.Settings().APIToken
	}
	if err := manager.UpdateSettings(settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings": settings.Masked(),
		"ready":    settings.Ready(),
	})
}

func ResetSettings(c *gin.Context) {
	manager := c.MustGet("manager").(*controllers.Manager)
	if err := manager.ResetSettings(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
