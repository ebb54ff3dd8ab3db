package routers

import (
	"net/http"

	"proxpeek/filters"
	"proxpeek/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListActions lists the toggle history
// @Summary List toggle requests stored in the database
// @Produce json
// @Tags Actions
// @Success 200 {object} object{items=[]models.Action}
// @Failure 400,500,503 {object} object{error=string}
// @Router /actions [get]
func ListActions(c *gin.Context) {
	db, _ := c.MustGet("db").(*gorm.DB)
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "action history requires a database"})
		return
	}

	var actionFilter filters.ActionFilter
	if err := c.ShouldBindQuery(&actionFilter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var actions []models.Action
	query := actionFilter.Filter(db.Model(&models.Action{}))
	if err := query.Order("time DESC").Find(&actions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": actions})
}
