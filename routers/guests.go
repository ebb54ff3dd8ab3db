package routers

import (
	"net/http"

	"proxpeek/controllers"
	"proxpeek/models"

	"github.com/gin-gonic/gin"
)

func snapshotBody(snap controllers.Snapshot, vmType string) gin.H {
	items := snap.VMs
	if vmType != "" {
		items = models.OfType(items, models.ResourceType(vmType))
	}
	return gin.H{"items": items, "error": snap.Error, "ready": snap.Ready}
}

// ListVMs returns the current guest list
// @Summary List guests known from the last refresh
// @Produce json
// @Tags Guests
// @Param type query string false "qemu or lxc"
// @Success 200 {object} object{items=[]models.VM,error=string,ready=bool}
// @Router /vms [get]
func ListVMs(c *gin.Context) {
	manager := c.MustGet("manager").(*controllers.Manager)
	c.JSON(http.StatusOK, snapshotBody(manager.Snapshot(), c.Query("type")))
}

// Refresh fetches the guest list and waits for the result
// @Summary Refresh guests from Proxmox
// @Produce json
// @Tags Guests
// @Success 200 {object} object{items=[]models.VM,error=string,ready=bool}
// @Failure 502 {object} object{items=[]models.VM,error=string,ready=bool}
// @Router /refresh [post]
func Refresh(c *gin.Context) {
	manager := c.MustGet("manager").(*controllers.Manager)

	status := http.StatusOK
	if err := manager.Refresh().Wait(c.Request.Context()); err != nil {
		status = http.StatusBadGateway
	}
	c.JSON(status, snapshotBody(manager.Snapshot(), ""))
}

// ToggleVM starts a stopped guest or stops a running one
// @Summary Toggle a guest's power state
// @Produce json
// @Tags Guests
// @Param type path string true "qemu or lxc"
// @Param vmid path int true "guest id"
// @Success 200 {object} object{item=models.VM}
// @Failure 404,502 {object} object{error=string}
// @Router /vms/{type}/{vmid}/toggle [post]
func ToggleVM(c *gin.Context) {
	manager := c.MustGet("manager").(*controllers.Manager)

	id := c.Param("type") + "/" + c.Param("vmid")
	vm, ok := manager.Find(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown guest " + id})
		return
	}

	if err := manager.Toggle(vm.ID, vm.Status, vm.Type).Wait(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	updated, _ := manager.Find(id)
	c.JSON(http.StatusOK, gin.H{"item": updated})
}
