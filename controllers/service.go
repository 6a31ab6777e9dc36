// controllers/service.go
package controllers

import (
	"net/http"

	"rentalcar-backend/services"
	"rentalcar-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ServiceController struct {
	catalog *services.CatalogService
}

func NewServiceController(catalog *services.CatalogService) *ServiceController {
	return &ServiceController{catalog: catalog}
}

// GetServices retrieves all rental services
func (sc *ServiceController) GetServices(c *gin.Context) {
	list, err := sc.catalog.ListServices(c.Request.Context())
	if err != nil {
		zap.S().Errorf("list services: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch services")
		return
	}

	c.JSON(http.StatusOK, list)
}
