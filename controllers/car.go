// controllers/car.go
package controllers

import (
	"net/http"

	"rentalcar-backend/services"
	"rentalcar-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type CarController struct {
	catalog *services.CatalogService
}

func NewCarController(catalog *services.CatalogService) *CarController {
	return &CarController{catalog: catalog}
}

// GetCars lists the fleet, optionally filtered by category, fuel and transmission
func (cc *CarController) GetCars(c *gin.Context) {
	filters := services.CarFilters{
		Category:     c.Query("category"),
		Fuel:         c.Query("fuel"),
		Transmission: c.Query("transmission"),
	}

	cars, err := cc.catalog.ListCars(c.Request.Context(), filters)
	if err != nil {
		zap.S().Errorf("list cars: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch cars")
		return
	}

	c.JSON(http.StatusOK, cars)
}

// GetCar retrieves a specific car by ID
func (cc *CarController) GetCar(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid car ID format")
		return
	}

	car, err := cc.catalog.GetCar(c.Request.Context(), carID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Car not found")
			return
		}
		zap.S().Errorf("get car %s: %v", carID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch car")
		return
	}

	c.JSON(http.StatusOK, car)
}
