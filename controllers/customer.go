// controllers/customer.go
package controllers

import (
	"net/http"
	"strings"
	"time"

	"rentalcar-backend/models"
	"rentalcar-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Customer is everyone who booked under one email address.
type Customer struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Bookings    int       `json:"bookings"`
	Spent       float64   `json:"spent"` // confirmed bookings only
	LastBooking time.Time `json:"lastBooking"`
}

type CustomerController struct {
	db *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{db: db}
}

// GetCustomers lists customers derived from bookings, most recent first.
// An optional search query matches name or email.
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	query := cc.db.WithContext(c.Request.Context()).
		Select("customer_name", "email", "phone", "status", "total_price", "created_at").
		Order("created_at DESC")
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(customer_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		zap.S().Errorf("list customers: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	// bookings are newest first, so the first row per email carries the
	// current contact details
	customers := make([]Customer, 0)
	index := make(map[string]int)
	for _, b := range bookings {
		key := strings.ToLower(b.Email)
		i, seen := index[key]
		if !seen {
			customers = append(customers, Customer{
				Name:        b.CustomerName,
				Email:       b.Email,
				Phone:       b.Phone,
				LastBooking: b.CreatedAt,
			})
			i = len(customers) - 1
			index[key] = i
		}
		customers[i].Bookings++
		if b.Status == models.BookingConfirmed {
			customers[i].Spent += b.TotalPrice
		}
	}

	c.JSON(http.StatusOK, customers)
}
