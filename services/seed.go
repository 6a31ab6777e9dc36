package services

import (
	"rentalcar-backend/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var seedCars = []models.Car{
	{Model: "Mercedes-Benz C-Class", Type: "Luxury", Price: 150, Image: "https://images.unsplash.com/photo-1617788138017-80ad40651399?q=80&w=2670&auto=format&fit=crop", Transmission: "Automatic", Fuel: "Petrol", Seats: 5, Rating: 4.8},
	{Model: "BMW X5", Type: "SUV", Price: 200, Image: "https://images.unsplash.com/photo-1549399542-7e3f8b79c341?q=80&w=2574&auto=format&fit=crop", Transmission: "Automatic", Fuel: "Diesel", Seats: 7, Rating: 4.9},
	{Model: "Tesla Model 3", Type: "Electric", Price: 120, Image: "https://images.unsplash.com/photo-1560958089-b8a1929cea89?q=80&w=2671&auto=format&fit=crop", Transmission: "Automatic", Fuel: "Electric", Seats: 5, Rating: 4.7},
	{Model: "Audi A4", Type: "Sedan", Price: 130, Image: "https://images.unsplash.com/photo-1606664515524-ed2f786a0bd6?q=80&w=2574&auto=format&fit=crop", Transmission: "Automatic", Fuel: "Petrol", Seats: 5, Rating: 4.6},
	{Model: "Range Rover Sport", Type: "SUV", Price: 250, Image: "https://images.unsplash.com/photo-1606016159991-dfe4f2746ad5?q=80&w=2574&auto=format&fit=crop", Transmission: "Automatic", Fuel: "Diesel", Seats: 5, Rating: 4.9},
	{Model: "Porsche 911 Carrera", Type: "Luxury", Price: 500, Image: "https://images.unsplash.com/photo-1503376763036-066120622c74?q=80&w=2670&auto=format&fit=crop", Transmission: "Automatic", Fuel: "Petrol", Seats: 2, Rating: 5.0},
}

var seedServices = []models.Service{
	{Title: "Airport Pickup", Description: "Seamless transfers from the airport to your destination.", Icon: "Plane"},
	{Title: "Chauffeur Service", Description: "Professional drivers for a relaxing journey.", Icon: "User"},
	{Title: "Long-term Rentals", Description: "Better rates for rentals exceeding 30 days.", Icon: "Calendar"},
	{Title: "Corporate Rentals", Description: "Tailored solutions for business travel needs.", Icon: "Briefcase"},
}

// SeedCatalog loads the default fleet and services. Without reset it does
// nothing when cars already exist; with reset it clears bookings, cars and
// services first.
func SeedCatalog(db *gorm.DB, reset bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if reset {
			for _, model := range []interface{}{&models.NotificationLog{}, &models.Booking{}, &models.Car{}, &models.Service{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return errors.Wrap(err, "clear catalog")
				}
			}
		} else {
			var count int64
			if err := tx.Model(&models.Car{}).Count(&count).Error; err != nil {
				return errors.Wrap(err, "count cars")
			}
			if count > 0 {
				return nil
			}
		}

		cars := make([]models.Car, len(seedCars))
		copy(cars, seedCars)
		if err := tx.Create(&cars).Error; err != nil {
			return errors.Wrap(err, "seed cars")
		}

		services := make([]models.Service, len(seedServices))
		copy(services, seedServices)
		if err := tx.Create(&services).Error; err != nil {
			return errors.Wrap(err, "seed services")
		}

		zap.S().Infof("Seeded %d cars and %d services", len(cars), len(services))
		return nil
	})
}
