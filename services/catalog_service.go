package services

import (
	"context"

	"rentalcar-backend/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CarFilters struct {
	Category     string
	Fuel         string
	Transmission string
}

// CatalogService serves the read-only fleet and service listings.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListCars(ctx context.Context, filters CarFilters) ([]models.Car, error) {
	query := s.db.WithContext(ctx).Model(&models.Car{})
	if filters.Category != "" {
		query = query.Where("type = ?", filters.Category)
	}
	if filters.Fuel != "" {
		query = query.Where("fuel = ?", filters.Fuel)
	}
	if filters.Transmission != "" {
		query = query.Where("transmission = ?", filters.Transmission)
	}

	cars := make([]models.Car, 0)
	if err := query.Order("created_at DESC").Find(&cars).Error; err != nil {
		return nil, errors.Wrap(err, "list cars")
	}
	return cars, nil
}

func (s *CatalogService) GetCar(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	var car models.Car
	if err := s.db.WithContext(ctx).First(&car, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "car %s", id)
		}
		return nil, errors.Wrap(err, "get car")
	}
	return &car, nil
}

func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	services := make([]models.Service, 0)
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&services).Error; err != nil {
		return nil, errors.Wrap(err, "list services")
	}
	return services, nil
}
