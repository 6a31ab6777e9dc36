package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	pickup := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 360.0, ComputeTotal(pickup, pickup.AddDate(0, 0, 3), 120))
	assert.Equal(t, 240.0, ComputeTotal(pickup, pickup.Add(25*time.Hour), 120))
	assert.Equal(t, 120.0, ComputeTotal(pickup, pickup.Add(2*time.Hour), 120))
	assert.Equal(t, 120.0, ComputeTotal(pickup, pickup, 120))
	assert.Equal(t, 150.0, ComputeTotal(pickup, pickup.AddDate(0, 0, -2), 150))
}
