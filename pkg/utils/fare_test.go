package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineDistance(23.8103, 90.4125, 23.8103, 90.4125))
	})

	t.Run("Uttara to Gulshan is a few kilometers", func(t *testing.T) {
		// pickup/destination pair inside Dhaka
		distance := HaversineDistance(23.8103, 90.4125, 23.7806, 90.4193)
		assert.Greater(t, distance, 3.0)
		assert.Less(t, distance, 4.0)
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := HaversineDistance(23.8103, 90.4125, 23.7806, 90.4193)
		d2 := HaversineDistance(23.7806, 90.4193, 23.8103, 90.4125)
		assert.InDelta(t, d1, d2, 1e-9)
	})
}

func TestCalculateFare(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		expected   float64
	}{
		{name: "10 km", distanceKm: 10.0, expected: 350},
		{name: "zero distance still charges base fare", distanceKm: 0, expected: 50},
		{name: "fractional distance rounds", distanceKm: 3.33, expected: 150}, // 50 + 99.9
		{name: "long trip", distanceKm: 100, expected: 3050},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateFare(tt.distanceKm))
		})
	}
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(23.8103, 90.4125))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(90.1, 0))
	assert.False(t, ValidCoordinates(0, -180.5))
}
