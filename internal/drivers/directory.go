package drivers

import (
	"errors"

	"github.com/ridelink/ridelink-backend/internal/models"
	"gorm.io/gorm"
)

// ProfileByUser looks up the driver profile linked to a user. Returns
// (nil, nil) when the user has no profile, so callers can treat admins and
// plain riders uniformly.
func ProfileByUser(tx *gorm.DB, userID uint) (*models.DriverProfile, error) {
	var profile models.DriverProfile
	if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// HasActiveRide reports whether any ride currently occupies the driver
// (accepted, picked_up or in_transit).
func HasActiveRide(tx *gorm.DB, driverUserID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Ride{}).
		Where("driver_id = ? AND ride_status IN ?", driverUserID, models.DriverActiveStatuses).
		Count(&count).Error
	return count > 0, err
}

// CreditEarnings atomically increments a driver's cumulative earnings. Called
// only from the completed-transition side effect, inside its transaction.
func CreditEarnings(tx *gorm.DB, driverUserID uint, amount float64) error {
	return tx.Model(&models.DriverProfile{}).
		Where("user_id = ?", driverUserID).
		UpdateColumn("earnings", gorm.Expr("earnings + ?", amount)).Error
}
