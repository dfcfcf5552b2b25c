package rides

import (
	"context"
	"errors"
	"time"

	"github.com/ridelink/ridelink-backend/internal/drivers"
	"github.com/ridelink/ridelink-backend/internal/models"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence seam for the state-changing ride operations. The
// read-only queries use gorm directly; mutations go through here so the
// transactional flows can be tested without a database.
//
// UserForUpdate and RideForUpdate take row locks. When two writers race on
// the same ride, the loser blocks on the lock, then re-reads the committed
// state and fails its precondition checks instead of overwriting the winner.
// Locking the actor's user row serializes the one-active-ride count per
// actor the same way.
type Store interface {
	Transaction(ctx context.Context, fn func(Store) error) error

	UserForUpdate(id uint) (*models.User, error)
	RideForUpdate(id uint) (*models.Ride, error)

	CountCancelledBetween(riderID uint, start, end time.Time) (int64, error)
	CountActiveRidesByRider(riderID uint) (int64, error)

	CreateRide(ride *models.Ride) error
	SaveRide(ride *models.Ride) error
	AppendStatusLog(entry *models.StatusLog) error

	DriverProfileByUser(userID uint) (*models.DriverProfile, error)
	DriverHasActiveRide(userID uint) (bool, error)
	CreditDriverEarnings(userID uint, amount float64) error
}

type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) UserForUpdate(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) RideForUpdate(id uint) (*models.Ride, error) {
	var ride models.Ride
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ride, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Ride not found")
		}
		return nil, err
	}
	return &ride, nil
}

func (s *gormStore) CountCancelledBetween(riderID uint, start, end time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.Ride{}).
		Where("rider_id = ? AND ride_status = ? AND cancelled_at >= ? AND cancelled_at < ?",
			riderID, models.RideStatusCancelled, start, end).
		Count(&count).Error
	return count, err
}

func (s *gormStore) CountActiveRidesByRider(riderID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Ride{}).
		Where("rider_id = ? AND ride_status IN ?", riderID, models.RiderActiveStatuses).
		Count(&count).Error
	return count, err
}

func (s *gormStore) CreateRide(ride *models.Ride) error {
	return s.db.Create(ride).Error
}

func (s *gormStore) SaveRide(ride *models.Ride) error {
	return s.db.Save(ride).Error
}

func (s *gormStore) AppendStatusLog(entry *models.StatusLog) error {
	return s.db.Create(entry).Error
}

func (s *gormStore) DriverProfileByUser(userID uint) (*models.DriverProfile, error) {
	return drivers.ProfileByUser(s.db, userID)
}

func (s *gormStore) DriverHasActiveRide(userID uint) (bool, error) {
	return drivers.HasActiveRide(s.db, userID)
}

func (s *gormStore) CreditDriverEarnings(userID uint, amount float64) error {
	return drivers.CreditEarnings(s.db, userID, amount)
}
