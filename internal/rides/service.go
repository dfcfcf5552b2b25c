package rides

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ridelink/ridelink-backend/internal/models"
	"github.com/ridelink/ridelink-backend/internal/services"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
	"github.com/ridelink/ridelink-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the single writer of ride status. Every state-changing operation
// runs as one transaction that locks the rows it validates against, so a
// concurrent writer waits for the winner to commit and then fails its own
// precondition checks against the committed state. Terminal-status
// notifications fire only after the transaction has committed.
type Service struct {
	db      *gorm.DB
	store   Store
	emitter services.EventEmitter
	log     *zap.Logger
	now     func() time.Time
}

func NewService(db *gorm.DB, emitter services.EventEmitter, log *zap.Logger) *Service {
	return &Service{
		db:      db,
		store:   &gormStore{db: db},
		emitter: emitter,
		log:     log,
		now:     time.Now,
	}
}

func findUser(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// RequestRideInput carries a rider's trip request.
type RequestRideInput struct {
	PickupLat          float64
	PickupLng          float64
	PickupAddress      string
	DestinationLat     float64
	DestinationLng     float64
	DestinationAddress string
	PaymentMethod      models.PaymentMethod
}

// RequestRide creates a new ride in status requested. The fare is computed
// from the great-circle distance between pickup and destination. The rider's
// row is locked so the active-ride and quota counts cannot race with a
// concurrent request from the same rider.
func (s *Service) RequestRide(ctx context.Context, riderID uint, in RequestRideInput) (*models.Ride, error) {
	if !utils.ValidCoordinates(in.PickupLat, in.PickupLng) ||
		!utils.ValidCoordinates(in.DestinationLat, in.DestinationLng) {
		return nil, apperrors.BadRequest("Invalid pickup or destination coordinates")
	}

	var ride *models.Ride
	err := s.store.Transaction(ctx, func(tx Store) error {
		rider, err := tx.UserForUpdate(riderID)
		if err != nil {
			return err
		}
		if err := authorize(rider, nil, Capability{
			Roles:  []models.Role{models.RoleRider},
			Denied: apperrors.Unauthorized("Only riders can request rides"),
		}); err != nil {
			return err
		}

		var missing []string
		if rider.PhoneNumber == "" {
			missing = append(missing, "Phone Number")
		}
		if rider.Address == "" {
			missing = append(missing, "Address")
		}
		if len(missing) > 0 {
			return apperrors.BadRequest(fmt.Sprintf(
				"To request a ride, please add your %s to your profile", strings.Join(missing, " and ")))
		}

		start, end := DayWindow(s.now())
		cancelled, err := tx.CountCancelledBetween(riderID, start, end)
		if err != nil {
			return err
		}
		if cancelled >= DailyCancelLimit {
			return apperrors.BadRequest("You cannot request a ride today as you have cancelled 3 rides already")
		}

		active, err := tx.CountActiveRidesByRider(riderID)
		if err != nil {
			return err
		}
		if active > 0 {
			return apperrors.BadRequest("You already have an active ride")
		}

		distance := utils.HaversineDistance(
			in.PickupLat, in.PickupLng,
			in.DestinationLat, in.DestinationLng,
		)
		fare := utils.CalculateFare(distance)

		paymentMethod := in.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = models.PaymentCash
		}

		ride = &models.Ride{
			RiderID:            riderID,
			RiderName:          rider.Name,
			PickupLat:          in.PickupLat,
			PickupLng:          in.PickupLng,
			PickupAddress:      in.PickupAddress,
			DestinationLat:     in.DestinationLat,
			DestinationLng:     in.DestinationLng,
			DestinationAddress: in.DestinationAddress,
			PaymentMethod:      paymentMethod,
			Fare:               fare,
			CommissionRate:     models.DefaultCommissionRate,
			PlatformEarnings:   models.PlatformCut(fare, models.DefaultCommissionRate),
			Status:             models.RideStatusRequested,
			StatusLogs: []models.StatusLog{
				{Status: models.RideStatusRequested, Timestamp: s.now()},
			},
		}
		return tx.CreateRide(ride)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ride requested",
		zap.Uint("rideId", ride.ID),
		zap.Uint("riderId", riderID),
		zap.Float64("fare", ride.Fare))
	return ride, nil
}

// TransitionStatus moves a ride along the status graph on behalf of a driver
// or an admin. Precondition checks run in a fixed order; the status update,
// history append and (on completion) earnings credit are one atomic unit.
// The ride row is locked before validation, so when two drivers race to
// accept the same ride the loser sees the committed accepted state and its
// transition check fails.
func (s *Service) TransitionStatus(ctx context.Context, actorID, rideID uint, newStatus models.RideStatus) (*models.Ride, error) {
	if !newStatus.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("'%s' is not a valid ride status", newStatus))
	}

	var updated *models.Ride
	err := s.store.Transaction(ctx, func(tx Store) error {
		actor, err := tx.UserForUpdate(actorID)
		if err != nil {
			return err
		}
		if err := authorize(actor, nil, Capability{
			Roles:  []models.Role{models.RoleAdmin, models.RoleDriver},
			Denied: apperrors.Unauthorized("You are not authorized for this action"),
		}); err != nil {
			return err
		}

		ride, err := tx.RideForUpdate(rideID)
		if err != nil {
			return err
		}

		profile, err := tx.DriverProfileByUser(actorID)
		if err != nil {
			return err
		}

		var driverBusy bool
		if newStatus == models.RideStatusAccepted {
			driverBusy, err = tx.DriverHasActiveRide(actorID)
			if err != nil {
				return err
			}
		}

		if err := validateTransition(actor, profile, ride, newStatus, driverBusy); err != nil {
			return err
		}

		now := s.now()
		if err := tx.AppendStatusLog(&models.StatusLog{
			RideID:    ride.ID,
			Status:    newStatus,
			Timestamp: now,
		}); err != nil {
			return err
		}

		// accepted, rejected and cancelled all stamp the acting driver onto
		// the ride, matching the behavior the fleet tooling expects
		if newStatus == models.RideStatusAccepted ||
			newStatus == models.RideStatusRejected ||
			newStatus == models.RideStatusCancelled {
			id := actor.ID
			ride.DriverID = &id
			ride.DriverName = actor.Name
		}
		if newStatus == models.RideStatusCancelled {
			t := now
			ride.CancelledAt = &t
		}

		// earnings credit rides the same transaction as the status update
		if newStatus == models.RideStatusCompleted && ride.DriverID != nil {
			if err := tx.CreditDriverEarnings(*ride.DriverID, ride.Fare); err != nil {
				return err
			}
		}

		ride.Status = newStatus
		if err := tx.SaveRide(ride); err != nil {
			return err
		}

		updated = ride
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyTerminal(updated)

	s.log.Info("ride status updated",
		zap.Uint("rideId", rideID),
		zap.Uint("actorId", actorID),
		zap.String("status", string(newStatus)))
	return updated, nil
}

// CancelRide is the rider-initiated cancellation path. It bypasses the
// forward graph check but is limited to rides that have not been picked up.
func (s *Service) CancelRide(ctx context.Context, riderID, rideID uint, target models.RideStatus) (*models.Ride, error) {
	if target != models.RideStatusCancelled {
		return nil, apperrors.BadRequest("Cancellation must set the ride status to 'cancelled'")
	}

	var updated *models.Ride
	err := s.store.Transaction(ctx, func(tx Store) error {
		rider, err := tx.UserForUpdate(riderID)
		if err != nil {
			return err
		}
		if err := authorize(rider, nil, Capability{
			Roles:  []models.Role{models.RoleRider},
			Denied: apperrors.Unauthorized("You are not authorized for this action"),
		}); err != nil {
			return err
		}

		ride, err := tx.RideForUpdate(rideID)
		if err != nil {
			return err
		}
		if err := authorize(rider, ride, Capability{
			RideRider: true,
			Denied:    apperrors.Forbidden("You are not the rider of this ride"),
		}); err != nil {
			return err
		}

		if ride.Status == models.RideStatusCancelled {
			return apperrors.BadRequest("You already cancelled this ride")
		}
		if ride.Status != models.RideStatusRequested && ride.Status != models.RideStatusAccepted {
			return apperrors.BadRequest(fmt.Sprintf(
				"You can't cancel your ride because your ride status is '%s'", ride.Status))
		}

		start, end := DayWindow(s.now())
		cancelled, err := tx.CountCancelledBetween(riderID, start, end)
		if err != nil {
			return err
		}
		if cancelled >= DailyCancelLimit {
			return apperrors.BadRequest("You cannot cancel this ride because your daily cancel limit (3) has been reached")
		}

		now := s.now()
		if err := tx.AppendStatusLog(&models.StatusLog{
			RideID:    ride.ID,
			Status:    models.RideStatusCancelled,
			Timestamp: now,
		}); err != nil {
			return err
		}

		ride.Status = models.RideStatusCancelled
		t := now
		ride.CancelledAt = &t
		if err := tx.SaveRide(ride); err != nil {
			return err
		}

		updated = ride
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyTerminal(updated)

	s.log.Info("ride cancelled by rider",
		zap.Uint("rideId", rideID),
		zap.Uint("riderId", riderID))
	return updated, nil
}

// notifyTerminal fires the ride-status-changed event for completed and
// cancelled rides. It runs after commit and never fails the caller.
func (s *Service) notifyTerminal(ride *models.Ride) {
	if ride == nil || s.emitter == nil {
		return
	}
	if ride.Status != models.RideStatusCompleted && ride.Status != models.RideStatusCancelled {
		return
	}
	s.emitter.EmitRideStatusUpdated(services.RideStatusEvent{
		RideID:      ride.ID,
		NewStatus:   ride.Status,
		RideDetails: ride,
	})
}
