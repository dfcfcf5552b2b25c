package rides

import (
	"github.com/ridelink/ridelink-backend/internal/models"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
)

// Capability names the roles and ride-ownership relations that may perform an
// operation. An actor passes if they hold any listed role, or any listed
// relation to the ride.
type Capability struct {
	Roles          []models.Role
	RideRider      bool // the ride's rider may act
	AssignedDriver bool // the ride's assigned driver may act
	Denied         *apperrors.AppError
}

// authorize is the single authorization gate for ride operations. The actor
// must be an account in good standing and satisfy the capability.
func authorize(actor *models.User, ride *models.Ride, cap Capability) error {
	if actor == nil {
		return apperrors.NotFound("User not found")
	}
	if !actor.CanAct() {
		return apperrors.Forbidden("Your account is blocked or deleted")
	}

	for _, role := range cap.Roles {
		if actor.Role == role {
			return nil
		}
	}
	if ride != nil {
		if cap.RideRider && ride.RiderID == actor.ID {
			return nil
		}
		if cap.AssignedDriver && ride.DriverID != nil && *ride.DriverID == actor.ID {
			return nil
		}
	}

	if cap.Denied != nil {
		return cap.Denied
	}
	return apperrors.Forbidden("You are not authorized for this action")
}
