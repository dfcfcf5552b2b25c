package rides

import (
	"fmt"

	"github.com/ridelink/ridelink-backend/internal/models"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
)

// validateTransition runs the status-transition precondition checks that
// follow actor/ride lookup, in a fixed order so error messages stay
// reproducible. profile is nil when the actor has no driver profile (admins);
// driverBusy is only meaningful when newStatus is accepted.
func validateTransition(actor *models.User, profile *models.DriverProfile, ride *models.Ride, newStatus models.RideStatus, driverBusy bool) error {
	// a driver whose application is not approved, or who is offline, cannot
	// act on rides at all
	if profile != nil {
		if profile.Status != models.DriverStatusApproved {
			return apperrors.BadRequest(fmt.Sprintf(
				"You can't act on any ride request because your driving status is '%s'", profile.Status))
		}
		if profile.Availability == models.AvailabilityOffline {
			return apperrors.BadRequest("You can't update the ride status because you are offline")
		}
	}

	// one active ride per driver
	if newStatus == models.RideStatusAccepted && driverBusy {
		return apperrors.BadRequest("You already have an active ride in progress")
	}

	// cancelled and rejected rides are dead ends, even for admins
	if ride.Status == models.RideStatusCancelled || ride.Status == models.RideStatusRejected {
		return apperrors.BadRequest(fmt.Sprintf("This ride has already been '%s'", ride.Status))
	}

	// admins may force transitions that skip graph edges
	if actor.Role != models.RoleAdmin && !ride.Status.CanTransitionTo(newStatus) {
		return apperrors.BadRequest(fmt.Sprintf(
			"Invalid status transition from '%s' to '%s'", ride.Status, newStatus))
	}

	// picked_up, in_transit and completed belong to the assigned driver
	if newStatus.NeedsAssignedDriver() {
		return authorize(actor, ride, Capability{
			Roles:          []models.Role{models.RoleAdmin},
			AssignedDriver: true,
			Denied:         apperrors.Forbidden("You are not assigned to this ride"),
		})
	}

	return nil
}
