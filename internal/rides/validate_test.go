package rides

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ridelink/ridelink-backend/internal/models"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
)

func newUser(id uint, role models.Role) *models.User {
	return &models.User{
		Model: gorm.Model{ID: id},
		Role:  role,
		State: models.AccountActive,
	}
}

func newProfile(status models.DriverStatus, availability models.Availability) *models.DriverProfile {
	return &models.DriverProfile{Status: status, Availability: availability}
}

func newRide(riderID uint, driverID *uint, status models.RideStatus) *models.Ride {
	return &models.Ride{
		Model:    gorm.Model{ID: 1},
		RiderID:  riderID,
		DriverID: driverID,
		Status:   status,
	}
}

func uintPtr(v uint) *uint { return &v }

func TestValidateTransition(t *testing.T) {
	driver := newUser(7, models.RoleDriver)
	admin := newUser(1, models.RoleAdmin)
	online := newProfile(models.DriverStatusApproved, models.AvailabilityOnline)

	tests := []struct {
		name       string
		actor      *models.User
		profile    *models.DriverProfile
		ride       *models.Ride
		newStatus  models.RideStatus
		driverBusy bool
		wantStatus int
		wantMsg    string
	}{
		{
			name:      "suspended driver cannot act",
			actor:     driver,
			profile:   newProfile(models.DriverStatusSuspended, models.AvailabilityOnline),
			ride:      newRide(2, nil, models.RideStatusRequested),
			newStatus: models.RideStatusAccepted,

			wantStatus: http.StatusBadRequest,
			wantMsg:    "You can't act on any ride request because your driving status is 'suspended'",
		},
		{
			name:      "pending driver cannot act",
			actor:     driver,
			profile:   newProfile(models.DriverStatusPending, models.AvailabilityOnline),
			ride:      newRide(2, nil, models.RideStatusRequested),
			newStatus: models.RideStatusAccepted,

			wantStatus: http.StatusBadRequest,
			wantMsg:    "You can't act on any ride request because your driving status is 'pending'",
		},
		{
			name:      "offline driver cannot act",
			actor:     driver,
			profile:   newProfile(models.DriverStatusApproved, models.AvailabilityOffline),
			ride:      newRide(2, nil, models.RideStatusRequested),
			newStatus: models.RideStatusAccepted,

			wantStatus: http.StatusBadRequest,
			wantMsg:    "You can't update the ride status because you are offline",
		},
		{
			name:       "busy driver cannot accept a second ride",
			actor:      driver,
			profile:    online,
			ride:       newRide(2, nil, models.RideStatusRequested),
			newStatus:  models.RideStatusAccepted,
			driverBusy: true,

			wantStatus: http.StatusBadRequest,
			wantMsg:    "You already have an active ride in progress",
		},
		{
			name:      "cancelled ride is a dead end",
			actor:     driver,
			profile:   online,
			ride:      newRide(2, nil, models.RideStatusCancelled),
			newStatus: models.RideStatusAccepted,

			wantStatus: http.StatusBadRequest,
			wantMsg:    "This ride has already been 'cancelled'",
		},
		{
			name:      "rejected ride is a dead end even for admins",
			actor:     admin,
			ride:      newRide(2, nil, models.RideStatusRejected),
			newStatus: models.RideStatusCompleted,

			wantStatus: http.StatusBadRequest,
			wantMsg:    "This ride has already been 'rejected'",
		},
		{
			name:      "driver cannot skip the flow",
			actor:     driver,
			profile:   online,
			ride:      newRide(2, uintPtr(7), models.RideStatusAccepted),
			newStatus: models.RideStatusCompleted,

			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid status transition from 'accepted' to 'completed'",
		},
		{
			name:      "unassigned driver cannot mark picked_up",
			actor:     driver,
			profile:   online,
			ride:      newRide(2, uintPtr(99), models.RideStatusAccepted),
			newStatus: models.RideStatusPickedUp,

			wantStatus: http.StatusForbidden,
			wantMsg:    "You are not assigned to this ride",
		},
		{
			name:      "driver accepts a requested ride",
			actor:     driver,
			profile:   online,
			ride:      newRide(2, nil, models.RideStatusRequested),
			newStatus: models.RideStatusAccepted,
		},
		{
			name:      "assigned driver marks picked_up",
			actor:     driver,
			profile:   online,
			ride:      newRide(2, uintPtr(7), models.RideStatusAccepted),
			newStatus: models.RideStatusPickedUp,
		},
		{
			name:      "assigned driver completes in_transit ride",
			actor:     driver,
			profile:   online,
			ride:      newRide(2, uintPtr(7), models.RideStatusInTransit),
			newStatus: models.RideStatusCompleted,
		},
		{
			name:      "admin forces requested to completed",
			actor:     admin,
			ride:      newRide(2, nil, models.RideStatusRequested),
			newStatus: models.RideStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTransition(tt.actor, tt.profile, tt.ride, tt.newStatus, tt.driverBusy)
			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.wantStatus), "got %v", err)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestValidateTransitionCheckOrder(t *testing.T) {
	// an offline driver with a busy slate hitting a cancelled ride must see
	// the availability error first
	err := validateTransition(
		newUser(7, models.RoleDriver),
		newProfile(models.DriverStatusApproved, models.AvailabilityOffline),
		newRide(2, nil, models.RideStatusCancelled),
		models.RideStatusAccepted,
		true,
	)
	assert.EqualError(t, err, "You can't update the ride status because you are offline")
}
