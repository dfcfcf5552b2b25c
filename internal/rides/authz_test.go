package rides

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ridelink/ridelink-backend/internal/models"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
)

func TestAuthorize(t *testing.T) {
	ride := newRide(4, uintPtr(7), models.RideStatusAccepted)

	t.Run("missing actor", func(t *testing.T) {
		err := authorize(nil, ride, Capability{Roles: []models.Role{models.RoleAdmin}})
		assert.True(t, apperrors.Is(err, http.StatusNotFound))
		assert.EqualError(t, err, "User not found")
	})

	t.Run("blocked account is locked out regardless of role", func(t *testing.T) {
		blocked := newUser(1, models.RoleAdmin)
		blocked.State = models.AccountBlocked
		err := authorize(blocked, ride, Capability{Roles: []models.Role{models.RoleAdmin}})
		assert.True(t, apperrors.Is(err, http.StatusForbidden))
		assert.EqualError(t, err, "Your account is blocked or deleted")
	})

	t.Run("deleted account is locked out", func(t *testing.T) {
		deleted := newUser(4, models.RoleRider)
		deleted.IsDeleted = true
		err := authorize(deleted, ride, Capability{RideRider: true})
		assert.True(t, apperrors.Is(err, http.StatusForbidden))
	})

	t.Run("role match passes", func(t *testing.T) {
		err := authorize(newUser(1, models.RoleAdmin), ride, Capability{Roles: []models.Role{models.RoleAdmin}})
		assert.NoError(t, err)
	})

	t.Run("ride's rider passes on ownership", func(t *testing.T) {
		err := authorize(newUser(4, models.RoleRider), ride, Capability{RideRider: true})
		assert.NoError(t, err)
	})

	t.Run("a different rider does not", func(t *testing.T) {
		err := authorize(newUser(5, models.RoleRider), ride, Capability{RideRider: true})
		assert.True(t, apperrors.Is(err, http.StatusForbidden))
		assert.EqualError(t, err, "You are not authorized for this action")
	})

	t.Run("assigned driver passes", func(t *testing.T) {
		err := authorize(newUser(7, models.RoleDriver), ride, Capability{AssignedDriver: true})
		assert.NoError(t, err)
	})

	t.Run("unassigned ride has no assigned driver", func(t *testing.T) {
		unassigned := newRide(4, nil, models.RideStatusRequested)
		err := authorize(newUser(7, models.RoleDriver), unassigned, Capability{AssignedDriver: true})
		assert.True(t, apperrors.Is(err, http.StatusForbidden))
	})

	t.Run("custom denial error is returned verbatim", func(t *testing.T) {
		denied := apperrors.Forbidden("You are not assigned to this ride")
		err := authorize(newUser(8, models.RoleDriver), ride, Capability{
			AssignedDriver: true,
			Denied:         denied,
		})
		assert.Equal(t, denied, err)
	})
}
