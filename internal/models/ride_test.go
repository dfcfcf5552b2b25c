package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRideStatusFlow(t *testing.T) {
	tests := []struct {
		name    string
		from    RideStatus
		to      RideStatus
		allowed bool
	}{
		{name: "requested to accepted", from: RideStatusRequested, to: RideStatusAccepted, allowed: true},
		{name: "requested to rejected", from: RideStatusRequested, to: RideStatusRejected, allowed: true},
		{name: "requested to cancelled", from: RideStatusRequested, to: RideStatusCancelled, allowed: true},
		{name: "requested cannot skip to picked_up", from: RideStatusRequested, to: RideStatusPickedUp, allowed: false},
		{name: "requested cannot skip to completed", from: RideStatusRequested, to: RideStatusCompleted, allowed: false},
		{name: "accepted to picked_up", from: RideStatusAccepted, to: RideStatusPickedUp, allowed: true},
		{name: "accepted to cancelled", from: RideStatusAccepted, to: RideStatusCancelled, allowed: true},
		{name: "accepted cannot be rejected", from: RideStatusAccepted, to: RideStatusRejected, allowed: false},
		{name: "picked_up to in_transit", from: RideStatusPickedUp, to: RideStatusInTransit, allowed: true},
		{name: "picked_up cannot be cancelled", from: RideStatusPickedUp, to: RideStatusCancelled, allowed: false},
		{name: "in_transit to completed", from: RideStatusInTransit, to: RideStatusCompleted, allowed: true},
		{name: "in_transit cannot go back", from: RideStatusInTransit, to: RideStatusPickedUp, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	for status, next := range RideStatusFlow {
		if status.IsTerminal() {
			assert.Empty(t, next, "terminal status %q must not allow further transitions", status)
		} else {
			assert.NotEmpty(t, next, "non-terminal status %q must have at least one transition", status)
		}
	}
}

func TestRideStatusValid(t *testing.T) {
	for status := range RideStatusFlow {
		assert.True(t, status.Valid())
	}
	assert.False(t, RideStatus("driving").Valid())
	assert.False(t, RideStatus("").Valid())
}

func TestNeedsAssignedDriver(t *testing.T) {
	assert.True(t, RideStatusPickedUp.NeedsAssignedDriver())
	assert.True(t, RideStatusInTransit.NeedsAssignedDriver())
	assert.True(t, RideStatusCompleted.NeedsAssignedDriver())

	assert.False(t, RideStatusAccepted.NeedsAssignedDriver())
	assert.False(t, RideStatusRejected.NeedsAssignedDriver())
	assert.False(t, RideStatusCancelled.NeedsAssignedDriver())
}

func TestPlatformCut(t *testing.T) {
	tests := []struct {
		name     string
		fare     float64
		rate     float64
		expected float64
	}{
		{name: "exact cut", fare: 350, rate: DefaultCommissionRate, expected: 35},
		{name: "fractional cut rounds up", fare: 355, rate: DefaultCommissionRate, expected: 36},
		{name: "minimum fare", fare: 50, rate: DefaultCommissionRate, expected: 5},
		{name: "zero fare", fare: 0, rate: DefaultCommissionRate, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cut := PlatformCut(tt.fare, tt.rate)
			assert.Equal(t, tt.expected, cut)
			assert.LessOrEqual(t, cut, tt.fare+1)
		})
	}
}
