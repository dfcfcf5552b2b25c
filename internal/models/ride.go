package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type RideStatus string

const (
	RideStatusRequested RideStatus = "requested"
	RideStatusAccepted  RideStatus = "accepted"
	RideStatusRejected  RideStatus = "rejected"
	RideStatusPickedUp  RideStatus = "picked_up"
	RideStatusInTransit RideStatus = "in_transit"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// RideStatusFlow lists the legal forward transition for each status.
// Terminal statuses have no outgoing edges.
var RideStatusFlow = map[RideStatus][]RideStatus{
	RideStatusRequested: {RideStatusAccepted, RideStatusRejected, RideStatusCancelled},
	RideStatusAccepted:  {RideStatusPickedUp, RideStatusCancelled},
	RideStatusPickedUp:  {RideStatusInTransit},
	RideStatusInTransit: {RideStatusCompleted},
	RideStatusCompleted: {},
	RideStatusCancelled: {},
	RideStatusRejected:  {},
}

// RiderActiveStatuses are the statuses that count as an active ride for a rider.
var RiderActiveStatuses = []RideStatus{
	RideStatusRequested,
	RideStatusAccepted,
	RideStatusPickedUp,
	RideStatusInTransit,
}

// DriverActiveStatuses are the statuses that occupy an assigned driver.
var DriverActiveStatuses = []RideStatus{
	RideStatusAccepted,
	RideStatusPickedUp,
	RideStatusInTransit,
}

// StatusesNeedingAssignment are transitions only the assigned driver (or an
// admin) may perform.
var StatusesNeedingAssignment = []RideStatus{
	RideStatusPickedUp,
	RideStatusInTransit,
	RideStatusCompleted,
}

func (s RideStatus) Valid() bool {
	_, ok := RideStatusFlow[s]
	return ok
}

func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled || s == RideStatusRejected
}

// CanTransitionTo reports whether next is a legal forward edge from s.
func (s RideStatus) CanTransitionTo(next RideStatus) bool {
	for _, allowed := range RideStatusFlow[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NeedsAssignedDriver reports whether a transition into s requires the actor
// to be the ride's assigned driver.
func (s RideStatus) NeedsAssignedDriver() bool {
	for _, status := range StatusesNeedingAssignment {
		if status == s {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// DefaultCommissionRate is the fraction of the fare retained by the platform.
const DefaultCommissionRate = 0.10

// PlatformCut returns the platform's share of a fare, rounded up.
func PlatformCut(fare, commissionRate float64) float64 {
	return math.Ceil(fare * commissionRate)
}

// StatusLog is one append-only history entry. Rows are never updated or
// deleted; insertion order is chronological order.
type StatusLog struct {
	ID        uint       `json:"-" gorm:"primarykey"`
	RideID    uint       `json:"-" gorm:"column:ride_id;index;not null"`
	Status    RideStatus `json:"status" gorm:"column:status;not null"`
	Timestamp time.Time  `json:"timestamp" gorm:"column:timestamp;not null"`
}

func (StatusLog) TableName() string {
	return "ride_status_logs"
}

type Ride struct {
	gorm.Model
	RiderID   uint   `json:"riderId" gorm:"column:rider_id;not null;index"`
	Rider     *User  `json:"rider,omitempty" gorm:"foreignKey:RiderID"`
	DriverID  *uint  `json:"driverId" gorm:"column:driver_id;index"`
	Driver    *User  `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	RiderName string `json:"riderName" gorm:"column:rider_name"`
	// DriverName is stamped with the acting user's name on assignment.
	DriverName string `json:"driverName" gorm:"column:driver_name"`

	PickupLat          float64 `json:"pickupLat" gorm:"column:pickup_lat;not null"`
	PickupLng          float64 `json:"pickupLng" gorm:"column:pickup_lng;not null"`
	PickupAddress      string  `json:"pickupAddress" gorm:"column:pickup_address;not null"`
	DestinationLat     float64 `json:"destinationLat" gorm:"column:destination_lat;not null"`
	DestinationLng     float64 `json:"destinationLng" gorm:"column:destination_lng;not null"`
	DestinationAddress string  `json:"destinationAddress" gorm:"column:destination_address;not null"`

	PaymentMethod    PaymentMethod `json:"paymentMethod" gorm:"column:payment_method;default:cash"`
	Fare             float64       `json:"fare" gorm:"column:fare;not null"`
	CommissionRate   float64       `json:"commissionRate" gorm:"column:commission_rate;default:0.10"`
	PlatformEarnings float64       `json:"platformEarnings" gorm:"column:platform_earnings"`

	Status      RideStatus  `json:"rideStatus" gorm:"column:ride_status;default:requested;index"`
	StatusLogs  []StatusLog `json:"statusLogs" gorm:"foreignKey:RideID"`
	CancelledAt *time.Time  `json:"cancelledAt" gorm:"column:cancelled_at"`
}

func (Ride) TableName() string {
	return "rides"
}
