package models

import (
	"gorm.io/gorm"
)

type Availability string

const (
	AvailabilityOnline  Availability = "online"
	AvailabilityOffline Availability = "offline"
)

// DriverStatus is the approval lifecycle stage of a driver, distinct from
// per-ride status.
type DriverStatus string

const (
	DriverStatusPending   DriverStatus = "pending"
	DriverStatusApproved  DriverStatus = "approved"
	DriverStatusRejected  DriverStatus = "rejected"
	DriverStatusSuspended DriverStatus = "suspended"
)

type VehicleInfo struct {
	VehicleType string `json:"vehicleType" gorm:"column:vehicle_type"`
	Model       string `json:"model" gorm:"column:vehicle_model"`
	Plate       string `json:"plate" gorm:"column:vehicle_plate"`
}

// DriverProfile is created when a driver application is approved. Earnings
// only ever increase, credited on ride completion.
type DriverProfile struct {
	gorm.Model
	UserID        uint         `json:"userId" gorm:"column:user_id;uniqueIndex;not null"`
	User          *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	VehicleInfo   VehicleInfo  `json:"vehicleInfo" gorm:"embedded"`
	LicenseNumber string       `json:"licenseNumber" gorm:"column:license_number;not null"`
	LicenseDocURL string       `json:"licenseDocUrl" gorm:"column:license_doc_url"`
	Availability  Availability `json:"availability" gorm:"column:availability;default:offline"`
	Status        DriverStatus `json:"driverStatus" gorm:"column:driver_status;default:approved"`
	Earnings      float64      `json:"earnings" gorm:"column:earnings;default:0"`
}

func (DriverProfile) TableName() string {
	return "driver_profiles"
}

// CanDrive reports whether the driver may act on rides right now. Availability
// is irrelevant while the application status is not approved.
func (d *DriverProfile) CanDrive() bool {
	return d.Status == DriverStatusApproved && d.Availability == AvailabilityOnline
}

// DriverApplication is a rider's request to become a driver, reviewed by an
// admin. Approval promotes the user and creates the DriverProfile.
type DriverApplication struct {
	gorm.Model
	UserID        uint         `json:"userId" gorm:"column:user_id;uniqueIndex;not null"`
	User          *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	VehicleInfo   VehicleInfo  `json:"vehicleInfo" gorm:"embedded"`
	LicenseNumber string       `json:"licenseNumber" gorm:"column:license_number;not null"`
	LicenseDocURL string       `json:"licenseDocUrl" gorm:"column:license_doc_url"`
	Status        DriverStatus `json:"status" gorm:"column:status;default:pending"`
}

func (DriverApplication) TableName() string {
	return "driver_applications"
}
