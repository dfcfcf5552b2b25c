package drivers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ridelink/ridelink-backend/internal/models"
	"github.com/ridelink/ridelink-backend/internal/services"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns driver onboarding and the availability toggle. Ride-side
// lookups live in directory.go and run inside the ride service's
// transactions.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// ApplyInput is a rider's driver application.
type ApplyInput struct {
	VehicleType   string
	VehicleModel  string
	VehiclePlate  string
	LicenseNumber string
	LicenseDocURL string
}

// Apply submits a driver application for review.
func (s *Service) Apply(ctx context.Context, userID uint, in ApplyInput) (*models.DriverApplication, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}

	if !user.CanAct() {
		return nil, apperrors.Forbidden("Your account is blocked or deleted")
	}
	if user.Role == models.RoleDriver {
		return nil, apperrors.BadRequest("You have already registered as a driver")
	}
	if user.Role != models.RoleRider {
		return nil, apperrors.Unauthorized("You are not authorized to apply for driver")
	}
	if user.Address == "" {
		return nil, apperrors.BadRequest("Please update your address before applying as a driver")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.DriverApplication{}).
		Where("user_id = ?", userID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperrors.BadRequest("You have already submitted a driver application")
	}

	application := models.DriverApplication{
		UserID: userID,
		VehicleInfo: models.VehicleInfo{
			VehicleType: in.VehicleType,
			Model:       in.VehicleModel,
			Plate:       in.VehiclePlate,
		},
		LicenseNumber: in.LicenseNumber,
		LicenseDocURL: in.LicenseDocURL,
		Status:        models.DriverStatusPending,
	}

	if err := s.db.WithContext(ctx).Create(&application).Error; err != nil {
		return nil, err
	}

	s.log.Info("driver application submitted", zap.Uint("userId", userID))
	return &application, nil
}

// ReviewApplication lets an admin approve or reject a pending application.
// Approval promotes the user to the driver role and creates the driver
// profile in the same transaction.
func (s *Service) ReviewApplication(ctx context.Context, applicationID uint, newStatus models.DriverStatus) (*models.DriverApplication, error) {
	if newStatus != models.DriverStatusApproved && newStatus != models.DriverStatusRejected {
		return nil, apperrors.BadRequest("Application status must be 'approved' or 'rejected'")
	}

	var application models.DriverApplication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&application, applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("This application was not found")
			}
			return err
		}

		if application.Status == models.DriverStatusApproved {
			return apperrors.BadRequest("This application has already been approved")
		}

		var user models.User
		if err := tx.First(&user, application.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("User not found")
			}
			return err
		}

		application.Status = newStatus
		if err := tx.Save(&application).Error; err != nil {
			return err
		}

		if newStatus != models.DriverStatusApproved {
			return nil
		}

		if err := tx.Model(&user).Update("role", models.RoleDriver).Error; err != nil {
			return err
		}

		profile := models.DriverProfile{
			UserID:        application.UserID,
			VehicleInfo:   application.VehicleInfo,
			LicenseNumber: application.LicenseNumber,
			LicenseDocURL: application.LicenseDocURL,
			Availability:  models.AvailabilityOffline,
			Status:        models.DriverStatusApproved,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("driver application reviewed",
		zap.Uint("applicationId", applicationID),
		zap.String("status", string(newStatus)))
	return &application, nil
}

// SetAvailability toggles a driver's online/offline state. No-op updates are
// rejected. The new value is written through to the Redis cache.
func (s *Service) SetAvailability(ctx context.Context, userID uint, availability models.Availability) (*models.DriverProfile, error) {
	if availability != models.AvailabilityOnline && availability != models.AvailabilityOffline {
		return nil, apperrors.BadRequest("Availability must be 'online' or 'offline'")
	}

	var profile models.DriverProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Forbidden("You are not registered as a driver. Please apply to become a driver first.")
		}
		return nil, err
	}

	if profile.Availability == availability {
		return nil, apperrors.BadRequest(fmt.Sprintf("Your availability status is already set to '%s'", profile.Availability))
	}

	profile.Availability = availability
	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, err
	}

	if err := services.CacheDriverAvailability(ctx, userID, availability); err != nil {
		// cache is advisory, the database row is authoritative
		s.log.Warn("failed to cache driver availability", zap.Uint("userId", userID), zap.Error(err))
	}

	return &profile, nil
}

// GetAvailability returns the caller's current availability, serving from the
// Redis cache when it is warm.
func (s *Service) GetAvailability(ctx context.Context, userID uint) (models.Availability, error) {
	if cached, err := services.GetCachedDriverAvailability(ctx, userID); err == nil {
		return cached, nil
	}

	var profile models.DriverProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.Forbidden("You are not registered as a driver. Please apply to become a driver first.")
		}
		return "", err
	}

	if err := services.CacheDriverAvailability(ctx, userID, profile.Availability); err != nil {
		s.log.Warn("failed to cache driver availability", zap.Uint("userId", userID), zap.Error(err))
	}
	return profile.Availability, nil
}

// ListApplications returns driver applications for admin review, newest
// first.
func (s *Service) ListApplications(ctx context.Context, page, limit int) ([]models.DriverApplication, int64, error) {
	var applications []models.DriverApplication
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.DriverApplication{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := s.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&applications).Error
	return applications, total, err
}
