package rides

import (
	"context"
	"errors"
	"strings"

	"github.com/ridelink/ridelink-backend/internal/models"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
	"gorm.io/gorm"
)

// sortableColumns whitelists the columns admin list queries may sort on.
var sortableColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"fare":       "fare",
	"rideStatus": "ride_status",
	"riderName":  "rider_name",
	"driverName": "driver_name",
}

// selectableFields whitelists the columns admin list queries may project.
var selectableFields = map[string]string{
	"riderName":          "rider_name",
	"driverName":         "driver_name",
	"fare":               "fare",
	"rideStatus":         "ride_status",
	"pickupAddress":      "pickup_address",
	"destinationAddress": "destination_address",
	"platformEarnings":   "platform_earnings",
	"createdAt":          "created_at",
}

// ListQuery carries the admin list parameters.
type ListQuery struct {
	Page       int
	Limit      int
	Sort       string // column name, "-" prefix for descending
	Fields     string // comma-separated projection
	SearchTerm string
	Status     models.RideStatus
	MinFare    *float64
	MaxFare    *float64
}

func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}
}

// ListRides is the admin-only paginated listing with search, filtering and
// sorting.
func (s *Service) ListRides(ctx context.Context, actorID uint, q ListQuery) ([]models.Ride, int64, error) {
	actor, err := findUser(s.db.WithContext(ctx), actorID)
	if err != nil {
		return nil, 0, err
	}
	if err := authorize(actor, nil, Capability{
		Roles:  []models.Role{models.RoleAdmin},
		Denied: apperrors.Forbidden("Only admins can list all rides"),
	}); err != nil {
		return nil, 0, err
	}

	q.normalize()

	query := s.db.WithContext(ctx).Model(&models.Ride{})

	if q.SearchTerm != "" {
		term := "%" + q.SearchTerm + "%"
		query = query.Where(
			"pickup_address ILIKE ? OR destination_address ILIKE ? OR rider_name ILIKE ? OR driver_name ILIKE ?",
			term, term, term, term,
		)
	}
	if q.Status != "" {
		query = query.Where("ride_status = ?", q.Status)
	}
	if q.MinFare != nil {
		query = query.Where("fare >= ?", *q.MinFare)
	}
	if q.MaxFare != nil {
		query = query.Where("fare <= ?", *q.MaxFare)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if q.Sort != "" {
		direction := "ASC"
		name := q.Sort
		if strings.HasPrefix(name, "-") {
			direction = "DESC"
			name = name[1:]
		}
		if column, ok := sortableColumns[name]; ok {
			order = column + " " + direction
		}
	}

	if q.Fields != "" {
		var columns []string
		for _, field := range strings.Split(q.Fields, ",") {
			if column, ok := selectableFields[strings.TrimSpace(field)]; ok {
				columns = append(columns, column)
			}
		}
		if len(columns) > 0 {
			// id and ride_status are always present so rows stay addressable
			query = query.Select(append([]string{"id", "ride_status"}, columns...))
		}
	} else {
		query = query.Preload("Rider").Preload("Driver")
	}

	var ridesList []models.Ride
	err = query.Order(order).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&ridesList).Error
	return ridesList, total, err
}

// GetRideDetails returns one ride with its parties and history. Only the
// ride's rider, its driver, or an admin may view it.
func (s *Service) GetRideDetails(ctx context.Context, actorID, rideID uint) (*models.Ride, error) {
	actor, err := findUser(s.db.WithContext(ctx), actorID)
	if err != nil {
		return nil, err
	}

	var ride models.Ride
	if err := s.db.WithContext(ctx).
		Preload("Rider").
		Preload("Driver").
		Preload("StatusLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&ride, rideID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("This ride does not exist")
		}
		return nil, err
	}

	if err := authorize(actor, &ride, Capability{
		Roles:          []models.Role{models.RoleAdmin},
		RideRider:      true,
		AssignedDriver: true,
		Denied:         apperrors.Forbidden("You are not authorized to view this ride's details"),
	}); err != nil {
		return nil, err
	}

	return &ride, nil
}

// RideHistory returns the caller's terminal-state rides, as rider or driver.
func (s *Service) RideHistory(ctx context.Context, actorID uint, page, limit int) ([]models.Ride, int64, error) {
	actor, err := findUser(s.db.WithContext(ctx), actorID)
	if err != nil {
		return nil, 0, err
	}
	if err := authorize(actor, nil, Capability{
		Roles:  []models.Role{models.RoleRider, models.RoleDriver},
		Denied: apperrors.Unauthorized("You are not authorized for this action"),
	}); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	terminal := []models.RideStatus{
		models.RideStatusCompleted,
		models.RideStatusCancelled,
		models.RideStatusRejected,
	}

	query := s.db.WithContext(ctx).Model(&models.Ride{}).
		Where("(rider_id = ? OR driver_id = ?) AND ride_status IN ?", actorID, actorID, terminal)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var history []models.Ride
	err = query.Preload("Rider").Preload("Driver").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&history).Error
	return history, total, err
}

// EarningsHistory returns a driver's completed rides.
func (s *Service) EarningsHistory(ctx context.Context, actorID uint) ([]models.Ride, error) {
	actor, err := findUser(s.db.WithContext(ctx), actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, nil, Capability{
		Roles:  []models.Role{models.RoleDriver},
		Denied: apperrors.Unauthorized("You are not authorized for this action"),
	}); err != nil {
		return nil, err
	}

	var completed []models.Ride
	err = s.db.WithContext(ctx).
		Where("driver_id = ? AND ride_status = ?", actorID, models.RideStatusCompleted).
		Order("created_at DESC").
		Find(&completed).Error
	return completed, err
}

// ActiveRide returns the caller's current non-terminal ride, or nil if none.
// A rider's requested ride counts as active; a driver is only occupied from
// acceptance onward.
func (s *Service) ActiveRide(ctx context.Context, actorID uint) (*models.Ride, error) {
	actor, err := findUser(s.db.WithContext(ctx), actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAct() {
		return nil, apperrors.Forbidden("Your account is blocked or deleted")
	}

	var ride models.Ride
	err = s.db.WithContext(ctx).
		Preload("Rider").
		Preload("Driver").
		Preload("StatusLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("(rider_id = ? AND ride_status IN ?) OR (driver_id = ? AND ride_status IN ?)",
			actorID, models.RiderActiveStatuses,
			actorID, models.DriverActiveStatuses).
		First(&ride).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ride, nil
}
