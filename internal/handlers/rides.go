package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridelink/ridelink-backend/internal/models"
	"github.com/ridelink/ridelink-backend/internal/rides"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
	"github.com/ridelink/ridelink-backend/pkg/utils"
)

// RequestRide handles ride requests from riders
func RequestRide(svc *rides.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")

		var input struct {
			Pickup struct {
				Lat     float64 `json:"lat" binding:"required"`
				Lng     float64 `json:"lng" binding:"required"`
				Address string  `json:"address" binding:"required"`
			} `json:"pickup" binding:"required"`
			Destination struct {
				Lat     float64 `json:"lat" binding:"required"`
				Lng     float64 `json:"lng" binding:"required"`
				Address string  `json:"address" binding:"required"`
			} `json:"destination" binding:"required"`
			PaymentMethod models.PaymentMethod `json:"paymentMethod"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			utils.SendError(c, apperrors.BadRequest(err.Error()))
			return
		}

		ride, err := svc.RequestRide(c.Request.Context(), riderID, rides.RequestRideInput{
			PickupLat:          input.Pickup.Lat,
			PickupLng:          input.Pickup.Lng,
			PickupAddress:      input.Pickup.Address,
			DestinationLat:     input.Destination.Lat,
			DestinationLng:     input.Destination.Lng,
			DestinationAddress: input.Destination.Address,
			PaymentMethod:      input.PaymentMethod,
		})
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendData(c, http.StatusCreated, "Your ride request was successful", ride)
	}
}

// GetAllRides is the admin listing with pagination, search, sorting and fare
// range filters
func GetAllRides(svc *rides.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

		query := rides.ListQuery{
			Page:       page,
			Limit:      limit,
			Sort:       c.Query("sort"),
			Fields:     c.Query("fields"),
			SearchTerm: c.Query("searchTerm"),
			Status:     models.RideStatus(c.Query("rideStatus")),
		}
		if raw := c.Query("minFare"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				query.MinFare = &v
			}
		}
		if raw := c.Query("maxFare"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				query.MaxFare = &v
			}
		}

		ridesList, total, err := svc.ListRides(c.Request.Context(), userID, query)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendList(c, http.StatusOK, "Rides retrieved successfully", ridesList,
			utils.NewMeta(query.Page, query.Limit, total))
	}
}

// GetRideDetails returns one ride for its rider, its driver, or an admin
func GetRideDetails(svc *rides.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		rideID, err := strconv.ParseUint(c.Param("rideId"), 10, 32)
		if err != nil {
			utils.SendError(c, apperrors.BadRequest("Invalid ride ID"))
			return
		}

		ride, err := svc.GetRideDetails(c.Request.Context(), userID, uint(rideID))
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendData(c, http.StatusOK, "Ride details retrieved successfully", ride)
	}
}

// GetRideHistory returns the caller's terminal-state rides
func GetRideHistory(svc *rides.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 10
		}

		history, total, err := svc.RideHistory(c.Request.Context(), userID, page, limit)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendList(c, http.StatusOK, "Ride history retrieved successfully", history,
			utils.NewMeta(page, limit, total))
	}
}

// GetEarningsHistory returns a driver's completed rides
func GetEarningsHistory(svc *rides.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		completed, err := svc.EarningsHistory(c.Request.Context(), userID)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendData(c, http.StatusOK, "Earning history retrieved successfully", completed)
	}
}

// GetActiveRide returns the caller's current non-terminal ride, if any
func GetActiveRide(svc *rides.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		ride, err := svc.ActiveRide(c.Request.Context(), userID)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		if ride == nil {
			utils.SendData(c, http.StatusOK, "You have no active ride", nil)
			return
		}
		utils.SendData(c, http.StatusOK, "Active ride retrieved successfully", ride)
	}
}

// UpdateRideStatus moves a ride along the status graph (driver or admin)
func UpdateRideStatus(svc *rides.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		rideID, err := strconv.ParseUint(c.Param("rideId"), 10, 32)
		if err != nil {
			utils.SendError(c, apperrors.BadRequest("Invalid ride ID"))
			return
		}

		var input struct {
			RideStatus models.RideStatus `json:"rideStatus" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.SendError(c, apperrors.BadRequest(err.Error()))
			return
		}

		ride, err := svc.TransitionStatus(c.Request.Context(), userID, uint(rideID), input.RideStatus)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendData(c, http.StatusOK, "Ride status updated to "+string(ride.Status), ride)
	}
}

// CancelRide is the rider-only cancellation path
func CancelRide(svc *rides.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		rideID, err := strconv.ParseUint(c.Param("rideId"), 10, 32)
		if err != nil {
			utils.SendError(c, apperrors.BadRequest("Invalid ride ID"))
			return
		}

		var input struct {
			RideStatus models.RideStatus `json:"rideStatus" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.SendError(c, apperrors.BadRequest(err.Error()))
			return
		}

		ride, err := svc.CancelRide(c.Request.Context(), userID, uint(rideID), input.RideStatus)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendData(c, http.StatusOK, "Your ride has been cancelled successfully", ride)
	}
}
