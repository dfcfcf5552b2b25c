package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridelink/ridelink-backend/internal/drivers"
	"github.com/ridelink/ridelink-backend/internal/models"
	"github.com/ridelink/ridelink-backend/internal/services"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
	"github.com/ridelink/ridelink-backend/pkg/utils"
)

// ApplyForDriver lets a rider submit a driver application. The license
// document is uploaded as multipart form data alongside the vehicle fields.
func ApplyForDriver(svc *drivers.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		input := drivers.ApplyInput{
			VehicleType:   c.PostForm("vehicleType"),
			VehicleModel:  c.PostForm("vehicleModel"),
			VehiclePlate:  c.PostForm("vehiclePlate"),
			LicenseNumber: c.PostForm("licenseNumber"),
		}
		if input.VehicleType == "" || input.VehicleModel == "" ||
			input.VehiclePlate == "" || input.LicenseNumber == "" {
			utils.SendError(c, apperrors.BadRequest("Vehicle type, model, plate and license number are required"))
			return
		}

		if file, err := c.FormFile("licenseDoc"); err == nil {
			url, err := services.UploadDocument(file, "licenses")
			if err != nil {
				utils.SendError(c, apperrors.Internal("Failed to upload license document", err))
				return
			}
			input.LicenseDocURL = url
		}

		application, err := svc.Apply(c.Request.Context(), userID, input)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendData(c, http.StatusCreated, "Driver application submitted successfully", application)
	}
}

// GetDriverApplications lists applications for admin review
func GetDriverApplications(svc *drivers.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != string(models.RoleAdmin) {
			utils.SendError(c, apperrors.Forbidden("Only admins can view driver applications"))
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 10
		}

		applications, total, err := svc.ListApplications(c.Request.Context(), page, limit)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendList(c, http.StatusOK, "Driver applications retrieved successfully", applications,
			utils.NewMeta(page, limit, total))
	}
}

// ReviewDriverApplication lets an admin approve or reject an application
func ReviewDriverApplication(svc *drivers.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != string(models.RoleAdmin) {
			utils.SendError(c, apperrors.Forbidden("Only admins can review driver applications"))
			return
		}

		applicationID, err := strconv.ParseUint(c.Param("applicationId"), 10, 32)
		if err != nil {
			utils.SendError(c, apperrors.BadRequest("Invalid application ID"))
			return
		}

		var input struct {
			Status models.DriverStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.SendError(c, apperrors.BadRequest(err.Error()))
			return
		}

		application, err := svc.ReviewApplication(c.Request.Context(), uint(applicationID), input.Status)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendData(c, http.StatusOK, "Driver application "+string(application.Status), application)
	}
}

// GetDriverAvailability returns the caller's current online/offline state
func GetDriverAvailability(svc *drivers.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		availability, err := svc.GetAvailability(c.Request.Context(), userID)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendData(c, http.StatusOK, "Availability retrieved successfully", gin.H{
			"availability": availability,
		})
	}
}

// UpdateDriverAvailability toggles the caller's online/offline state
func UpdateDriverAvailability(svc *drivers.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			Availability models.Availability `json:"availability" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.SendError(c, apperrors.BadRequest(err.Error()))
			return
		}

		profile, err := svc.SetAvailability(c.Request.Context(), userID, input.Availability)
		if err != nil {
			utils.SendError(c, err)
			return
		}

		utils.SendData(c, http.StatusOK, "Availability updated to "+string(profile.Availability), profile)
	}
}
