package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/ridelink/ridelink-backend/pkg/apperrors"
)

// Meta carries pagination metadata for list responses.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func NewMeta(page, limit int, total int64) Meta {
	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// SendData writes the standard success envelope.
func SendData(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, response{Success: true, Message: message, Data: data})
}

// SendList writes the success envelope with pagination metadata.
func SendList(c *gin.Context, status int, message string, data interface{}, meta Meta) {
	c.JSON(status, response{Success: true, Message: message, Data: data, Meta: &meta})
}

// SendError maps any error to the failure envelope. Internal details are only
// attached outside of release mode.
func SendError(c *gin.Context, err error) {
	appErr := apperrors.From(err)

	resp := response{Success: false, Message: appErr.Message}
	if gin.Mode() != gin.ReleaseMode && appErr.Err != nil {
		resp.Detail = appErr.Err.Error()
	}

	c.JSON(appErr.Status, resp)
}
