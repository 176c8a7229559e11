package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Velora-Rentals/service-rental/internal/domain"
)

// statusByCode maps domain error codes to HTTP statuses. Anything unmapped
// is treated as an internal error.
var statusByCode = map[domain.ErrorCode]int{
	domain.CodeNotFound:            http.StatusNotFound,
	domain.CodeValidation:          http.StatusBadRequest,
	domain.CodeInvalidDateRange:    http.StatusBadRequest,
	domain.CodeInvalidRating:       http.StatusBadRequest,
	domain.CodeForbidden:           http.StatusForbidden,
	domain.CodeConflict:            http.StatusConflict,
	domain.CodeVehicleUnavailable:  http.StatusConflict,
	domain.CodeOverlappingBooking:  http.StatusConflict,
	domain.CodeInvalidTransition:   http.StatusConflict,
	domain.CodeBookingNotCompleted: http.StatusConflict,
	domain.CodeDuplicateReview:     http.StatusConflict,
}

// Success writes a 200 response with the data payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 response with the data payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// Paginated writes a 200 response with items and pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": domain.CodeValidation, "message": msg}})
}

// Error maps a domain error to its HTTP status and writes the error envelope.
// Non-domain errors become opaque 500s; their detail stays in the logs.
func Error(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": gin.H{"code": de.Code, "message": de.Message}})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"code": domain.CodeInternal, "message": "internal server error"}})
}
