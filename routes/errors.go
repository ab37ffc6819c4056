package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"companion-booking-server/services"
)

// abortWithServiceError maps scheduling-service errors onto HTTP responses.
// Unknown errors surface as a generic 500 without leaking detail.
func abortWithServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var transitionErr *services.InvalidTransitionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"field":   validationErr.Field,
			"message": validationErr.Message,
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this profile"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Time slot is no longer available"})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Invalid status transition",
			"message": transitionErr.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
