package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"companion-booking-server/database"
	"companion-booking-server/models"
	"companion-booking-server/services"
)

// RegisterPublicAvailabilityRoutes registers the read endpoints clients use
// when picking a date.
func RegisterPublicAvailabilityRoutes(router *gin.RouterGroup) {
	router.GET("/blocked", getBlockedDates)
}

// RegisterAvailabilityRoutes registers the advertiser-side schedule endpoints
func RegisterAvailabilityRoutes(router *gin.RouterGroup) {
	router.GET("/slots", getAvailabilitySlots)
	router.PUT("/slots", setAvailabilitySlots)
	router.POST("/blocked/toggle", toggleBlockedDate)
}

// getAvailabilitySlots returns the owner's weekly schedule
func getAvailabilitySlots(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Query("profile_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile_id"})
		return
	}

	svc := services.NewAvailabilityService(database.DB)
	slots, err := svc.GetSlotsForOwner(uint(profileID), c.GetUint("user_id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// setAvailabilitySlots replaces the whole weekly schedule in one shot
func setAvailabilitySlots(c *gin.Context) {
	var req models.AvailabilitySetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	svc := services.NewAvailabilityService(database.DB)
	slots, err := svc.ReplaceSlots(req.ProfileID, c.GetUint("user_id"), req.Slots)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "slots": slots})
}

// getBlockedDates lists a profile's blocked dates within a range
func getBlockedDates(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Query("profile_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile_id"})
		return
	}

	from, err := time.ParseInLocation("2006-01-02", c.DefaultQuery("from", time.Now().Format("2006-01-02")), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.ParseInLocation("2006-01-02", c.DefaultQuery("to", from.AddDate(0, 3, 0).Format("2006-01-02")), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	svc := services.NewAvailabilityService(database.DB)
	blocked, err := svc.GetBlockedDates(uint(profileID), from, to)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked_dates": blocked})
}

// BlockDateRequest toggles a blocked date
type BlockDateRequest struct {
	ProfileID uint   `json:"profile_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Reason    string `json:"reason"`
}

// toggleBlockedDate blocks a free date or unblocks a blocked one
func toggleBlockedDate(c *gin.Context) {
	var req BlockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	svc := services.NewAvailabilityService(database.DB)
	blocked, err := svc.ToggleBlock(req.ProfileID, c.GetUint("user_id"), date, req.Reason)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked": blocked})
}
