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

// RegisterPublicAppointmentRoutes registers the booking endpoints that need
// no authentication: slot discovery and (possibly anonymous) booking.
func RegisterPublicAppointmentRoutes(router *gin.RouterGroup) {
	router.GET("/slots", getAvailableSlots)
	router.POST("", createAppointment)
}

// RegisterAppointmentRoutes registers the advertiser-side endpoints
func RegisterAppointmentRoutes(router *gin.RouterGroup) {
	router.GET("", listAppointments)
	router.PATCH("/:id/status", updateAppointmentStatus)
}

// getAvailableSlots returns the free hourly start times for a profile/date
func getAvailableSlots(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Query("profile_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile_id"})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	resolver := services.NewSlotResolver(database.DB)
	availability, err := resolver.ResolveDay(uint(profileID), date)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}

// createAppointment books a new pending appointment. Works for anonymous
// clients; a valid bearer token links the booking to the account.
func createAppointment(c *gin.Context) {
	var req models.AppointmentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	var userID *uint
	if id := c.GetUint("user_id"); id != 0 {
		userID = &id
	}

	svc := services.NewAppointmentService(database.DB)
	appointment, err := svc.Create(req, userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"appointment_id": appointment.ID,
		"appointment":    appointment,
	})
}

// listAppointments returns the owning advertiser's bookings, newest first
func listAppointments(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Query("profile_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile_id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := services.AppointmentFilter{
		Status: models.AppointmentStatus(c.Query("status")),
	}
	if from, err := time.ParseInLocation("2006-01-02", c.Query("from"), time.Local); err == nil {
		filter.From = &from
	}
	if to, err := time.ParseInLocation("2006-01-02", c.Query("to"), time.Local); err == nil {
		end := to.AddDate(0, 0, 1).Add(-time.Second)
		filter.To = &end
	}

	svc := services.NewAppointmentService(database.DB)
	appointments, total, err := svc.ListForProfile(uint(profileID), c.GetUint("user_id"), filter, page, limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments": appointments,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// updateAppointmentStatus drives a lifecycle transition
func updateAppointmentStatus(c *gin.Context) {
	appointmentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	var req models.AppointmentStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	svc := services.NewAppointmentService(database.DB)
	appointment, err := svc.UpdateStatus(uint(appointmentID), c.GetUint("user_id"), req)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appointment": appointment})
}
