package jobs

import (
	"log"
	"time"

	"companion-booking-server/config"
	"companion-booking-server/database"
	"companion-booking-server/models"
)

// ExpiryJob auto-cancels pending appointments the advertiser never acted on.
// A pending booking otherwise occupies its slot forever. The grace period
// after the appointment's start time is configurable; cancellation is
// attributed to the advertiser with a fixed reason.
type ExpiryJob struct {
	stopChan chan bool
}

// NewExpiryJob creates a new expiry job
func NewExpiryJob() *ExpiryJob {
	return &ExpiryJob{
		stopChan: make(chan bool),
	}
}

// Start begins the expiry job
func (j *ExpiryJob) Start() {
	go j.run()
	log.Println("🚀 Pending-appointment expiry job started")
}

// Stop stops the expiry job
func (j *ExpiryJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Pending-appointment expiry job stopped")
}

func (j *ExpiryJob) run() {
	interval := time.Duration(config.AppConfig.Booking.ExpirySweepSec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stopChan:
			return
		}
	}
}

// sweep cancels pending appointments whose start time passed the grace window
func (j *ExpiryJob) sweep() {
	grace := time.Duration(config.AppConfig.Booking.PendingGraceHours) * time.Hour
	cutoff := time.Now().Add(-grace)

	var stale []models.Appointment
	err := database.DB.
		Where("status = ? AND appointment_date <= ?", models.AppointmentStatusPending, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("❌ Error checking stale pending appointments: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}
	log.Printf("⏰ Found %d stale pending appointments", len(stale))

	now := time.Now()
	cancelledBy := models.CancelledByAdvertiser
	for _, appointment := range stale {
		updates := map[string]interface{}{
			"status":              models.AppointmentStatusCancelled,
			"cancelled_at":        now,
			"cancelled_by":        cancelledBy,
			"cancellation_reason": "not confirmed before the appointment time",
			"updated_at":          now,
		}
		if err := database.DB.Model(&appointment).Updates(updates).Error; err != nil {
			log.Printf("❌ Failed to expire appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("✅ Appointment %d auto-cancelled after pending grace period", appointment.ID)
	}
}
