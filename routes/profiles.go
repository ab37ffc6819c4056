package routes

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"companion-booking-server/database"
	"companion-booking-server/models"
)

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// RegisterPublicProfileRoutes registers profile routes that need no auth
func RegisterPublicProfileRoutes(router *gin.RouterGroup) {
	router.GET("/:slug", getProfileBySlug)
}

// RegisterProfileRoutes registers profile routes for authenticated
// advertisers. The bare GET returns the caller's own profile; public lookups
// go through the slug route.
func RegisterProfileRoutes(router *gin.RouterGroup) {
	router.POST("", createProfile)
	router.GET("", getMyProfile)
	router.PUT("/:id", updateProfile)
}

// getProfileBySlug returns a public listing and bumps its view counter
func getProfileBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var profile models.AdvertiserProfile
	if err := database.DB.Where("slug = ? AND is_active = ?", slug, true).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		}
		return
	}

	database.DB.Model(&profile).UpdateColumn("view_count", gorm.Expr("view_count + 1"))

	c.JSON(http.StatusOK, profile)
}

// createProfile creates the advertiser profile for the current user
func createProfile(c *gin.Context) {
	var req models.ProfileCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	userID := c.GetUint("user_id")

	var existing models.AdvertiserProfile
	if err := database.DB.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a profile"})
		return
	}

	profile := models.AdvertiserProfile{
		UserID:        userID,
		Slug:          makeSlug(req.DisplayName),
		Category:      req.Category,
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		Age:           req.Age,
		Whatsapp:      req.Whatsapp,
		Telegram:      req.Telegram,
		City:          req.City,
		State:         req.State,
		Neighborhood:  req.Neighborhood,
		PricePerHour:  req.PricePerHour,
		PricePerNight: req.PricePerNight,
		HasOwnPlace:   req.HasOwnPlace,
		DoesOutcall:   req.DoesOutcall,
		Is24Hours:     req.Is24Hours,
		IsActive:      true,
	}

	if err := database.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	// Advertisers manage bookings, whatever role they registered with.
	database.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", models.RoleAdvertiser)

	c.JSON(http.StatusCreated, gin.H{"success": true, "profile": profile})
}

// getMyProfile returns the current user's own profile
func getMyProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var profile models.AdvertiserProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// updateProfile applies a partial update to an owned profile
func updateProfile(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile ID"})
		return
	}

	userID := c.GetUint("user_id")

	var profile models.AdvertiserProfile
	if err := database.DB.First(&profile, profileID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		}
		return
	}
	if profile.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this profile"})
		return
	}

	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	setIf(updates, "display_name", req.DisplayName)
	setIf(updates, "bio", req.Bio)
	setIf(updates, "age", req.Age)
	setIf(updates, "whatsapp", req.Whatsapp)
	setIf(updates, "telegram", req.Telegram)
	setIf(updates, "city", req.City)
	setIf(updates, "state", req.State)
	setIf(updates, "neighborhood", req.Neighborhood)
	setIf(updates, "price_per_hour", req.PricePerHour)
	setIf(updates, "price_per_night", req.PricePerNight)
	setIf(updates, "has_own_place", req.HasOwnPlace)
	setIf(updates, "does_outcall", req.DoesOutcall)
	setIf(updates, "is_24_hours", req.Is24Hours)
	setIf(updates, "is_active", req.IsActive)

	if err := database.DB.Model(&profile).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// makeSlug builds a URL slug from a display name with a time-based suffix to
// keep it unique.
func makeSlug(displayName string) string {
	base := strings.ToLower(displayName)
	base = slugCleaner.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	return base + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}

func setIf[T any](updates map[string]interface{}, column string, v *T) {
	if v != nil {
		updates[column] = *v
	}
}
