// server/internal/api/handlers/donation_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodbridge-api-server/internal/service"
	"foodbridge-api-server/internal/storage"
)

type DonationHandler struct {
	Donations *service.DonationService
	Uploader  storage.Uploader
}

// Create accepts a multipart form so image and video files ride along
// with the donation fields. Media is uploaded before anything is
// written; an upload failure fails the whole request.
func (h *DonationHandler) Create(c *gin.Context) {
	foodName := strings.TrimSpace(c.PostForm("foodName"))
	quantity := strings.TrimSpace(c.PostForm("quantity"))
	address := strings.TrimSpace(c.PostForm("address"))
	if foodName == "" || quantity == "" || address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "foodName, quantity and address are required"})
		return
	}

	availableTill, err := service.ParsePickupTime(c.PostForm("availableTill"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	var latitude, longitude *float64
	if raw := c.PostForm("latitude"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "latitude must be a number"})
			return
		}
		latitude = &v
	}
	if raw := c.PostForm("longitude"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "longitude must be a number"})
			return
		}
		longitude = &v
	}

	imageURL, err := h.uploadFormFile(c, "image", "donations")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image", "details": err.Error()})
		return
	}
	videoURL, err := h.uploadFormFile(c, "video", "donations")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload video", "details": err.Error()})
		return
	}

	donation, err := h.Donations.Create(c.Request.Context(), currentUserID(c), service.CreateDonationInput{
		FoodName:      foodName,
		Quantity:      quantity,
		Address:       address,
		Latitude:      latitude,
		Longitude:     longitude,
		Description:   c.PostForm("description"),
		AvailableTill: availableTill,
		ImageURL:      imageURL,
		VideoURL:      videoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "donation": donation})
}

// uploadFormFile uploads an optional multipart file and returns its URL,
// or "" when the field is absent.
func (h *DonationHandler) uploadFormFile(c *gin.Context, field, folder string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// Absent optional file.
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	objectKey := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	return h.Uploader.UploadFile(c.Request.Context(), file, objectKey, contentType)
}

// ListAvailable is the NGO browse view, ordered for triage.
func (h *DonationHandler) ListAvailable(c *gin.Context) {
	donations, err := h.Donations.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "donations": donations})
}

// ListMine returns the calling restaurant's own donations.
func (h *DonationHandler) ListMine(c *gin.Context) {
	donations, err := h.Donations.ListByRestaurant(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "donations": donations})
}

// ListAll is the admin moderation table.
func (h *DonationHandler) ListAll(c *gin.Context) {
	donations, err := h.Donations.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "donations": donations})
}

type SetDonationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus is the admin override. It writes the status directly without
// lifecycle checks.
func (h *DonationHandler) SetStatus(c *gin.Context) {
	var req SetDonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Donations.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Delete removes a donation (owner or admin).
func (h *DonationHandler) Delete(c *gin.Context) {
	err := h.Donations.Delete(c.Request.Context(), c.Param("id"), currentUserID(c), currentUserRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
