// server/internal/api/handlers/schedule_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/service"
)

type ScheduleHandler struct {
	Schedules *service.ScheduleService
}

type RequestScheduleRequest struct {
	ClaimID    string `json:"claimId" binding:"required"`
	PickupTime string `json:"pickupTime" binding:"required"`
}

// Request proposes a pickup time for a claim. Only the claim's NGO may
// propose; a rejected schedule may be replaced this way.
func (h *ScheduleHandler) Request(c *gin.Context) {
	var req RequestScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.Schedules.Request(c.Request.Context(), req.ClaimID, currentUserID(c), req.PickupTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "schedule": schedule})
}

type ReviewScheduleRequest struct {
	Decision        string `json:"decision" binding:"required"` // "approved" or "rejected"
	RejectionReason string `json:"rejectionReason"`
}

// Review records the restaurant's approve/reject decision on a pending
// schedule.
func (h *ScheduleHandler) Review(c *gin.Context) {
	var req ReviewScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Schedules.Review(c.Request.Context(), c.Param("id"), currentUserID(c), req.Decision, req.RejectionReason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListMine returns the caller's schedules: proposals for NGOs, incoming
// requests for restaurants.
func (h *ScheduleHandler) ListMine(c *gin.Context) {
	var (
		schedules []models.PickupSchedule
		err       error
	)
	switch currentUserRole(c) {
	case models.RoleNgo:
		schedules, err = h.Schedules.ListByNgo(c.Request.Context(), currentUserID(c))
	case models.RoleRestaurant:
		schedules, err = h.Schedules.ListByRestaurant(c.Request.Context(), currentUserID(c))
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Only NGOs and restaurants have pickup schedules"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "schedules": schedules})
}
