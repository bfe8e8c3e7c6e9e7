// server/internal/api/handlers/user_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodbridge-api-server/internal/service"
)

type UserHandler struct {
	Users *service.UserService
}

// Me returns the calling user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "user": user})
}

type SetAvailabilityRequest struct {
	AvailabilityStatus string `json:"availabilityStatus" binding:"required"` // "available" or "busy"
}

// SetAvailability toggles the calling NGO's available/busy flag.
func (h *UserHandler) SetAvailability(c *gin.Context) {
	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Users.SetAvailability(c.Request.Context(), currentUserID(c), req.AvailabilityStatus); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "availabilityStatus": req.AvailabilityStatus})
}

// List is the admin user table.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "users": users})
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetRole is the admin role change, with NGO verification reset applied
// in the service.
func (h *UserHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Users.SetRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type SetVerificationRequest struct {
	IsVerified *bool `json:"isVerified" binding:"required"`
}

// SetVerification grants or revokes an NGO's claiming eligibility.
func (h *UserHandler) SetVerification(c *gin.Context) {
	var req SetVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Users.SetVerification(c.Request.Context(), c.Param("id"), *req.IsVerified); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Delete removes a user account (admin only).
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
