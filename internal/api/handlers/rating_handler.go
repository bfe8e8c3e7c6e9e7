// server/internal/api/handlers/rating_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodbridge-api-server/internal/service"
)

type RatingHandler struct {
	Ratings *service.RatingService
}

type SubmitRatingRequest struct {
	DonationID string `json:"donationId" binding:"required"`
	ClaimID    string `json:"claimId" binding:"required"`
	NgoID      string `json:"ngoId" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
}

// Submit records the restaurant's rating of the NGO that completed a
// donation. Re-submitting replaces the previous rating.
func (h *RatingHandler) Submit(c *gin.Context) {
	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Ratings.Submit(c.Request.Context(), service.SubmitRatingInput{
		DonationID:   req.DonationID,
		ClaimID:      req.ClaimID,
		NgoID:        req.NgoID,
		RestaurantID: currentUserID(c),
		Rating:       req.Rating,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success"})
}

// ListMine returns the ratings the calling restaurant has given.
func (h *RatingHandler) ListMine(c *gin.Context) {
	ratings, err := h.Ratings.ListByRestaurant(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "ratings": ratings})
}

// NgoSummary returns the aggregate rating of one NGO.
func (h *RatingHandler) NgoSummary(c *gin.Context) {
	summary, err := h.Ratings.SummaryForNgo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "summary": summary})
}
