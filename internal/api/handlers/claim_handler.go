// server/internal/api/handlers/claim_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/service"
	"foodbridge-api-server/internal/storage"
)

type ClaimHandler struct {
	Claims   *service.ClaimService
	Uploader storage.Uploader
}

// Claim lets a verified, available NGO claim a donation. When several
// NGOs race for the same donation exactly one wins; the rest get a 409.
func (h *ClaimHandler) Claim(c *gin.Context) {
	claim, err := h.Claims.Claim(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "claim": claim})
}

// StartPickup moves a claim from claimed to in_progress. Requires an
// approved pickup schedule.
func (h *ClaimHandler) StartPickup(c *gin.Context) {
	err := h.Claims.AdvancePickupStatus(c.Request.Context(), c.Param("id"), currentUserID(c), models.PickupInProgress, "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "pickupStatus": models.PickupInProgress})
}

// CompletePickup moves a claim from in_progress to completed. The proof
// image is a required multipart file and is uploaded before the
// transaction opens; an upload failure leaves the claim untouched.
func (h *ClaimHandler) CompletePickup(c *gin.Context) {
	fileHeader, err := c.FormFile("proofImage")
	if err != nil {
		respondError(c, service.ErrProofRequired)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read proof image", "details": err.Error()})
		return
	}
	defer file.Close()

	objectKey := fmt.Sprintf("proofs/%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
	proofURL, err := h.Uploader.UploadFile(c.Request.Context(), file, objectKey, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload proof image", "details": err.Error()})
		return
	}

	err = h.Claims.AdvancePickupStatus(c.Request.Context(), c.Param("id"), currentUserID(c), models.PickupCompleted, proofURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "pickupStatus": models.PickupCompleted, "proofImageUrl": proofURL})
}

// ListMine returns the calling NGO's claims, newest first.
func (h *ClaimHandler) ListMine(c *gin.Context) {
	claims, err := h.Claims.ListByNgo(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "claims": claims})
}
