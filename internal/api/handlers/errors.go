// server/internal/api/handlers/errors.go
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodbridge-api-server/internal/service"
)

// respondError maps service errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body; the detail goes to the log
// only.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrVerificationRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyClaimed),
		errors.Is(err, service.ErrNgoBusy),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNotPending),
		errors.Is(err, service.ErrScheduleMissing),
		errors.Is(err, service.ErrScheduleNotApproved),
		errors.Is(err, service.ErrScheduleAlreadyPending),
		errors.Is(err, service.ErrScheduleAlreadyApproved),
		errors.Is(err, service.ErrDonationAlreadyCompleted),
		errors.Is(err, service.ErrDonationNotCompleted),
		errors.Is(err, service.ErrEmailInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTime),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidMapping),
		errors.Is(err, service.ErrProofRequired),
		errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

func currentUserRole(c *gin.Context) string {
	return c.GetString("user_role")
}
