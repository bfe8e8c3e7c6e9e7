// server/internal/api/handlers/analytics_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodbridge-api-server/internal/service"
)

type AnalyticsHandler struct {
	Analytics *service.AnalyticsService
}

// Summary returns platform-wide counts for the admin dashboard.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.Analytics.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "analytics": summary})
}
