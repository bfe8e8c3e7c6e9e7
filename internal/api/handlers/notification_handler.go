// server/internal/api/handlers/notification_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodbridge-api-server/internal/service"
)

type NotificationHandler struct {
	Store service.Store
}

// ListMine returns the caller's notification inbox, newest first.
func (h *NotificationHandler) ListMine(c *gin.Context) {
	notifications, err := h.Store.NotificationsFor(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "notifications": notifications})
}

// MarkRead flags one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Store.MarkNotificationRead(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
