package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"doerhub/services/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var NotificationService notification.NotificationService

// ListNotificationsHandler returns the caller's notifications merged with
// broadcasts, newest first.
func ListNotificationsHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	notifications, err := NotificationService.ListForUser(principal.UserID, limit)
	if err != nil {
		logger.Error("Failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationReadHandler marks one of the caller's notifications read.
func MarkNotificationReadHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := NotificationService.MarkRead(c.Param("id"), principal.UserID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		logger.Error("Failed to mark notification read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// MarkAllNotificationsReadHandler marks all of the caller's personal
// notifications read.
func MarkAllNotificationsReadHandler(c *gin.Context) {
	logger := getLogger(c)
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := NotificationService.MarkAllRead(principal.UserID); err != nil {
		logger.Error("Failed to mark notifications read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
