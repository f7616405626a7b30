package controllers

import (
	"net/http"
	"time"

	"payroll-compliance-api/config"
	"payroll-compliance-api/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the current user's notifications, newest first.
func GetNotifications(c *gin.Context) {
	var notifications []models.Notification
	err := config.DB.
		Where("user_id = ? AND company_id = ?", currentUserID(c), currentCompanyID(c)).
		Order("create_at DESC").
		Limit(100).
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "total": len(notifications)})
}

// MarkNotificationRead flags one notification as read.
func MarkNotificationRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	now := time.Now()
	res := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, currentUserID(c)).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
