package controllers

import (
	"net/http"
	"strings"

	"payroll-compliance-api/services"

	"github.com/gin-gonic/gin"
)

// GetAllowedNextStatuses exposes the transition table for UI state
// rendering: the legal next statuses and whether the status is final.
func GetAllowedNextStatuses(c *gin.Context) {
	channel := strings.ToUpper(c.Param("channel"))
	if channel != services.ChannelMudad && channel != services.ChannelWPS {
		respondServiceError(c, services.ErrUnknownChannel)
		return
	}

	status := strings.ToUpper(c.Param("status"))
	if !services.IsKnownStatus(channel, status) {
		respondServiceError(c, services.ErrUnknownStatus)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channel":  channel,
		"status":   status,
		"next":     services.AllowedNextStatuses(channel, status),
		"is_final": services.IsTerminalStatus(channel, status),
	})
}
