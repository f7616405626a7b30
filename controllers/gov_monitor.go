package controllers

import (
	"net/http"

	"payroll-compliance-api/monitor"
	"payroll-compliance-api/services"

	"github.com/gin-gonic/gin"
)

// StuckMonitor is the process-wide monitor instance, wired in main.
var StuckMonitor *monitor.StuckSubmissionMonitor

// GetStuckSubmissionStats reports how many submissions are currently stuck
// per channel.
func GetStuckSubmissionStats(c *gin.Context) {
	svc := services.NewStuckSubmissionService(nil, nil)
	stats, err := svc.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mudad_count":     stats.MudadCount,
		"wps_count":       stats.WPSCount,
		"total":           stats.MudadCount + stats.WPSCount,
		"threshold_hours": int(svc.Threshold().Hours()),
	})
}

// TriggerStuckScan runs one scan outside the schedule.
func TriggerStuckScan(c *gin.Context) {
	if StuckMonitor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Monitor not running"})
		return
	}
	alerts, err := StuckMonitor.TriggerScan(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Scan completed",
		"alerts_raised":  len(alerts),
		"tenant_alerts":  alerts,
	})
}
