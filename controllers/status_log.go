package controllers

import (
	"net/http"
	"strings"
	"time"

	"payroll-compliance-api/services"

	"github.com/gin-gonic/gin"
)

// GetEntityStatusLogs returns the full audit trail for one submission,
// newest first.
func GetEntityStatusLogs(c *gin.Context) {
	entityType := strings.ToUpper(c.Param("type"))
	if entityType != services.ChannelMudad && entityType != services.ChannelWPS {
		respondServiceError(c, services.ErrUnknownChannel)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewStatusLogService(nil)
	entries, err := svc.EntriesForEntity(currentCompanyID(c), entityType, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

// GetUserStatusLogs returns all trail entries attributed to one acting user.
func GetUserStatusLogs(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc := services.NewStatusLogService(nil)
	entries, err := svc.EntriesForUser(currentCompanyID(c), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

// GetStatusLogsByPeriod returns tenant entries inside [from, to], for
// compliance exports. Dates use YYYY-MM-DD; to is inclusive.
func GetStatusLogsByPeriod(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}
	to = to.Add(24*time.Hour - time.Nanosecond)

	svc := services.NewStatusLogService(nil)
	entries, err := svc.EntriesForPeriod(currentCompanyID(c), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}
