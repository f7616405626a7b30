package controllers

import (
	"errors"
	"net/http"

	"payroll-compliance-api/services"

	"github.com/gin-gonic/gin"
)

// currentUserID returns the acting user id set by the auth middleware.
func currentUserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// currentCompanyID returns the tenant id set by the auth middleware.
func currentCompanyID(c *gin.Context) uint {
	if v, ok := c.Get("companyID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// not-found 404, duplicates and races 409, illegal transitions 422, accepted
// immutability 412, other precondition failures 400, everything else 500.
func respondServiceError(c *gin.Context, err error) {
	var illegal *services.IllegalTransitionError
	switch {
	case errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrPayrollRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateSubmission),
		errors.Is(err, services.ErrStaleStatus):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &illegal):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":            illegal.Error(),
			"current_status":   illegal.From,
			"allowed_statuses": illegal.Allowed,
		})
	case errors.Is(err, services.ErrAcceptedImmutable):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRunNotReady),
		errors.Is(err, services.ErrDeleteNotPending),
		errors.Is(err, services.ErrMissingRejectionReason),
		errors.Is(err, services.ErrMissingFailureReason),
		errors.Is(err, services.ErrMissingFileHash),
		errors.Is(err, services.ErrUnknownChannel),
		errors.Is(err, services.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
