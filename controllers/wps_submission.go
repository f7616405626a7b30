package controllers

import (
	"net/http"

	"payroll-compliance-api/services"

	"github.com/gin-gonic/gin"
)

type createWPSRequest struct {
	PayrollRunID   uint   `json:"payroll_run_id" binding:"required"`
	SubmissionType string `json:"submission_type"`
	FileURL        string `json:"file_url"`
	FileHash       string `json:"file_hash"`
	Notes          string `json:"notes"`
}

// CreateWPSSubmission opens a WPS submission for a locked payroll run.
func CreateWPSSubmission(c *gin.Context) {
	var req createWPSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewWPSSubmissionService(nil)
	sub, err := svc.Create(&services.CreateWPSSubmissionInput{
		CompanyID:      currentCompanyID(c),
		PayrollRunID:   req.PayrollRunID,
		UserID:         currentUserID(c),
		SubmissionType: req.SubmissionType,
		FileURL:        req.FileURL,
		FileHash:       req.FileHash,
		Notes:          req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission": sub})
}

// ListWPSSubmissions lists tenant submissions with optional filters.
func ListWPSSubmissions(c *gin.Context) {
	svc := services.NewWPSSubmissionService(nil)
	subs, err := svc.List(currentCompanyID(c), listFilterFromQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs, "total": len(subs)})
}

// GetWPSSubmission fetches one submission.
func GetWPSSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc := services.NewWPSSubmissionService(nil)
	sub, err := svc.Get(currentCompanyID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

// UpdateWPSSubmissionStatus applies one validated transition.
func UpdateWPSSubmissionStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewWPSSubmissionService(nil)
	sub, err := svc.UpdateStatus(currentCompanyID(c), id, &services.WPSStatusUpdateInput{
		Status:        req.Status,
		BankReference: req.ExternalReference,
		FailureReason: req.FailureReason,
		Reason:        req.Reason,
		UserID:        currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

// DeleteWPSSubmission removes a submission still in GENERATED.
func DeleteWPSSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc := services.NewWPSSubmissionService(nil)
	if err := svc.Delete(currentCompanyID(c), id, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted"})
}
