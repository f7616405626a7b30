package controllers

import (
	"net/http"
	"strconv"

	"payroll-compliance-api/services"
	"payroll-compliance-api/utils"

	"github.com/gin-gonic/gin"
)

type createMudadRequest struct {
	PayrollRunID   uint   `json:"payroll_run_id" binding:"required"`
	SubmissionType string `json:"submission_type"`
	Notes          string `json:"notes"`
}

type statusUpdateRequest struct {
	Status            string `json:"status" binding:"required"`
	ExternalReference string `json:"external_reference"`
	RejectionReason   string `json:"rejection_reason"`
	FailureReason     string `json:"failure_reason"`
	Reason            string `json:"reason"`
}

type fileAttachmentRequest struct {
	FileURL  string `json:"file_url" binding:"required"`
	FileHash string `json:"file_hash" binding:"required"`
	FileName string `json:"file_name"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

func listFilterFromQuery(c *gin.Context) *services.SubmissionListFilter {
	filter := &services.SubmissionListFilter{
		Status: c.Query("status"),
	}
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		filter.Year = year
	}
	if runID, err := strconv.ParseUint(c.Query("payroll_run_id"), 10, 64); err == nil {
		filter.PayrollRunID = uint(runID)
	}
	return filter
}

// CreateMudadSubmission opens a Mudad submission for a locked payroll run.
func CreateMudadSubmission(c *gin.Context) {
	var req createMudadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewMudadSubmissionService(nil)
	sub, err := svc.Create(&services.CreateMudadSubmissionInput{
		CompanyID:      currentCompanyID(c),
		PayrollRunID:   req.PayrollRunID,
		UserID:         currentUserID(c),
		SubmissionType: req.SubmissionType,
		Notes:          req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"submission": sub})
}

// ListMudadSubmissions lists tenant submissions with optional year/status filters.
func ListMudadSubmissions(c *gin.Context) {
	svc := services.NewMudadSubmissionService(nil)
	subs, err := svc.List(currentCompanyID(c), listFilterFromQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs, "total": len(subs)})
}

// GetMudadSubmission fetches one submission.
func GetMudadSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc := services.NewMudadSubmissionService(nil)
	sub, err := svc.Get(currentCompanyID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

// UpdateMudadSubmissionStatus applies one validated transition.
func UpdateMudadSubmissionStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewMudadSubmissionService(nil)
	sub, err := svc.UpdateStatus(currentCompanyID(c), id, &services.MudadStatusUpdateInput{
		Status:            req.Status,
		ExternalReference: req.ExternalReference,
		RejectionReason:   req.RejectionReason,
		Reason:            req.Reason,
		UserID:            currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

// AttachMudadSubmissionFile attaches or re-attaches a generated file by URL
// and caller-computed content hash.
func AttachMudadSubmissionFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req fileAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.IsContentHash(req.FileHash) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_hash must be a hex digest"})
		return
	}

	svc := services.NewMudadSubmissionService(nil)
	sub, err := svc.AttachFile(currentCompanyID(c), id, &services.FileAttachmentInput{
		FileURL:  req.FileURL,
		FileHash: req.FileHash,
		FileName: req.FileName,
		UserID:   currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

// DeleteMudadSubmission removes a submission that never left PENDING.
func DeleteMudadSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc := services.NewMudadSubmissionService(nil)
	if err := svc.Delete(currentCompanyID(c), id, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted"})
}
