package services

import (
	"fmt"
	"strings"
	"time"

	"payroll-compliance-api/config"
	"payroll-compliance-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WPSSubmissionService owns the WPS submission aggregate. It mirrors the
// Mudad service but follows the WPS state graph: the generated bank file is
// recorded at creation, and GENERATED is both the initial state and the
// retry/regeneration target.
type WPSSubmissionService struct {
	db   *gorm.DB
	runs *PayrollRunService
	logs *StatusLogService
}

func NewWPSSubmissionService(db *gorm.DB) *WPSSubmissionService {
	if db == nil {
		db = config.DB
	}
	return &WPSSubmissionService{
		db:   db,
		runs: NewPayrollRunService(db),
		logs: NewStatusLogService(db),
	}
}

type CreateWPSSubmissionInput struct {
	CompanyID      uint
	PayrollRunID   uint
	UserID         uint
	SubmissionType string
	FileURL        string
	FileHash       string
	Notes          string
}

type WPSStatusUpdateInput struct {
	Status        string
	BankReference string
	FailureReason string
	Reason        string
	UserID        uint
}

// Create opens a WPS submission for a locked or paid payroll run, starting
// in GENERATED with the bank file recorded when supplied.
func (s *WPSSubmissionService) Create(in *CreateWPSSubmissionInput) (*models.WPSSubmission, error) {
	if in == nil || in.PayrollRunID == 0 || in.CompanyID == 0 {
		return nil, fmt.Errorf("%w: payroll run and company are required", ErrPayrollRunNotFound)
	}

	run, err := s.runs.FindSubmittable(in.CompanyID, in.PayrollRunID)
	if err != nil {
		return nil, err
	}

	subType := strings.TrimSpace(in.SubmissionType)
	if subType == "" {
		subType = models.SubmissionTypeSalary
	}

	var existing int64
	err = s.db.Model(&models.WPSSubmission{}).
		Where("payroll_run_id = ? AND submission_type = ?", run.PayrollRunID, subType).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing submissions: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateSubmission
	}

	total, count, err := s.runs.PaidTotals(run.PayrollRunID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &models.WPSSubmission{
		ReferenceNumber: newReferenceNumber("WPS"),
		CompanyID:       in.CompanyID,
		PayrollRunID:    run.PayrollRunID,
		SubmissionType:  subType,
		Status:          models.WPSStatusGenerated,
		PeriodYear:      run.PeriodYear,
		PeriodMonth:     run.PeriodMonth,
		TotalAmount:     total,
		EmployeeCount:   count,
		CreatedBy:       in.UserID,
		CreateAt:        now,
		UpdateAt:        now,
	}
	if url := strings.TrimSpace(in.FileURL); url != "" {
		sub.FileURL = &url
	}
	if hash := strings.TrimSpace(in.FileHash); hash != "" {
		sub.FileHash = &hash
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		sub.Notes = &notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create wps submission: %w", err)
		}
		return s.logs.Record(tx, &models.SubmissionStatusLog{
			CompanyID:  in.CompanyID,
			EntityType: models.LogEntityWPS,
			EntityID:   sub.WPSSubmissionID,
			FromStatus: nil,
			ToStatus:   models.WPSStatusGenerated,
			ChangedBy:  in.UserID,
			Reason:     ReasonSubmissionCreated,
			Metadata: metadataJSON(map[string]interface{}{
				"payroll_run_id": run.PayrollRunID,
				"total_amount":   total,
				"employee_count": count,
			}),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateStatus applies one validated WPS transition with the same locking
// and compare-and-set discipline as the Mudad service.
//
// Moving back to GENERATED (regenerate after DOWNLOADED, retry after FAILED)
// clears the failure reason but keeps downloaded_at/downloaded_by as they
// were: the earlier download did happen.
func (s *WPSSubmissionService) UpdateStatus(companyID, submissionID uint, in *WPSStatusUpdateInput) (*models.WPSSubmission, error) {
	if in == nil || in.Status == "" {
		return nil, ErrUnknownStatus
	}
	if !IsKnownStatus(ChannelWPS, in.Status) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, in.Status)
	}

	var sub models.WPSSubmission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("wps_submission_id = ? AND company_id = ?", submissionID, companyID).
			First(&sub).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrSubmissionNotFound
			}
			return fmt.Errorf("failed to load wps submission: %w", err)
		}

		if err := validateTransition(ChannelWPS, sub.Status, in.Status); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":    in.Status,
			"update_at": now,
		}

		switch in.Status {
		case models.WPSStatusDownloaded:
			updates["downloaded_at"] = now
			updates["downloaded_by"] = in.UserID
		case models.WPSStatusGenerated:
			updates["failure_reason"] = nil
		case models.WPSStatusSubmitted:
			updates["submitted_at"] = now
			updates["submitted_by"] = in.UserID
			if ref := strings.TrimSpace(in.BankReference); ref != "" {
				updates["bank_reference"] = ref
			}
		case models.WPSStatusProcessed:
			updates["processed_at"] = now
		case models.WPSStatusFailed:
			reason := strings.TrimSpace(in.FailureReason)
			if reason == "" {
				return ErrMissingFailureReason
			}
			updates["failure_reason"] = reason
		}

		res := tx.Model(&models.WPSSubmission{}).
			Where("wps_submission_id = ? AND status = ?", sub.WPSSubmissionID, sub.Status).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update wps submission: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		logReason := strings.TrimSpace(in.Reason)
		if logReason == "" {
			logReason = ReasonStatusUpdated
		}
		fromStatus := sub.Status
		entry := &models.SubmissionStatusLog{
			CompanyID:  companyID,
			EntityType: models.LogEntityWPS,
			EntityID:   sub.WPSSubmissionID,
			FromStatus: &fromStatus,
			ToStatus:   in.Status,
			ChangedBy:  in.UserID,
			Reason:     logReason,
			CreatedAt:  now,
		}
		if ref := strings.TrimSpace(in.BankReference); ref != "" {
			entry.ExternalReference = &ref
		}
		if note := strings.TrimSpace(in.FailureReason); note != "" {
			entry.Metadata = metadataJSON(map[string]interface{}{"failure_reason": note})
		}
		if err := s.logs.Record(tx, entry); err != nil {
			return err
		}

		sub.Status = in.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(companyID, submissionID)
}

// Delete removes a submission still in its initial GENERATED state.
func (s *WPSSubmissionService) Delete(companyID, submissionID, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sub models.WPSSubmission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("wps_submission_id = ? AND company_id = ?", submissionID, companyID).
			First(&sub).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrSubmissionNotFound
			}
			return fmt.Errorf("failed to load wps submission: %w", err)
		}
		if sub.Status != models.WPSStatusGenerated {
			return ErrDeleteNotPending
		}
		if err := tx.Delete(&models.WPSSubmission{}, sub.WPSSubmissionID).Error; err != nil {
			return fmt.Errorf("failed to delete wps submission: %w", err)
		}
		fromStatus := sub.Status
		return s.logs.Record(tx, &models.SubmissionStatusLog{
			CompanyID:  companyID,
			EntityType: models.LogEntityWPS,
			EntityID:   sub.WPSSubmissionID,
			FromStatus: &fromStatus,
			ToStatus:   fromStatus,
			ChangedBy:  userID,
			Reason:     ReasonSubmissionDeleted,
		})
	})
}

// Get loads one tenant-scoped submission.
func (s *WPSSubmissionService) Get(companyID, submissionID uint) (*models.WPSSubmission, error) {
	var sub models.WPSSubmission
	err := s.db.
		Where("wps_submission_id = ? AND company_id = ?", submissionID, companyID).
		First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load wps submission: %w", err)
	}
	return &sub, nil
}

// List returns tenant submissions, optionally filtered by period year,
// status or payroll run.
func (s *WPSSubmissionService) List(companyID uint, filter *SubmissionListFilter) ([]models.WPSSubmission, error) {
	query := s.db.Where("company_id = ?", companyID)
	if filter != nil {
		if filter.Year != 0 {
			query = query.Where("period_year = ?", filter.Year)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.PayrollRunID != 0 {
			query = query.Where("payroll_run_id = ?", filter.PayrollRunID)
		}
	}
	var subs []models.WPSSubmission
	if err := query.Order("create_at DESC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list wps submissions: %w", err)
	}
	return subs, nil
}
