package services

import (
	"fmt"
	"strings"
	"time"

	"payroll-compliance-api/config"
	"payroll-compliance-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MudadSubmissionService owns the Mudad submission aggregate: creation,
// validated status transitions, file reattachment reconciliation and
// pending-only deletion. Every state change and its audit entry share one
// transaction.
type MudadSubmissionService struct {
	db   *gorm.DB
	runs *PayrollRunService
	logs *StatusLogService
}

func NewMudadSubmissionService(db *gorm.DB) *MudadSubmissionService {
	if db == nil {
		db = config.DB
	}
	return &MudadSubmissionService{
		db:   db,
		runs: NewPayrollRunService(db),
		logs: NewStatusLogService(db),
	}
}

type CreateMudadSubmissionInput struct {
	CompanyID      uint
	PayrollRunID   uint
	UserID         uint
	SubmissionType string
	Notes          string
}

type MudadStatusUpdateInput struct {
	Status            string
	ExternalReference string
	RejectionReason   string
	Reason            string
	UserID            uint
}

type FileAttachmentInput struct {
	FileURL  string
	FileHash string
	FileName string
	UserID   uint
}

type SubmissionListFilter struct {
	Year         int
	Status       string
	PayrollRunID uint
}

// newReferenceNumber builds a short human-readable submission reference.
func newReferenceNumber(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
}

// Create opens a Mudad submission for a locked or paid payroll run. Total
// amount and employee count are snapshot from the run's paid payslips and
// never recomputed afterwards.
func (s *MudadSubmissionService) Create(in *CreateMudadSubmissionInput) (*models.MudadSubmission, error) {
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
	err = s.db.Model(&models.MudadSubmission{}).
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
	sub := &models.MudadSubmission{
		ReferenceNumber: newReferenceNumber("MUD"),
		CompanyID:       in.CompanyID,
		PayrollRunID:    run.PayrollRunID,
		SubmissionType:  subType,
		Status:          models.MudadStatusPending,
		PeriodYear:      run.PeriodYear,
		PeriodMonth:     run.PeriodMonth,
		TotalAmount:     total,
		EmployeeCount:   count,
		CreatedBy:       in.UserID,
		CreateAt:        now,
		UpdateAt:        now,
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		sub.Notes = &notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create mudad submission: %w", err)
		}
		return s.logs.Record(tx, &models.SubmissionStatusLog{
			CompanyID:  in.CompanyID,
			EntityType: models.LogEntityMudad,
			EntityID:   sub.MudadSubmissionID,
			FromStatus: nil,
			ToStatus:   models.MudadStatusPending,
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

// UpdateStatus applies one validated transition. The row is locked for the
// duration of the transaction and the status write is a compare-and-set, so
// a racing update loses with ErrStaleStatus instead of clobbering state.
func (s *MudadSubmissionService) UpdateStatus(companyID, submissionID uint, in *MudadStatusUpdateInput) (*models.MudadSubmission, error) {
	if in == nil || in.Status == "" {
		return nil, ErrUnknownStatus
	}
	if !IsKnownStatus(ChannelMudad, in.Status) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, in.Status)
	}

	var sub models.MudadSubmission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("mudad_submission_id = ? AND company_id = ?", submissionID, companyID).
			First(&sub).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrSubmissionNotFound
			}
			return fmt.Errorf("failed to load mudad submission: %w", err)
		}

		if err := validateTransition(ChannelMudad, sub.Status, in.Status); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":    in.Status,
			"update_at": now,
		}

		switch in.Status {
		case models.MudadStatusPrepared:
			if sub.PreparedAt == nil {
				updates["prepared_at"] = now
			}
		case models.MudadStatusSubmitted:
			updates["submitted_at"] = now
			updates["submitted_by"] = in.UserID
			if ref := strings.TrimSpace(in.ExternalReference); ref != "" {
				updates["external_reference"] = ref
			}
		case models.MudadStatusAccepted:
			updates["accepted_at"] = now
			if ref := strings.TrimSpace(in.ExternalReference); ref != "" {
				updates["external_reference"] = ref
			}
		case models.MudadStatusRejected:
			reason := strings.TrimSpace(in.RejectionReason)
			if reason == "" {
				return ErrMissingRejectionReason
			}
			updates["rejected_at"] = now
			updates["rejection_reason"] = reason
		case models.MudadStatusResubmitted:
			updates["rejected_at"] = nil
			updates["rejection_reason"] = nil
			updates["submitted_at"] = now
			updates["submitted_by"] = in.UserID
		}

		res := tx.Model(&models.MudadSubmission{}).
			Where("mudad_submission_id = ? AND status = ?", sub.MudadSubmissionID, sub.Status).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update mudad submission: %w", res.Error)
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
			EntityType: models.LogEntityMudad,
			EntityID:   sub.MudadSubmissionID,
			FromStatus: &fromStatus,
			ToStatus:   in.Status,
			ChangedBy:  in.UserID,
			Reason:     logReason,
			CreatedAt:  now,
		}
		if ref := strings.TrimSpace(in.ExternalReference); ref != "" {
			entry.ExternalReference = &ref
		}
		if note := strings.TrimSpace(in.RejectionReason); note != "" {
			entry.Metadata = metadataJSON(map[string]interface{}{"rejection_reason": note})
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

// attachmentOutcome is the decision of the reconciliation algorithm: the
// status the submission moves to and the reason recorded in the audit trail.
type attachmentOutcome struct {
	NextStatus string
	Reason     string
}

// resolveFileAttachment decides what a (re)attachment means, using only the
// stored and incoming content hashes and the current status. The branches
// are evaluated in this exact order; the ACCEPTED guard is handled by the
// caller before this runs.
func resolveFileAttachment(status, existingHash, newHash string) attachmentOutcome {
	switch {
	case existingHash != "" && existingHash == newHash:
		// Identical content, never force a resubmission cycle.
		return attachmentOutcome{NextStatus: status, Reason: ReasonFileUnchanged}
	case existingHash != "" && newHash != "" && existingHash != newHash:
		// Previously submitted content is stale; any status moves to
		// RESUBMIT_REQUIRED. This is the one bypass of the transition table.
		return attachmentOutcome{NextStatus: models.MudadStatusResubmitRequired, Reason: ReasonFileHashChanged}
	case existingHash == "" && status == models.MudadStatusPending:
		return attachmentOutcome{NextStatus: models.MudadStatusPrepared, Reason: ReasonFirstFileAttached}
	case status == models.MudadStatusResubmitRequired:
		return attachmentOutcome{NextStatus: models.MudadStatusPrepared, Reason: ReasonFileReattachedRecovery}
	default:
		return attachmentOutcome{NextStatus: status, Reason: ReasonFileAttached}
	}
}

// AttachFile reconciles a generated file against the submission using the
// caller-computed content hash. An accepted submission rejects the attempt
// but still leaves a denial entry in the audit trail.
func (s *MudadSubmissionService) AttachFile(companyID, submissionID uint, in *FileAttachmentInput) (*models.MudadSubmission, error) {
	if in == nil || strings.TrimSpace(in.FileURL) == "" || strings.TrimSpace(in.FileHash) == "" {
		return nil, ErrMissingFileHash
	}
	fileURL := strings.TrimSpace(in.FileURL)
	newHash := strings.TrimSpace(in.FileHash)

	var sub models.MudadSubmission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("mudad_submission_id = ? AND company_id = ?", submissionID, companyID).
			First(&sub).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrSubmissionNotFound
			}
			return fmt.Errorf("failed to load mudad submission: %w", err)
		}

		if sub.Status == models.MudadStatusAccepted {
			// The denial entry is written outside this transaction so the
			// forensic trail survives the rollback of the refused change.
			denied := sub.Status
			logErr := s.logs.Record(nil, &models.SubmissionStatusLog{
				CompanyID:  companyID,
				EntityType: models.LogEntityMudad,
				EntityID:   sub.MudadSubmissionID,
				FromStatus: &denied,
				ToStatus:   denied,
				ChangedBy:  in.UserID,
				Reason:     ReasonModificationDenied,
				Metadata: metadataJSON(map[string]interface{}{
					"attempted_file_url":  fileURL,
					"attempted_file_hash": newHash,
					"file_name":           in.FileName,
				}),
			})
			if logErr != nil {
				return logErr
			}
			return ErrAcceptedImmutable
		}

		existingHash := ""
		if sub.FileHash != nil {
			existingHash = *sub.FileHash
		}
		outcome := resolveFileAttachment(sub.Status, existingHash, newHash)

		now := time.Now()
		updates := map[string]interface{}{
			"file_url":  fileURL,
			"file_hash": newHash,
			"status":    outcome.NextStatus,
			"update_at": now,
		}
		if sub.PreparedAt == nil {
			updates["prepared_at"] = now
		}

		res := tx.Model(&models.MudadSubmission{}).
			Where("mudad_submission_id = ? AND status = ?", sub.MudadSubmissionID, sub.Status).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to attach file: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		fromStatus := sub.Status
		metadata := map[string]interface{}{
			"file_url":  fileURL,
			"file_hash": newHash,
		}
		if in.FileName != "" {
			metadata["file_name"] = in.FileName
		}
		if outcome.Reason == ReasonFileHashChanged {
			metadata["previous_file_hash"] = existingHash
		}
		// System-triggered reattachments (ChangedBy 0) are logged too; the
		// trail must stay complete regardless of who acted.
		if err := s.logs.Record(tx, &models.SubmissionStatusLog{
			CompanyID:  companyID,
			EntityType: models.LogEntityMudad,
			EntityID:   sub.MudadSubmissionID,
			FromStatus: &fromStatus,
			ToStatus:   outcome.NextStatus,
			ChangedBy:  in.UserID,
			Reason:     outcome.Reason,
			Metadata:   metadataJSON(metadata),
			CreatedAt:  now,
		}); err != nil {
			return err
		}

		sub.Status = outcome.NextStatus
		sub.FileURL = &fileURL
		sub.FileHash = &newHash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(companyID, submissionID)
}

// Delete removes a submission that never left PENDING. The audit trail is
// retained; only the submission row goes away.
func (s *MudadSubmissionService) Delete(companyID, submissionID, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sub models.MudadSubmission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("mudad_submission_id = ? AND company_id = ?", submissionID, companyID).
			First(&sub).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrSubmissionNotFound
			}
			return fmt.Errorf("failed to load mudad submission: %w", err)
		}
		if sub.Status != models.MudadStatusPending {
			return ErrDeleteNotPending
		}
		if err := tx.Delete(&models.MudadSubmission{}, sub.MudadSubmissionID).Error; err != nil {
			return fmt.Errorf("failed to delete mudad submission: %w", err)
		}
		fromStatus := sub.Status
		return s.logs.Record(tx, &models.SubmissionStatusLog{
			CompanyID:  companyID,
			EntityType: models.LogEntityMudad,
			EntityID:   sub.MudadSubmissionID,
			FromStatus: &fromStatus,
			ToStatus:   fromStatus,
			ChangedBy:  userID,
			Reason:     ReasonSubmissionDeleted,
		})
	})
}

// Get loads one tenant-scoped submission.
func (s *MudadSubmissionService) Get(companyID, submissionID uint) (*models.MudadSubmission, error) {
	var sub models.MudadSubmission
	err := s.db.
		Where("mudad_submission_id = ? AND company_id = ?", submissionID, companyID).
		First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load mudad submission: %w", err)
	}
	return &sub, nil
}

// List returns tenant submissions, optionally filtered by period year,
// status or payroll run.
func (s *MudadSubmissionService) List(companyID uint, filter *SubmissionListFilter) ([]models.MudadSubmission, error) {
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
	var subs []models.MudadSubmission
	if err := query.Order("create_at DESC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list mudad submissions: %w", err)
	}
	return subs, nil
}
