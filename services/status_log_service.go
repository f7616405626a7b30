package services

import (
	"encoding/json"
	"fmt"
	"time"

	"payroll-compliance-api/config"
	"payroll-compliance-api/models"

	"gorm.io/gorm"
)

// Transition reasons recorded on status log entries.
const (
	ReasonSubmissionCreated      = "SUBMISSION_CREATED"
	ReasonStatusUpdated          = "STATUS_UPDATED"
	ReasonFirstFileAttached      = "FIRST_FILE_ATTACHED"
	ReasonFileHashChanged        = "FILE_HASH_CHANGED"
	ReasonFileUnchanged          = "FILE_REATTACHED_UNCHANGED"
	ReasonFileReattachedRecovery = "FILE_REATTACHED_AFTER_FLAG"
	ReasonFileAttached           = "FILE_ATTACHED"
	ReasonModificationDenied     = "ACCEPTED_SUBMISSION_MODIFICATION_DENIED"
	ReasonSubmissionDeleted      = "SUBMISSION_DELETED"
)

// StatusLogService appends and queries the submission audit trail. Entries
// are write-once; there is deliberately no update or delete path here.
type StatusLogService struct {
	db *gorm.DB
}

func NewStatusLogService(db *gorm.DB) *StatusLogService {
	if db == nil {
		db = config.DB
	}
	return &StatusLogService{db: db}
}

// Record appends one entry. When tx is non-nil the insert joins the caller's
// transaction so a state change and its log entry commit or roll back
// together; an error here must abort the transition.
func (s *StatusLogService) Record(tx *gorm.DB, entry *models.SubmissionStatusLog) error {
	db := tx
	if db == nil {
		db = s.db
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write status log: %w", err)
	}
	return nil
}

// EntriesForEntity returns the full trail for one submission, newest first.
func (s *StatusLogService) EntriesForEntity(companyID uint, entityType string, entityID uint) ([]models.SubmissionStatusLog, error) {
	var entries []models.SubmissionStatusLog
	err := s.db.
		Where("company_id = ? AND entity_type = ? AND entity_id = ?", companyID, entityType, entityID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load status logs: %w", err)
	}
	return entries, nil
}

// LatestForEntity returns the most recent entry for one submission, or nil
// when the entity has no trail.
func (s *StatusLogService) LatestForEntity(companyID uint, entityType string, entityID uint) (*models.SubmissionStatusLog, error) {
	var entry models.SubmissionStatusLog
	err := s.db.
		Where("company_id = ? AND entity_type = ? AND entity_id = ?", companyID, entityType, entityID).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load latest status log: %w", err)
	}
	return &entry, nil
}

// EntriesForPeriod returns all tenant entries within [from, to], newest first.
func (s *StatusLogService) EntriesForPeriod(companyID uint, from, to time.Time) ([]models.SubmissionStatusLog, error) {
	var entries []models.SubmissionStatusLog
	err := s.db.
		Where("company_id = ? AND created_at BETWEEN ? AND ?", companyID, from, to).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load status logs for period: %w", err)
	}
	return entries, nil
}

// EntriesForUser returns all tenant entries attributed to one acting user.
func (s *StatusLogService) EntriesForUser(companyID, userID uint) ([]models.SubmissionStatusLog, error) {
	var entries []models.SubmissionStatusLog
	err := s.db.
		Where("company_id = ? AND changed_by = ?", companyID, userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load status logs for user: %w", err)
	}
	return entries, nil
}

// metadataJSON serializes an open key-value payload for the metadata column.
// The shape varies by event type and stays opaque to the lifecycle services.
func metadataJSON(values map[string]interface{}) *string {
	if len(values) == 0 {
		return nil
	}
	serialized, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	out := string(serialized)
	return &out
}
