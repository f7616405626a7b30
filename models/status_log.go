package models

import "time"

// Status log entity types.
const (
	LogEntityMudad = "MUDAD"
	LogEntityWPS   = "WPS"
)

// SystemActorID is recorded as changed_by for transitions not attributable
// to a human user (scheduled jobs, integrations).
const SystemActorID uint = 0

// SubmissionStatusLog is the append-only audit trail of every submission
// transition. A nil FromStatus marks the creation entry. Rows are never
// updated or deleted; they outlive a pending submission that is removed.
type SubmissionStatusLog struct {
	LogID             uint      `gorm:"primaryKey;column:log_id" json:"log_id"`
	CompanyID         uint      `gorm:"column:company_id;index:idx_log_entity,priority:1;index:idx_log_period,priority:1" json:"company_id"`
	EntityType        string    `gorm:"column:entity_type;index:idx_log_entity,priority:2" json:"entity_type"`
	EntityID          uint      `gorm:"column:entity_id;index:idx_log_entity,priority:3" json:"entity_id"`
	FromStatus        *string   `gorm:"column:from_status" json:"from_status"`
	ToStatus          string    `gorm:"column:to_status" json:"to_status"`
	ChangedBy         uint      `gorm:"column:changed_by" json:"changed_by"`
	Reason            string    `gorm:"column:reason" json:"reason"`
	ExternalReference *string   `gorm:"column:external_reference" json:"external_reference,omitempty"`
	Metadata          *string   `gorm:"column:metadata;type:json" json:"metadata,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at;index:idx_log_entity,priority:4;index:idx_log_period,priority:2" json:"created_at"`
}

func (SubmissionStatusLog) TableName() string {
	return "submission_status_logs"
}
