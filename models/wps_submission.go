package models

import "time"

// WPS submission statuses. PROCESSED is terminal.
const (
	WPSStatusGenerated  = "GENERATED"
	WPSStatusDownloaded = "DOWNLOADED"
	WPSStatusSubmitted  = "SUBMITTED"
	WPSStatusProcessing = "PROCESSING"
	WPSStatusProcessed  = "PROCESSED"
	WPSStatusFailed     = "FAILED"
)

// WPSSubmission tracks one payroll run's bank-settlement file through the
// Wage Protection System channel. Snapshots follow the same rules as
// MudadSubmission.
type WPSSubmission struct {
	WPSSubmissionID uint       `gorm:"primaryKey;column:wps_submission_id" json:"wps_submission_id"`
	ReferenceNumber string     `gorm:"column:reference_number" json:"reference_number"`
	CompanyID       uint       `gorm:"column:company_id" json:"company_id"`
	PayrollRunID    uint       `gorm:"column:payroll_run_id;uniqueIndex:uq_wps_run_type" json:"payroll_run_id"`
	SubmissionType  string     `gorm:"column:submission_type;uniqueIndex:uq_wps_run_type" json:"submission_type"`
	Status          string     `gorm:"column:status" json:"status"`
	PeriodYear      int        `gorm:"column:period_year" json:"period_year"`
	PeriodMonth     int        `gorm:"column:period_month" json:"period_month"`
	TotalAmount     float64    `gorm:"column:total_amount" json:"total_amount"`
	EmployeeCount   int        `gorm:"column:employee_count" json:"employee_count"`
	FileURL         *string    `gorm:"column:file_url" json:"file_url,omitempty"`
	FileHash        *string    `gorm:"column:file_hash" json:"file_hash,omitempty"`
	BankReference   *string    `gorm:"column:bank_reference" json:"bank_reference,omitempty"`
	FailureReason   *string    `gorm:"column:failure_reason" json:"failure_reason,omitempty"`
	Notes           *string    `gorm:"column:notes" json:"notes,omitempty"`
	DownloadedAt    *time.Time `gorm:"column:downloaded_at" json:"downloaded_at,omitempty"`
	DownloadedBy    *uint      `gorm:"column:downloaded_by" json:"downloaded_by,omitempty"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	SubmittedBy     *uint      `gorm:"column:submitted_by" json:"submitted_by,omitempty"`
	ProcessedAt     *time.Time `gorm:"column:processed_at" json:"processed_at,omitempty"`
	CreatedBy       uint       `gorm:"column:created_by" json:"created_by"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        time.Time  `gorm:"column:update_at" json:"update_at"`

	// Relations
	PayrollRun PayrollRun `gorm:"foreignKey:PayrollRunID" json:"payroll_run,omitempty"`
	Company    Company    `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (WPSSubmission) TableName() string {
	return "wps_submissions"
}
