package models

import "time"

// Mudad submission statuses. ACCEPTED is terminal.
const (
	MudadStatusPending          = "PENDING"
	MudadStatusPrepared         = "PREPARED"
	MudadStatusSubmitted        = "SUBMITTED"
	MudadStatusAccepted         = "ACCEPTED"
	MudadStatusRejected         = "REJECTED"
	MudadStatusResubmitted      = "RESUBMITTED"
	MudadStatusResubmitRequired = "RESUBMIT_REQUIRED"
)

// Submission types per channel. SALARY is the default primary type.
const (
	SubmissionTypeSalary     = "SALARY"
	SubmissionTypeFinal      = "FINAL_SETTLEMENT"
	SubmissionTypeCorrection = "CORRECTION"
)

// MudadSubmission tracks one payroll run's progress through the Mudad
// compliance portal. TotalAmount and EmployeeCount are snapshots taken at
// creation and are never recomputed.
type MudadSubmission struct {
	MudadSubmissionID uint       `gorm:"primaryKey;column:mudad_submission_id" json:"mudad_submission_id"`
	ReferenceNumber   string     `gorm:"column:reference_number" json:"reference_number"`
	CompanyID         uint       `gorm:"column:company_id" json:"company_id"`
	PayrollRunID      uint       `gorm:"column:payroll_run_id;uniqueIndex:uq_mudad_run_type" json:"payroll_run_id"`
	SubmissionType    string     `gorm:"column:submission_type;uniqueIndex:uq_mudad_run_type" json:"submission_type"`
	Status            string     `gorm:"column:status" json:"status"`
	PeriodYear        int        `gorm:"column:period_year" json:"period_year"`
	PeriodMonth       int        `gorm:"column:period_month" json:"period_month"`
	TotalAmount       float64    `gorm:"column:total_amount" json:"total_amount"`
	EmployeeCount     int        `gorm:"column:employee_count" json:"employee_count"`
	FileURL           *string    `gorm:"column:file_url" json:"file_url,omitempty"`
	FileHash          *string    `gorm:"column:file_hash" json:"file_hash,omitempty"`
	ExternalReference *string    `gorm:"column:external_reference" json:"external_reference,omitempty"`
	RejectionReason   *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	Notes             *string    `gorm:"column:notes" json:"notes,omitempty"`
	PreparedAt        *time.Time `gorm:"column:prepared_at" json:"prepared_at,omitempty"`
	SubmittedAt       *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	SubmittedBy       *uint      `gorm:"column:submitted_by" json:"submitted_by,omitempty"`
	AcceptedAt        *time.Time `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	RejectedAt        *time.Time `gorm:"column:rejected_at" json:"rejected_at,omitempty"`
	CreatedBy         uint       `gorm:"column:created_by" json:"created_by"`
	CreateAt          time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt          time.Time  `gorm:"column:update_at" json:"update_at"`

	// Relations
	PayrollRun PayrollRun `gorm:"foreignKey:PayrollRunID" json:"payroll_run,omitempty"`
	Company    Company    `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (MudadSubmission) TableName() string {
	return "mudad_submissions"
}
