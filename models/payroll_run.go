package models

import "time"

// Payroll run statuses. A run must be locked or paid before a government
// submission can be created for it.
const (
	PayrollRunStatusDraft    = "DRAFT"
	PayrollRunStatusApproved = "APPROVED"
	PayrollRunStatusLocked   = "LOCKED"
	PayrollRunStatusPaid     = "PAID"
)

// Payslip statuses.
const (
	PayslipStatusPending = "PENDING"
	PayslipStatusPaid    = "PAID"
	PayslipStatusFailed  = "FAILED"
)

// PayrollRun is a read-only collaborator for the submission lifecycle:
// run calculation and locking happen elsewhere.
type PayrollRun struct {
	PayrollRunID uint       `gorm:"primaryKey;column:payroll_run_id" json:"payroll_run_id"`
	CompanyID    uint       `gorm:"column:company_id" json:"company_id"`
	PeriodYear   int        `gorm:"column:period_year" json:"period_year"`
	PeriodMonth  int        `gorm:"column:period_month" json:"period_month"`
	Status       string     `gorm:"column:status" json:"status"`
	LockedAt     *time.Time `gorm:"column:locked_at" json:"locked_at,omitempty"`
	PaidAt       *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type Payslip struct {
	PayslipID    uint       `gorm:"primaryKey;column:payslip_id" json:"payslip_id"`
	PayrollRunID uint       `gorm:"column:payroll_run_id" json:"payroll_run_id"`
	EmployeeID   uint       `gorm:"column:employee_id" json:"employee_id"`
	NetSalary    float64    `gorm:"column:net_salary" json:"net_salary"`
	Status       string     `gorm:"column:status" json:"status"`
	PaidAt       *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

func (Payslip) TableName() string {
	return "payslips"
}

// IsSubmittable reports whether the run is far enough along for a
// government submission to be created.
func (r *PayrollRun) IsSubmittable() bool {
	return r.Status == PayrollRunStatusLocked || r.Status == PayrollRunStatusPaid
}
