package services

import (
	"fmt"

	"payroll-compliance-api/config"
	"payroll-compliance-api/models"

	"gorm.io/gorm"
)

// PayrollRunService is the read-only gateway to payroll runs and payslips.
// The lifecycle services use it to check preconditions and snapshot totals.
type PayrollRunService struct {
	db *gorm.DB
}

func NewPayrollRunService(db *gorm.DB) *PayrollRunService {
	if db == nil {
		db = config.DB
	}
	return &PayrollRunService{db: db}
}

// FindSubmittable loads a run scoped to the tenant and verifies it is locked
// or paid. Cross-tenant lookups surface as not found.
func (s *PayrollRunService) FindSubmittable(companyID, runID uint) (*models.PayrollRun, error) {
	var run models.PayrollRun
	err := s.db.
		Where("payroll_run_id = ? AND company_id = ? AND delete_at IS NULL", runID, companyID).
		First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPayrollRunNotFound
		}
		return nil, fmt.Errorf("failed to load payroll run: %w", err)
	}
	if !run.IsSubmittable() {
		return nil, fmt.Errorf("%w: run %d is %s", ErrRunNotReady, run.PayrollRunID, run.Status)
	}
	return &run, nil
}

// PaidTotals sums the run's paid payslips. The result is snapshot onto a
// submission at creation and never recomputed afterwards.
func (s *PayrollRunService) PaidTotals(runID uint) (float64, int, error) {
	type row struct {
		Total float64
		Count int
	}
	var r row
	err := s.db.Model(&models.Payslip{}).
		Select("COALESCE(SUM(net_salary), 0) AS total, COUNT(*) AS count").
		Where("payroll_run_id = ? AND status = ?", runID, models.PayslipStatusPaid).
		Scan(&r).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum paid payslips: %w", err)
	}
	return r.Total, r.Count, nil
}
