package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"payroll-compliance-api/config"
	"payroll-compliance-api/models"

	"gorm.io/gorm"
)

// DefaultStuckThreshold is how long a submission may sit in SUBMITTED before
// it is considered stuck.
const DefaultStuckThreshold = 72 * time.Hour

// StuckStats is the operator-facing snapshot of currently stuck submissions.
type StuckStats struct {
	MudadCount int64         `json:"mudad_count"`
	WPSCount   int64         `json:"wps_count"`
	Threshold  time.Duration `json:"-"`
}

// StuckSubmissionService finds submissions sitting in SUBMITTED past the
// threshold and raises one aggregated alert per affected tenant. It never
// writes to submissions.
type StuckSubmissionService struct {
	db        *gorm.DB
	notifier  Notifier
	threshold time.Duration
}

func NewStuckSubmissionService(db *gorm.DB, notifier Notifier) *StuckSubmissionService {
	if db == nil {
		db = config.DB
	}
	if notifier == nil {
		notifier = NewAlertNotifier(db, nil)
	}
	return &StuckSubmissionService{
		db:        db,
		notifier:  notifier,
		threshold: stuckThresholdFromEnv(),
	}
}

func stuckThresholdFromEnv() time.Duration {
	if hours, err := strconv.Atoi(os.Getenv("STUCK_THRESHOLD_HOURS")); err == nil && hours > 0 {
		return time.Duration(hours) * time.Hour
	}
	return DefaultStuckThreshold
}

// Threshold returns the configured stuck threshold.
func (s *StuckSubmissionService) Threshold() time.Duration {
	return s.threshold
}

// Stats counts currently stuck submissions across both channels.
func (s *StuckSubmissionService) Stats() (*StuckStats, error) {
	cutoff := time.Now().Add(-s.threshold)
	stats := &StuckStats{Threshold: s.threshold}

	err := s.db.Model(&models.MudadSubmission{}).
		Where("status = ? AND submitted_at < ?", models.MudadStatusSubmitted, cutoff).
		Count(&stats.MudadCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count stuck mudad submissions: %w", err)
	}

	err = s.db.Model(&models.WPSSubmission{}).
		Where("status = ? AND submitted_at < ?", models.WPSStatusSubmitted, cutoff).
		Count(&stats.WPSCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count stuck wps submissions: %w", err)
	}

	return stats, nil
}

type stuckGroup struct {
	CompanyID uint
	Count     int64
}

func (s *StuckSubmissionService) stuckByCompany(model interface{}, status string, cutoff time.Time) ([]stuckGroup, error) {
	var groups []stuckGroup
	err := s.db.Model(model).
		Select("company_id, COUNT(*) AS count").
		Where("status = ? AND submitted_at < ?", status, cutoff).
		Group("company_id").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Scan aggregates stuck submissions per tenant and notifies each affected
// tenant once. The returned alerts are what was raised this pass. The scan
// keeps running when a single notification fails; only query failures abort.
func (s *StuckSubmissionService) Scan(ctx context.Context) ([]StuckAlert, error) {
	ctx = persistentContext(ctx)
	cutoff := time.Now().Add(-s.threshold)

	mudad, err := s.stuckByCompany(&models.MudadSubmission{}, models.MudadStatusSubmitted, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to scan stuck mudad submissions: %w", err)
	}
	wps, err := s.stuckByCompany(&models.WPSSubmission{}, models.WPSStatusSubmitted, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to scan stuck wps submissions: %w", err)
	}

	byCompany := make(map[uint]*StuckAlert)
	for _, g := range mudad {
		byCompany[g.CompanyID] = &StuckAlert{CompanyID: g.CompanyID, MudadCount: g.Count, Threshold: s.threshold}
	}
	for _, g := range wps {
		alert, ok := byCompany[g.CompanyID]
		if !ok {
			alert = &StuckAlert{CompanyID: g.CompanyID, Threshold: s.threshold}
			byCompany[g.CompanyID] = alert
		}
		alert.WPSCount = g.Count
	}

	alerts := make([]StuckAlert, 0, len(byCompany))
	for _, alert := range byCompany {
		if err := s.notifier.NotifyStuckSubmissions(ctx, *alert); err != nil {
			log.Printf("failed to notify company %d about stuck submissions: %v", alert.CompanyID, err)
			continue
		}
		alerts = append(alerts, *alert)
	}
	return alerts, nil
}
