package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"payroll-compliance-api/config"
	"payroll-compliance-api/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// StuckAlert is one aggregated per-tenant alert raised by the monitor.
type StuckAlert struct {
	CompanyID  uint
	MudadCount int64
	WPSCount   int64
	Threshold  time.Duration
}

// Notifier delivers stuck-submission alerts. Implementations must be safe
// to call from the monitor goroutine.
type Notifier interface {
	NotifyStuckSubmissions(ctx context.Context, alert StuckAlert) error
}

// alertNotifier persists a Notification row for each tenant admin and emails
// the tenant contact. A Redis SETNX key suppresses re-alerting the same
// tenant inside the dedup window; without Redis every scan alerts again.
type alertNotifier struct {
	db          *gorm.DB
	redis       *redis.Client
	dedupWindow time.Duration
}

func NewAlertNotifier(db *gorm.DB, rdb *redis.Client) Notifier {
	if db == nil {
		db = config.DB
	}
	if rdb == nil {
		rdb = config.Redis
	}
	return &alertNotifier{
		db:          db,
		redis:       rdb,
		dedupWindow: 24 * time.Hour,
	}
}

func (n *alertNotifier) NotifyStuckSubmissions(ctx context.Context, alert StuckAlert) error {
	if n.redis != nil {
		key := fmt.Sprintf("stuck-alert:%d", alert.CompanyID)
		set, err := n.redis.SetNX(ctx, key, time.Now().Format(time.RFC3339), n.dedupWindow).Result()
		if err != nil {
			log.Printf("stuck alert dedup check failed for company %d: %v", alert.CompanyID, err)
		} else if !set {
			return nil
		}
	}

	title := "Stuck government submissions"
	message := fmt.Sprintf(
		"%d Mudad and %d WPS submissions have been in SUBMITTED for more than %s. Please check the portal status.",
		alert.MudadCount, alert.WPSCount, alert.Threshold,
	)

	var admins []models.User
	err := n.db.
		Where("company_id = ? AND role_id = ? AND delete_at IS NULL", alert.CompanyID, models.RoleAdmin).
		Find(&admins).Error
	if err != nil {
		return fmt.Errorf("failed to load admins for company %d: %w", alert.CompanyID, err)
	}

	now := time.Now()
	for _, admin := range admins {
		notification := models.Notification{
			UserID:    admin.UserID,
			CompanyID: alert.CompanyID,
			Title:     title,
			Message:   message,
			Type:      "warning",
			CreateAt:  now,
		}
		if err := n.db.Create(&notification).Error; err != nil {
			return fmt.Errorf("failed to create stuck alert notification: %w", err)
		}
	}

	var company models.Company
	if err := n.db.First(&company, alert.CompanyID).Error; err == nil &&
		company.ContactEmail != nil && *company.ContactEmail != "" {
		html := fmt.Sprintf("<p>%s</p>", message)
		if err := config.SendMail([]string{*company.ContactEmail}, title, html); err != nil {
			// Email is best-effort; the in-app notification already landed.
			log.Printf("failed to email stuck alert to company %d: %v", alert.CompanyID, err)
		}
	}

	return nil
}
