package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stuckSubmissions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "payroll_stuck_submissions",
		Help: "Submissions sitting in SUBMITTED past the stuck threshold, per channel.",
	}, []string{"channel"})

	scansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_stuck_scans_total",
		Help: "Completed stuck-submission scans.",
	})

	scanFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_stuck_scan_failures_total",
		Help: "Stuck-submission scans that failed and will be retried next tick.",
	})

	alertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payroll_stuck_alerts_total",
		Help: "Per-tenant stuck-submission alerts raised.",
	})
)
