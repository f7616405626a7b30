// Package monitor owns the background scan for submissions stuck mid-flight.
// It observes and alerts; it never mutates submissions.
package monitor

import (
	"context"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"payroll-compliance-api/services"
)

// DefaultScanInterval is how often the stuck-submission scan runs.
const DefaultScanInterval = 6 * time.Hour

// scanner is implemented by services.StuckSubmissionService; narrowed to an
// interface so tests can substitute a stub.
type scanner interface {
	Scan(ctx context.Context) ([]services.StuckAlert, error)
	Stats() (*services.StuckStats, error)
}

// StuckSubmissionMonitor runs the periodic scan on its own goroutine. A tick
// that fires while a scan is still running is skipped, not queued, and a
// failed scan is logged and retried on the next tick.
type StuckSubmissionMonitor struct {
	svc      scanner
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
	scanning sync.Mutex
}

func NewStuckSubmissionMonitor(svc *services.StuckSubmissionService) *StuckSubmissionMonitor {
	return newStuckSubmissionMonitor(svc, scanIntervalFromEnv())
}

func newStuckSubmissionMonitor(svc scanner, interval time.Duration) *StuckSubmissionMonitor {
	return &StuckSubmissionMonitor{
		svc:      svc,
		interval: interval,
	}
}

func scanIntervalFromEnv() time.Duration {
	if hours, err := strconv.Atoi(os.Getenv("STUCK_SCAN_INTERVAL_HOURS")); err == nil && hours > 0 {
		return time.Duration(hours) * time.Hour
	}
	return DefaultScanInterval
}

// Start launches the scan loop. Safe to call once per Stop cycle; repeated
// calls while running are no-ops.
func (m *StuckSubmissionMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	m.stopCh = make(chan struct{})
	m.running = true

	m.wg.Add(1)
	go m.loop()
	log.Printf("Stuck-submission monitor started (interval: %s)", m.interval)
}

// Stop signals the loop to exit and waits for the in-flight scan to finish.
func (m *StuckSubmissionMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()

	m.wg.Wait()
	log.Println("Stuck-submission monitor stopped")
}

func (m *StuckSubmissionMonitor) loop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Run once at startup so a restart never delays alerting by a full interval.
	m.runScan(context.Background())

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.runScan(context.Background())
		}
	}
}

// runScan executes one scan pass. Overlapping passes are skipped and any
// failure is contained here: the monitor must outlive a bad cycle.
func (m *StuckSubmissionMonitor) runScan(ctx context.Context) {
	if !m.scanning.TryLock() {
		log.Println("Stuck-submission scan still running, skipping this tick")
		return
	}
	defer m.scanning.Unlock()

	defer func() {
		if r := recover(); r != nil {
			scanFailuresTotal.Inc()
			log.Printf("Stuck-submission scan panicked: %v", r)
		}
	}()

	alerts, err := m.svc.Scan(ctx)
	if err != nil {
		scanFailuresTotal.Inc()
		log.Printf("Stuck-submission scan failed, retrying next tick: %v", err)
		return
	}
	scansTotal.Inc()
	alertsTotal.Add(float64(len(alerts)))

	if stats, err := m.svc.Stats(); err == nil {
		stuckSubmissions.WithLabelValues("mudad").Set(float64(stats.MudadCount))
		stuckSubmissions.WithLabelValues("wps").Set(float64(stats.WPSCount))
	}

	if len(alerts) > 0 {
		log.Printf("Stuck-submission scan raised %d tenant alert(s)", len(alerts))
	}
}

// TriggerScan runs one scan outside the schedule, for operator tooling.
func (m *StuckSubmissionMonitor) TriggerScan(ctx context.Context) ([]services.StuckAlert, error) {
	m.scanning.Lock()
	defer m.scanning.Unlock()
	return m.svc.Scan(ctx)
}
