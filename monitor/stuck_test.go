package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"payroll-compliance-api/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScanner struct {
	scans   atomic.Int64
	alerts  []services.StuckAlert
	scanErr error
	block   chan struct{}
	panics  bool
}

func (s *stubScanner) Scan(_ context.Context) ([]services.StuckAlert, error) {
	s.scans.Add(1)
	if s.block != nil {
		<-s.block
	}
	if s.panics {
		panic("scan blew up")
	}
	return s.alerts, s.scanErr
}

func (s *stubScanner) Stats() (*services.StuckStats, error) {
	return &services.StuckStats{}, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestMonitorScansOnStartup(t *testing.T) {
	stub := &stubScanner{}
	m := newStuckSubmissionMonitor(stub, time.Hour)

	m.Start()
	defer m.Stop()

	waitFor(t, func() bool { return stub.scans.Load() == 1 })
}

func TestMonitorStartIsIdempotent(t *testing.T) {
	stub := &stubScanner{}
	m := newStuckSubmissionMonitor(stub, time.Hour)

	m.Start()
	m.Start()
	defer m.Stop()

	waitFor(t, func() bool { return stub.scans.Load() >= 1 })
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 1, stub.scans.Load())
}

func TestMonitorStopWaitsAndCanRestart(t *testing.T) {
	stub := &stubScanner{}
	m := newStuckSubmissionMonitor(stub, time.Hour)

	m.Start()
	waitFor(t, func() bool { return stub.scans.Load() == 1 })
	m.Stop()
	m.Stop() // second stop is a no-op

	m.Start()
	waitFor(t, func() bool { return stub.scans.Load() == 2 })
	m.Stop()
}

func TestMonitorTicksRepeatedly(t *testing.T) {
	stub := &stubScanner{}
	m := newStuckSubmissionMonitor(stub, 10*time.Millisecond)

	m.Start()
	defer m.Stop()

	waitFor(t, func() bool { return stub.scans.Load() >= 3 })
}

func TestMonitorSkipsOverlappingScan(t *testing.T) {
	stub := &stubScanner{block: make(chan struct{})}
	m := newStuckSubmissionMonitor(stub, 10*time.Millisecond)

	m.Start()
	waitFor(t, func() bool { return stub.scans.Load() == 1 })

	// While the first scan is blocked, every further tick must be skipped.
	time.Sleep(60 * time.Millisecond)
	assert.EqualValues(t, 1, stub.scans.Load())

	close(stub.block)
	m.Stop()
}

func TestMonitorSurvivesScanErrorAndPanic(t *testing.T) {
	stub := &stubScanner{scanErr: errors.New("db gone")}
	m := newStuckSubmissionMonitor(stub, 10*time.Millisecond)
	m.Start()
	waitFor(t, func() bool { return stub.scans.Load() >= 2 })
	m.Stop()

	panicky := &stubScanner{panics: true}
	m = newStuckSubmissionMonitor(panicky, 10*time.Millisecond)
	m.Start()
	waitFor(t, func() bool { return panicky.scans.Load() >= 2 })
	m.Stop()
}

func TestTriggerScanReturnsAlerts(t *testing.T) {
	stub := &stubScanner{alerts: []services.StuckAlert{{CompanyID: 1, MudadCount: 2}}}
	m := newStuckSubmissionMonitor(stub, time.Hour)

	alerts, err := m.TriggerScan(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.EqualValues(t, 1, alerts[0].CompanyID)
}
