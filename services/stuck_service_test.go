package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []StuckAlert
	err    error
}

func (n *recordingNotifier) NotifyStuckSubmissions(_ context.Context, alert StuckAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.alerts = append(n.alerts, alert)
	return nil
}

func TestStuckStatsCountsBothChannels(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewStuckSubmissionService(db, &recordingNotifier{})

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `mudad_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `wps_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.MudadCount)
	assert.EqualValues(t, 2, stats.WPSCount)
	assert.Equal(t, DefaultStuckThreshold, stats.Threshold)
}

func TestStuckScanAggregatesPerCompany(t *testing.T) {
	db, mock := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := NewStuckSubmissionService(db, notifier)

	mock.ExpectQuery("SELECT company_id, COUNT\\(\\*\\) AS count FROM `mudad_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "count"}).
			AddRow(1, 3).
			AddRow(2, 1))
	mock.ExpectQuery("SELECT company_id, COUNT\\(\\*\\) AS count FROM `wps_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "count"}).
			AddRow(2, 2).
			AddRow(7, 5))

	alerts, err := svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	byCompany := make(map[uint]StuckAlert, len(alerts))
	for _, a := range alerts {
		byCompany[a.CompanyID] = a
	}
	assert.EqualValues(t, 3, byCompany[1].MudadCount)
	assert.EqualValues(t, 0, byCompany[1].WPSCount)
	assert.EqualValues(t, 1, byCompany[2].MudadCount)
	assert.EqualValues(t, 2, byCompany[2].WPSCount)
	assert.EqualValues(t, 5, byCompany[7].WPSCount)

	// One aggregated notification per tenant, not per submission.
	assert.Len(t, notifier.alerts, 3)
}

func TestStuckScanNoStuckSubmissions(t *testing.T) {
	db, mock := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := NewStuckSubmissionService(db, notifier)

	mock.ExpectQuery("SELECT company_id, COUNT\\(\\*\\) AS count FROM `mudad_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "count"}))
	mock.ExpectQuery("SELECT company_id, COUNT\\(\\*\\) AS count FROM `wps_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "count"}))

	alerts, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.Empty(t, notifier.alerts)
}

func TestStuckScanSurvivesNotifierFailure(t *testing.T) {
	db, mock := newTestDB(t)
	notifier := &recordingNotifier{err: errors.New("smtp unreachable")}
	svc := NewStuckSubmissionService(db, notifier)

	mock.ExpectQuery("SELECT company_id, COUNT\\(\\*\\) AS count FROM `mudad_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "count"}).AddRow(1, 3))
	mock.ExpectQuery("SELECT company_id, COUNT\\(\\*\\) AS count FROM `wps_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "count"}))

	alerts, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
