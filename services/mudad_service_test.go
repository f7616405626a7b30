package services

import (
	"testing"
	"time"

	"payroll-compliance-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mudadRow(id, companyID uint, status string, fileHash *string, preparedAt *time.Time) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"mudad_submission_id", "company_id", "payroll_run_id", "submission_type",
		"status", "file_hash", "prepared_at",
	})
	rows.AddRow(id, companyID, 10, models.SubmissionTypeSalary, status, fileHash, preparedAt)
	return rows
}

func TestMudadCreateSnapshotsPaidTotals(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectQuery("SELECT \\* FROM `payroll_runs`").
		WillReturnRows(sqlmock.NewRows([]string{"payroll_run_id", "company_id", "period_year", "period_month", "status"}).
			AddRow(10, 1, 2026, 8, models.PayrollRunStatusLocked))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `mudad_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(net_salary\\), 0\\) AS total, COUNT\\(\\*\\) AS count FROM `payslips`").
		WillReturnRows(sqlmock.NewRows([]string{"total", "count"}).AddRow(50000.0, 10))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `mudad_submissions`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO `submission_status_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sub, err := svc.Create(&CreateMudadSubmissionInput{
		CompanyID:    1,
		PayrollRunID: 10,
		UserID:       42,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MudadStatusPending, sub.Status)
	assert.Equal(t, models.SubmissionTypeSalary, sub.SubmissionType)
	assert.Equal(t, 50000.0, sub.TotalAmount)
	assert.Equal(t, 10, sub.EmployeeCount)
	assert.Equal(t, 2026, sub.PeriodYear)
	assert.NotEmpty(t, sub.ReferenceNumber)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadCreateRejectsDuplicate(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectQuery("SELECT \\* FROM `payroll_runs`").
		WillReturnRows(sqlmock.NewRows([]string{"payroll_run_id", "company_id", "period_year", "period_month", "status"}).
			AddRow(10, 1, 2026, 8, models.PayrollRunStatusPaid))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `mudad_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.Create(&CreateMudadSubmissionInput{CompanyID: 1, PayrollRunID: 10, UserID: 42})
	require.ErrorIs(t, err, ErrDuplicateSubmission)

	// No INSERT may run after the duplicate check fails.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadCreateRejectsUnlockedRun(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectQuery("SELECT \\* FROM `payroll_runs`").
		WillReturnRows(sqlmock.NewRows([]string{"payroll_run_id", "company_id", "period_year", "period_month", "status"}).
			AddRow(10, 1, 2026, 8, models.PayrollRunStatusDraft))

	_, err := svc.Create(&CreateMudadSubmissionInput{CompanyID: 1, PayrollRunID: 10, UserID: 42})
	require.ErrorIs(t, err, ErrRunNotReady)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadUpdateStatusRejectsIllegalTransition(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`.*FOR UPDATE").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusPending, nil, nil))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(1, 5, &MudadStatusUpdateInput{Status: models.MudadStatusAccepted, UserID: 42})

	var illegal *IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, models.MudadStatusPending, illegal.From)
	assert.Equal(t, []string{models.MudadStatusPrepared}, illegal.Allowed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadUpdateStatusRequiresRejectionReason(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`.*FOR UPDATE").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusSubmitted, strptr("abc"), nil))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(1, 5, &MudadStatusUpdateInput{Status: models.MudadStatusRejected, UserID: 42})
	require.ErrorIs(t, err, ErrMissingRejectionReason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadUpdateStatusDetectsConcurrentWriter(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`.*FOR UPDATE").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusPending, nil, nil))
	// The compare-and-set misses: another writer moved the row already.
	mock.ExpectExec("UPDATE `mudad_submissions`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(1, 5, &MudadStatusUpdateInput{Status: models.MudadStatusPrepared, UserID: 42})
	require.ErrorIs(t, err, ErrStaleStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadUpdateStatusWritesAudit(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`.*FOR UPDATE").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusPending, nil, nil))
	mock.ExpectExec("UPDATE `mudad_submissions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `submission_status_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusPrepared, nil, nil))

	sub, err := svc.UpdateStatus(1, 5, &MudadStatusUpdateInput{Status: models.MudadStatusPrepared, UserID: 42})
	require.NoError(t, err)
	assert.Equal(t, models.MudadStatusPrepared, sub.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadAttachFileDeniedWhenAccepted(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`.*FOR UPDATE").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusAccepted, strptr("abc"), nil))
	// The denial entry is written outside the transaction so it survives
	// the rollback.
	mock.ExpectExec("INSERT INTO `submission_status_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	_, err := svc.AttachFile(1, 5, &FileAttachmentInput{
		FileURL:  "s3://exports/wps-2026-08.csv",
		FileHash: "deadbeef",
		UserID:   42,
	})
	require.ErrorIs(t, err, ErrAcceptedImmutable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadAttachFileSameHashKeepsStatus(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	prepared := time.Now().Add(-time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`.*FOR UPDATE").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusPrepared, strptr("abc"), &prepared))
	mock.ExpectExec("UPDATE `mudad_submissions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `submission_status_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusPrepared, strptr("abc"), &prepared))

	sub, err := svc.AttachFile(1, 5, &FileAttachmentInput{
		FileURL:  "s3://exports/wps-2026-08.csv",
		FileHash: "abc",
		UserID:   42,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MudadStatusPrepared, sub.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadAttachFileChangedHashFlagsResubmit(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	prepared := time.Now().Add(-time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`.*FOR UPDATE").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusSubmitted, strptr("abc"), &prepared))
	mock.ExpectExec("UPDATE `mudad_submissions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `submission_status_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusResubmitRequired, strptr("xyz"), &prepared))

	sub, err := svc.AttachFile(1, 5, &FileAttachmentInput{
		FileURL:  "s3://exports/wps-2026-08-v2.csv",
		FileHash: "xyz",
		UserID:   42,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MudadStatusResubmitRequired, sub.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadAttachFileRequiresURLAndHash(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	_, err := svc.AttachFile(1, 5, &FileAttachmentInput{FileURL: "s3://x", UserID: 42})
	require.ErrorIs(t, err, ErrMissingFileHash)

	_, err = svc.AttachFile(1, 5, &FileAttachmentInput{FileHash: "abc", UserID: 42})
	require.ErrorIs(t, err, ErrMissingFileHash)
}

func TestMudadDeleteOnlyWhilePending(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`.*FOR UPDATE").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusSubmitted, strptr("abc"), nil))
	mock.ExpectRollback()

	err := svc.Delete(1, 5, 42)
	require.ErrorIs(t, err, ErrDeleteNotPending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadDeletePendingKeepsAuditTrail(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`.*FOR UPDATE").
		WillReturnRows(mudadRow(5, 1, models.MudadStatusPending, nil, nil))
	mock.ExpectExec("DELETE FROM `mudad_submissions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The trail outlives the row: a deletion entry is still written.
	mock.ExpectExec("INSERT INTO `submission_status_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := svc.Delete(1, 5, 42)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMudadGetNotFoundIsTenantScoped(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewMudadSubmissionService(db)

	mock.ExpectQuery("SELECT \\* FROM `mudad_submissions`").
		WillReturnRows(sqlmock.NewRows([]string{"mudad_submission_id"}))

	_, err := svc.Get(99, 5)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
