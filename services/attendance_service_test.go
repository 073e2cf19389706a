package services

import (
	"errors"
	"regexp"
	"testing"

	"attendqr_go/services/attendance"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
)

func expectActiveMember(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `group_members`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "user_id", "status"}).
			AddRow(1, 1, 2, "active"))
}

func TestRecordScanRejectsSameTypeSameDay(t *testing.T) {
	db, mock := newMockDB(t)
	svc := &AttendanceService{db: db}

	expectActiveMember(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `attendance_events`")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	_, err := svc.RecordScan(ScanInput{UserID: 2, GroupID: 1, ScanType: "checkin"})
	if !errors.Is(err, attendance.ErrDuplicateScan) {
		t.Fatalf("expected ErrDuplicateScan, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordScanConcurrentDuplicateHitsUniqueIndex(t *testing.T) {
	db, mock := newMockDB(t)
	svc := &AttendanceService{db: db}

	// A racing scan slipped between the count and the insert, so the count
	// sees nothing but the unique index rejects the second row.
	expectActiveMember(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `attendance_events`")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `attendance_events`")).
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := svc.RecordScan(ScanInput{UserID: 2, GroupID: 1, ScanType: "checkout"})
	if !errors.Is(err, attendance.ErrDuplicateScan) {
		t.Fatalf("expected ErrDuplicateScan, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordScanUnknownType(t *testing.T) {
	db, _ := newMockDB(t)
	svc := &AttendanceService{db: db}

	_, err := svc.RecordScan(ScanInput{UserID: 2, GroupID: 1, ScanType: "lunch"})
	if !errors.Is(err, attendance.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
