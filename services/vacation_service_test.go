package services

import (
	"errors"
	"regexp"
	"testing"

	"attendqr_go/services/attendance"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestReviewAlreadyReviewedReturnsStaleState(t *testing.T) {
	db, mock := newMockDB(t)
	svc := &VacationService{db: db}

	// The request loads fine but was approved by another reviewer in the
	// meantime, so the guarded update on status = pending touches no rows.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `vacation_requests`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "group_id", "type", "status"}).
			AddRow(5, 2, 1, "annual", "approved"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `vacation_requests` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := svc.Review(5, 9, true, "late to the party")
	if !errors.Is(err, attendance.ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviewLoserOfConcurrentRaceGetsStaleState(t *testing.T) {
	db, mock := newMockDB(t)
	svc := &VacationService{db: db}

	// Both reviewers read the request while it was still pending. The loser's
	// update runs after the winner's commit and must not produce a second
	// terminal transition.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `vacation_requests`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "group_id", "type", "status"}).
			AddRow(5, 2, 1, "sick", "pending"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `vacation_requests` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := svc.Review(5, 9, false, "")
	if !errors.Is(err, attendance.ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
