package attendance

import (
	"errors"
	"testing"
	"time"

	"attendqr_go/models"
)

func localTime(hour, min int) time.Time {
	return time.Date(2024, 1, 15, hour, min, 0, 0, Zone()).UTC()
}

func scan(scanType string, hour, min int) models.AttendanceEvent {
	return models.AttendanceEvent{ScanType: scanType, ScannedAt: localTime(hour, min)}
}

var testSettings = models.WorkSettings{CheckinDeadlineHour: 10, CheckoutStartHour: 18}

func TestClassifyDayStatuses(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, Zone())

	tests := []struct {
		name       string
		events     []models.AttendanceEvent
		vacation   bool
		expStatus  Status
		expLate    bool
		expEarly   bool
		expMinutes int
	}{
		{
			name:      "no scans is absent",
			events:    nil,
			expStatus: StatusAbsent,
		},
		{
			name:      "no scans with approved vacation",
			events:    nil,
			vacation:  true,
			expStatus: StatusVacation,
		},
		{
			name:       "vacation overrides scans",
			events:     []models.AttendanceEvent{scan("checkin", 13, 0), scan("checkout", 19, 0)},
			vacation:   true,
			expStatus:  StatusVacation,
			expMinutes: 360,
		},
		{
			name:      "checkin exactly at deadline hour is on time",
			events:    []models.AttendanceEvent{scan("checkin", 10, 0)},
			expStatus: StatusOnTime,
		},
		{
			name:      "minutes past deadline hour still on time",
			events:    []models.AttendanceEvent{scan("checkin", 10, 59)},
			expStatus: StatusOnTime,
		},
		{
			name:      "next hour is late",
			events:    []models.AttendanceEvent{scan("checkin", 11, 1)},
			expStatus: StatusLate,
			expLate:   true,
		},
		{
			name:       "checkout before checkout start hour is early leave",
			events:     []models.AttendanceEvent{scan("checkin", 9, 0), scan("checkout", 17, 30)},
			expStatus:  StatusEarlyLeave,
			expEarly:   true,
			expMinutes: 510,
		},
		{
			name:       "late and early leave are independent facets",
			events:     []models.AttendanceEvent{scan("checkin", 11, 0), scan("checkout", 16, 0)},
			expStatus:  StatusLate,
			expLate:    true,
			expEarly:   true,
			expMinutes: 300,
		},
		{
			name:       "checkout at start hour is a normal leave",
			events:     []models.AttendanceEvent{scan("checkin", 9, 30), scan("checkout", 18, 0)},
			expStatus:  StatusOnTime,
			expMinutes: 510,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			out, err := ClassifyDay(day, tc.events, testSettings, tc.vacation)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Status != tc.expStatus {
				t.Fatalf("expected status %s, got %s", tc.expStatus, out.Status)
			}
			if out.Late != tc.expLate || out.EarlyLeave != tc.expEarly {
				t.Fatalf("expected facets late=%v early=%v, got late=%v early=%v",
					tc.expLate, tc.expEarly, out.Late, out.EarlyLeave)
			}
			if out.WorkingMinutes != tc.expMinutes {
				t.Fatalf("expected %d working minutes, got %d", tc.expMinutes, out.WorkingMinutes)
			}
		})
	}
}

func TestClassifyDayExtremalBracket(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, Zone())

	full := []models.AttendanceEvent{
		scan("checkin", 9, 45),
		scan("checkin", 8, 50),
		scan("checkout", 17, 0),
		scan("checkout", 18, 30),
	}
	extremal := []models.AttendanceEvent{
		scan("checkin", 8, 50),
		scan("checkout", 18, 30),
	}

	got, err := ClassifyDay(day, full, testSettings, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := ClassifyDay(day, extremal, testSettings, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != want.Status || got.WorkingMinutes != want.WorkingMinutes ||
		!got.CheckinTime.Equal(*want.CheckinTime) || !got.CheckoutTime.Equal(*want.CheckoutTime) {
		t.Fatalf("repeated scans changed the outcome: got %+v, want %+v", got, want)
	}
	if got.WorkingMinutes != 580 {
		t.Fatalf("expected 580 working minutes, got %d", got.WorkingMinutes)
	}
}

func TestClassifyDayInvalidBracket(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, Zone())

	events := []models.AttendanceEvent{
		scan("checkin", 14, 0),
		scan("checkout", 9, 0),
	}
	if _, err := ClassifyDay(day, events, testSettings, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// zero duration is just as invalid as a negative one
	same := []models.AttendanceEvent{
		scan("checkin", 9, 0),
		scan("checkout", 9, 0),
	}
	if _, err := ClassifyDay(day, same, testSettings, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero duration, got %v", err)
	}

	unknown := []models.AttendanceEvent{scan("break", 9, 0)}
	if _, err := ClassifyDay(day, unknown, testSettings, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown scan type, got %v", err)
	}
}

func TestClassifyDayDurationFloorsToMinutes(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, Zone())
	in := time.Date(2024, 1, 15, 9, 0, 10, 0, Zone()).UTC()
	outAt := time.Date(2024, 1, 15, 18, 0, 55, 0, Zone()).UTC()

	events := []models.AttendanceEvent{
		{ScanType: "checkin", ScannedAt: in},
		{ScanType: "checkout", ScannedAt: outAt},
	}
	out, err := ClassifyDay(day, events, testSettings, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.WorkingMinutes != 540 {
		t.Fatalf("expected floor to 540 minutes, got %d", out.WorkingMinutes)
	}
	if out.WorkingTime != "9h 0m" {
		t.Fatalf("unexpected working time format: %s", out.WorkingTime)
	}
}
