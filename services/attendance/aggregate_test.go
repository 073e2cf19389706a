package attendance

import "testing"

func TestAggregateRange(t *testing.T) {
	outcomes := []DayOutcome{
		{Status: StatusOnTime},
		{Status: StatusLate, Late: true},
		{Status: StatusEarlyLeave, EarlyLeave: true},
		{Status: StatusVacation},
		{Status: StatusAbsent},
	}

	s := AggregateRange(outcomes)
	if s.TotalDays != 5 || s.PresentDays != 3 || s.VacationDays != 1 || s.AbsentDays != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.LateDays != 1 || s.EarlyLeaveDays != 1 {
		t.Fatalf("unexpected facet counts: %+v", s)
	}

	// rate excludes vacation days from the denominator: 3 present / 4 possible
	if s.AttendanceRate != 0.75 {
		t.Fatalf("expected rate 0.75, got %v", s.AttendanceRate)
	}
}

func TestAggregateRangeAllVacation(t *testing.T) {
	outcomes := []DayOutcome{
		{Status: StatusVacation},
		{Status: StatusVacation},
	}
	s := AggregateRange(outcomes)
	if s.AttendanceRate != 0 {
		t.Fatalf("expected zero rate when no attendable days, got %v", s.AttendanceRate)
	}
	if s.AbsentDays != 0 {
		t.Fatalf("expected no absent days, got %d", s.AbsentDays)
	}
}

func TestAggregateRangeEmpty(t *testing.T) {
	s := AggregateRange(nil)
	if s.TotalDays != 0 || s.AttendanceRate != 0 {
		t.Fatalf("unexpected summary for empty range: %+v", s)
	}
}
