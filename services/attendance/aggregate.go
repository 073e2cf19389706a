package attendance

// Summary aggregates a range of day outcomes for reporting. Vacation days are
// not attendable, so they are excluded from the attendance-rate denominator.
type Summary struct {
	TotalDays      int     `json:"total_days"`
	PresentDays    int     `json:"present_days"` // on-time + late
	LateDays       int     `json:"late_days"`
	EarlyLeaveDays int     `json:"early_leave_days"`
	VacationDays   int     `json:"vacation_days"`
	AbsentDays     int     `json:"absent_days"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// AggregateRange folds day outcomes into a Summary.
func AggregateRange(outcomes []DayOutcome) Summary {
	s := Summary{TotalDays: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case StatusVacation:
			s.VacationDays++
		case StatusAbsent:
			// counted below
		default:
			s.PresentDays++
		}
		if o.Late {
			s.LateDays++
		}
		if o.EarlyLeave {
			s.EarlyLeaveDays++
		}
	}
	s.AbsentDays = s.TotalDays - s.PresentDays - s.VacationDays

	possible := s.TotalDays - s.VacationDays
	if possible > 0 {
		s.AttendanceRate = float64(s.PresentDays) / float64(possible)
	}
	return s
}
