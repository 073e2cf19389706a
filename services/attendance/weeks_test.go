package attendance

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, Zone())
}

func TestComputeWeekWindowsFirstWeek(t *testing.T) {
	// Monday start, today mid-week: exactly one window, Monday..Friday.
	windows, err := ComputeWeekWindows(date(2024, 1, 15), date(2024, 1, 17))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	w := windows[0]
	if w.Index != 1 || !w.StartDate.Equal(date(2024, 1, 15)) || !w.EndDate.Equal(date(2024, 1, 19)) {
		t.Fatalf("unexpected window: %+v", w)
	}
}

func TestComputeWeekWindowsMidweekStart(t *testing.T) {
	// Wednesday start: week 1 is Wed..Fri, week 2 the following Mon..Fri.
	windows, err := ComputeWeekWindows(date(2024, 1, 17), date(2024, 1, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}

	// most recent first
	if windows[0].Index != 2 || windows[1].Index != 1 {
		t.Fatalf("expected descending order, got indexes %d, %d", windows[0].Index, windows[1].Index)
	}

	w1 := windows[1]
	if !w1.StartDate.Equal(date(2024, 1, 17)) || !w1.EndDate.Equal(date(2024, 1, 19)) {
		t.Fatalf("unexpected week 1: %+v", w1)
	}
	w2 := windows[0]
	if !w2.StartDate.Equal(date(2024, 1, 22)) || !w2.EndDate.Equal(date(2024, 1, 26)) {
		t.Fatalf("unexpected week 2: %+v", w2)
	}
}

func TestComputeWeekWindowsWeekendStart(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		expStart time.Time
		expEnd   time.Time
	}{
		{
			name:     "saturday rolls to following friday",
			start:    date(2024, 1, 20),
			expStart: date(2024, 1, 20),
			expEnd:   date(2024, 1, 26),
		},
		{
			name:     "sunday rolls to following friday",
			start:    date(2024, 1, 21),
			expStart: date(2024, 1, 21),
			expEnd:   date(2024, 1, 26),
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			windows, err := ComputeWeekWindows(tc.start, tc.start.AddDate(0, 0, 2))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			w := windows[len(windows)-1]
			if !w.StartDate.Equal(tc.expStart) || !w.EndDate.Equal(tc.expEnd) {
				t.Fatalf("unexpected first window: %+v", w)
			}
		})
	}
}

func TestComputeWeekWindowsSameDay(t *testing.T) {
	// zero elapsed days still yields one window
	windows, err := ComputeWeekWindows(date(2024, 3, 4), date(2024, 3, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
}

func TestComputeWeekWindowsMissingStart(t *testing.T) {
	if _, err := ComputeWeekWindows(time.Time{}, date(2024, 1, 17)); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
