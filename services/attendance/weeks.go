package attendance

import (
	"fmt"
	"time"
)

// WeekWindow is one reporting period anchored to a group's start date.
// Week 1 runs from the start date to that week's Friday; later weeks are
// Monday..Friday blocks.
type WeekWindow struct {
	Index     int       `json:"index"` // 1-based
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Label     string    `json:"label"`
}

// ComputeWeekWindows lists the week windows for a group from its start date up
// to today, most recent first. A zero group start date is a configuration
// error, not a silent empty result.
func ComputeWeekWindows(groupStart, today time.Time) ([]WeekWindow, error) {
	if groupStart.IsZero() {
		return nil, fmt.Errorf("%w: group start date not set", ErrConfiguration)
	}

	start := DateOf(groupStart)
	now := DateOf(today)

	days := int(now.Sub(start).Hours() / 24)
	count := (days + 6) / 7
	if count < 1 {
		count = 1
	}

	windows := make([]WeekWindow, 0, count)
	for k := 1; k <= count; k++ {
		var ws, we time.Time
		if k == 1 {
			ws = start
			we = start.AddDate(0, 0, daysToFriday(start.Weekday()))
		} else {
			anchor := start.AddDate(0, 0, (k-1)*7)
			monday := anchor.AddDate(0, 0, -mondayOffset(anchor.Weekday()))
			ws = monday
			we = monday.AddDate(0, 0, 4)
		}
		windows = append(windows, WeekWindow{
			Index:     k,
			StartDate: ws,
			EndDate:   we,
			Label:     fmt.Sprintf("Wk %d (%s ~ %s)", k, ws.Format("01/02"), we.Format("01/02")),
		})
	}

	// most recent first
	for i, j := 0, len(windows)-1; i < j; i, j = i+1, j-1 {
		windows[i], windows[j] = windows[j], windows[i]
	}
	return windows, nil
}

// daysToFriday returns the offset from a weekday to the Friday that ends its
// window; Saturday and Sunday starts roll forward to the following Friday.
func daysToFriday(d time.Weekday) int {
	if d <= time.Friday {
		return int(time.Friday - d)
	}
	return int(time.Friday) + (7 - int(d))
}

// mondayOffset returns how far back a weekday is from its week's Monday.
func mondayOffset(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}
