package attendance

import (
	"fmt"
	"time"

	"attendqr_go/models"
)

// Status is the primary classification of one calendar day.
type Status string

const (
	StatusOnTime     Status = "on_time"
	StatusLate       Status = "late"
	StatusEarlyLeave Status = "early_leave"
	StatusAbsent     Status = "absent"
	StatusVacation   Status = "vacation"
)

// DayOutcome is derived fresh from a day's scans; it is never stored.
// Late and EarlyLeave are independent facets: a day can be both late and an
// early leave, while Status carries the single value simple displays show
// (precedence vacation > absent > late > early_leave > on_time).
type DayOutcome struct {
	Date           time.Time  `json:"date"`
	CheckinTime    *time.Time `json:"checkin_time,omitempty"`
	CheckoutTime   *time.Time `json:"checkout_time,omitempty"`
	Status         Status     `json:"status"`
	Late           bool       `json:"late"`
	EarlyLeave     bool       `json:"early_leave"`
	WorkingMinutes int        `json:"working_minutes"`
	WorkingTime    string     `json:"working_time,omitempty"` // "7h 32m", empty without a full bracket
}

// ClassifyDay derives the outcome for one user's calendar day from its scans,
// the group's cutover hours and whether an approved vacation covers the date.
//
// Repeated scans are treated as the authoritative bracket for the day: the
// earliest checkin and the latest checkout win. Only the hour component gates
// lateness and early leave; minutes are ignored at the boundary. Behavior is
// undefined when settings violate CheckinDeadlineHour < CheckoutStartHour;
// the rules are still applied verbatim to whatever is stored.
func ClassifyDay(date time.Time, events []models.AttendanceEvent, settings models.WorkSettings, approvedVacation bool) (DayOutcome, error) {
	out := DayOutcome{Date: DateOf(date)}

	var checkin, checkout *time.Time
	for i := range events {
		ev := events[i]
		t := ev.ScannedAt
		switch ev.ScanType {
		case "checkin":
			if checkin == nil || t.Before(*checkin) {
				checkin = &t
			}
		case "checkout":
			if checkout == nil || t.After(*checkout) {
				checkout = &t
			}
		default:
			return out, fmt.Errorf("%w: unknown scan type %q", ErrInvalidInput, ev.ScanType)
		}
	}
	out.CheckinTime = checkin
	out.CheckoutTime = checkout

	// A malformed bracket is reported even on vacation days; it means the
	// stored events themselves are inconsistent.
	if checkin != nil && checkout != nil {
		minutes := int(checkout.Sub(*checkin).Minutes())
		if minutes <= 0 {
			return out, fmt.Errorf("%w: checkout %s not after checkin %s",
				ErrInvalidInput, ToLocal(*checkout).Format("15:04"), ToLocal(*checkin).Format("15:04"))
		}
		out.WorkingMinutes = minutes
		out.WorkingTime = FormatMinutes(minutes)
	}

	if approvedVacation {
		out.Status = StatusVacation
		return out, nil
	}

	if checkin == nil {
		out.Status = StatusAbsent
		return out, nil
	}

	out.Late = ToLocal(*checkin).Hour() > settings.CheckinDeadlineHour
	if checkout != nil {
		out.EarlyLeave = ToLocal(*checkout).Hour() < settings.CheckoutStartHour
	}

	switch {
	case out.Late:
		out.Status = StatusLate
	case out.EarlyLeave:
		out.Status = StatusEarlyLeave
	default:
		out.Status = StatusOnTime
	}
	return out, nil
}

// FormatMinutes renders whole minutes as "Nh Mm".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
