package attendance

import "time"

// All civil-time comparisons in this package use one fixed offset. The campus
// runs on UTC+9 and scans are stored as UTC instants, so a single FixedZone
// keeps classification independent of the server's locale or TZ database.
var campusZone = time.FixedZone("UTC+9", 9*60*60)

// Zone returns the fixed campus zone used for all classification.
func Zone() *time.Location {
	return campusZone
}

// ToLocal converts a stored UTC instant to campus civil time.
func ToLocal(t time.Time) time.Time {
	return t.In(campusZone)
}

// DateOf truncates an instant to its campus-local calendar date (midnight).
func DateOf(t time.Time) time.Time {
	lt := ToLocal(t)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, campusZone)
}

// SameLocalDay reports whether two instants fall on the same campus-local date.
func SameLocalDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
