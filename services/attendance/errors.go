package attendance

import "errors"

// Sentinel errors surfaced by the classifier and the services built on it.
// Callers match with errors.Is and map to HTTP codes at the controller layer.
var (
	// ErrConfiguration means required group configuration is missing,
	// e.g. a group without a start date or stored work settings.
	ErrConfiguration = errors.New("attendance: missing or invalid configuration")

	// ErrInvalidInput means the event set is malformed, e.g. a checkout
	// timestamp before the checkin it is paired with.
	ErrInvalidInput = errors.New("attendance: invalid input")

	// ErrDuplicateScan means a same-type scan already exists for the day.
	ErrDuplicateScan = errors.New("attendance: duplicate scan for day")

	// ErrStaleState means a vacation request was no longer pending when the
	// review was applied.
	ErrStaleState = errors.New("attendance: request already reviewed")
)
