package services

import (
	"errors"
	"fmt"
	"time"

	"attendqr_go/database"
	"attendqr_go/models"
	"attendqr_go/services/attendance"

	"gorm.io/gorm"
)

// AttendanceService records scans and derives day outcomes by feeding stored
// events, work settings and vacation approvals to the classifier.
type AttendanceService struct {
	db        *gorm.DB
	settings  *WorkSettingsService
	vacations *VacationService
}

func NewAttendanceService() *AttendanceService {
	return &AttendanceService{
		db:        database.DB,
		settings:  NewWorkSettingsService(),
		vacations: NewVacationService(),
	}
}

// ScanInput carries one scan confirmation from a client.
type ScanInput struct {
	UserID     uint
	GroupID    uint
	ScanType   string // checkin, checkout
	LocationID *uint
	Latitude   *float64
	Longitude  *float64
}

// RecordScan appends an immutable AttendanceEvent. A same-type scan on the
// same local day is rejected with ErrDuplicateScan; repeats never overwrite
// earlier rows.
func (s *AttendanceService) RecordScan(in ScanInput) (*models.AttendanceEvent, error) {
	if in.ScanType != "checkin" && in.ScanType != "checkout" {
		return nil, fmt.Errorf("%w: unknown scan type %q", attendance.ErrInvalidInput, in.ScanType)
	}

	var member models.GroupMember
	if err := s.db.Where("group_id = ? AND user_id = ? AND status = ?", in.GroupID, in.UserID, "active").
		First(&member).Error; err != nil {
		return nil, fmt.Errorf("user is not an active member of the group")
	}

	now := time.Now().UTC()
	dayStart := attendance.DateOf(now)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := s.db.Model(&models.AttendanceEvent{}).
		Where("user_id = ? AND group_id = ? AND scan_type = ? AND scanned_at >= ? AND scanned_at < ?",
			in.UserID, in.GroupID, in.ScanType, dayStart.UTC(), dayEnd.UTC()).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s already recorded today", attendance.ErrDuplicateScan, in.ScanType)
	}

	event := models.AttendanceEvent{
		UserID:     in.UserID,
		GroupID:    in.GroupID,
		ScanType:   in.ScanType,
		ScanDay:    dayStart.UTC(),
		ScannedAt:  now,
		LocationID: in.LocationID,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
	}
	if err := s.db.Create(&event).Error; err != nil {
		// Two scans racing past the count both reach the insert; the unique
		// index on (user, group, type, day) lets exactly one through.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s already recorded today", attendance.ErrDuplicateScan, in.ScanType)
		}
		return nil, err
	}
	return &event, nil
}

// DayEvents returns one user's scans for a single campus-local calendar day.
func (s *AttendanceService) DayEvents(userID, groupID uint, day time.Time) ([]models.AttendanceEvent, error) {
	dayStart := attendance.DateOf(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var events []models.AttendanceEvent
	err := s.db.
		Where("user_id = ? AND group_id = ? AND scanned_at >= ? AND scanned_at < ?",
			userID, groupID, dayStart.UTC(), dayEnd.UTC()).
		Order("scanned_at ASC").
		Find(&events).Error
	return events, err
}

// OutcomeFor classifies one user's day.
func (s *AttendanceService) OutcomeFor(userID, groupID uint, day time.Time) (attendance.DayOutcome, error) {
	events, err := s.DayEvents(userID, groupID, day)
	if err != nil {
		return attendance.DayOutcome{}, err
	}
	settings, err := s.settings.GetOrDefault(groupID)
	if err != nil {
		return attendance.DayOutcome{}, err
	}
	onVacation, err := s.vacations.ApprovedCovers(userID, groupID, day)
	if err != nil {
		return attendance.DayOutcome{}, err
	}
	return attendance.ClassifyDay(day, events, settings, onVacation)
}

// RangeOutcomes classifies every day in [from, to] inclusive with one event
// query and one vacation query instead of a round trip per day.
func (s *AttendanceService) RangeOutcomes(userID, groupID uint, from, to time.Time) ([]attendance.DayOutcome, error) {
	start := attendance.DateOf(from)
	end := attendance.DateOf(to)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end before start", attendance.ErrInvalidInput)
	}

	settings, err := s.settings.GetOrDefault(groupID)
	if err != nil {
		return nil, err
	}

	var events []models.AttendanceEvent
	if err := s.db.
		Where("user_id = ? AND group_id = ? AND scanned_at >= ? AND scanned_at < ?",
			userID, groupID, start.UTC(), end.AddDate(0, 0, 1).UTC()).
		Order("scanned_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}

	byDay := make(map[time.Time][]models.AttendanceEvent)
	for _, ev := range events {
		d := attendance.DateOf(ev.ScannedAt)
		byDay[d] = append(byDay[d], ev)
	}

	vacations, err := s.vacations.ApprovedInRange(userID, groupID, start, end)
	if err != nil {
		return nil, err
	}
	covered := func(day time.Time) bool {
		for _, v := range vacations {
			if !day.Before(attendance.DateOf(v.StartDate)) && !day.After(attendance.DateOf(v.EndDate)) {
				return true
			}
		}
		return false
	}

	var outcomes []attendance.DayOutcome
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		outcome, err := attendance.ClassifyDay(day, byDay[day], settings, covered(day))
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// GroupTodayOutcomes derives today's outcome for every active member,
// for the faculty live dashboard.
func (s *AttendanceService) GroupTodayOutcomes(groupID uint) (map[uint]attendance.DayOutcome, error) {
	var members []models.GroupMember
	if err := s.db.Where("group_id = ? AND status = ?", groupID, "active").Find(&members).Error; err != nil {
		return nil, err
	}

	today := time.Now().UTC()
	outcomes := make(map[uint]attendance.DayOutcome, len(members))
	for _, m := range members {
		outcome, err := s.OutcomeFor(m.UserID, groupID, today)
		if err != nil {
			return nil, err
		}
		outcomes[m.UserID] = outcome
	}
	return outcomes, nil
}
