package services

import (
	"fmt"

	"attendqr_go/config"
	"attendqr_go/database"
	"attendqr_go/models"
	"attendqr_go/services/attendance"

	"gorm.io/gorm"
)

// WorkSettingsService manages per-group cutover hours.
type WorkSettingsService struct {
	db *gorm.DB
}

func NewWorkSettingsService() *WorkSettingsService {
	return &WorkSettingsService{db: database.DB}
}

// ValidateCutoverHours enforces the configuration-time constraints: hours in
// range, checkin deadline in 6..12, checkout start in 14..22, deadline below
// start. Classification itself tolerates any stored pair; only saves are gated.
func ValidateCutoverHours(checkinDeadlineHour, checkoutStartHour int) error {
	if checkinDeadlineHour < 6 || checkinDeadlineHour > 12 {
		return fmt.Errorf("%w: checkin deadline hour %d outside 6..12", attendance.ErrConfiguration, checkinDeadlineHour)
	}
	if checkoutStartHour < 14 || checkoutStartHour > 22 {
		return fmt.Errorf("%w: checkout start hour %d outside 14..22", attendance.ErrConfiguration, checkoutStartHour)
	}
	if checkinDeadlineHour >= checkoutStartHour {
		return fmt.Errorf("%w: checkin deadline hour %d must be below checkout start hour %d",
			attendance.ErrConfiguration, checkinDeadlineHour, checkoutStartHour)
	}
	return nil
}

// GetOrDefault returns the group's stored settings, or the configured defaults
// when the group has never been configured.
func (s *WorkSettingsService) GetOrDefault(groupID uint) (models.WorkSettings, error) {
	var settings models.WorkSettings
	err := s.db.Where("group_id = ?", groupID).First(&settings).Error
	if err == nil {
		return settings, nil
	}
	if err != gorm.ErrRecordNotFound {
		return settings, err
	}
	return models.WorkSettings{
		GroupID:             groupID,
		CheckinDeadlineHour: config.AppConfig.DefaultCheckinDeadlineHour,
		CheckoutStartHour:   config.AppConfig.DefaultCheckoutStartHour,
	}, nil
}

// Upsert validates and saves a group's cutover hours.
func (s *WorkSettingsService) Upsert(groupID uint, checkinDeadlineHour, checkoutStartHour int) (*models.WorkSettings, error) {
	if err := ValidateCutoverHours(checkinDeadlineHour, checkoutStartHour); err != nil {
		return nil, err
	}

	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		return nil, fmt.Errorf("group not found: %w", err)
	}

	var settings models.WorkSettings
	err := s.db.Where("group_id = ?", groupID).First(&settings).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		settings = models.WorkSettings{
			GroupID:             groupID,
			CheckinDeadlineHour: checkinDeadlineHour,
			CheckoutStartHour:   checkoutStartHour,
		}
		if err := s.db.Create(&settings).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		settings.CheckinDeadlineHour = checkinDeadlineHour
		settings.CheckoutStartHour = checkoutStartHour
		if err := s.db.Save(&settings).Error; err != nil {
			return nil, err
		}
	}
	return &settings, nil
}
