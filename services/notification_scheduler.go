package services

import (
	"fmt"
	"time"

	"attendqr_go/database"
	"attendqr_go/models"
	"attendqr_go/services/attendance"
	"attendqr_go/services/notifications"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationScheduler drives the periodic attendance alerts: a morning
// absence summary for faculty and a missed-checkout reminder for students.
type NotificationScheduler struct {
	db   *gorm.DB
	att  *AttendanceService
	line *LineMessagingService
	cron *cron.Cron
}

func NewNotificationScheduler() *NotificationScheduler {
	return &NotificationScheduler{
		db:   database.DB,
		att:  NewAttendanceService(),
		line: NewLineMessagingService(),
		cron: cron.New(cron.WithLocation(attendance.Zone())),
	}
}

// Start registers the cron entries and launches the checkout-reminder ticker.
// Stop cancels everything; views polling was replaced by these pushes plus
// the WebSocket hub.
func (ns *NotificationScheduler) Start() error {
	// 30 minutes past each group's checkin deadline, summarize who is absent
	if _, err := ns.cron.AddFunc("30 * * * *", ns.CheckLateAbsences); err != nil {
		return err
	}
	// 21:00 campus time: remind members who checked in but never out
	if _, err := ns.cron.AddFunc("0 21 * * 1-5", ns.RemindMissingCheckouts); err != nil {
		return err
	}
	ns.cron.Start()

	logrus.Info("Notification scheduler started")
	return nil
}

// Stop cancels all scheduled work.
func (ns *NotificationScheduler) Stop() {
	ctx := ns.cron.Stop()
	<-ctx.Done()
}

// CheckLateAbsences runs hourly and, for each active group whose checkin
// deadline has just passed, sends faculty an absence summary.
func (ns *NotificationScheduler) CheckLateAbsences() {
	now := attendance.ToLocal(time.Now().UTC())

	var groups []models.Group
	if err := ns.db.Where("status = ?", "active").Find(&groups).Error; err != nil {
		logrus.WithError(err).Error("Error fetching groups for absence check")
		return
	}

	settingsSvc := NewWorkSettingsService()
	for _, group := range groups {
		if group.StartDate == nil {
			continue
		}
		settings, err := settingsSvc.GetOrDefault(group.ID)
		if err != nil {
			logrus.WithError(err).Errorf("Error loading work settings for group %d", group.ID)
			continue
		}
		// only fire in the hour right after the deadline
		if now.Hour() != settings.CheckinDeadlineHour+1 {
			continue
		}
		ns.sendAbsenceSummary(group)
	}
}

// sendAbsenceSummary notifies the group's faculty about members still absent today.
func (ns *NotificationScheduler) sendAbsenceSummary(group models.Group) {
	outcomes, err := ns.att.GroupTodayOutcomes(group.ID)
	if err != nil {
		logrus.WithError(err).Errorf("Error deriving outcomes for group %d", group.ID)
		return
	}

	var absent, late []string
	for userID, outcome := range outcomes {
		var user models.User
		if err := ns.db.First(&user, userID).Error; err != nil {
			continue
		}
		name := user.Name
		if name == "" {
			name = user.Username
		}
		switch {
		case outcome.Status == attendance.StatusAbsent:
			absent = append(absent, name)
		case outcome.Late:
			late = append(late, name)
		}
	}
	if len(absent) == 0 && len(late) == 0 {
		return
	}

	message := fmt.Sprintf("Group %s: %d absent, %d late so far today.", group.Name, len(absent), len(late))
	n := notifications.QueuedWithData("Attendance summary", message, "warning",
		map[string]interface{}{"group_id": group.ID, "absent": absent, "late": late}, "normal", "popup")
	if err := notifications.NewService().EnqueueOrCreate([]uint{group.FacultyID}, n); err != nil {
		logrus.WithError(err).Errorf("Error creating absence summary for group %d", group.ID)
	}

	// mirror the summary into the group's LINE chat when one is linked
	if group.LineGroupID != nil {
		var lg models.LineGroup
		if err := ns.db.First(&lg, *group.LineGroupID).Error; err == nil && lg.IsActive {
			if err := ns.line.SendMessageToGroup(lg.LineGroupID, message); err != nil {
				logrus.WithError(err).Warnf("LINE summary failed for group %d", group.ID)
			}
		}
	}
}

// RemindMissingCheckouts nudges members who checked in today but have no checkout yet.
func (ns *NotificationScheduler) RemindMissingCheckouts() {
	today := time.Now().UTC()
	dayStart := attendance.DateOf(today)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var checkins []models.AttendanceEvent
	err := ns.db.
		Where("scan_type = ? AND scanned_at >= ? AND scanned_at < ?", "checkin", dayStart.UTC(), dayEnd.UTC()).
		Find(&checkins).Error
	if err != nil {
		logrus.WithError(err).Error("Error fetching today's checkins")
		return
	}

	for _, in := range checkins {
		var count int64
		ns.db.Model(&models.AttendanceEvent{}).
			Where("user_id = ? AND group_id = ? AND scan_type = ? AND scanned_at >= ? AND scanned_at < ?",
				in.UserID, in.GroupID, "checkout", dayStart.UTC(), dayEnd.UTC()).
			Count(&count)
		if count > 0 {
			continue
		}

		n := notifications.QueuedWithData("Checkout reminder",
			"You checked in today but have not checked out yet. Scan the location QR on your way out.",
			"info", map[string]interface{}{"group_id": in.GroupID}, "normal", "line")
		if err := notifications.NewService().EnqueueOrCreate([]uint{in.UserID}, n); err != nil {
			logrus.WithError(err).Errorf("Error creating checkout reminder for user %d", in.UserID)
		}
	}
}
