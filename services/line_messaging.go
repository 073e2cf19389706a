package services

import (
	"fmt"
	"os"
	"time"

	"attendqr_go/database"
	"attendqr_go/models"

	"github.com/line/line-bot-sdk-go/linebot"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LineMessagingService pushes attendance alerts into LINE group chats.
type LineMessagingService struct {
	db  *gorm.DB
	bot *linebot.Client
}

func NewLineMessagingService() *LineMessagingService {
	svc := &LineMessagingService{db: database.DB}

	channelSecret := os.Getenv("LINE_CHANNEL_SECRET")
	channelToken := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
	if channelSecret == "" || channelToken == "" {
		logrus.Warn("LINE credentials not configured, group messaging disabled")
		return svc
	}

	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		logrus.WithError(err).Error("Failed to initialize LINE bot client")
		return svc
	}
	svc.bot = bot
	return svc
}

// IsEnabled reports whether the LINE client is available.
func (ls *LineMessagingService) IsEnabled() bool {
	return ls.bot != nil
}

// SendMessageToGroup pushes a text message to a LINE group chat.
func (ls *LineMessagingService) SendMessageToGroup(lineGroupID, message string) error {
	if ls.bot == nil {
		return fmt.Errorf("LINE bot is not configured")
	}
	if _, err := ls.bot.PushMessage(lineGroupID, linebot.NewTextMessage(message)).Do(); err != nil {
		return fmt.Errorf("failed to push message to LINE group %s: %w", lineGroupID, err)
	}
	return nil
}

// SendMessageToAttendanceGroup resolves the attendance group's linked LINE chat
// and pushes the message there.
func (ls *LineMessagingService) SendMessageToAttendanceGroup(groupID uint, message string) error {
	var group models.Group
	if err := ls.db.First(&group, groupID).Error; err != nil {
		return fmt.Errorf("group %d not found: %w", groupID, err)
	}
	if group.LineGroupID == nil {
		return fmt.Errorf("group %d has no linked LINE group", groupID)
	}
	var lg models.LineGroup
	if err := ls.db.First(&lg, *group.LineGroupID).Error; err != nil {
		return fmt.Errorf("linked LINE group not found: %w", err)
	}
	if !lg.IsActive {
		return fmt.Errorf("LINE group %s is inactive", lg.LineGroupID)
	}
	return ls.SendMessageToGroup(lg.LineGroupID, message)
}

// RecordGroupJoin upserts a LineGroup row when the bot joins a chat and tries
// to match it to an attendance group by name.
func (ls *LineMessagingService) RecordGroupJoin(lineGroupID string) error {
	name := ls.fetchGroupName(lineGroupID)

	var lg models.LineGroup
	err := ls.db.Where("line_group_id = ?", lineGroupID).First(&lg).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		lg = models.LineGroup{
			GroupName:    name,
			LineGroupID:  lineGroupID,
			IsActive:     true,
			LastJoinedAt: time.Now().UTC(),
		}
		if err := ls.db.Create(&lg).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		updates := map[string]interface{}{
			"is_active":      true,
			"last_joined_at": time.Now().UTC(),
		}
		if name != "" {
			updates["group_name"] = name
		}
		if err := ls.db.Model(&lg).Updates(updates).Error; err != nil {
			return err
		}
	}

	if matched, err := MatchLineGroup(ls.db, &lg); err != nil {
		logrus.WithError(err).Warnf("Error matching LINE group %s", lineGroupID)
	} else if matched != nil {
		logrus.Infof("LINE group %q linked to attendance group %q", lg.GroupName, matched.Name)
	}
	return nil
}

// RecordGroupLeave marks the LineGroup inactive when the bot leaves or is kicked.
func (ls *LineMessagingService) RecordGroupLeave(lineGroupID string) error {
	now := time.Now().UTC()
	return ls.db.Model(&models.LineGroup{}).
		Where("line_group_id = ?", lineGroupID).
		Updates(map[string]interface{}{"is_active": false, "last_left_at": &now}).Error
}

func (ls *LineMessagingService) fetchGroupName(lineGroupID string) string {
	if ls.bot == nil {
		return ""
	}
	summary, err := ls.bot.GetGroupSummary(lineGroupID).Do()
	if err != nil {
		logrus.WithError(err).Warnf("Could not fetch LINE group summary for %s", lineGroupID)
		return ""
	}
	return summary.GroupName
}
