package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"

	"attendqr_go/models"
	"attendqr_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/linebot"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LineWebhookHandler receives LINE platform events: join/leave events keep the
// LineGroup table in sync, text messages carrying a link token bind a LINE
// account to a user.
type LineWebhookHandler struct {
	DB   *gorm.DB
	Bot  *linebot.Client
	line *services.LineMessagingService
}

func NewLineWebhookHandler(db *gorm.DB) *LineWebhookHandler {
	h := &LineWebhookHandler{DB: db, line: services.NewLineMessagingService()}

	secret := os.Getenv("LINE_CHANNEL_SECRET")
	token := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
	if secret == "" || token == "" {
		logrus.Warn("LINE credentials missing: webhook disabled")
		return h
	}

	bot, err := linebot.New(secret, token)
	if err != nil {
		logrus.WithError(err).Error("Cannot create LINE bot client")
		return h
	}
	h.Bot = bot
	return h
}

// Handle validates the signature, acks immediately and processes the events in
// the background so LINE's verify call never times out.
func (h *LineWebhookHandler) Handle(c *fiber.Ctx) error {
	if h.Bot == nil {
		return c.SendStatus(fiber.StatusOK)
	}

	signature := c.Get("X-Line-Signature")
	if signature == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if !validateSignature(os.Getenv("LINE_CHANNEL_SECRET"), c.Body(), signature) {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	body := make([]byte, len(c.Body()))
	copy(body, c.Body())
	go h.processEvents(body)

	return c.SendStatus(fiber.StatusOK)
}

func (h *LineWebhookHandler) processEvents(body []byte) {
	var webhook struct {
		Events []*linebot.Event `json:"events"`
	}
	if err := json.Unmarshal(body, &webhook); err != nil {
		logrus.WithError(err).Error("Failed to parse LINE webhook body")
		return
	}

	for _, event := range webhook.Events {
		switch event.Type {
		case linebot.EventTypeJoin:
			if event.Source.GroupID == "" {
				continue
			}
			if err := h.line.RecordGroupJoin(event.Source.GroupID); err != nil {
				logrus.WithError(err).Errorf("Failed to record join for LINE group %s", event.Source.GroupID)
			}

		case linebot.EventTypeLeave:
			if event.Source.GroupID == "" {
				continue
			}
			if err := h.line.RecordGroupLeave(event.Source.GroupID); err != nil {
				logrus.WithError(err).Errorf("Failed to record leave for LINE group %s", event.Source.GroupID)
			}

		case linebot.EventTypeMessage:
			h.handleMessage(event)
		}
	}
}

// handleMessage links a LINE account when the user sends "link <token>" in a
// direct chat. The token is issued from the profile page and works once.
func (h *LineWebhookHandler) handleMessage(event *linebot.Event) {
	textMsg, ok := event.Message.(*linebot.TextMessage)
	if !ok || event.Source.UserID == "" {
		return
	}

	fields := strings.Fields(strings.TrimSpace(textMsg.Text))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "link") {
		return
	}
	token := fields[1]

	var user models.User
	if err := h.DB.Where("line_link_token = ? AND line_link_token <> ''", token).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logrus.WithError(err).Error("Failed to look up LINE link token")
		}
		h.reply(event.ReplyToken, "That link code is not valid. Generate a new one from your profile page.")
		return
	}

	updates := map[string]interface{}{
		"line_id":         event.Source.UserID,
		"line_link_token": "",
	}
	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		logrus.WithError(err).Errorf("Failed to link LINE account for user %d", user.ID)
		return
	}

	logrus.Infof("Linked LINE account for user %d", user.ID)
	h.reply(event.ReplyToken, "Your LINE account is now linked. You will receive attendance notifications here.")
}

func (h *LineWebhookHandler) reply(replyToken, message string) {
	if h.Bot == nil || replyToken == "" {
		return
	}
	if _, err := h.Bot.ReplyMessage(replyToken, linebot.NewTextMessage(message)).Do(); err != nil {
		logrus.WithError(err).Warn("Failed to send LINE reply")
	}
}

func validateSignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
