package notifications

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/line/line-bot-sdk-go/linebot"
)

var (
	lineBot     *linebot.Client
	lineBotOnce sync.Once
)

// lineClient lazily builds the shared LINE bot client. Missing credentials
// disable the channel rather than failing startup.
func lineClient() *linebot.Client {
	lineBotOnce.Do(func() {
		secret := os.Getenv("LINE_CHANNEL_SECRET")
		token := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
		if secret == "" || token == "" {
			log.Println("[notif] LINE channel disabled: missing LINE_CHANNEL_SECRET or LINE_CHANNEL_ACCESS_TOKEN")
			return
		}
		bot, err := linebot.New(secret, token)
		if err != nil {
			log.Printf("[notif] Cannot create LINE bot client: %v", err)
			return
		}
		lineBot = bot
	})
	return lineBot
}

// pushLineMessage delivers a text message to one linked LINE account.
func pushLineMessage(lineUserID, message string) error {
	bot := lineClient()
	if bot == nil {
		return fmt.Errorf("LINE bot client is not initialized")
	}
	if _, err := bot.PushMessage(lineUserID, linebot.NewTextMessage(message)).Do(); err != nil {
		return fmt.Errorf("LINE Messaging API failed: %v", err)
	}
	return nil
}
