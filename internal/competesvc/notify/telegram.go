package notify

import (
	"fmt"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

const maxChats = 3

// TelegramNotifier sends operator alerts to a few telegram chats.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	send    func(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

func NewTelegramNotifier(botToken string, chatIDs []int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %v", err)
	}

	return &TelegramNotifier{
		bot:     bot,
		chatIDs: chatIDs,
		send:    bot.Send,
	}, nil
}

// Notify sends message to every configured chat and returns once each
// send has finished. Delivery is best effort.
func (tn *TelegramNotifier) Notify(message string) {
	if tn == nil || tn.bot == nil {
		return
	}

	for _, chatID := range tn.chatIDs {
		if _, err := tn.send(tgbotapi.NewMessage(chatID, message)); err != nil {
			log.Errorf("Failed to send telegram message to chat %d: %v", chatID, err)
		}
	}
}

// ChatIDsFromEnv reads TELEGRAM_CHAT_ID_1..3, skipping malformed values.
func ChatIDsFromEnv() []int64 {
	var chatIDs []int64
	for i := 1; i <= maxChats; i++ {
		chatIDStr := os.Getenv(fmt.Sprintf("TELEGRAM_CHAT_ID_%d", i))
		if chatIDStr == "" {
			continue
		}
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			log.Errorf("Invalid TELEGRAM_CHAT_ID_%d format: %v", i, err)
			continue
		}
		chatIDs = append(chatIDs, chatID)
	}
	return chatIDs
}

// FromEnv returns nil when TELEGRAM_BOT_TOKEN or the chat ids are missing.
func FromEnv() *TelegramNotifier {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set, notifications disabled")
		return nil
	}

	chatIDs := ChatIDsFromEnv()
	if len(chatIDs) == 0 {
		log.Warn("No valid telegram chat IDs found, notifications disabled")
		return nil
	}

	notifier, err := NewTelegramNotifier(botToken, chatIDs)
	if err != nil {
		log.Errorf("Failed to initialize Telegram notifier: %v", err)
		return nil
	}

	log.Infof("Telegram notifier initialized with %d chat IDs", len(chatIDs))
	return notifier
}
