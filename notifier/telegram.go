package notifier

import (
	"context"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier sends messages to a single Telegram chat through a bot
type TelegramNotifier struct {
	token       string
	chatID      int64
	apiEndpoint string
	client      tgbotapi.HTTPClient
	log         zerolog.Logger

	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier creates a TelegramNotifier. The bot is authorized on the
// first Send so that an unreachable API only fails that send.
func NewTelegramNotifier(token string, chatID int64, log zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		token:       token,
		chatID:      chatID,
		apiEndpoint: tgbotapi.APIEndpoint,
		client:      &http.Client{},
		log:         log,
	}
}

func (n *TelegramNotifier) botAPI() (*tgbotapi.BotAPI, error) {
	if n.bot != nil {
		return n.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(n.token, n.apiEndpoint, n.client)
	if err != nil {
		return nil, err
	}
	n.log.Info().Str("account", bot.Self.UserName).Msg("Authorized on Telegram")
	n.bot = bot
	return bot, nil
}

// Send delivers message to the configured chat
func (n *TelegramNotifier) Send(ctx context.Context, message string) bool {
	if err := ctx.Err(); err != nil {
		n.log.Error().Err(err).Msg("Error sending message")
		return false
	}

	bot, err := n.botAPI()
	if err != nil {
		n.log.Error().Err(err).Msg("Failed to initialize bot")
		return false
	}

	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := bot.Send(msg); err != nil {
		n.log.Error().Err(err).Msg("Error sending message")
		return false
	}

	n.log.Info().Msg("Message sent successfully.")
	return true
}
