package notifier

import (
	"context"
	"fmt"

	"rentradar/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// TelegramChannel sends match notifications to the user's Telegram chat.
type TelegramChannel struct {
	bot    *tele.Bot
	logger *zap.Logger
}

func NewTelegramChannel(token string, logger *zap.Logger) (*TelegramChannel, error) {
	// send-only: no poller is configured and Start is never called
	pref := tele.Settings{
		Token: token,
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	logger.Info("telegram channel initialized")

	return &TelegramChannel{
		bot:    bot,
		logger: logger,
	}, nil
}

func (t *TelegramChannel) Name() string {
	return "telegram"
}

func (t *TelegramChannel) CanDeliver(user *models.User) bool {
	return user.TelegramChatID != nil
}

func (t *TelegramChannel) Send(ctx context.Context, msg *Message) error {
	if msg.User.TelegramChatID == nil {
		return fmt.Errorf("user %s has no telegram chat", msg.User.ID)
	}

	recipient := &tele.User{ID: *msg.User.TelegramChatID}
	keyboard := listingKeyboard(msg.URL)

	if _, err := t.bot.Send(recipient, msg.Text, keyboard, tele.ModeMarkdownV2); err != nil {
		t.logger.Error("failed to send telegram notification",
			zap.Int64("chat_id", *msg.User.TelegramChatID),
			zap.String("match_id", msg.Match.ID),
			zap.Error(err),
		)
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}

func listingKeyboard(url string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	if url == "" {
		return markup
	}

	btn := markup.URL("🔗 Open listing", url)
	markup.Inline(markup.Row(btn))

	return markup
}
