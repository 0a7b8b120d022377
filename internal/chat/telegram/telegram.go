package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitlog/internal/chat"
	"fitlog/internal/core"
	"fitlog/internal/log"
)

// latestOffset asks getUpdates for the most recent update only.
const latestOffset = -1

// botAPI is the subset of *tgbotapi.BotAPI the client uses.
type botAPI interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client reads status messages sent to the bot and posts reports to one chat.
type Client struct {
	bot    botAPI
	chatID int64
	logger *log.Logger
}

var (
	_ chat.MessageSource = (*Client)(nil)
	_ chat.MessageSink   = (*Client)(nil)
)

// New authenticates the bot token against the Bot API.
func New(token string, chatID int64, logger *log.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	logger.Info("Telegram bot authorized", "bot", bot.Self.UserName, log.FieldChatID, chatID)
	return newWithBot(bot, chatID, logger), nil
}

func newWithBot(bot botAPI, chatID int64, logger *log.Logger) *Client {
	return &Client{bot: bot, chatID: chatID, logger: logger}
}

// LatestMessage returns the newest text message received by the bot. It
// returns chat.ErrNoMessage when the bot has nothing queued.
func (c *Client) LatestMessage(ctx context.Context) (chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return chat.Message{}, err
	}
	updates, err := c.bot.GetUpdates(tgbotapi.NewUpdate(latestOffset))
	if err != nil {
		return chat.Message{}, fmt.Errorf("get updates: %w", err)
	}

	for i := len(updates) - 1; i >= 0; i-- {
		m := updates[i].Message
		if m == nil {
			continue
		}
		msg := chat.Message{
			ID:     m.MessageID,
			Text:   m.Text,
			SentAt: m.Time(),
		}
		if m.Chat != nil {
			msg.ChatID = m.Chat.ID
		}
		c.logger.InfoContext(ctx, "Received status message",
			"update_id", updates[i].UpdateID,
			"message_id", msg.ID,
			"sent_at", msg.SentAt)
		return msg, nil
	}
	return chat.Message{}, fmt.Errorf("%w: did you enter an input today?", chat.ErrNoMessage)
}

// Send posts the rendered report to the configured chat.
func (c *Client) Send(ctx context.Context, report core.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Send(tgbotapi.NewMessage(c.chatID, report.String())); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	c.logger.InfoContext(ctx, "Report sent",
		log.FieldChatID, c.chatID,
		log.FieldReferenceDate, report.Date.String())
	return nil
}
