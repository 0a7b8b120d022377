package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitlog/internal/chat"
	"fitlog/internal/core"
	"fitlog/internal/log"
)

type fakeBot struct {
	updates   []tgbotapi.Update
	err       error
	gotOffset int
	sent      []tgbotapi.MessageConfig
	sendErr   error
}

func (f *fakeBot) GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	f.gotOffset = config.Offset
	return f.updates, f.err
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func TestLatestMessage(t *testing.T) {
	sent := time.Date(2023, 12, 11, 14, 0, 0, 0, time.UTC)
	bot := &fakeBot{updates: []tgbotapi.Update{
		{UpdateID: 10, Message: &tgbotapi.Message{MessageID: 1, Text: "old", Date: int(sent.Add(-time.Hour).Unix())}},
		{UpdateID: 11, Message: &tgbotapi.Message{MessageID: 2, Text: "150 2200 90 8000", Date: int(sent.Unix()), Chat: &tgbotapi.Chat{ID: 42}}},
		{UpdateID: 12},
	}}
	c := newWithBot(bot, 42, log.Discard())

	msg, err := c.LatestMessage(context.Background())
	if err != nil {
		t.Fatalf("LatestMessage: %v", err)
	}
	if bot.gotOffset != -1 {
		t.Errorf("offset = %d, want -1", bot.gotOffset)
	}
	if msg.Text != "150 2200 90 8000" || msg.ID != 2 || msg.ChatID != 42 {
		t.Errorf("unexpected message: %+v", msg)
	}
	if !msg.SentAt.Equal(sent) {
		t.Errorf("SentAt = %v, want %v", msg.SentAt, sent)
	}
}

func TestLatestMessageNoMessages(t *testing.T) {
	for name, updates := range map[string][]tgbotapi.Update{
		"no updates":          nil,
		"non-message updates": {{UpdateID: 3}},
	} {
		t.Run(name, func(t *testing.T) {
			c := newWithBot(&fakeBot{updates: updates}, 42, log.Discard())
			_, err := c.LatestMessage(context.Background())
			if !errors.Is(err, chat.ErrNoMessage) {
				t.Fatalf("error = %v, want ErrNoMessage", err)
			}
		})
	}
}

func TestLatestMessageAPIError(t *testing.T) {
	boom := errors.New("unauthorized")
	c := newWithBot(&fakeBot{err: boom}, 42, log.Discard())
	if _, err := c.LatestMessage(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped API error", err)
	}
}

func TestSend(t *testing.T) {
	bot := &fakeBot{}
	c := newWithBot(bot, 42, log.Discard())
	report := core.NewReport(core.NewDate(2023, 12, 10), map[core.Category]string{core.Weight: "150", core.Steps: "8000"})

	if err := c.Send(context.Background(), report); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(bot.sent))
	}
	if bot.sent[0].ChatID != 42 || bot.sent[0].Text != "10/12\nW 150\nS 8000" {
		t.Errorf("unexpected message: chat=%d text=%q", bot.sent[0].ChatID, bot.sent[0].Text)
	}
}

func TestSendError(t *testing.T) {
	c := newWithBot(&fakeBot{sendErr: errors.New("chat not found")}, 42, log.Discard())
	if err := c.Send(context.Background(), core.Report{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newWithBot(&fakeBot{}, 42, log.Discard())
	if _, err := c.LatestMessage(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("LatestMessage error = %v", err)
	}
	if err := c.Send(ctx, core.Report{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Send error = %v", err)
	}
}
