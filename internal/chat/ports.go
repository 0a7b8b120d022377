package chat

import (
	"context"
	"errors"
	"time"

	"fitlog/internal/core"
)

// ErrNoMessage is returned by a MessageSource when there is nothing to read
// for this run.
var ErrNoMessage = errors.New("no inbound message")

// Message is one inbound free-text status message.
type Message struct {
	ID     int
	ChatID int64
	Text   string
	SentAt time.Time
}

// Ports for the chat side of a run.
type (
	MessageSource interface {
		LatestMessage(ctx context.Context) (Message, error)
	}

	MessageSink interface {
		Send(ctx context.Context, report core.Report) error
	}
)

// StaticSource always returns the same text. It replays a message given on
// the command line instead of reading the chat.
type StaticSource string

func (s StaticSource) LatestMessage(context.Context) (Message, error) {
	if string(s) == "" {
		return Message{}, ErrNoMessage
	}
	return Message{Text: string(s), SentAt: time.Now()}, nil
}
