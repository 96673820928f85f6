// Package telegram is the Telegram chat front end: a long-polling adapter
// that maps each chat to one assistant session and relays messages both
// ways. It is a pure I/O layer; all reasoning happens behind the Responder.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/nooriai/noori/logging"
)

// Responder answers one user utterance within a session. The chat id is
// used as the session id, so each Telegram chat keeps its own history.
type Responder interface {
	Run(ctx context.Context, sessionID, input string) (string, error)
}

// Options configures a Channel.
type Options struct {
	// PollTimeout is the long-polling timeout in seconds.
	PollTimeout int

	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Channel is the Telegram adapter.
type Channel struct {
	bot       *telego.Bot
	responder Responder
	opts      Options
}

// New creates a Telegram channel for the given bot token.
func New(token string, responder Responder, optFns ...func(o *Options)) (*Channel, error) {
	opts := Options{
		PollTimeout: 30,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	return &Channel{bot: bot, responder: responder, opts: opts}, nil
}

// Run polls for updates until the context is cancelled. Each incoming text
// message is answered through the responder; failures are reported to the
// chat instead of crashing the poll loop.
func (c *Channel) Run(ctx context.Context) error {
	updates, err := c.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: c.opts.PollTimeout,
	})
	if err != nil {
		return fmt.Errorf("telegram: start long polling: %w", err)
	}
	c.opts.Logger.Info("telegram channel started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram: updates channel closed")
			}
			if update.Message != nil && update.Message.Text != "" {
				c.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (c *Channel) handleMessage(ctx context.Context, msg *telego.Message) {
	chatID := msg.Chat.ID
	sessionID := strconv.FormatInt(chatID, 10)

	_ = c.bot.SendChatAction(ctx, tu.ChatAction(tu.ID(chatID), telego.ChatActionTyping))

	answer, err := c.responder.Run(ctx, sessionID, msg.Text)
	if err != nil {
		c.opts.Logger.Error("assistant run failed", "session", sessionID, "error", err)
		answer = "Something went wrong while handling that. Please try again."
	}

	if _, err := c.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), answer)); err != nil {
		c.opts.Logger.Error("send message failed", "session", sessionID, "error", err)
	}
}
