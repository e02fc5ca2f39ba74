package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	logx "github.com/YrayPixels/recipiehunter-sub001/pkg/logx"
)

// TelegramConfig configures the Telegram delivery sink.
type TelegramConfig struct {
	Token  string
	ChatID int64
	// SendTimeout caps a single send; default 10s.
	SendTimeout time.Duration
}

// TelegramSink delivers reminders to a Telegram chat. Outbound only: no
// poller is attached, the bot never consumes updates.
type TelegramSink struct {
	bot    *tele.Bot
	chatID int64
	log    logx.Logger
}

func NewTelegramSink(cfg TelegramConfig, log logx.Logger) (*TelegramSink, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is required")
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Client: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &TelegramSink{bot: b, chatID: cfg.ChatID, log: log}, nil
}

func (s *TelegramSink) Deliver(ctx context.Context, n Note) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	text := n.Title
	if strings.TrimSpace(n.Body) != "" {
		text += "\n" + n.Body
	}
	_, err := s.bot.Send(&tele.Chat{ID: s.chatID}, text, &tele.SendOptions{
		DisableWebPagePreview: true,
	})
	return err
}
