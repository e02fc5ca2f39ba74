package gateway

import (
	"context"

	logx "github.com/YrayPixels/recipiehunter-sub001/pkg/logx"
)

// LogSink writes deliveries to the log. The default sink when no chat
// channel is configured; also handy in tests and local runs.
type LogSink struct {
	log logx.Logger
}

func NewLogSink(log logx.Logger) *LogSink {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Deliver(ctx context.Context, n Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("reminder",
		logx.String("identifier", n.Identifier),
		logx.String("title", n.Title),
		logx.String("body", n.Body))
	return nil
}
