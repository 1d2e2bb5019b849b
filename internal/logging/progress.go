package logging

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// DefaultProgressInterval spaces progress lines during long scans.
const DefaultProgressInterval = 2 * time.Second

// Progress logs a message at most once per interval, plus the first call.
type Progress struct {
	logger *slog.Logger
	msg    string
	every  rate.Sometimes
}

// NewProgress creates a throttled reporter.
func NewProgress(logger *slog.Logger, msg string, interval time.Duration) *Progress {
	return &Progress{
		logger: logger,
		msg:    msg,
		every:  rate.Sometimes{First: 1, Interval: interval},
	}
}

// Report logs args at info level if the interval has elapsed.
func (p *Progress) Report(args ...any) {
	p.every.Do(func() {
		p.logger.Info(p.msg, args...)
	})
}

// Done logs args unconditionally.
func (p *Progress) Done(args ...any) {
	p.logger.Info(p.msg+" done", args...)
}
