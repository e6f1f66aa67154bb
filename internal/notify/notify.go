// Package notify delivers alerts to the desktop, a chat webhook or the log.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Alert is one reminder about an upcoming event
type Alert struct {
	Summary string
	Body    string
	// At is when the event starts
	At time.Time
}

// Notifier delivers alerts
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Lead phrases for alerts sent at fixed offsets before an event
const (
	LeadFifteenMinutes = "in 15 minutes"
	LeadFiveMinutes    = "in 5 minutes"
	LeadOneMinute      = "in 1 minute"
	LeadThirtySeconds  = "in 30 seconds"
	LeadNow            = "now"
	LeadLastCall       = "closes in 2 minutes"
)

// Lead describes target relative to now: "in 23 minutes", "now", "5 minutes ago"
func Lead(target, now time.Time) string {
	diff := target.Sub(now)
	switch {
	case diff > -time.Second && diff < time.Second:
		return LeadNow
	case diff > 0:
		return "in " + strings.TrimSpace(humanize.RelTime(now, target, "", ""))
	default:
		return humanize.RelTime(target, now, "ago", "")
	}
}

// Timestamp renders t as a chat client-side absolute time
func Timestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d>", t.Unix())
}

// RelativeTimestamp renders t as a chat client-side relative time ("in 20 minutes")
func RelativeTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// Multi fans an alert out to several notifiers
type Multi []Notifier

// Notify delivers to every notifier, returning all failures joined
func (m Multi) Notify(ctx context.Context, alert Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes alerts to a zap logger
type Log struct {
	logger *zap.Logger
}

// NewLog creates a log notifier
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

func (l *Log) Notify(_ context.Context, alert Alert) error {
	l.logger.Info("alert",
		zap.String("alert_id", uuid.NewString()),
		zap.String("summary", alert.Summary),
		zap.String("body", alert.Body),
		zap.Time("at", alert.At))
	return nil
}
