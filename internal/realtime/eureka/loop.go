// Package eureka runs the 8-hour weather cycle loop: it posts a summary
// every cycle and sends reminders before a farming condition starts.
package eureka

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thebluefish/eureka-notify/internal/db"
	"github.com/thebluefish/eureka-notify/internal/eorzea"
	"github.com/thebluefish/eureka-notify/internal/notify"
	"github.com/thebluefish/eureka-notify/internal/realtime"
	"github.com/thebluefish/eureka-notify/internal/status"
)

// Poster publishes and rewrites chat messages
type Poster interface {
	Post(ctx context.Context, msg notify.Message) (string, error)
	Edit(ctx context.Context, id string, msg notify.Message) error
}

// PostRetention is how long edited posts stay in the store
const PostRetention = 7 * 24 * time.Hour

// reminders are sent this long before a condition starts
var reminders = []struct {
	before time.Duration
	lead   string
}{
	{5 * time.Minute, notify.LeadFiveMinutes},
	{time.Minute, notify.LeadOneMinute},
}

// Options configures a Loop. Reporter and Store are required.
type Options struct {
	Reporter *status.Reporter
	Store    db.Store
	Notifier notify.Notifier
	// Poster is optional; without it no summaries are posted
	Poster Poster
	RoleID string
	Clock  realtime.Clock
	Logger *zap.Logger
}

// Loop is the eureka notification loop
type Loop struct {
	reporter *status.Reporter
	store    db.Store
	notifier notify.Notifier
	poster   Poster
	roleID   string
	clock    realtime.Clock
	logger   *zap.Logger
}

// NewLoop creates a loop, filling in the system clock and a log notifier
func NewLoop(opts Options) *Loop {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = realtime.SystemClock{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewLog(opts.Logger)
	}
	return &Loop{
		reporter: opts.Reporter,
		store:    opts.Store,
		notifier: opts.Notifier,
		poster:   opts.Poster,
		roleID:   opts.RoleID,
		clock:    opts.Clock,
		logger:   opts.Logger.With(zap.String("loop", db.LoopEureka)),
	}
}

// Run processes one weather cycle after another until ctx is cancelled.
// It resumes after the last cycle recorded in the store, catching up on
// missed posts without sending reminders for cycles already past.
func (l *Loop) Run(ctx context.Context) error {
	now := eorzea.FromReal(l.clock.Now()).Cycle()
	catchUp := now
	skipFirst := false

	last, ok, err := l.store.LastTick(ctx, db.LoopEureka)
	if err != nil {
		return fmt.Errorf("failed to load last tick: %w", err)
	}
	if ok {
		lastTick := eorzea.FromTimestamp(last)
		if lastTick.Before(now) {
			now = lastTick.AddCycles(1)
		} else {
			skipFirst = true
		}
	}

	l.logger.Info("starting eureka loop", zap.Stringer("cycle", now), zap.Bool("resume", ok))
	for {
		if err := l.tick(ctx, now, catchUp, skipFirst); err != nil {
			return err
		}
		skipFirst = false
		now = now.AddCycles(1)
	}
}

func (l *Loop) tick(ctx context.Context, now, catchUp eorzea.Instant, skip bool) error {
	future := now.AddCycles(1)
	report, err := l.reporter.Build(now)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	upcoming := report.Upcoming()
	remind := future.After(catchUp) && len(upcoming) > 0
	start := future.ToReal()

	if skip {
		l.logger.Info("skipping cycle already processed", zap.Stringer("cycle", now))
	} else {
		l.publish(ctx, report)
		if remind {
			l.alert(ctx, upcoming, notify.Lead(start, l.clock.Now()))
		}
		l.logger.Info("completed tick", zap.Stringer("cycle", now), zap.Time("real", now.ToReal()))
	}

	if remind {
		for _, r := range reminders {
			at := start.Add(-r.before)
			if !at.After(l.clock.Now()) {
				continue
			}
			l.logger.Debug("sleeping to reminder", zap.Time("at", at), zap.String("lead", r.lead))
			if err := l.clock.SleepUntil(ctx, at); err != nil {
				return err
			}
			l.alert(ctx, upcoming, r.lead)
		}
	}

	l.logger.Debug("sleeping to next weather", zap.Time("at", start))
	if err := l.clock.SleepUntil(ctx, start); err != nil {
		return err
	}

	if remind {
		l.alert(ctx, upcoming, notify.LeadNow)
	}
	return nil
}

// publish posts the cycle summary, rewrites older posts into their
// historical form and records the tick
func (l *Loop) publish(ctx context.Context, report *status.Report) {
	tick := report.At.Timestamp()

	if l.poster != nil {
		id, err := l.poster.Post(ctx, SummaryMessage(report, l.roleID))
		if err != nil {
			l.logger.Error("failed to post summary", zap.Error(err))
		}

		l.editPending(ctx)

		if id != "" {
			post := &db.Post{Loop: db.LoopEureka, MessageID: id, Tick: tick, PostedAt: l.clock.Now()}
			if err := l.store.SavePost(ctx, post); err != nil {
				l.logger.Error("failed to save post", zap.Error(err))
			}
		}
	}

	if err := l.store.SaveTick(ctx, db.LoopEureka, tick); err != nil {
		l.logger.Error("failed to save tick", zap.Error(err))
	}
	if _, err := l.store.Cleanup(ctx, PostRetention); err != nil {
		l.logger.Warn("cleanup failed", zap.Error(err))
	}
}

func (l *Loop) editPending(ctx context.Context) {
	pending, err := l.store.PendingPosts(ctx, db.LoopEureka)
	if err != nil {
		l.logger.Error("failed to load pending posts", zap.Error(err))
		return
	}

	for _, p := range pending {
		report, err := l.reporter.Build(eorzea.FromTimestamp(p.Tick))
		if err != nil {
			l.logger.Error("failed to build historical report", zap.Error(err))
			continue
		}
		// A post that cannot be edited (e.g. deleted) is not retried
		if err := l.poster.Edit(ctx, p.MessageID, HistoryMessage(report)); err != nil {
			l.logger.Warn("failed to edit post", zap.String("message_id", p.MessageID), zap.Error(err))
		}
		if err := l.store.MarkPostEdited(ctx, p.ID, l.clock.Now()); err != nil {
			l.logger.Error("failed to mark post edited", zap.Error(err))
		}
	}
}

func (l *Loop) alert(ctx context.Context, upcoming []status.Occurrence, lead string) {
	for _, c := range upcoming {
		alert := notify.Alert{Summary: c.Condition.Name, Body: lead, At: c.Next.ToReal()}
		if err := l.notifier.Notify(ctx, alert); err != nil {
			l.logger.Warn("failed to send alert", zap.String("condition", c.Condition.Key), zap.Error(err))
		}
	}
}
