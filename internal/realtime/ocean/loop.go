// Package ocean runs the 2-hour voyage loop and alerts ahead of notable routes.
package ocean

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/thebluefish/eureka-notify/internal/db"
	"github.com/thebluefish/eureka-notify/internal/notify"
	"github.com/thebluefish/eureka-notify/internal/ocean"
	"github.com/thebluefish/eureka-notify/internal/realtime"
)

const (
	// ReminderLead is how long before departure the second alert goes out
	ReminderLead = 15 * time.Minute
	// BoardingWindow is how long after departure the boarding call stays open
	BoardingWindow = 15 * time.Minute
	// lastCall leaves two minutes of the boarding window
	lastCall = BoardingWindow - 2*time.Minute
)

// Options configures a Loop. Every field is optional.
type Options struct {
	Notifier notify.Notifier
	// Tiers selects the routes worth an alert; empty means DefaultNotifyTiers
	Tiers []ocean.Tier
	Store db.Store
	Clock realtime.Clock
	Logger *zap.Logger
}

// Loop is the ocean fishing notification loop
type Loop struct {
	notifier notify.Notifier
	tiers    []ocean.Tier
	store    db.Store
	clock    realtime.Clock
	logger   *zap.Logger
}

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
	if len(opts.Tiers) == 0 {
		opts.Tiers = ocean.DefaultNotifyTiers
	}
	return &Loop{
		notifier: opts.Notifier,
		tiers:    opts.Tiers,
		store:    opts.Store,
		clock:    opts.Clock,
		logger:   opts.Logger.With(zap.String("loop", db.LoopOcean)),
	}
}

// Run alerts for each notable departure until ctx is cancelled. Started
// inside a notable route's boarding window, it sends the last call first.
// The saved tick is the latest departure whose first alert went out, so a
// restart does not repeat it.
func (l *Loop) Run(ctx context.Context) error {
	start := l.clock.Now()
	now := ocean.Departure(start)

	var announced int64
	if l.store != nil {
		last, ok, err := l.store.LastTick(ctx, db.LoopOcean)
		if err != nil {
			return fmt.Errorf("failed to load last tick: %w", err)
		}
		if ok {
			announced = last
		}
	}

	l.logger.Info("starting ocean loop",
		zap.Time("departure", now),
		zap.Stringer("route", ocean.RouteAt(now)),
		zap.String("tiers", tierList(l.tiers)))

	if route := ocean.RouteAt(now); l.notable(route) {
		if closing := now.Add(lastCall); closing.After(start) {
			if err := l.clock.SleepUntil(ctx, closing); err != nil {
				return err
			}
			l.alert(ctx, route, now, notify.LeadLastCall)
		}
	}

	for {
		future := now.Add(ocean.VoyageInterval)
		route := ocean.RouteAt(future)
		notable := l.notable(route)

		switch {
		case !notable:
			l.logger.Debug("skipping route", zap.Time("departure", future), zap.Stringer("route", route))
		case future.Unix() <= announced:
			l.logger.Debug("departure already announced", zap.Time("departure", future), zap.Stringer("route", route))
		default:
			l.alert(ctx, route, future, notify.Lead(future, l.clock.Now()))
		}
		if future.Unix() > announced {
			announced = future.Unix()
			l.saveTick(ctx, announced)
		}

		if notable {
			if at := future.Add(-ReminderLead); at.After(l.clock.Now()) {
				if err := l.clock.SleepUntil(ctx, at); err != nil {
					return err
				}
				l.alert(ctx, route, future, notify.LeadFifteenMinutes)
			}
		}

		if err := l.clock.SleepUntil(ctx, future); err != nil {
			return err
		}

		if notable {
			l.alert(ctx, route, future, notify.LeadNow)
			if err := l.clock.SleepUntil(ctx, future.Add(lastCall)); err != nil {
				return err
			}
			l.alert(ctx, route, future, notify.LeadLastCall)
		}
		now = future
	}
}

func (l *Loop) saveTick(ctx context.Context, tick int64) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveTick(ctx, db.LoopOcean, tick); err != nil {
		l.logger.Error("failed to save tick", zap.Error(err))
	}
}

func tierList(tiers []ocean.Tier) string {
	names := make([]string, len(tiers))
	for i, t := range tiers {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}

func (l *Loop) notable(r ocean.Route) bool {
	return r.InAny(l.tiers...)
}

func (l *Loop) alert(ctx context.Context, route ocean.Route, departure time.Time, lead string) {
	alert := notify.Alert{Summary: route.Name(), Body: lead, At: departure}
	if err := l.notifier.Notify(ctx, alert); err != nil {
		l.logger.Warn("failed to send alert", zap.Stringer("route", route), zap.Error(err))
	}
}
