package lumin

import (
	"context"
	"time"

	"cdr.dev/slog/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/uselumin/lumin-go/storage"
)

// Period is one activity cadence.
type Period int

const (
	PeriodDaily Period = iota
	PeriodWeekly
	PeriodMonthly
	PeriodYearly
)

func (p Period) String() string {
	switch p {
	case PeriodDaily:
		return "daily"
	case PeriodWeekly:
		return "weekly"
	case PeriodMonthly:
		return "monthly"
	case PeriodYearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// TrackingIntervals replaces the calendar-boundary window of a cadence with
// a fixed duration. A zero field keeps calendar semantics for that cadence.
type TrackingIntervals struct {
	DailyActiveUser   time.Duration
	WeeklyActiveUser  time.Duration
	MonthlyActiveUser time.Duration
	YearlyActiveUser  time.Duration
}

// cadence binds one period to its event type, marker key, calendar boundary
// and configured override. All four instances share one evaluator.
type cadence struct {
	period   Period
	event    EventType
	key      string
	boundary func(time.Time) time.Time
	interval time.Duration
}

func (t *Tracker) cadences() []cadence {
	return []cadence{
		{PeriodDaily, EventDailyActiveUser, t.keys.lastDAU, StartOfDay, t.intervals.DailyActiveUser},
		{PeriodWeekly, EventWeeklyActiveUser, t.keys.lastWAU, StartOfWeek, t.intervals.WeeklyActiveUser},
		{PeriodMonthly, EventMonthlyActiveUser, t.keys.lastMAU, StartOfMonth, t.intervals.MonthlyActiveUser},
		{PeriodYearly, EventYearlyActiveUser, t.keys.lastYAU, StartOfYear, t.intervals.YearlyActiveUser},
	}
}

// TrackActiveUser runs all four cadence evaluators concurrently and waits
// for them. Each owns a disjoint marker key, so they need no ordering; one
// failing does not stop the others. The first error is returned.
func (t *Tracker) TrackActiveUser(ctx context.Context) error {
	var eg errgroup.Group
	for _, c := range t.cadences() {
		eg.Go(func() error {
			return t.trackCadence(ctx, c)
		})
	}
	return eg.Wait()
}

// trackCadence decides whether the cadence's active-user event is due right
// now and emits it. With an override interval the rule is strictly
// now-last > interval; otherwise the event is due when the marker falls
// before the start of the current period. The marker is advanced only after
// the send succeeds, so a crash in between repeats the event on next launch;
// suppressing such duplicates is the collection side's concern.
func (t *Tracker) trackCadence(ctx context.Context, c cadence) error {
	now := t.clock.Now()
	last, found, err := t.readMarker(ctx, c.key)
	if err != nil {
		return xerrors.Errorf("%s marker: %w", c.period, err)
	}
	if found {
		var due bool
		if c.interval > 0 {
			due = now.Sub(last) > c.interval
		} else {
			due = last.Before(c.boundary(now))
		}
		if !due {
			return nil
		}
	}
	if err := t.track(ctx, c.event, nil); err != nil {
		return err
	}
	if err := t.store.Set(ctx, c.key, now.Format(markerFormat)); err != nil {
		return xerrors.Errorf("persist %s marker: %w", c.period, err)
	}
	return nil
}

// readMarker loads a persisted timestamp. ErrNotFound and values that no
// longer parse both count as "no marker"; any other storage error aborts the
// check for this cycle.
func (t *Tracker) readMarker(ctx context.Context, key string) (time.Time, bool, error) {
	raw, err := t.store.Get(ctx, key)
	if xerrors.Is(err, storage.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	parsed, err := time.Parse(markerFormat, raw)
	if err != nil {
		t.log.Warn(ctx, "discarding unparseable marker", slog.F("key", key), slog.Error(err))
		return time.Time{}, false, nil
	}
	return parsed, true, nil
}
