package lumin

import (
	"context"
	"encoding/json"

	"cdr.dev/slog/v3"
	"golang.org/x/xerrors"
)

// EventType names an outbound analytics event. Custom events carry arbitrary
// caller-chosen names.
type EventType string

const (
	EventFirstOpen         EventType = "FIRST_OPEN"
	EventSessionStart      EventType = "SESSION_START"
	EventSessionEnd        EventType = "SESSION_END"
	EventDailyActiveUser   EventType = "DAILY_ACTIVE_USER"
	EventWeeklyActiveUser  EventType = "WEEKLY_ACTIVE_USER"
	EventMonthlyActiveUser EventType = "MONTHLY_ACTIVE_USER"
	EventYearlyActiveUser  EventType = "YEARLY_ACTIVE_USER"
)

// event is the wire shape POSTed to <collectionURL>/api/events/create.
type event struct {
	Type        string         `json:"type"`
	Data        map[string]any `json:"data"`
	Environment string         `json:"environment"`
	AppToken    string         `json:"appToken"`
}

// track composes the outbound record and hands it to the transport. The
// injected $info key overwrites a caller-supplied field of the same name.
// Send failures are logged and returned; callers that fire-and-forget simply
// drop the error.
func (t *Tracker) track(ctx context.Context, typ EventType, data map[string]any) error {
	merged := make(map[string]any, len(data)+1)
	for k, v := range data {
		merged[k] = v
	}
	merged["$info"] = collectEventInfo()

	body, err := json.Marshal(event{
		Type:        string(typ),
		Data:        merged,
		Environment: t.environment,
		AppToken:    t.token.AppSecret,
	})
	if err != nil {
		return xerrors.Errorf("marshal %s event: %w", typ, err)
	}

	res, err := t.transport.Send(ctx, t.eventsURL, body)
	if err != nil {
		t.log.Error(ctx, "send event", slog.F("type", typ), slog.Error(err))
		return xerrors.Errorf("send %s event: %w", typ, err)
	}
	if t.logResponses {
		t.log.Debug(ctx, "collection response", slog.F("type", typ), slog.F("body", string(res)))
	}
	return nil
}

// RecordCustomEvent emits a caller-defined event. The $custom flag is forced
// on so the collection service can tell SDK events and app events apart.
func (t *Tracker) RecordCustomEvent(ctx context.Context, name string, data map[string]any) error {
	merged := make(map[string]any, len(data)+1)
	for k, v := range data {
		merged[k] = v
	}
	merged["$custom"] = true
	return t.track(ctx, EventType(name), merged)
}
