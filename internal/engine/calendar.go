package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/noorweb/noorweb/internal/config"
)

// CalendarGenerator renders a month of prayer times as an iCalendar feed.
type CalendarGenerator struct {
	Clock   Clock        // Interface for time mocking.
	Fetcher MonthFetcher // Interface for network abstraction.
	Zones   *ZoneClock

	// FormatSummary allows the UI to inject localized event titles.
	FormatSummary func(prayer EventName, city string) string
}

// Build fetches the month and encodes one event per prayer per day.
// reminderMinutes <= 0 disables alarms. It returns the ICS data and the
// number of events generated.
func (g *CalendarGenerator) Build(ctx context.Context, loc Location, year int, month time.Month, reminderMinutes int) ([]byte, int, error) {
	if g.Fetcher == nil {
		return nil, 0, errors.New(config.ErrFetcherMissing)
	}
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCity, loc.Name,
	)

	days, err := g.Fetcher.FetchMonth(ctx, loc, year, month)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(g.now().UTC())

	zones := g.Zones
	if zones == nil {
		zones = NewZoneClock(g.Clock)
	}
	tz := zones.Location(loc.Timezone)

	for _, day := range days {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		for _, prayer := range Prayers {
			at, ok := day.At(prayer, tz)
			if !ok {
				continue
			}
			event := g.createEvent(loc, prayer, at, reminderMinutes)
			event.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, event.Component)
		}
	}

	if len(cal.Children) == 0 {
		var buf bytes.Buffer
		buf.WriteString(config.StubVCalendar)
		return buf.Bytes(), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	log.Info(config.MsgGenSuccess,
		config.LogKeyDays, len(days),
		config.LogKeyEvents, len(cal.Children),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), len(cal.Children), nil
}

func (g *CalendarGenerator) now() time.Time {
	if g.Clock == nil {
		return time.Now()
	}
	return g.Clock.Now()
}

// createEvent builds a single prayer event. The UID is derived from the city,
// the prayer and its date so that refetches produce stable identifiers.
func (g *CalendarGenerator) createEvent(loc Location, prayer EventName, at time.Time, reminderMinutes int) *ical.Event {
	input := fmt.Sprintf(config.FormatHashInput, loc.Name, at.Format(config.DateFormatDay), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, prayer, config.ICalDomain))

	summary := fmt.Sprintf(config.FallbackSummary, prayer, loc.Name)
	if g.FormatSummary != nil {
		summary = g.FormatSummary(prayer, loc.Name)
	}
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropLocation, loc.Name)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDateTime(at.UTC())
	event.Props.Set(dtStart)

	dtEnd := ical.NewProp(config.PropDTEnd)
	dtEnd.SetDateTime(at.Add(config.PrayerEventLength).UTC())
	event.Props.Set(dtEnd)

	if reminderMinutes > 0 {
		addAlarm(event, config.ISONegativePrefix+strconv.Itoa(reminderMinutes)+config.ISOMinute, summary)
	}
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
