package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/noorweb/noorweb/internal/config"
)

// EventName identifies one entry of a daily schedule.
type EventName string

// Event names as published by the timing provider.
const (
	Fajr     EventName = "Fajr"
	Sunrise  EventName = "Sunrise"
	Dhuhr    EventName = "Dhuhr"
	Asr      EventName = "Asr"
	Maghrib  EventName = "Maghrib"
	Isha     EventName = "Isha"
	Imsak    EventName = "Imsak"
	Midnight EventName = "Midnight"
)

// CanonicalOrder is the scan order used to resolve the next event.
var CanonicalOrder = []EventName{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// ScheduleEvents lists every event a DailySchedule must carry.
var ScheduleEvents = []EventName{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha, Imsak, Midnight}

// Prayers are the canonical events that are actual prayers (Sunrise is not).
var Prayers = []EventName{Fajr, Dhuhr, Asr, Maghrib, Isha}

// Sentinel errors for schedule construction.
var (
	ErrIncompleteSchedule = errors.New(config.ErrIncompleteSchedule)
	ErrUnknownEvent       = errors.New(config.ErrUnknownEvent)
)

// Location is a place whose prayer times can be fetched.
// Identity is the Name.
type Location struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Timezone    string  `json:"timezone"`
	Method      int     `json:"method,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

// HijriDate is the provider's Hijri rendering of a day.
type HijriDate struct {
	Day     int    `json:"day"`
	Month   int    `json:"month"`
	MonthEn string `json:"monthEn"`
	MonthAr string `json:"monthAr"`
	Year    int    `json:"year"`
	Weekday string `json:"weekday,omitempty"`
}

// String renders the Hijri date as DD-MM-YYYY.
func (h HijriDate) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", h.Day, h.Month, h.Year)
}

// DatePair couples a Gregorian day with its Hijri counterpart.
type DatePair struct {
	Gregorian time.Time `json:"gregorian"`
	Hijri     HijriDate `json:"hijri"`
}

// DailySchedule holds one calendar day of event times for one location.
// It is immutable; a refetch replaces it wholesale.
type DailySchedule struct {
	Location Location
	Date     DatePair
	times    map[EventName]TimeOfDay
}

// NewDailySchedule validates timings and builds a schedule. Exactly the
// names in ScheduleEvents must be present.
func NewDailySchedule(loc Location, date DatePair, timings map[EventName]string) (*DailySchedule, error) {
	times := make(map[EventName]TimeOfDay, len(ScheduleEvents))
	for _, name := range ScheduleEvents {
		raw, ok := timings[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteSchedule, name)
		}
		tod, err := ParseTimeOfDay(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		times[name] = tod
	}
	if len(timings) != len(ScheduleEvents) {
		for name := range timings {
			if _, ok := times[name]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
			}
		}
	}
	return &DailySchedule{Location: loc, Date: date, times: times}, nil
}

// Time returns the time of day of an event.
func (s *DailySchedule) Time(name EventName) (TimeOfDay, bool) {
	t, ok := s.times[name]
	return t, ok
}

// Raw returns the HH:MM rendering of an event, or "" when unknown.
func (s *DailySchedule) Raw(name EventName) string {
	t, ok := s.times[name]
	if !ok {
		return ""
	}
	return t.Short()
}

// Timings returns every event as HH:MM strings, suitable for JSON responses.
func (s *DailySchedule) Timings() map[EventName]string {
	out := make(map[EventName]string, len(s.times))
	for name, t := range s.times {
		out[name] = t.Short()
	}
	return out
}

// At returns the absolute instant of an event on the schedule's Gregorian
// day in the given zone.
func (s *DailySchedule) At(name EventName, loc *time.Location) (time.Time, bool) {
	t, ok := s.times[name]
	if !ok {
		return time.Time{}, false
	}
	y, m, d := s.Date.Gregorian.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, loc), true
}
