package engine

import (
	"fmt"
	"time"

	"github.com/noorweb/noorweb/internal/config"
)

// Countdown is the remaining time to a target event. It is derived on every
// tick and never persisted.
type Countdown struct {
	Target    EventName     `json:"target"`
	Remaining time.Duration `json:"-"`
}

// Hours, Minutes and Seconds decompose the remaining duration.
func (c Countdown) Hours() int   { return int(c.Remaining / time.Hour) }
func (c Countdown) Minutes() int { return int(c.Remaining%time.Hour) / int(time.Minute) }
func (c Countdown) Seconds() int { return int(c.Remaining%time.Minute) / int(time.Second) }

// String renders the remaining duration as zero-padded HH:MM:SS.
func (c Countdown) String() string {
	return fmt.Sprintf(config.CountdownFormat, c.Hours(), c.Minutes(), c.Seconds())
}

// Remaining returns the time left until target, rolling the target over to
// the next day when it is not strictly ahead of now.
func Remaining(target, now TimeOfDay) time.Duration {
	diff := target.Seconds() - now.Seconds()
	if diff <= 0 {
		diff += config.SecondsPerDay
	}
	return time.Duration(diff) * time.Second
}

// CountdownTo builds the countdown for a named target.
func CountdownTo(name EventName, target, now TimeOfDay) Countdown {
	return Countdown{Target: name, Remaining: Remaining(target, now)}
}

// RamadanState is the Sehri/Iftar view of a day.
type RamadanState struct {
	Target        EventName `json:"target"`
	TargetTime    string    `json:"targetTime"`
	Countdown     Countdown `json:"-"`
	Remaining     string    `json:"remaining"`
	NextDay       bool      `json:"nextDay"`
	SehriTime     string    `json:"sehriTime"`
	IftarTime     string    `json:"iftarTime"`
	SehriImminent bool      `json:"sehriImminent"`
	IftarImminent bool      `json:"iftarImminent"`
}

// RamadanPolicy selects between the Imsak and Maghrib boundaries.
type RamadanPolicy struct {
	// Window is how close a boundary must be to be flagged imminent.
	Window time.Duration
}

// DefaultRamadanPolicy uses the built-in proximity window.
func DefaultRamadanPolicy() RamadanPolicy {
	return RamadanPolicy{Window: config.DefaultDuaWindow}
}

// Resolve picks the active target: Imsak before Imsak, Maghrib before
// Maghrib, otherwise Imsak of the following day.
func (p RamadanPolicy) Resolve(imsak, maghrib, now TimeOfDay) RamadanState {
	current := now.Seconds()
	state := RamadanState{SehriTime: imsak.Short(), IftarTime: maghrib.Short()}

	switch {
	case current < imsak.Seconds():
		state.Target, state.TargetTime = Imsak, imsak.Short()
		state.Countdown = CountdownTo(Imsak, imsak, now)
	case current < maghrib.Seconds():
		state.Target, state.TargetTime = Maghrib, maghrib.Short()
		state.Countdown = CountdownTo(Maghrib, maghrib, now)
	default:
		state.Target, state.TargetTime, state.NextDay = Imsak, imsak.Short(), true
		state.Countdown = CountdownTo(Imsak, imsak, now)
	}
	state.Remaining = state.Countdown.String()

	state.SehriImminent = p.imminent(imsak, now)
	state.IftarImminent = p.imminent(maghrib, now)
	return state
}

// ResolveSchedule applies Resolve to a fetched schedule.
func (p RamadanPolicy) ResolveSchedule(s *DailySchedule, now TimeOfDay) RamadanState {
	imsak, _ := s.Time(Imsak)
	maghrib, _ := s.Time(Maghrib)
	return p.Resolve(imsak, maghrib, now)
}

// imminent reports whether now is at or before boundary and within the window.
func (p RamadanPolicy) imminent(boundary, now TimeOfDay) bool {
	diff := boundary.Seconds() - now.Seconds()
	return diff >= 0 && time.Duration(diff)*time.Second <= p.Window
}
