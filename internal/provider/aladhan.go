package provider

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
)

// Aladhan fetches prayer timings, Hijri dates and the Qibla bearing.
// It implements engine.TimingsFetcher and engine.MonthFetcher.
type Aladhan struct {
	Client *Client
	Policy engine.CalculationPolicy
}

// NewAladhan returns a client for the public aladhan API.
func NewAladhan(policy engine.CalculationPolicy) *Aladhan {
	return &Aladhan{Client: NewClient(config.ProviderAladhan, config.AladhanBaseURL), Policy: policy}
}

type aladhanHijri struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Month struct {
		Number int    `json:"number"`
		En     string `json:"en"`
		Ar     string `json:"ar"`
	} `json:"month"`
	Year    string `json:"year"`
	Weekday struct {
		En string `json:"en"`
		Ar string `json:"ar"`
	} `json:"weekday"`
}

type aladhanDate struct {
	Readable  string `json:"readable"`
	Gregorian struct {
		Date string `json:"date" validate:"required"`
	} `json:"gregorian"`
	Hijri aladhanHijri `json:"hijri"`
}

type aladhanDay struct {
	Timings map[string]string `json:"timings" validate:"required"`
	Date    aladhanDate       `json:"date"`
	Meta    struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Timezone  string  `json:"timezone"`
		Method    struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"method"`
	} `json:"meta"`
}

type timingsResponse struct {
	Code int        `json:"code" validate:"eq=200"`
	Data aladhanDay `json:"data"`
}

type calendarResponse struct {
	Code int          `json:"code" validate:"eq=200"`
	Data []aladhanDay `json:"data" validate:"dive"`
}

type hijriCalendarResponse struct {
	Code int           `json:"code" validate:"eq=200"`
	Data []aladhanDate `json:"data" validate:"dive"`
}

type qiblaResponse struct {
	Code int `json:"code" validate:"eq=200"`
	Data struct {
		Direction float64 `json:"direction" validate:"gte=0,lte=360"`
	} `json:"data"`
}

// FetchDay returns the schedule of loc for the calendar day of date.
func (a *Aladhan) FetchDay(ctx context.Context, loc engine.Location, date time.Time) (*engine.DailySchedule, error) {
	var resp timingsResponse
	path := fmt.Sprintf(config.RouteTimingsByCity, date.Format(config.AladhanDateLayout))
	if err := a.Client.GetJSON(ctx, "timings", path, a.query(loc), &resp); err != nil {
		return nil, err
	}
	return resp.Data.schedule(loc)
}

// FetchMonth returns every daily schedule of the given month.
func (a *Aladhan) FetchMonth(ctx context.Context, loc engine.Location, year int, month time.Month) ([]*engine.DailySchedule, error) {
	var resp calendarResponse
	path := fmt.Sprintf(config.RouteCalendarByCity, year, int(month))
	if err := a.Client.GetJSON(ctx, "calendar", path, a.query(loc), &resp); err != nil {
		return nil, err
	}

	out := make([]*engine.DailySchedule, 0, len(resp.Data))
	for _, day := range resp.Data {
		s, err := day.schedule(loc)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// HijriCalendar converts a Gregorian month to Hijri dates, shifted by
// adjustment days.
func (a *Aladhan) HijriCalendar(ctx context.Context, year int, month time.Month, adjustment int) ([]engine.DatePair, error) {
	var resp hijriCalendarResponse
	path := fmt.Sprintf(config.RouteHijriCalendar, int(month), year)
	q := url.Values{config.ParamAdjustment: {strconv.Itoa(adjustment)}}
	if err := a.Client.GetJSON(ctx, "hijri", path, q, &resp); err != nil {
		return nil, err
	}

	out := make([]engine.DatePair, 0, len(resp.Data))
	for _, d := range resp.Data {
		pair, err := d.pair()
		if err != nil {
			return nil, err
		}
		out = append(out, pair)
	}
	return out, nil
}

// Qibla returns the bearing, in degrees from true north, towards the Kaaba.
func (a *Aladhan) Qibla(ctx context.Context, lat, lon float64) (float64, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) ||
		lat < config.MinLatitude || lat > config.MaxLatitude || lon < config.MinLongitude || lon > config.MaxLongitude {
		return 0, fmt.Errorf("%w: %g,%g", ErrBadCoordinates, lat, lon)
	}
	var resp qiblaResponse
	path := fmt.Sprintf(config.RouteQiblaDirection,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))
	if err := a.Client.GetJSON(ctx, "qibla", path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Data.Direction, nil
}

func (a *Aladhan) query(loc engine.Location) url.Values {
	country := loc.Country
	if country == "" {
		country = loc.CountryCode
	}
	return url.Values{
		config.ParamCity:       {loc.Name},
		config.ParamCountry:    {country},
		config.ParamMethod:     {strconv.Itoa(a.Policy.MethodFor(loc))},
		config.ParamAdjustment: {strconv.Itoa(a.Policy.AdjustmentFor(loc.CountryCode))},
	}
}

// schedule keeps only the events a DailySchedule carries; the API also
// returns Sunset, Firstthird and Lastthird.
func (d aladhanDay) schedule(loc engine.Location) (*engine.DailySchedule, error) {
	pair, err := d.Date.pair()
	if err != nil {
		return nil, err
	}
	if loc.Timezone == "" {
		loc.Timezone = d.Meta.Timezone
	}
	if loc.Latitude == 0 && loc.Longitude == 0 {
		loc.Latitude, loc.Longitude = d.Meta.Latitude, d.Meta.Longitude
	}

	timings := make(map[engine.EventName]string, len(engine.ScheduleEvents))
	for _, name := range engine.ScheduleEvents {
		if raw, ok := d.Timings[string(name)]; ok {
			timings[name] = raw
		}
	}
	s, err := engine.NewDailySchedule(loc, pair, timings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return s, nil
}

func (d aladhanDate) pair() (engine.DatePair, error) {
	greg, err := time.Parse(config.AladhanDateLayout, d.Gregorian.Date)
	if err != nil {
		return engine.DatePair{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	// Hijri fields are informational; a missing rendering leaves zeros.
	day, _ := strconv.Atoi(d.Hijri.Day)
	year, _ := strconv.Atoi(d.Hijri.Year)
	return engine.DatePair{
		Gregorian: greg,
		Hijri: engine.HijriDate{
			Day:     day,
			Month:   d.Hijri.Month.Number,
			MonthEn: d.Hijri.Month.En,
			MonthAr: d.Hijri.Month.Ar,
			Year:    year,
			Weekday: d.Hijri.Weekday.En,
		},
	}, nil
}
