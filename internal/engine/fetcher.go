package engine

import (
	"context"
	"time"
)

// TimingsFetcher retrieves the schedule of one location for one day.
// This interface allows for mocking in tests and decoupling from the network layer.
type TimingsFetcher interface {
	FetchDay(ctx context.Context, loc Location, date time.Time) (*DailySchedule, error)
}

// MonthFetcher retrieves every daily schedule of a Gregorian month.
type MonthFetcher interface {
	FetchMonth(ctx context.Context, loc Location, year int, month time.Month) ([]*DailySchedule, error)
}
