package engine

// Event is the outcome of NextEvent.
type Event struct {
	Name EventName `json:"name"`
	Time string    `json:"time"`
	At   TimeOfDay `json:"-"`
	// NextDay is set when every event of today has passed and the result
	// refers to the first event of the following day.
	NextDay bool `json:"nextDay"`
}

// NextEvent scans the canonical order and returns the first event strictly
// later than now. An event equal to now has already passed. When nothing
// qualifies the result wraps to Fajr of the following day.
func NextEvent(s *DailySchedule, now TimeOfDay) Event {
	current := now.Seconds()
	for _, name := range CanonicalOrder {
		t, ok := s.Time(name)
		if !ok {
			continue
		}
		if t.Seconds() > current {
			return Event{Name: name, Time: t.Short(), At: t}
		}
	}
	fajr, _ := s.Time(Fajr)
	return Event{Name: Fajr, Time: fajr.Short(), At: fajr, NextDay: true}
}
