package domain

// Computed arrival and departure for one stop.
type StopSchedule struct {
	StopID    string
	Arrival   TimeOfDay
	Departure TimeOfDay
}

// Schedule is the timing view of a route, one entry per stop in route order.
type Schedule struct {
	RouteID            string
	Departure          TimeOfDay
	ServiceTimeMinutes int
	Stops              []StopSchedule
}

// TimesAvailable reports whether at least one stop has a computed time.
// An empty route counts as available since there is nothing to show.
func (s *Schedule) TimesAvailable() bool {
	if len(s.Stops) == 0 {
		return true
	}
	for _, st := range s.Stops {
		if st.Arrival.Known() {
			return true
		}
	}
	return false
}
