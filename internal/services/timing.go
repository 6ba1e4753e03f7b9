package services

import (
	"math"
	"routenu-service/internal/domain"
	"time"
)

// DefaultServiceTimeMinutes is the dwell time used when nobody configured one.
const DefaultServiceTimeMinutes = 5

// MaxServiceTimeMinutes is the longest dwell a stop can have. Larger values
// are ignored like negative ones.
const MaxServiceTimeMinutes = 24 * 60

// Legs longer than this are treated as corrupt data rather than real travel.
const maxLegDuration = 7 * 24 * time.Hour

// RouteTimingInput is the immutable description of a route that the timing
// computation reads. Nil slices and pointers mean "absent".
type RouteTimingInput struct {
	DepartureTime string
	StopIDs       []string

	// LegDurations[i] is the travel time in seconds of the leg ending at stop i.
	LegDurations  []float64
	TotalDuration *float64

	ServiceTimeMinutes        *int
	RouteServiceTimeMinutes   *int
	AccountServiceTimeMinutes *int
}

// ResolveDeparture parses a stored departure time, substituting 08:00 when it
// is missing or malformed.
func ResolveDeparture(s string) domain.TimeOfDay {
	t, err := domain.ParseTimeOfDay(s)
	if err != nil {
		return domain.DefaultDepartureTime
	}
	return t
}

// ResolveServiceTime returns the first set candidate within
// 0..MaxServiceTimeMinutes. Callers pass candidates in precedence order.
func ResolveServiceTime(candidates ...*int) int {
	for _, c := range candidates {
		if c != nil && *c >= 0 && *c <= MaxServiceTimeMinutes {
			return *c
		}
	}
	return DefaultServiceTimeMinutes
}

// LegSeconds maps an optional leg duration onto a LegDurations entry. A nil
// duration becomes NaN so the stop falls back like a missing entry.
func LegSeconds(d *float64) float64 {
	if d == nil {
		return math.NaN()
	}
	return *d
}

// Convert a leg length in seconds. Negative legs collapse to zero so the
// schedule never runs backwards; non-finite or absurd values are unusable.
func legDuration(seconds float64) (time.Duration, bool) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, false
	}
	if seconds < 0 {
		return 0, true
	}
	if seconds > maxLegDuration.Seconds() {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

// ComputeSchedule derives arrival and departure times for every stop.
//
// Each stop's leg comes from LegDurations when an entry exists, otherwise
// from an even share of TotalDuration across stopCount+1 legs. Service time
// is added at every stop and the next leg starts from the departure instant.
// When a leg cannot be determined the stop and every stop after it are
// reported as domain.UnknownTime. The result always has one entry per stop.
func ComputeSchedule(in RouteTimingInput) []domain.StopSchedule {
	n := len(in.StopIDs)
	out := make([]domain.StopSchedule, n)
	for i, id := range in.StopIDs {
		out[i].StopID = id
	}
	if n == 0 {
		return out
	}

	service := time.Duration(ResolveServiceTime(
		in.ServiceTimeMinutes,
		in.RouteServiceTimeMinutes,
		in.AccountServiceTimeMinutes,
	)) * time.Minute

	var share time.Duration
	shareOK := false
	if in.TotalDuration != nil {
		share, shareOK = legDuration(*in.TotalDuration / float64(n+1))
	}

	current := ResolveDeparture(in.DepartureTime)
	for i := range out {
		var leg time.Duration
		ok := false
		if i < len(in.LegDurations) {
			leg, ok = legDuration(in.LegDurations[i])
		}
		if !ok && shareOK {
			leg, ok = share, true
		}
		if !ok {
			current = domain.UnknownTime
		}

		arrival := current.Add(leg)
		departure := arrival.Add(service)
		out[i].Arrival = arrival
		out[i].Departure = departure
		current = departure
	}

	return out
}

// BuildSchedule wraps ComputeSchedule with the resolved departure and
// service time so callers can display what the computation used.
func BuildSchedule(routeID string, in RouteTimingInput) domain.Schedule {
	return domain.Schedule{
		RouteID:   routeID,
		Departure: ResolveDeparture(in.DepartureTime),
		ServiceTimeMinutes: ResolveServiceTime(
			in.ServiceTimeMinutes,
			in.RouteServiceTimeMinutes,
			in.AccountServiceTimeMinutes,
		),
		Stops: ComputeSchedule(in),
	}
}
