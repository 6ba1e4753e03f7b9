package domain

// A single stop on a delivery route. Only its identity and position matter
// for timing; the remaining fields are carried for route sheets.
type Stop struct {
	StopID      string
	Position    int
	Name        string
	Address     string
	ContactName string
	Phone       string
	Notes       string
}

// Per-leg travel segment as stored by the routing backend.
// DurationSeconds is the leg that ends at the waypoint with the same index;
// nil when the backend did not report it.
type Waypoint struct {
	DurationSeconds *float64 `json:"duration"`
	DistanceMeters  float64 `json:"distance,omitempty"`
}

// Timing data attached to a route when directions were last fetched.
// Both fields are optional; a nil RouteData means no timing is known.
type RouteData struct {
	DurationSeconds *float64   `json:"duration,omitempty"`
	DistanceMeters  *float64   `json:"distance,omitempty"`
	Waypoints       []Waypoint `json:"waypoints,omitempty"`
}

// Represents a planned delivery run owned by an account.
// DepartureTime is kept as stored; it is resolved when a schedule is built.
type Route struct {
	RouteID            string
	OwnerID            string
	Name               string
	DepartureTime      string
	ServiceTimeMinutes *int
	DriverName         string
	VehicleLabel       string
	Stops              []Stop
	Data               *RouteData
}

// Return the stop identifiers in route order.
func (r *Route) StopIDs() []string {
	ids := make([]string, 0, len(r.Stops))
	for _, s := range r.Stops {
		ids = append(ids, s.StopID)
	}
	return ids
}
