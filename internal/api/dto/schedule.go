package dto

// Times are rendered as "HH:MM", or "-" when unknown. The *_seconds fields
// carry seconds since midnight and are omitted for unknown times.
type StopScheduleResponse struct {
	StopID           string `json:"stop_id"`
	Arrival          string `json:"arrival"`
	Departure        string `json:"departure"`
	ArrivalSeconds   *int   `json:"arrival_seconds,omitempty"`
	DepartureSeconds *int   `json:"departure_seconds,omitempty"`
}

type ScheduleResponse struct {
	RouteID        string                 `json:"route_id,omitempty"`
	Departure      string                 `json:"departure"`
	ServiceTime    int                    `json:"service_time"`
	TimesAvailable bool                   `json:"times_available"`
	Stops          []StopScheduleResponse `json:"stops"`
}

type ListSchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}

// Inline route body for ad hoc schedule computation.
type ScheduleRequest struct {
	DepartureTime string     `json:"departure_time"`
	ServiceTime   *int       `json:"service_time"`
	StopIDs       []string   `json:"stop_ids"`
	StopCount     int        `json:"stop_count"`
	LegDurations  []float64  `json:"leg_durations"`
	TotalDuration *float64   `json:"total_duration"`
	RouteData     *RouteData `json:"route_data"`
}

// Same shape the route store keeps under route_data.
type RouteData struct {
	Duration  *float64 `json:"duration"`
	Waypoints []struct {
		Duration *float64 `json:"duration"`
	} `json:"waypoints"`
}

type BatchScheduleRequest struct {
	RouteIDs    []string `json:"route_ids"`
	ServiceTime *int     `json:"service_time"`
}
