package dto

type StopResponse struct {
	StopID      string `json:"stop_id"`
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	ContactName string `json:"contact_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type RouteResponse struct {
	RouteID         string         `json:"route_id"`
	OwnerID         string         `json:"owner_id"`
	Name            string         `json:"name"`
	DepartureTime   string         `json:"departure_time,omitempty"`
	ServiceTime     *int           `json:"service_time,omitempty"`
	DriverName      string         `json:"driver_name,omitempty"`
	VehicleLabel    string         `json:"vehicle_label,omitempty"`
	DurationSeconds *float64       `json:"duration_seconds,omitempty"`
	Stops           []StopResponse `json:"stops"`
}

type RouteSummaryResponse struct {
	RouteID      string `json:"route_id"`
	Name         string `json:"name"`
	StopCount    int    `json:"stop_count"`
	DriverName   string `json:"driver_name,omitempty"`
	VehicleLabel string `json:"vehicle_label,omitempty"`
}

type ListRoutesResponse struct {
	Routes []RouteSummaryResponse `json:"routes"`
}
