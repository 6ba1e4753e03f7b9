// Command routesheet prints the stop schedule for a route stored as JSON,
// without a database.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"routenu-service/internal/domain"
	"routenu-service/internal/export"
	"routenu-service/internal/services"
	"strings"

	"github.com/fatih/color"
)

type stopFile struct {
	StopID      string `json:"stop_id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes"`
}

type routeFile struct {
	RouteID       string            `json:"route_id"`
	Name          string            `json:"name"`
	DepartureTime string            `json:"departure_time"`
	ServiceTime   *int              `json:"service_time"`
	DriverName    string            `json:"driver_name"`
	VehicleLabel  string            `json:"vehicle_label"`
	RouteData     *domain.RouteData `json:"route_data"`
	Stops         []stopFile        `json:"stops"`
}

func (f routeFile) toDomain() *domain.Route {
	r := &domain.Route{
		RouteID:            f.RouteID,
		Name:               f.Name,
		DepartureTime:      f.DepartureTime,
		ServiceTimeMinutes: f.ServiceTime,
		DriverName:         f.DriverName,
		VehicleLabel:       f.VehicleLabel,
		Data:               f.RouteData,
	}
	for i, s := range f.Stops {
		id := s.StopID
		if id == "" {
			id = fmt.Sprintf("stop-%d", i+1)
		}
		name := s.Name
		if strings.TrimSpace(name) == "" {
			name = s.Address
		}
		r.Stops = append(r.Stops, domain.Stop{
			StopID:      id,
			Position:    i,
			Name:        name,
			Address:     s.Address,
			ContactName: s.ContactName,
			Phone:       s.Phone,
			Notes:       s.Notes,
		})
	}
	return r
}

func main() {
	path := flag.String("file", "", "route JSON file (reads stdin when empty)")
	serviceTime := flag.Int("service-time", -1, "service time per stop in minutes (overrides the route)")
	asCSV := flag.Bool("csv", false, "write the route sheet as CSV")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	route, err := readRoute(*path)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "routesheet: %v\n", err)
		os.Exit(1)
	}

	explicit, err := serviceTimeFlag(*serviceTime)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "routesheet: %v\n", err)
		os.Exit(2)
	}
	schedule := services.BuildSchedule(route.RouteID, services.TimingInputFromRoute(route, explicit, nil))

	if *asCSV {
		if err := export.WriteRouteSheetCSV(os.Stdout, route, schedule); err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "routesheet: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printSchedule(os.Stdout, route, schedule)
}

// A negative flag value means "not set".
func serviceTimeFlag(v int) (*int, error) {
	if v < 0 {
		return nil, nil
	}
	if v > services.MaxServiceTimeMinutes {
		return nil, fmt.Errorf("-service-time must be at most %d minutes", services.MaxServiceTimeMinutes)
	}
	return &v, nil
}

func readRoute(path string) (*domain.Route, error) {
	var in io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", path, err)
		}
		defer f.Close()
		in = f
	}

	var rf routeFile
	if err := json.NewDecoder(in).Decode(&rf); err != nil {
		return nil, fmt.Errorf("decode route: %w", err)
	}
	return rf.toDomain(), nil
}

func printSchedule(w io.Writer, route *domain.Route, schedule domain.Schedule) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	timeColor := color.New(color.FgGreen)
	unknown := color.New(color.FgYellow)

	title := route.Name
	if title == "" {
		title = "Route"
	}
	bold.Fprintln(w, title)

	meta := []string{fmt.Sprintf("departs %s", schedule.Departure), fmt.Sprintf("service %d min", schedule.ServiceTimeMinutes)}
	if route.DriverName != "" {
		meta = append(meta, "driver "+route.DriverName)
	}
	if route.VehicleLabel != "" {
		meta = append(meta, "vehicle "+route.VehicleLabel)
	}
	dim.Fprintln(w, strings.Join(meta, " · "))
	fmt.Fprintln(w)

	bold.Fprintf(w, "%-4s %-8s %-8s %s\n", "#", "arrive", "depart", "stop")
	rows := export.RouteSheetRows(route, schedule)
	for _, row := range rows {
		c := timeColor
		if !row.Arrival.Known() {
			c = unknown
		}
		fmt.Fprintf(w, "%-4d ", row.Sequence)
		c.Fprintf(w, "%-8s %-8s", row.Arrival, row.Departure)
		fmt.Fprintf(w, " %s", row.Stop)
		if row.Address != "" && row.Address != row.Stop {
			dim.Fprintf(w, "  %s", row.Address)
		}
		fmt.Fprintln(w)
	}

	if !schedule.TimesAvailable() {
		fmt.Fprintln(w)
		unknown.Fprintln(w, "times unavailable: route has no duration data")
	}
}
