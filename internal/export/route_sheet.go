// Package export renders computed schedules into downloadable route sheets.
package export

import (
	"errors"
	"fmt"
	"io"
	"routenu-service/internal/domain"

	"github.com/gocarina/gocsv"
)

// RouteSheetRow is one line of a route sheet.
type RouteSheetRow struct {
	Sequence  int              `csv:"seq"`
	Stop      string           `csv:"stop"`
	Address   string           `csv:"address"`
	Contact   string           `csv:"contact"`
	Phone     string           `csv:"phone"`
	Arrival   domain.TimeOfDay `csv:"arrival"`
	Departure domain.TimeOfDay `csv:"departure"`
	Notes     string           `csv:"notes"`
}

// RouteSheetRows pairs the route's stops with their computed times by
// position. A stop past the end of the schedule shows unknown times.
func RouteSheetRows(route *domain.Route, schedule domain.Schedule) []*RouteSheetRow {
	rows := make([]*RouteSheetRow, 0, len(route.Stops))
	for i, st := range route.Stops {
		row := &RouteSheetRow{
			Sequence:  i + 1,
			Stop:      st.Name,
			Address:   st.Address,
			Contact:   st.ContactName,
			Phone:     st.Phone,
			Arrival:   domain.UnknownTime,
			Departure: domain.UnknownTime,
			Notes:     st.Notes,
		}
		if i < len(schedule.Stops) {
			row.Arrival = schedule.Stops[i].Arrival
			row.Departure = schedule.Stops[i].Departure
		}
		rows = append(rows, row)
	}

	return rows
}

// WriteRouteSheetCSV writes the route sheet as CSV with a header line.
func WriteRouteSheetCSV(w io.Writer, route *domain.Route, schedule domain.Schedule) error {
	if route == nil {
		return errors.New("write route sheet: route is nil")
	}

	rows := RouteSheetRows(route, schedule)
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write route sheet %s: %w", route.RouteID, err)
	}

	return nil
}
