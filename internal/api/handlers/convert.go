package handlers

import (
	"routenu-service/internal/api/dto"
	"routenu-service/internal/domain"
)

func toRouteResponse(r *domain.Route) dto.RouteResponse {
	res := dto.RouteResponse{
		RouteID:       r.RouteID,
		OwnerID:       r.OwnerID,
		Name:          r.Name,
		DepartureTime: r.DepartureTime,
		ServiceTime:   r.ServiceTimeMinutes,
		DriverName:    r.DriverName,
		VehicleLabel:  r.VehicleLabel,
		Stops:         make([]dto.StopResponse, 0, len(r.Stops)),
	}
	if r.Data != nil {
		res.DurationSeconds = r.Data.DurationSeconds
	}

	for _, s := range r.Stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			StopID:      s.StopID,
			Position:    s.Position,
			Name:        s.Name,
			Address:     s.Address,
			ContactName: s.ContactName,
			Phone:       s.Phone,
			Notes:       s.Notes,
		})
	}

	return res
}

func secondsOrNil(t domain.TimeOfDay) *int {
	if !t.Known() {
		return nil
	}
	s := t.Seconds()
	return &s
}

func toScheduleResponse(s domain.Schedule) dto.ScheduleResponse {
	res := dto.ScheduleResponse{
		RouteID:        s.RouteID,
		Departure:      s.Departure.String(),
		ServiceTime:    s.ServiceTimeMinutes,
		TimesAvailable: s.TimesAvailable(),
		Stops:          make([]dto.StopScheduleResponse, 0, len(s.Stops)),
	}

	for _, st := range s.Stops {
		res.Stops = append(res.Stops, dto.StopScheduleResponse{
			StopID:           st.StopID,
			Arrival:          st.Arrival.String(),
			Departure:        st.Departure.String(),
			ArrivalSeconds:   secondsOrNil(st.Arrival),
			DepartureSeconds: secondsOrNil(st.Departure),
		})
	}

	return res
}
