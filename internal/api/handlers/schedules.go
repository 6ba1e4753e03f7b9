package handlers

import (
	"fmt"
	"net/http"
	"routenu-service/internal/api/dto"
	"routenu-service/internal/services"

	"go.uber.org/zap"
)

// Limits on inline and batch requests.
const (
	maxInlineStops = 500
	maxBatchRoutes = 50
)

// ScheduleHandler computes schedules from request bodies.
type ScheduleHandler struct {
	Scheduler *services.RouteScheduler
	Logger    *zap.Logger
}

// Compute builds a schedule from an inline route description without
// touching the route store.
func (h *ScheduleHandler) Compute(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ScheduleRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	in, err := timingInputFromRequest(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	schedule := services.BuildSchedule("", in)
	writeJSON(w, r, http.StatusOK, toScheduleResponse(schedule))
}

// Batch schedules several stored routes in one call.
func (h *ScheduleHandler) Batch(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.BatchScheduleRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if len(req.RouteIDs) == 0 || len(req.RouteIDs) > maxBatchRoutes {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("route_ids must contain between 1 and %d ids", maxBatchRoutes))
		return
	}
	if req.ServiceTime != nil {
		if err := checkServiceTime(*req.ServiceTime); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	ids := make([]string, 0, len(req.RouteIDs))
	for _, raw := range req.RouteIDs {
		id, err := parseUUID("route id", raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		ids = append(ids, id)
	}

	schedules, err := h.Scheduler.ScheduleRoutes(r.Context(), ids, req.ServiceTime)
	if services.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("batch schedule failed", zap.Int("routes", len(ids)), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListSchedulesResponse{Schedules: make([]dto.ScheduleResponse, 0, len(schedules))}
	for _, s := range schedules {
		res.Schedules = append(res.Schedules, toScheduleResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Stops are identified either by explicit ids or by a count. Top-level
// leg_durations/total_duration win over the route_data shape.
func timingInputFromRequest(req dto.ScheduleRequest) (services.RouteTimingInput, error) {
	in := services.RouteTimingInput{
		DepartureTime:      req.DepartureTime,
		StopIDs:            req.StopIDs,
		LegDurations:       req.LegDurations,
		TotalDuration:      req.TotalDuration,
		ServiceTimeMinutes: req.ServiceTime,
	}

	if len(in.StopIDs) == 0 && req.StopCount > 0 {
		if req.StopCount > maxInlineStops {
			return in, fmt.Errorf("stop_count must be at most %d", maxInlineStops)
		}
		in.StopIDs = make([]string, req.StopCount)
		for i := range in.StopIDs {
			in.StopIDs[i] = fmt.Sprintf("stop-%d", i+1)
		}
	}
	if req.ServiceTime != nil {
		if err := checkServiceTime(*req.ServiceTime); err != nil {
			return in, err
		}
	}
	if req.StopCount < 0 {
		return in, fmt.Errorf("stop_count must not be negative")
	}
	if len(in.StopIDs) > maxInlineStops {
		return in, fmt.Errorf("at most %d stops are allowed", maxInlineStops)
	}

	if req.RouteData != nil {
		if in.LegDurations == nil && len(req.RouteData.Waypoints) > 0 {
			in.LegDurations = make([]float64, 0, len(req.RouteData.Waypoints))
			for _, wp := range req.RouteData.Waypoints {
				in.LegDurations = append(in.LegDurations, services.LegSeconds(wp.Duration))
			}
		}
		if in.TotalDuration == nil {
			in.TotalDuration = req.RouteData.Duration
		}
	}

	return in, nil
}
