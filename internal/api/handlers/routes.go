package handlers

import (
	"bytes"
	"net/http"
	"routenu-service/internal/api/dto"
	"routenu-service/internal/export"
	"routenu-service/internal/ports"
	"routenu-service/internal/services"

	"go.uber.org/zap"
)

// RouteHandler exposes stored routes and their schedules.
type RouteHandler struct {
	Routes    ports.RouteRepository
	Scheduler *services.RouteScheduler
	Logger    *zap.Logger
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ownerID, err := parseUUID("owner_id", r.URL.Query().Get("owner_id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	routes, err := h.Routes.ListRoutes(r.Context(), ownerID)
	if err != nil {
		h.Logger.Error("list routes failed", zap.String("owner_id", ownerID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteSummaryResponse, 0, len(routes))}
	for _, rt := range routes {
		res.Routes = append(res.Routes, dto.RouteSummaryResponse{
			RouteID:      rt.RouteID,
			Name:         rt.Name,
			StopCount:    len(rt.Stops),
			DriverName:   rt.DriverName,
			VehicleLabel: rt.VehicleLabel,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	routeID, err := parseUUID("route id", r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	route, err := h.Routes.GetRoute(r.Context(), routeID)
	if services.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "route not found")
		return
	}
	if err != nil {
		h.Logger.Error("get route failed", zap.String("route_id", routeID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(route))
}

// Schedule returns arrival and departure times for every stop of a route.
func (h *RouteHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	routeID, serviceTime, ok := h.scheduleParams(w, r)
	if !ok {
		return
	}

	_, schedule, err := h.Scheduler.ScheduleRoute(r.Context(), routeID, serviceTime)
	if !h.handleScheduleErr(w, r, routeID, err) {
		return
	}

	writeJSON(w, r, http.StatusOK, toScheduleResponse(schedule))
}

// Sheet streams the route sheet as CSV.
func (h *RouteHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	routeID, serviceTime, ok := h.scheduleParams(w, r)
	if !ok {
		return
	}

	route, schedule, err := h.Scheduler.ScheduleRoute(r.Context(), routeID, serviceTime)
	if !h.handleScheduleErr(w, r, routeID, err) {
		return
	}

	// Render fully before writing headers so a failure can still become a 500.
	var buf bytes.Buffer
	if err := export.WriteRouteSheetCSV(&buf, route, schedule); err != nil {
		h.Logger.Error("render route sheet failed", zap.String("route_id", routeID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="route-`+routeID+`.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Warn("write route sheet failed", zap.String("route_id", routeID), zap.Error(err))
	}
}

func (h *RouteHandler) scheduleParams(w http.ResponseWriter, r *http.Request) (string, *int, bool) {
	routeID, err := parseUUID("route id", r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return "", nil, false
	}

	serviceTime, err := parseServiceTime(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return "", nil, false
	}

	return routeID, serviceTime, true
}

func (h *RouteHandler) handleScheduleErr(w http.ResponseWriter, r *http.Request, routeID string, err error) bool {
	if err == nil {
		return true
	}
	if services.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "route not found")
		return false
	}

	h.Logger.Error("schedule route failed", zap.String("route_id", routeID), zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "internal server error")
	return false
}
