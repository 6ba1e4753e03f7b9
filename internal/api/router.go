package api

import (
	"net/http"
	"routenu-service/internal/api/handlers"
	"routenu-service/internal/ports"
	"routenu-service/internal/services"

	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(routes ports.RouteRepository, prefs ports.PreferenceStore, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	scheduler := services.NewRouteScheduler(routes, prefs, logger)
	routeHandler := &handlers.RouteHandler{
		Routes:    routes,
		Scheduler: scheduler,
		Logger:    logger,
	}
	scheduleHandler := &handlers.ScheduleHandler{
		Scheduler: scheduler,
		Logger:    logger,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes", routeHandler.List)
	mux.HandleFunc("/routes/{id}", routeHandler.Get)
	mux.HandleFunc("/routes/{id}/schedule", routeHandler.Schedule)
	mux.HandleFunc("/routes/{id}/sheet.csv", routeHandler.Sheet)
	mux.HandleFunc("/schedules", scheduleHandler.Compute)
	mux.HandleFunc("/schedules/batch", scheduleHandler.Batch)

	// Request ids must be on the context before the access log reads them.
	return requestIDMiddleware(loggingMiddleware(logger, mux))
}
