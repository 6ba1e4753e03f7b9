package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Upper bound accepted for a service_time override, in minutes.
const maxServiceTimeMinutes = 240

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSONBody decodes exactly one JSON object, rejecting unknown fields.
func decodeJSONBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// parseUUID validates an id path or query value.
func parseUUID(name, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s must be a UUID", name)
	}
	return id.String(), nil
}

// parseServiceTime reads the optional service_time query parameter.
func parseServiceTime(r *http.Request) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("service_time"))
	if raw == "" {
		return nil, nil
	}
	return validServiceTime(raw)
}

func validServiceTime(raw string) (*int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, serviceTimeRangeErr()
	}
	if err := checkServiceTime(v); err != nil {
		return nil, err
	}
	return &v, nil
}

func checkServiceTime(v int) error {
	if v < 0 || v > maxServiceTimeMinutes {
		return serviceTimeRangeErr()
	}
	return nil
}

func serviceTimeRangeErr() error {
	return fmt.Errorf("service_time must be an integer between 0 and %d", maxServiceTimeMinutes)
}
