package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"routenu-service/internal/adapters/repositories"
	"routenu-service/internal/api/dto"
	"routenu-service/internal/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	_ "modernc.org/sqlite"
)

const (
	ownerID     = "7b0c1a58-3f7e-4c55-9c1e-0d7f0f1e2a11"
	timedRoute  = "0f8fad5b-d9cb-469f-a165-70867728950e"
	bareRoute   = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	absentRoute = "16fd2706-8baf-433b-82eb-8c7fada847da"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return newRouterFor(t, newSeededDB(t))
}

func newRouterFor(t *testing.T, db *sql.DB) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	repo := repositories.NewSqliteRouteRepository(db, logger)
	return NewRouter(repo, repo, logger)
}

func newSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, repositories.InitSchema(ctx, db, repositories.Sqlite))

	total := 3600.0
	seed := &repositories.Seed{
		Routes: []repositories.RouteSeed{
			{
				RouteID:       timedRoute,
				OwnerID:       ownerID,
				Name:          "Timed",
				DepartureTime: "08:00",
				RouteData:     &domain.RouteData{DurationSeconds: &total},
				Stops: []repositories.StopSeed{
					{StopID: "a", Name: "A", Address: "1 A St"},
					{StopID: "b", Name: "B", Address: "2 B St"},
					{StopID: "c", Name: "C", Address: "3 C St"},
				},
			},
			{
				RouteID: bareRoute,
				OwnerID: ownerID,
				Name:    "Bare",
				Stops:   []repositories.StopSeed{{StopID: "x", Address: "9 X St"}},
			},
		},
	}
	require.NoError(t, repositories.ApplySeed(ctx, db, repositories.Sqlite, seed))
	return db
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "trace-123", rec.Header().Get("X-Request-ID"))
}

func TestListRoutes(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/routes?owner_id="+ownerID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.ListRoutesResponse](t, rec)
	require.Len(t, res.Routes, 2)
	assert.Equal(t, "Bare", res.Routes[0].Name)
	assert.Equal(t, 3, res.Routes[1].StopCount)

	rec = do(t, h, http.MethodGet, "/routes?owner_id=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRoute(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/routes/"+timedRoute, "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.RouteResponse](t, rec)
	assert.Equal(t, "Timed", res.Name)
	assert.Len(t, res.Stops, 3)
	require.NotNil(t, res.DurationSeconds)
	assert.Equal(t, 3600.0, *res.DurationSeconds)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/routes/"+absentRoute, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/routes/not-a-uuid", "").Code)
}

func TestRouteSchedule(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/routes/"+timedRoute+"/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.ScheduleResponse](t, rec)

	assert.Equal(t, "08:00", res.Departure)
	assert.Equal(t, 5, res.ServiceTime)
	assert.True(t, res.TimesAvailable)
	require.Len(t, res.Stops, 3)
	assert.Equal(t, "08:15", res.Stops[0].Arrival)
	assert.Equal(t, "08:20", res.Stops[0].Departure)
	assert.Equal(t, "09:00", res.Stops[2].Departure)
	require.NotNil(t, res.Stops[0].ArrivalSeconds)
	assert.Equal(t, 8*3600+15*60, *res.Stops[0].ArrivalSeconds)

	rec = do(t, h, http.MethodGet, "/routes/"+timedRoute+"/schedule?service_time=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[dto.ScheduleResponse](t, rec)
	assert.Equal(t, "08:15", res.Stops[0].Departure)
	assert.Equal(t, "08:45", res.Stops[2].Arrival)

	rec = do(t, h, http.MethodGet, "/routes/"+timedRoute+"/schedule?service_time=-3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/routes/"+absentRoute+"/schedule", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouteScheduleWithoutTimingData(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/routes/"+bareRoute+"/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.ScheduleResponse](t, rec)

	assert.False(t, res.TimesAvailable)
	require.Len(t, res.Stops, 1)
	assert.Equal(t, "-", res.Stops[0].Arrival)
	assert.Nil(t, res.Stops[0].ArrivalSeconds)
}

func TestMalformedRouteDataDegrades(t *testing.T) {
	db := newSeededDB(t)
	_, err := db.Exec(`UPDATE routes SET route_data = ? WHERE route_id = ?`, `{"duration":"3600"}`, timedRoute)
	require.NoError(t, err)
	h := newRouterFor(t, db)

	rec := do(t, h, http.MethodGet, "/routes/"+timedRoute+"/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.ScheduleResponse](t, rec)
	assert.False(t, res.TimesAvailable)
	require.Len(t, res.Stops, 3)
	assert.Equal(t, "-", res.Stops[2].Arrival)

	rec = do(t, h, http.MethodGet, "/routes/"+timedRoute+"/sheet.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "1,A,1 A St,,,-,-,", lines[1])

	rec = do(t, h, http.MethodGet, "/routes?owner_id="+ownerID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[dto.ListRoutesResponse](t, rec).Routes, 2)
}

func TestRouteSheet(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/routes/"+timedRoute+"/sheet.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), timedRoute)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "1,A,1 A St,,,08:15,08:20,", lines[1])
}

func TestComputeInlineSchedule(t *testing.T) {
	h := newTestServer(t)

	body := `{"departure_time": "09:00", "stop_count": 3, "leg_durations": [600, 1200, 300], "service_time": 0}`
	rec := do(t, h, http.MethodPost, "/schedules", body)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.ScheduleResponse](t, rec)

	require.Len(t, res.Stops, 3)
	assert.Equal(t, "stop-1", res.Stops[0].StopID)
	assert.Equal(t, []string{"09:10", "09:30", "09:35"},
		[]string{res.Stops[0].Arrival, res.Stops[1].Arrival, res.Stops[2].Arrival})
}

func TestComputeInlineScheduleRouteData(t *testing.T) {
	h := newTestServer(t)

	body := `{"stop_ids": ["a", "b", "c"], "route_data": {"duration": 1800, "waypoints": [{"duration": 600}]}}`
	rec := do(t, h, http.MethodPost, "/schedules", body)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.ScheduleResponse](t, rec)

	assert.Equal(t, "08:10", res.Stops[0].Arrival)
	assert.Equal(t, "08:22", res.Stops[1].Arrival)
	assert.Equal(t, "08:35", res.Stops[2].Arrival)
}

func TestComputeInlineScheduleNullWaypointDuration(t *testing.T) {
	h := newTestServer(t)

	body := `{"stop_ids": ["a", "b"], "service_time": 0, "route_data": {"duration": 3600, "waypoints": [{"duration": null}, {"duration": 600}]}}`
	rec := do(t, h, http.MethodPost, "/schedules", body)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.ScheduleResponse](t, rec)

	assert.Equal(t, "08:20", res.Stops[0].Arrival)
	assert.Equal(t, "08:30", res.Stops[1].Arrival)
}

func TestComputeInlineScheduleRejectsBadBodies(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/schedules", `{"bogus": 1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/schedules", `{} {}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/schedules", `{"stop_count": -1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/schedules", `{"stop_count": 2, "service_time": 200000000000}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/schedules", `{"stop_count": 2, "service_time": -3}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/schedules", "").Code)

	// malformed timing data degrades instead of failing
	rec := do(t, h, http.MethodPost, "/schedules", `{"departure_time": "late", "stop_count": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.ScheduleResponse](t, rec)
	assert.Equal(t, "08:00", res.Departure)
	assert.False(t, res.TimesAvailable)
}

func TestBatchSchedules(t *testing.T) {
	h := newTestServer(t)

	body := `{"route_ids": ["` + bareRoute + `", "` + timedRoute + `"], "service_time": 10}`
	rec := do(t, h, http.MethodPost, "/schedules/batch", body)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.ListSchedulesResponse](t, rec)

	require.Len(t, res.Schedules, 2)
	assert.Equal(t, bareRoute, res.Schedules[0].RouteID)
	assert.False(t, res.Schedules[0].TimesAvailable)
	assert.Equal(t, timedRoute, res.Schedules[1].RouteID)
	assert.Equal(t, 10, res.Schedules[1].ServiceTime)
	assert.Equal(t, "08:25", res.Schedules[1].Stops[0].Departure)

	missing := `{"route_ids": ["` + absentRoute + `"]}`
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/schedules/batch", missing).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/schedules/batch", `{"route_ids": []}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/schedules/batch", `{"route_ids": ["x"]}`).Code)
}
