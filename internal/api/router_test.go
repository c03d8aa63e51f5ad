package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvs-dispatch/internal/api/models"
	"pvs-dispatch/internal/data"
	"pvs-dispatch/internal/metrics"
	"pvs-dispatch/internal/store"
	"pvs-dispatch/internal/sweep"
	"pvs-dispatch/internal/timeline"
)

const catalogYAML = `
modules:
  m: {eta: 1, life: 1, degradation: 0.005}
batteries:
  b: {eta: 1, life: 1, deg_c365: [1.0], deg_c730: [1.0], cp: 0.25, eta_dod: 1, rte_bol: 0.9, rte_eol: 0.9}
components:
  module_collector: {std: {eta: 1}}
  inverter: {std: {eta: 1}}
  inverter_mvt: {std: {eta: 1}}
  inverter_mv_collector: {std: {eta: 1}}
  battery_collector: {std: {eta: 1}}
  pcs: {std: {eta: 1}}
  pcs_mvt: {std: {eta: 1}}
  pcs_mv_collector: {std: {eta: 1}}
  gsu: {std: {eta: 1}}
`

func init() { gin.SetMode(gin.TestMode) }

func newTestRouter(t *testing.T) (*gin.Engine, *store.RunStore) {
	t.Helper()
	cat, err := data.ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSink(reg)
	require.NoError(t, err)
	runs := store.NewRunStore(time.Hour, time.Hour)
	t.Cleanup(runs.Close)
	return NewRouter(Deps{Catalog: cat, Runs: runs, Metrics: sink, Gatherer: reg, MaxCases: 4}), runs
}

func simulateRequest() models.SimulateRequest {
	yield := make([]float64, timeline.HoursPerYear)
	for h := range yield {
		if hod := h % 24; hod >= 6 && hod < 18 {
			yield[h] = 10
		}
	}
	daily := make([]float64, 24)
	for h := range daily {
		daily[h] = 10
		if h >= 18 && h < 22 {
			daily[h] = 50
		}
	}
	return models.SimulateRequest{
		POIMW: 100,
		COD:   "2027-01-01",
		Equipment: data.Selection{
			Module: "m", ModuleCollector: "std", Inverter: "std", InverterMVT: "std",
			InverterMVCollector: "std", Battery: "b", BatteryCollector: "std", PCS: "std",
			PCSMVT: "std", PCSMVCollector: "std", GSU: "std",
		},
		Yield:             yield,
		DailyRateTemplate: daily,
		Dispatch: models.DispatchParams{
			PVMinEnergyChgThreshold: 0.1,
			PPAMinDelta:             5,
			PCSLimitAtPOI:           100,
			PCSHoursAtPOI:           4,
		},
		Sweep: sweep.Spec{
			DCAC:         sweep.Single(1.2),
			InverterMW:   sweep.Single(200),
			PCSMW:        sweep.Single(25),
			BatteryHours: sweep.Single(4),
		},
	}
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestSimulateAndFetchRows(t *testing.T) {
	r, runs := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/simulate", simulateRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var run models.RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	require.Len(t, run.Cases, 1)
	assert.Equal(t, "case-1", run.Cases[0].CaseID)
	assert.Equal(t, timeline.DaysPerYear, run.Cases[0].ArbitrageDays)
	assert.Greater(t, run.Cases[0].BatteryDischargeMWh, 0.0)
	assert.Equal(t, 1, runs.Len())

	w = do(t, r, http.MethodGet, "/api/v1/runs/"+run.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/runs/"+run.ID+"/cases/case-1?offset=24&limit=24", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page models.CaseRowsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, timeline.HoursPerYear, page.Total)
	require.Len(t, page.Rows, 24)
	assert.Equal(t, 24, page.Rows[0].Index)
	assert.Equal(t, 1, page.Rows[0].Day)
	assert.True(t, page.Rows[0].Time.Equal(time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)))
	for _, row := range page.Rows {
		assert.LessOrEqual(t, row.PVToPOI+row.BatteryToPOI, 100.0+1e-9)
	}

	w = do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pvs_cases_total{status="ok"} 1`)
}

func TestSimulateErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := map[string]struct {
		mutate func(*models.SimulateRequest)
		code   string
	}{
		"unknown equipment": {func(q *models.SimulateRequest) { q.Equipment.PCS = "nope" }, "INVALID_INPUTS"},
		"short template":    {func(q *models.SimulateRequest) { q.DailyRateTemplate = q.DailyRateTemplate[:23] }, "INVALID_INPUTS"},
		"short yield":       {func(q *models.SimulateRequest) { q.Yield = q.Yield[:100] }, "LENGTH_MISMATCH"},
		"bad sweep":         {func(q *models.SimulateRequest) { q.Sweep.DCAC = sweep.Range{Start: 1.2, Stop: 1.0, Step: 0.1} }, "INVALID_SWEEP"},
		"too many cases":    {func(q *models.SimulateRequest) { q.Sweep.PCSMW = sweep.Range{Start: 10, Stop: 50, Step: 10} }, "TOO_MANY_CASES"},
		"missing poi":       {func(q *models.SimulateRequest) { q.POIMW = 0 }, "INVALID_REQUEST"},
		"bad scheduler":     {func(q *models.SimulateRequest) { q.Dispatch.Scheduler.Name = "oracle" }, "INVALID_SCHEDULER"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := simulateRequest()
			tt.mutate(&req)
			w := do(t, r, http.MethodPost, "/api/v1/simulate", req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code, resp.Error.Message)
		})
	}
}

func TestRunLookups(t *testing.T) {
	r, runs := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	run := runs.Put(store.Run{})
	w = do(t, r, http.MethodGet, "/api/v1/runs/"+run.ID+"/cases/case-9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CASE_NOT_FOUND")
}

func TestCatalog(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/v1/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"m"}, resp.Names["modules"])
	assert.Equal(t, []string{"std"}, resp.Names["pcs"])
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, strings.Contains(w.Header().Get("Access-Control-Allow-Origin"), "*") ||
		w.Header().Get("Access-Control-Allow-Origin") == "http://localhost:5173")
}
