package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pvs-dispatch/internal/analysis"
	"pvs-dispatch/internal/api/models"
	"pvs-dispatch/internal/data"
	"pvs-dispatch/internal/dispatch"
	"pvs-dispatch/internal/horizon"
	"pvs-dispatch/internal/logger"
	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/rates"
	"pvs-dispatch/internal/store"
	"pvs-dispatch/internal/sweep"
	"pvs-dispatch/internal/timeline"
)

const (
	// DefaultMaxCases bounds the sweep size of one request.
	DefaultMaxCases = 64

	defaultRowLimit = timeline.HoursPerDay * 7
	maxRowLimit     = timeline.HoursPerYear
)

// SimulationHandler runs sweeps and serves their results.
type SimulationHandler struct {
	catalog  *data.Catalog
	runs     *store.RunStore
	log      logger.Logger
	metrics  sweep.Recorder
	maxCases int
}

// NewSimulationHandler creates a new simulation handler. metrics may be nil.
func NewSimulationHandler(cat *data.Catalog, runs *store.RunStore, log logger.Logger, metrics sweep.Recorder) *SimulationHandler {
	return &SimulationHandler{
		catalog:  cat,
		runs:     runs,
		log:      logger.OrNop(log),
		metrics:  metrics,
		maxCases: DefaultMaxCases,
	}
}

// SetMaxCases overrides DefaultMaxCases.
func (h *SimulationHandler) SetMaxCases(n int) {
	if n > 0 {
		h.maxCases = n
	}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if h.catalog == nil {
		abortWithError(c, http.StatusServiceUnavailable, "NO_CATALOG", "no equipment catalog loaded")
		return
	}

	in, err := h.buildInputs(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_INPUTS", err.Error())
		return
	}
	plant, err := sweep.NewPlant(in, req.Dispatch.Settings())
	if err != nil {
		code := "INVALID_INPUTS"
		if errors.Is(err, horizon.ErrLengthMismatch) {
			code = "LENGTH_MISMATCH"
		}
		abortWithError(c, http.StatusBadRequest, code, err.Error())
		return
	}
	cases, err := sweep.Enumerate(req.Sweep)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_SWEEP", err.Error())
		return
	}
	if len(cases) > h.maxCases {
		abortWithError(c, http.StatusBadRequest, "TOO_MANY_CASES",
			fmt.Sprintf("sweep has %d cases, limit is %d", len(cases), h.maxCases))
		return
	}

	scheduler, err := dispatch.NewScheduler(req.Dispatch.Scheduler)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_SCHEDULER", err.Error())
		return
	}

	driver := sweep.NewDriver(req.Options.Workers, h.log)
	driver.Engine.Scheduler = scheduler
	driver.Engine.Workers = req.Options.DayWorkers
	driver.Metrics = h.metrics

	start := time.Now()
	results, err := driver.Run(c.Request.Context(), plant, cases)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "SIMULATION_ERROR", err.Error())
		return
	}
	summaries := analysis.RankByUplift(analysis.SummarizeAll(results))
	run := h.runs.Put(store.Run{Start: in.COD, Summaries: summaries, Cases: results})
	h.log.Infof("run %s: %d cases in %s", run.ID, len(cases), time.Since(start))

	c.JSON(http.StatusOK, runResponse(run))
}

// GetRun handles GET /api/v1/runs/:id
func (h *SimulationHandler) GetRun(c *gin.Context) {
	run, ok := h.runs.Get(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "RUN_NOT_FOUND", "run not found or expired")
		return
	}
	c.JSON(http.StatusOK, runResponse(run))
}

// GetCaseRows handles GET /api/v1/runs/:id/cases/:case
func (h *SimulationHandler) GetCaseRows(c *gin.Context) {
	run, ok := h.runs.Get(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "RUN_NOT_FOUND", "run not found or expired")
		return
	}
	cs, ok := run.Cases[c.Param("case")]
	if !ok || cs.Result == nil {
		abortWithError(c, http.StatusNotFound, "CASE_NOT_FOUND", fmt.Sprintf("case %q not in run", c.Param("case")))
		return
	}

	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		abortWithError(c, http.StatusBadRequest, "INVALID_PARAM", "offset must be a non-negative integer")
		return
	}
	limit, err := queryInt(c, "limit", defaultRowLimit)
	if err != nil || limit < 1 || limit > maxRowLimit {
		abortWithError(c, http.StatusBadRequest, "INVALID_PARAM",
			fmt.Sprintf("limit must be an integer in [1, %d]", maxRowLimit))
		return
	}

	out := cs.Result.Output
	rows := out.Rows(offset, offset+limit)
	resp := models.CaseRowsResponse{
		RunID:  run.ID,
		CaseID: cs.ID,
		Offset: offset,
		Limit:  limit,
		Total:  out.Len(),
		Rows:   make([]models.HourRow, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, models.NewHourRow(r, timeline.TimeOfHour(run.Start, r.Index)))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SimulationHandler) buildInputs(req models.SimulateRequest) (model.SimulationInputs, error) {
	cod := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if req.COD != "" {
		t, err := time.Parse("2006-01-02", req.COD)
		if err != nil {
			return model.SimulationInputs{}, fmt.Errorf("cod: %w", err)
		}
		cod = t
	}
	eq, err := h.catalog.Select(req.Equipment)
	if err != nil {
		return model.SimulationInputs{}, err
	}

	years := eq.Module.Life
	var r model.RateSeries
	switch {
	case req.Rates != nil:
		r, err = rates.Extend(*req.Rates, years)
	case len(req.DailyRateTemplate) != 0:
		r, err = rates.FromDailyTemplate(years, req.DailyRateTemplate)
	default:
		err = errors.New("one of rates or daily_rate_template is required")
	}
	if err != nil {
		return model.SimulationInputs{}, err
	}

	return model.SimulationInputs{
		POIMW:        req.POIMW,
		COD:          cod,
		Equipment:    eq,
		Yield:        req.Yield,
		Rates:        r,
		Augmentation: req.Augmentation,
	}, nil
}

func runResponse(run *store.Run) models.RunResponse {
	return models.RunResponse{
		ID:        run.ID,
		Status:    "completed",
		CreatedAt: run.CreatedAt,
		Start:     run.Start,
		Cases:     run.Summaries,
	}
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
