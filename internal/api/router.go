// Package api exposes sweeps over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pvs-dispatch/internal/api/handlers"
	"pvs-dispatch/internal/api/middleware"
	"pvs-dispatch/internal/data"
	"pvs-dispatch/internal/logger"
	"pvs-dispatch/internal/store"
	"pvs-dispatch/internal/sweep"
)

// Deps are the services the router serves from.
type Deps struct {
	Catalog *data.Catalog
	Runs    *store.RunStore
	Log     logger.Logger
	// Metrics records cases; Gatherer serves /metrics. Either may be nil.
	Metrics  sweep.Recorder
	Gatherer prometheus.Gatherer

	CORSOrigins []string
	MaxCases    int
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.ErrorHandler(d.Log))

	sim := handlers.NewSimulationHandler(d.Catalog, d.Runs, d.Log, d.Metrics)
	sim.SetMaxCases(d.MaxCases)
	cat := handlers.NewCatalogHandler(d.Catalog)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "runs": d.Runs.Len()})
	})
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", sim.Simulate)
		v1.GET("/runs/:id", sim.GetRun)
		v1.GET("/runs/:id/cases/:case", sim.GetCaseRows)
		v1.GET("/catalog", cat.GetCatalog)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
