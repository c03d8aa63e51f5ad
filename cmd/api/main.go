package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pvs-dispatch/internal/api"
	"pvs-dispatch/internal/data"
	"pvs-dispatch/internal/logger"
	"pvs-dispatch/internal/metrics"
	"pvs-dispatch/internal/store"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()
	log := logger.New("api")

	port := getenv("API_PORT", "8080")
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	catalogPath := getenv("CATALOG_PATH", "configs/catalog.yaml")
	cat, err := data.LoadCatalog(catalogPath)
	if err != nil {
		log.Warnf("catalog %s not loaded: %v", catalogPath, err)
	} else {
		log.Infof("catalog loaded from %s", catalogPath)
	}

	ttl, err := time.ParseDuration(getenv("RUN_TTL", "1h"))
	if err != nil {
		log.Errorf("invalid RUN_TTL: %v", err)
		os.Exit(2)
	}
	runs := store.NewRunStore(ttl, ttl/4)
	defer runs.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	sink, err := metrics.NewPromSink(reg)
	if err != nil {
		log.Errorf("metrics: %v", err)
		os.Exit(1)
	}

	maxCases, _ := strconv.Atoi(os.Getenv("MAX_CASES"))
	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	router := api.NewRouter(api.Deps{
		Catalog:     cat,
		Runs:        runs,
		Log:         log,
		Metrics:     sink,
		Gatherer:    reg,
		CORSOrigins: origins,
		MaxCases:    maxCases,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("Starting API server on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
