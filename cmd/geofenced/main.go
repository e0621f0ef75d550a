package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"github.com/haukened/geofence/internal/geo/common/clock"
	"github.com/haukened/geofence/internal/geo/common/log"
	"github.com/haukened/geofence/internal/geo/config"
	"github.com/haukened/geofence/internal/geo/gateways/httpgate"
	"github.com/haukened/geofence/internal/geo/repos/bolt"
	"github.com/haukened/geofence/internal/geo/repos/counter"
	"github.com/haukened/geofence/internal/geo/services/gatekeeper"
	"github.com/haukened/geofence/internal/geo/services/reporting"
)

const (
	version = "1.2.0"
	appName = "geofenced"
)

// Application holds the wired components of the geofence daemon.
type Application struct {
	config *config.AppConfig
	store  *bolt.Store
	server *httpgate.Server
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":   version,
		"env":       cfg.Env,
		"log_level": cfg.LogLevel,
		"addr":      cfg.Addr,
		"db_path":   cfg.DBPath,
		"blocked":   cfg.BlockedCountries,
	}, "Starting geofence server")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "Geofence server stopped gracefully")
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	// Shared clock keeps day bucketing consistent across components.
	clk := clock.RealClock{}
	logger := log.GetLogger()

	store, err := bolt.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", cfg.DBPath, err)
	}

	counters, err := counter.NewCached(store, clk, cfg.CacheSize)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to build counter cache: %w", err)
	}

	engine := gatekeeper.NewEngine(cfg.BlockedCountries)

	recorder := gatekeeper.NewRecorder(gatekeeper.RecorderOptions{
		Counters: counters,
		Activity: store,
		Clock:    clk,
		Logger:   logger,
		Capacity: cfg.LogCapacity,
	})

	reporter := reporting.NewService(reporting.ServiceOptions{
		Counters: counters,
		Activity: store,
		Logger:   logger,
	})

	gate := httpgate.NewGate(httpgate.GateOptions{
		Engine:        engine,
		Recorder:      recorder,
		Resolver:      httpgate.HeaderResolver{Header: cfg.CountryHeader},
		Logger:        logger,
		AdminPrefixes: cfg.AdminPrefixes,
		APIPrefixes:   cfg.APIPrefixes,
		TrustedHeader: cfg.TrustedHeader,
	})

	api := httpgate.NewAPI(httpgate.APIOptions{
		Reporter:   reporter,
		Clock:      clk,
		Logger:     logger,
		WindowDays: cfg.WindowDays,
		PageSize:   cfg.PageSize,
	})

	router := httprouter.New()
	api.Register(router)
	router.Handler(http.MethodGet, "/geoblock/verdict", gate.VerdictHandler())
	router.HandlerFunc(http.MethodGet, "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Application{
		config: cfg,
		store:  store,
		server: httpgate.NewServer(cfg.Addr, router, logger),
	}, nil
}

// Run serves until ctx is cancelled, then closes the store.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		if err := a.store.Close(); err != nil {
			log.Warn(map[string]any{"error": err.Error()}, "Error closing store")
		}
	}()
	return a.server.Start(ctx)
}
