package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"liftoff/internal/api"
	"liftoff/pkg/config"
	"liftoff/pkg/core"
	"liftoff/pkg/db"
	"liftoff/pkg/db/maintenance"
	"liftoff/pkg/geo"
	"liftoff/pkg/logging"
	"liftoff/pkg/mission"
	"liftoff/pkg/probe"
	"liftoff/pkg/session"
	"liftoff/pkg/sim"
	"liftoff/pkg/sim/loop"
	"liftoff/pkg/store"
	"liftoff/pkg/tracker"
	"liftoff/pkg/version"
	"liftoff/pkg/watcher"
)

const (
	defaultConfigPath    = "configs/liftoff.yaml"
	checkpointInterval   = 5 * time.Second
	maintenanceInterval  = 24 * time.Hour
	missionsPollInterval = 5 * time.Second
)

var (
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	configPath = flag.String("config", defaultConfigPath, "Path to the config file")
)

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("Liftoff Started", "version", version.Version)

	dbConn, st, err := initDB(appCfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	prov := config.NewProvider(appCfg, st)

	catalog, err := mission.LoadCatalog(appCfg.Sim.MissionsFile)
	if err != nil {
		return fmt.Errorf("failed to load missions: %w", err)
	}

	if err := verifyStartup(ctx, appCfg, dbConn, catalog, prov.Mission(ctx)); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	site := geo.Point{Lat: appCfg.Sim.LaunchLat, Lon: appCfg.Sim.LaunchLon}
	sessionMgr := session.NewManager(site)

	simClient := initializeSimClient(ctx, prov, catalog, site, sessionMgr)
	defer simClient.Close()

	tr := tracker.New()

	// Telemetry Handler (must be created before scheduler to receive updates)
	telH := api.NewTelemetryHandler()

	sched, persistJob := setupScheduler(prov, simClient, st, dbConn, sessionMgr, tr, telH, catalog)
	go sched.Start(ctx)

	// Flights that ended during shutdown still reach the log.
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		persistJob.Run(flushCtx, &sim.Telemetry{})
		if err := session.Checkpoint(flushCtx, st, sessionMgr); err != nil {
			slog.Error("Failed to checkpoint flight on shutdown", "error", err)
		}
	}()

	return runServer(ctx, appCfg, prov, catalog, simClient, sessionMgr, st, tr, telH)
}

func initDB(appCfg *config.Config) (*db.DB, store.Store, error) {
	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return dbConn, store.NewSQLiteStore(dbConn), nil
}

func verifyStartup(ctx context.Context, cfg *config.Config, dbConn *db.DB, catalog *mission.Catalog, missionName string) error {
	probes := []probe.Probe{
		probe.Database(dbConn),
		probe.Mission(catalog, missionName),
		probe.Writable("Event Log Directory", filepath.Dir(cfg.Log.Events.Path), false),
	}
	return probe.AnalyzeResults(probe.Run(ctx, probes))
}

func setupScheduler(prov config.Provider, simClient sim.Client, st store.Store, dbConn *db.DB, sessionMgr *session.Manager, tr *tracker.Tracker, telH *api.TelemetryHandler, catalog *mission.Catalog) (*core.Scheduler, *core.FlightPersistenceJob) {
	sched := core.NewScheduler(prov, simClient, telH)

	// Session Restoration (closes a flight interrupted by the last shutdown)
	sched.AddJob(core.NewSessionRestorationJob(st, tr))

	persistJob := core.NewFlightPersistenceJob(st, sessionMgr, tr)
	sched.AddJob(persistJob)
	sched.AddJob(core.NewCheckpointJob(st, sessionMgr, checkpointInterval))

	sched.AddJob(core.NewTransitionJob("FlightState", func(c context.Context, from, to sim.GameState, t sim.Telemetry) {
		slog.Info("Flight state changed",
			"mission", t.Mission,
			"from", from,
			"to", to,
			"alt_km", t.AltitudeKm,
			"speed_kms", t.SpeedKms)
	}))

	retention := prov.AppConfig().DB.Retention.Std()
	sched.AddJob(core.NewTimeJob("Maintenance", maintenanceInterval, func(c context.Context, t sim.Telemetry) {
		if last, ok := maintenance.LastRun(c, st); ok && time.Since(last) < maintenanceInterval {
			return
		}
		if err := maintenance.Run(c, st, dbConn, retention); err != nil {
			slog.Error("Maintenance tasks failed", "error", err)
		}
	}))

	if path := prov.AppConfig().Sim.MissionsFile; path != "" {
		w := watcher.NewService(path)
		sched.AddJob(core.NewTimeJob("MissionsReload", missionsPollInterval, func(c context.Context, t sim.Telemetry) {
			if len(w.CheckChanged()) == 0 {
				return
			}
			fresh, err := mission.LoadCatalog(path)
			if err != nil {
				slog.Warn("Keeping previous missions, reload failed", "path", path, "error", err)
				return
			}
			catalog.Swap(fresh)
			slog.Info("Missions reloaded", "path", path, "count", len(fresh.All()))
		}))
	}

	return sched, persistJob
}

func runServer(ctx context.Context, cfg *config.Config, prov *config.UnifiedProvider, catalog *mission.Catalog, simClient *loop.Client, sessionMgr *session.Manager, st store.Store, tr *tracker.Tracker, telH *api.TelemetryHandler) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	srv := api.NewServer(cfg.Server.Address,
		telH,
		api.NewFlightHandler(simClient, catalog, prov, st),
		api.NewParamsHandler(simClient, prov),
		api.NewHistoryHandler(sessionMgr, st),
		api.NewStatsHandler(tr, telH),
		api.NewTrackHandler(simClient, telH),
		shutdownFunc,
	)
	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
