package main

import (
	"context"
	"log/slog"

	"liftoff/pkg/config"
	"liftoff/pkg/geo"
	"liftoff/pkg/mission"
	"liftoff/pkg/session"
	"liftoff/pkg/sim/loop"
)

// initializeSimClient starts the flight host on the persisted mission and tunables.
func initializeSimClient(ctx context.Context, prov config.Provider, catalog *mission.Catalog, site geo.Point, sessionMgr *session.Manager) *loop.Client {
	m, err := catalog.Get(prov.Mission(ctx))
	if err != nil {
		slog.Warn("Configured mission not found, using default", "error", err, "default", catalog.Default().Name)
		m = catalog.Default()
	}

	autopilot := prov.SimProvider(ctx) == "autopilot"
	if autopilot {
		slog.Info("Sim Source: Autopilot")
	} else {
		slog.Info("Sim Source: Loop (Default)")
	}

	return loop.NewClient(loop.Config{
		Frame:     prov.Frame(ctx),
		Mission:   m,
		Params:    prov.Physics(ctx).SimParams(),
		Seed:      prov.AppConfig().Sim.Seed,
		Quiz:      prov.QuizEnabled(ctx),
		Autopilot: autopilot,
		Launch:    site,
		Recorder:  sessionMgr,
		Observer:  sessionMgr,
	})
}
