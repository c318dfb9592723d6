// Command liftoff-tui flies a mission in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"liftoff/pkg/config"
	"liftoff/pkg/geo"
	"liftoff/pkg/logging"
	"liftoff/pkg/mission"
	"liftoff/pkg/sim/loop"
)

var (
	configPath  = flag.String("config", "configs/liftoff.yaml", "Path to the config file")
	missionName = flag.String("mission", "", "Mission to fly (overrides config)")
	seed        = flag.Uint64("seed", 0, "Random seed, 0 seeds from the clock")
	quizFlag    = flag.Bool("quiz", false, "Enable the math challenge")
	autopilot   = flag.Bool("autopilot", false, "Let the autopilot fly")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The terminal belongs to the cockpit, so logs only go to a file.
	closeLog, err := initFileLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	catalog, err := mission.LoadCatalog(cfg.Sim.MissionsFile)
	if err != nil {
		return fmt.Errorf("failed to load missions: %w", err)
	}
	name := cfg.Sim.Mission
	if *missionName != "" {
		name = *missionName
	}
	m, err := catalog.Get(name)
	if err != nil {
		return err
	}

	s := *seed
	if s == 0 {
		s = cfg.Sim.Seed
	}
	client := loop.NewClient(loop.Config{
		Frame:     cfg.Ticker.Frame.Std(),
		Mission:   m,
		Params:    cfg.Physics.SimParams(),
		Seed:      s,
		Quiz:      *quizFlag || cfg.Quiz.Enabled,
		Autopilot: *autopilot,
		Launch:    geo.Point{Lat: cfg.Sim.LaunchLat, Lon: cfg.Sim.LaunchLon},
	})
	defer client.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	c := newCockpit(screen, client, catalog)
	c.run()
	return nil
}

// initFileLog logs to tui.log next to the server log, never to the terminal.
func initFileLog(cfg *config.Config) (func(), error) {
	logCfg := cfg.Log
	logCfg.Server.Path = filepath.Join(filepath.Dir(cfg.Log.Server.Path), "tui.log")
	logCfg.Requests.Path = ""

	cleanup, err := logging.Init(&logCfg, logging.WithoutConsole())
	if err != nil {
		return nil, fmt.Errorf("failed to init logging: %w", err)
	}
	return cleanup, nil
}
