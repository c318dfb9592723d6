package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"liftoff/pkg/config"
	"liftoff/pkg/logging"
	"liftoff/pkg/sim"
)

const defaultPoll = 100 * time.Millisecond

// TelemetrySink receives every polled snapshot and the host's link state.
type TelemetrySink interface {
	Update(t *sim.Telemetry)
	UpdateState(s sim.LinkState)
}

// Scheduler polls the flight host and hands each snapshot to its jobs.
type Scheduler struct {
	prov config.Provider
	sim  sim.Client
	sink TelemetrySink
	jobs []Job

	link sim.LinkState // last observed, only touched by the poll goroutine
}

// NewScheduler creates a scheduler. sink may be nil.
func NewScheduler(prov config.Provider, simClient sim.Client, sink TelemetrySink) *Scheduler {
	return &Scheduler{
		prov: prov,
		sim:  simClient,
		sink: sink,
	}
}

// AddJob registers a job. Jobs must be added before Start.
func (s *Scheduler) AddJob(j Job) {
	s.jobs = append(s.jobs, j)
}

// Start polls until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	interval := s.prov.TelemetryLoop(ctx)
	if interval <= 0 {
		interval = defaultPoll
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Scheduler started", "interval", interval, "jobs", len(s.jobs))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	state := s.sim.GetState()
	if state != s.link {
		if s.link != "" {
			slog.Info("Flight host state changed", "from", s.link, "to", state)
		}
		s.link = state
	}
	if s.sink != nil {
		s.sink.UpdateState(state)
	}

	// Paused or stopped hosts produce no new frames.
	if state != sim.LinkRunning {
		return
	}

	tel, err := s.sim.GetTelemetry(ctx)
	if err != nil {
		slog.Debug("Failed to read telemetry", "error", err)
		return
	}

	if s.sink != nil {
		s.sink.Update(&tel)
	}

	fired := 0
	for _, job := range s.jobs {
		if !job.ShouldFire(&tel) {
			continue
		}
		fired++
		snap := tel
		go s.runJob(ctx, job, &snap)
	}
	logging.Trace("Poll", "state", tel.GameState, "fired", fired)
}

// runJob keeps a failing job from taking the poll loop down with it.
func (s *Scheduler) runJob(ctx context.Context, job Job, t *sim.Telemetry) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Job panicked", "job", job.Name(), "panic", fmt.Sprint(r))
		}
	}()
	job.Run(ctx, t)
}
