package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"liftoff/pkg/config"
	"liftoff/pkg/sim"
)

// mockSimClient implements sim.Client
type mockSimClient struct {
	mu    sync.Mutex
	tel   sim.Telemetry
	err   error
	state sim.LinkState
}

func (m *mockSimClient) GetTelemetry(ctx context.Context) (sim.Telemetry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tel, m.err
}

func (m *mockSimClient) GetState() sim.LinkState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == "" {
		return sim.LinkRunning
	}
	return m.state
}

func (m *mockSimClient) Close() error { return nil }

func (m *mockSimClient) SetTelemetry(t *sim.Telemetry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tel = *t
}

func (m *mockSimClient) SetState(s sim.LinkState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

// mockSink implements TelemetrySink
type mockSink struct {
	mu             sync.Mutex
	updateCount    int
	stateUpdateCnt int
	lastState      sim.LinkState
}

func (m *mockSink) Update(t *sim.Telemetry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCount++
}

func (m *mockSink) UpdateState(s sim.LinkState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateUpdateCnt++
	m.lastState = s
}

func (m *mockSink) counts() (updates, states int, last sim.LinkState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCount, m.stateUpdateCnt, m.lastState
}

func fastProvider() config.Provider {
	cfg := config.DefaultConfig()
	cfg.Ticker.TelemetryLoop = config.Duration(10 * time.Millisecond)
	return config.NewProvider(cfg, nil)
}

func TestScheduler_JobExecution(t *testing.T) {
	mockSim := &mockSimClient{}
	sched := NewScheduler(fastProvider(), mockSim, nil)

	fired := make(chan sim.GameState, 4)
	sched.AddJob(NewTransitionJob("Test", func(ctx context.Context, from, to sim.GameState, tel sim.Telemetry) {
		fired <- to
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	// Ready on the pad: nothing to report.
	select {
	case s := <-fired:
		t.Fatalf("unexpected transition to %s", s)
	case <-time.After(50 * time.Millisecond):
	}

	mockSim.SetTelemetry(&sim.Telemetry{GameState: sim.StateFlying})
	select {
	case s := <-fired:
		if s != sim.StateFlying {
			t.Errorf("expected flying, got %s", s)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Job should have fired after launch")
	}
}

func TestScheduler_SkipsTelemetryWhenPaused(t *testing.T) {
	mockSim := &mockSimClient{state: sim.LinkPaused}
	sink := &mockSink{}
	sched := NewScheduler(fastProvider(), mockSim, sink)

	var runs int32
	sched.AddJob(NewTimeJob("Count", time.Hour, func(ctx context.Context, tel sim.Telemetry) {
		atomic.AddInt32(&runs, 1)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	time.Sleep(50 * time.Millisecond)

	updates, states, last := sink.counts()
	if updates > 0 {
		t.Errorf("Telemetry was updated %d times, but should be 0 when paused", updates)
	}
	if states == 0 || last != sim.LinkPaused {
		t.Errorf("expected paused state broadcasts, got %d (%s)", states, last)
	}
	if atomic.LoadInt32(&runs) != 0 {
		t.Error("jobs must not run while paused")
	}

	mockSim.SetState(sim.LinkRunning)
	time.Sleep(50 * time.Millisecond)

	if updates, _, _ := sink.counts(); updates == 0 {
		t.Error("Telemetry was never updated after resuming")
	}
	if atomic.LoadInt32(&runs) == 0 {
		t.Error("hourly job never ran after resuming")
	}
}

func TestScheduler_TelemetryError(t *testing.T) {
	mockSim := &mockSimClient{err: sim.ErrNotRunning}
	sink := &mockSink{}
	sched := NewScheduler(fastProvider(), mockSim, sink)

	sched.tick(context.Background())
	if updates, states, _ := sink.counts(); updates != 0 || states != 1 {
		t.Errorf("expected only a state update, got updates=%d states=%d", updates, states)
	}
}

type panicJob struct {
	BaseJob
}

func (j *panicJob) ShouldFire(t *sim.Telemetry) bool { return true }

func (j *panicJob) Run(ctx context.Context, t *sim.Telemetry) {
	panic("boom")
}

func TestScheduler_JobPanicIsContained(t *testing.T) {
	mockSim := &mockSimClient{}
	sched := NewScheduler(fastProvider(), mockSim, nil)

	done := make(chan struct{}, 1)
	sched.AddJob(&panicJob{BaseJob: NewBaseJob("Panics")})
	sched.AddJob(NewTimeJob("After", time.Hour, func(ctx context.Context, tel sim.Telemetry) {
		done <- struct{}{}
	}))

	sched.tick(context.Background())
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("sibling job did not run")
	}

	// The scheduler keeps polling.
	sched.tick(context.Background())
}

func TestScheduler_TracksLinkState(t *testing.T) {
	mockSim := &mockSimClient{state: sim.LinkPaused}
	sched := NewScheduler(fastProvider(), mockSim, nil)

	sched.tick(context.Background())
	if sched.link != sim.LinkPaused {
		t.Errorf("link = %s, want paused", sched.link)
	}
	mockSim.SetState(sim.LinkStopped)
	sched.tick(context.Background())
	if sched.link != sim.LinkStopped {
		t.Errorf("link = %s, want stopped", sched.link)
	}
}
