package core

import (
	"context"
	"sync/atomic"
	"time"

	"liftoff/pkg/sim"
)

// Job defines a scheduled task.
type Job interface {
	Name() string
	ShouldFire(t *sim.Telemetry) bool
	Run(ctx context.Context, t *sim.Telemetry)
}

// BaseJob provides atomic running state to prevent re-entry.
type BaseJob struct {
	name    string
	running int32 // 1 if running
}

func NewBaseJob(name string) BaseJob {
	return BaseJob{name: name}
}

func (b *BaseJob) Name() string {
	return b.name
}

// TryLock attempts to set running to 1. Returns true if successful.
func (b *BaseJob) TryLock() bool {
	return atomic.CompareAndSwapInt32(&b.running, 0, 1)
}

func (b *BaseJob) Unlock() {
	atomic.StoreInt32(&b.running, 0)
}

func (b *BaseJob) busy() bool {
	return atomic.LoadInt32(&b.running) == 1
}

// TransitionJob fires when the mission state changes.
type TransitionJob struct {
	BaseJob
	last   atomic.Value // sim.GameState
	action func(ctx context.Context, from, to sim.GameState, t sim.Telemetry)
}

func NewTransitionJob(name string, action func(ctx context.Context, from, to sim.GameState, t sim.Telemetry)) *TransitionJob {
	j := &TransitionJob{
		BaseJob: NewBaseJob(name),
		action:  action,
	}
	j.last.Store(sim.StateReady)
	return j
}

func (j *TransitionJob) ShouldFire(t *sim.Telemetry) bool {
	if j.busy() {
		return false
	}
	return j.last.Load().(sim.GameState) != t.GameState
}

func (j *TransitionJob) Run(ctx context.Context, t *sim.Telemetry) {
	if !j.TryLock() {
		return
	}
	defer j.Unlock()

	from := j.last.Load().(sim.GameState)
	if from == t.GameState {
		return
	}
	j.last.Store(t.GameState)
	j.action(ctx, from, t.GameState, *t)
}

// TimeJob fires on the first poll and then once per threshold.
type TimeJob struct {
	BaseJob
	lastRun   atomic.Int64 // unix nanos, 0 before the first run
	threshold time.Duration
	action    func(context.Context, sim.Telemetry)
}

func NewTimeJob(name string, threshold time.Duration, action func(context.Context, sim.Telemetry)) *TimeJob {
	return &TimeJob{
		BaseJob:   NewBaseJob(name),
		threshold: threshold,
		action:    action,
	}
}

func (j *TimeJob) ShouldFire(t *sim.Telemetry) bool {
	if j.busy() {
		return false
	}
	last := j.lastRun.Load()
	return last == 0 || time.Since(time.Unix(0, last)) >= j.threshold
}

func (j *TimeJob) Run(ctx context.Context, t *sim.Telemetry) {
	if !j.TryLock() {
		return
	}
	defer j.Unlock()

	j.lastRun.Store(time.Now().UnixNano())
	j.action(ctx, *t)
}
