package sim

import (
	"context"
	"errors"

	"liftoff/pkg/mission"
	"liftoff/pkg/quiz"
)

// ErrNotRunning is returned when the host loop has been closed.
var ErrNotRunning = errors.New("simulation not running")

// LinkState is the activity state of a host loop.
type LinkState string

const (
	// LinkRunning means frames are being stepped.
	LinkRunning LinkState = "running"
	// LinkPaused means the loop is alive but not stepping.
	LinkPaused LinkState = "paused"
	// LinkStopped means the loop has been closed.
	LinkStopped LinkState = "stopped"
)

// Client is a read-only view of a running simulation.
type Client interface {
	// GetTelemetry returns the latest frame snapshot.
	GetTelemetry(ctx context.Context) (Telemetry, error)
	// GetState returns the host loop state.
	GetState() LinkState
	// Close stops the loop.
	Close() error
}

// Controller is a Client that also accepts player commands.
type Controller interface {
	Client
	SetInput(in Input)
	SelectMission(m mission.Config)
	Reset()
	Answer(choice int) (quiz.Outcome, error)
	Boost() bool
	SetPaused(paused bool)
}
