package loop

import (
	"liftoff/pkg/quiz"
	"liftoff/pkg/sim"
)

// StepKind is an autopilot scenario instruction.
type StepKind string

const (
	StepBurn  StepKind = "BURN"  // full thrust until UntilAltKm
	StepPitch StepKind = "PITCH" // thrust with attitude input for Duration
	StepBoost StepKind = "BOOST" // engage boost once
	StepCoast StepKind = "COAST" // engine off for Duration
)

const (
	// governorKms caps in-atmosphere speed below the crash threshold.
	governorKms = sim.MaxSpeedKms * 0.8
	// resetDelay is how long a finished flight stays on screen before relaunch.
	resetDelay = 8.0
)

// ScenarioStep is one autopilot instruction.
type ScenarioStep struct {
	Kind       StepKind `json:"kind" yaml:"kind"`
	UntilAltKm float64  `json:"untilAltKm,omitempty" yaml:"until_alt_km"`
	Duration   float64  `json:"duration,omitempty" yaml:"duration"`
	Pitch      float64  `json:"pitch,omitempty" yaml:"pitch"`
	Roll       float64  `json:"roll,omitempty" yaml:"roll"`
}

// Command is what the autopilot wants done this frame.
type Command struct {
	Input  sim.Input
	Boost  bool
	Answer bool
	Reset  bool
}

// Autopilot flies a scripted scenario and relaunches after each outcome.
type Autopilot struct {
	scenario []ScenarioStep
	idx      int
	stepTime float64
	doneTime float64
}

// NewAutopilot creates an autopilot for the scenario.
func NewAutopilot(steps []ScenarioStep) *Autopilot {
	return &Autopilot{scenario: steps}
}

// DefaultScenario is a gravity-turn style climb to orbit.
func DefaultScenario() []ScenarioStep {
	return []ScenarioStep{
		{Kind: StepBurn, UntilAltKm: 30},
		{Kind: StepPitch, Duration: 1, Pitch: 0.2},
		{Kind: StepPitch, Duration: 1, Pitch: -0.2},
		{Kind: StepBurn, UntilAltKm: 120},
		{Kind: StepBoost},
		{Kind: StepBurn, UntilAltKm: 600},
		{Kind: StepCoast, Duration: 2},
		{Kind: StepBurn, UntilAltKm: 1000},
	}
}

// Restart rewinds to the first step.
func (a *Autopilot) Restart() {
	a.idx = 0
	a.stepTime = 0
	a.doneTime = 0
}

// Current returns the active step index, or len(scenario) once finished.
func (a *Autopilot) Current() int {
	return a.idx
}

func (a *Autopilot) advance() {
	a.idx++
	a.stepTime = 0
}

// Next decides the command for one frame given the last snapshot.
func (a *Autopilot) Next(tel sim.Telemetry, dt float64) Command {
	if tel.GameState.Terminal() {
		a.doneTime += dt
		if a.doneTime >= resetDelay {
			return Command{Reset: true}
		}
		return Command{}
	}

	if tel.Quiz != nil && tel.Quiz.Phase == quiz.PhaseQuestioning {
		return Command{Answer: true}
	}

	var cmd Command
	if a.idx >= len(a.scenario) {
		cmd.Input.Thrust = true
	} else {
		step := a.scenario[a.idx]
		a.stepTime += dt
		switch step.Kind {
		case StepBurn:
			cmd.Input.Thrust = true
			if tel.AltitudeKm >= step.UntilAltKm {
				a.advance()
			}
		case StepPitch:
			cmd.Input = sim.Input{Thrust: true, Pitch: step.Pitch, Roll: step.Roll}
			if a.stepTime >= step.Duration {
				a.advance()
			}
		case StepBoost:
			cmd.Input.Thrust = true
			cmd.Boost = true
			a.advance()
		case StepCoast:
			if a.stepTime >= step.Duration {
				a.advance()
			}
		default:
			a.advance()
		}
	}

	if tel.AltitudeKm < sim.AtmosphereTopKm && tel.SpeedKms > governorKms {
		cmd.Input.Thrust = false
	}
	return cmd
}
