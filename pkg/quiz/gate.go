package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestion is returned when answering while no question is pending.
	ErrNoQuestion = errors.New("no question pending")
	// ErrInvalidChoice is returned for an option index outside the question.
	ErrInvalidChoice = errors.New("invalid answer choice")
)

const (
	TimeLimit       = 8.0  // seconds to answer
	FuelReward      = 30.0 // refunded on a correct answer
	FuelPenalty     = 40.0 // taken on a wrong answer
	TimeoutPenalty  = 20.0 // taken when the timer runs out
	VelocityDamping = 0.5  // velocity multiplier after a wrong answer or timeout
	MinDelay        = 5.0  // seconds between questions
	MaxDelay        = 10.0
)

// Phase is the gate state.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseQuestioning Phase = "questioning"
	PhaseCorrect     Phase = "correct"
	PhaseIncorrect   Phase = "incorrect"
	PhaseTimeout     Phase = "timeout"
)

// Outcome describes what a resolved question does to the flight.
type Outcome struct {
	Result        Phase   `json:"result"`
	FuelDelta     float64 `json:"fuelDelta"`
	DampVelocity  bool    `json:"dampVelocity"`
	ThrustEnabled bool    `json:"thrustEnabled"`
}

// Status is the externally visible gate state.
type Status struct {
	Phase     Phase     `json:"phase"`
	Question  *Question `json:"question,omitempty"`
	TimeLeft  float64   `json:"timeLeft"`
	NextIn    float64   `json:"nextIn"`
	LastState Phase     `json:"lastResult,omitempty"`
}

// Gate schedules questions and resolves answers.
// idle -> questioning -> {correct, incorrect, timeout} -> idle
type Gate struct {
	rng      Source
	tier     int
	phase    Phase
	current  *Question
	timeLeft float64
	nextIn   float64
	last     Phase
}

// NewGate creates a gate for the difficulty tier and schedules the first question.
func NewGate(rng Source, tier int) *Gate {
	g := &Gate{rng: rng, tier: tier}
	g.Reset()
	return g
}

// Reset clears any pending question and reschedules.
func (g *Gate) Reset() {
	g.phase = PhaseIdle
	g.current = nil
	g.timeLeft = 0
	g.last = ""
	g.schedule()
}

// SetTier changes the difficulty for subsequent questions.
func (g *Gate) SetTier(tier int) {
	g.tier = tier
}

func (g *Gate) schedule() {
	g.nextIn = MinDelay + g.rng.Float64()*(MaxDelay-MinDelay)
}

// Pending reports whether a question awaits an answer.
func (g *Gate) Pending() bool {
	return g.phase == PhaseQuestioning
}

// Phase returns the current phase.
func (g *Gate) Phase() Phase {
	return g.phase
}

// Current returns the pending question or nil.
func (g *Gate) Current() *Question {
	if g.current == nil {
		return nil
	}
	q := *g.current
	return &q
}

// Status returns a snapshot of the gate.
func (g *Gate) Status() Status {
	return Status{
		Phase:     g.phase,
		Question:  g.Current(),
		TimeLeft:  g.timeLeft,
		NextIn:    g.nextIn,
		LastState: g.last,
	}
}

// Tick advances the timers. The delay until the next question only runs once
// the vehicle has launched. It returns an outcome when a question times out.
func (g *Gate) Tick(delta float64, launched bool) (Outcome, bool) {
	switch g.phase {
	case PhaseCorrect, PhaseIncorrect, PhaseTimeout:
		g.phase = PhaseIdle
		fallthrough
	case PhaseIdle:
		if !launched {
			return Outcome{}, false
		}
		g.nextIn -= delta
		if g.nextIn <= 0 {
			q := Generate(g.rng, g.tier)
			g.current = &q
			g.timeLeft = TimeLimit
			g.nextIn = 0
			g.phase = PhaseQuestioning
		}
		return Outcome{}, false
	case PhaseQuestioning:
		g.timeLeft -= delta
		if g.timeLeft > 0 {
			return Outcome{}, false
		}
		return g.resolve(PhaseTimeout), true
	}
	return Outcome{}, false
}

// Answer resolves the pending question with the chosen option index.
func (g *Gate) Answer(choice int) (Outcome, error) {
	if g.phase != PhaseQuestioning || g.current == nil {
		return Outcome{}, ErrNoQuestion
	}
	if choice < 0 || choice >= len(g.current.Options) {
		return Outcome{}, fmt.Errorf("%w: %d", ErrInvalidChoice, choice)
	}
	if g.current.Options[choice] == g.current.answer {
		return g.resolve(PhaseCorrect), nil
	}
	return g.resolve(PhaseIncorrect), nil
}

func (g *Gate) resolve(result Phase) Outcome {
	g.phase = result
	g.last = result
	g.current = nil
	g.timeLeft = 0
	g.schedule()

	switch result {
	case PhaseCorrect:
		return Outcome{Result: result, FuelDelta: FuelReward, ThrustEnabled: true}
	case PhaseIncorrect:
		return Outcome{Result: result, FuelDelta: -FuelPenalty, DampVelocity: true}
	default:
		return Outcome{Result: result, FuelDelta: -TimeoutPenalty, DampVelocity: true}
	}
}
