// Package sim provides the flight-dynamics core: integrator, hazards,
// orbital-insertion detection and the mission state machine.
package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an event is not allowed from the current state.
var ErrInvalidTransition = errors.New("invalid state transition")

// GameState is the mission progression state.
type GameState string

const (
	// StateReady is on the pad before launch.
	StateReady GameState = "ready"
	// StateFlying is any time after launch until a terminal outcome.
	StateFlying GameState = "flying"
	// StateOrbit is a successful insertion. Terminal until reset.
	StateOrbit GameState = "orbit"
	// StateCrashed is a destroyed vehicle. Terminal until reset.
	StateCrashed GameState = "crashed"
)

// Terminal reports whether the state only leaves via reset.
func (s GameState) Terminal() bool {
	return s == StateOrbit || s == StateCrashed
}

// Event drives GameState transitions.
type Event string

const (
	EventLaunch Event = "launch"
	EventInsert Event = "insert"
	EventCrash  Event = "crash"
	EventReset  Event = "reset"
)

var transitions = map[GameState]map[Event]GameState{
	StateReady:   {EventLaunch: StateFlying},
	StateFlying:  {EventInsert: StateOrbit, EventCrash: StateCrashed},
	StateOrbit:   {},
	StateCrashed: {},
}

// Machine owns the GameState. The state only changes through Fire.
type Machine struct {
	state GameState
}

// NewMachine returns a machine in StateReady.
func NewMachine() *Machine {
	return &Machine{state: StateReady}
}

// State returns the current state.
func (m *Machine) State() GameState {
	return m.state
}

// Can reports whether the event is allowed from the current state.
func (m *Machine) Can(ev Event) bool {
	if ev == EventReset {
		return true
	}
	_, ok := transitions[m.state][ev]
	return ok
}

// Fire applies an event. Reset is accepted from every state.
func (m *Machine) Fire(ev Event) (GameState, error) {
	if ev == EventReset {
		m.state = StateReady
		return m.state, nil
	}
	next, ok := transitions[m.state][ev]
	if !ok {
		return m.state, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, m.state)
	}
	m.state = next
	return next, nil
}
