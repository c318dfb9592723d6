package main

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"liftoff/pkg/mission"
	"liftoff/pkg/quiz"
	"liftoff/pkg/sim"
)

const (
	redrawInterval = 33 * time.Millisecond
	// axisHold is how long one arrow press keeps the stick deflected.
	// Terminals only report presses, so holding a key relies on key repeat.
	axisHold = 150 * time.Millisecond
)

// flightHost is the part of the host loop the cockpit drives.
type flightHost interface {
	GetTelemetry(ctx context.Context) (sim.Telemetry, error)
	GetState() sim.LinkState
	SetInput(in sim.Input)
	SelectMission(m mission.Config)
	Mission() mission.Config
	Reset()
	Answer(choice int) (quiz.Outcome, error)
	Boost() bool
	SetPaused(paused bool)
}

// axis is a stick deflection released after axisHold.
type axis struct {
	value float64
	until time.Time
}

func (a *axis) press(v float64, now time.Time) {
	a.value = v
	a.until = now.Add(axisHold)
}

func (a *axis) at(now time.Time) float64 {
	if now.After(a.until) {
		return 0
	}
	return a.value
}

type cockpit struct {
	screen  tcell.Screen
	host    flightHost
	catalog *mission.Catalog

	thrust bool
	pitch  axis
	roll   axis
	paused bool
	status string
	now    func() time.Time
}

func newCockpit(screen tcell.Screen, host flightHost, catalog *mission.Catalog) *cockpit {
	return &cockpit{
		screen:  screen,
		host:    host,
		catalog: catalog,
		now:     time.Now,
	}
}

func (c *cockpit) run() {
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !c.handleInput(ev) {
				return
			}
		case <-ticker.C:
			c.pushInput()
			tel, err := c.host.GetTelemetry(context.Background())
			if err != nil {
				return
			}
			c.draw(tel)
		}
	}
}

// pushInput sends the current stick and throttle to the host.
func (c *cockpit) pushInput() {
	now := c.now()
	c.host.SetInput(sim.Input{
		Thrust: c.thrust,
		Pitch:  c.pitch.at(now),
		Roll:   c.roll.at(now),
	})
}

// handleInput applies a key press. It returns false to quit.
func (c *cockpit) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		now := c.now()
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			c.pitch.press(1, now)
		case tcell.KeyDown:
			c.pitch.press(-1, now)
		case tcell.KeyLeft:
			c.roll.press(-1, now)
		case tcell.KeyRight:
			c.roll.press(1, now)
		case tcell.KeyRune:
			return c.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		c.screen.Sync()
	}
	return true
}

func (c *cockpit) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		c.thrust = !c.thrust
	case 'b':
		if c.host.Boost() {
			c.status = "Boost engaged"
		} else {
			c.status = "Boost unavailable"
		}
	case 'r':
		c.thrust = false
		c.host.Reset()
		c.status = "Reset"
	case 'm':
		c.thrust = false
		next := c.nextMission()
		c.host.SelectMission(next)
		c.status = "Mission: " + next.Name
	case 'p':
		c.paused = !c.paused
		c.host.SetPaused(c.paused)
	case '1', '2', '3':
		c.answer(int(r - '1'))
	}
	return true
}

func (c *cockpit) answer(choice int) {
	out, err := c.host.Answer(choice)
	switch {
	case errors.Is(err, quiz.ErrNoQuestion):
		c.status = "No question pending"
	case err != nil:
		c.status = err.Error()
	case out.Result == quiz.PhaseCorrect:
		c.status = "Correct! Fuel refunded"
	default:
		c.status = "Wrong answer"
	}
}

// nextMission cycles through the catalog in difficulty order.
func (c *cockpit) nextMission() mission.Config {
	names := c.catalog.Names()
	current := c.host.Mission().Name
	next := names[0]
	for i, n := range names {
		if n == current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	m, err := c.catalog.Get(next)
	if err != nil {
		return c.catalog.Default()
	}
	return m
}
