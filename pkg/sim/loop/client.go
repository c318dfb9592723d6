// Package loop hosts a flight session on its own goroutine and steps it at a
// fixed frame rate.
package loop

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"liftoff/pkg/geo"
	"liftoff/pkg/logging"
	"liftoff/pkg/mission"
	"liftoff/pkg/quiz"
	"liftoff/pkg/sim"
)

// Config holds the host loop configuration.
type Config struct {
	Frame     time.Duration // tick interval, also the fixed step delta
	Mission   mission.Config
	Params    sim.Params
	Seed      uint64 // 0 seeds from the clock
	Quiz      bool
	Autopilot bool
	Launch    geo.Point
	Recorder  sim.EventRecorder
	Observer  Observer
}

// Observer sees every frame snapshot right after it is produced.
type Observer interface {
	Observe(tel sim.Telemetry)
}

// Client implements sim.Controller.
type Client struct {
	mu      sync.Mutex
	session *sim.Session
	input   sim.Input
	tel     sim.Telemetry
	paused  bool
	stopped bool
	frame   time.Duration
	pilot   *Autopilot
	track   *geo.GroundTrack
	obs     Observer

	stopCh    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ sim.Controller = (*Client)(nil)

// NewClient creates the session and starts the frame loop.
func NewClient(cfg Config) *Client {
	c := newClient(cfg)
	c.wg.Add(1)
	go c.frameLoop()
	return c
}

func newClient(cfg Config) *Client {
	if cfg.Frame <= 0 {
		cfg.Frame = 16 * time.Millisecond
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	opts := []sim.Option{sim.WithSource(sim.NewSource(seed))}
	if cfg.Recorder != nil {
		opts = append(opts, sim.WithRecorder(cfg.Recorder))
	}
	if cfg.Quiz {
		opts = append(opts, sim.WithQuiz())
	}

	c := &Client{
		session: sim.NewSession(cfg.Mission, cfg.Params, opts...),
		frame:   cfg.Frame,
		track:   geo.NewGroundTrack(cfg.Launch, 0.05),
		obs:     cfg.Observer,
		stopCh:  make(chan struct{}),
	}
	if cfg.Autopilot {
		c.pilot = NewAutopilot(DefaultScenario())
	}
	c.tel = c.decorate(c.session.Telemetry())

	slog.Info("Flight loop ready",
		"mission", cfg.Mission.Name,
		"frame", cfg.Frame,
		"quiz", cfg.Quiz,
		"autopilot", cfg.Autopilot)
	return c
}

// GetTelemetry returns the latest frame snapshot.
func (c *Client) GetTelemetry(ctx context.Context) (sim.Telemetry, error) {
	if err := ctx.Err(); err != nil {
		return sim.Telemetry{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return c.tel, sim.ErrNotRunning
	}
	return c.tel, nil
}

// GetState returns the loop state.
func (c *Client) GetState() sim.LinkState {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.stopped:
		return sim.LinkStopped
	case c.paused:
		return sim.LinkPaused
	}
	return sim.LinkRunning
}

// SetInput replaces the player input used for the following frames.
func (c *Client) SetInput(in sim.Input) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = in
}

// SetPaused stops or resumes stepping.
func (c *Client) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = paused
}

// SetParams replaces the physics tunables.
func (c *Client) SetParams(p sim.Params) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.SetParams(p)
	c.tel = c.decorate(c.session.Telemetry())
}

// Params returns the current physics tunables.
func (c *Client) Params() sim.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Params()
}

// Mission returns the selected mission.
func (c *Client) Mission() mission.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Mission()
}

// SelectMission switches mission and resets.
func (c *Client) SelectMission(m mission.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.SelectMission(m)
	c.afterReset()
}

// Reset restores the mission's initial state.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Reset()
	c.afterReset()
}

func (c *Client) afterReset() {
	c.input = sim.Input{}
	c.track.Reset()
	if c.pilot != nil {
		c.pilot.Restart()
	}
	c.tel = c.decorate(c.session.Telemetry())
}

// Answer answers the pending math challenge.
func (c *Client) Answer(choice int) (quiz.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, err := c.session.AnswerQuestion(choice)
	if err == nil {
		c.tel = c.decorate(c.session.Telemetry())
	}
	return out, err
}

// Boost engages the boost.
func (c *Client) Boost() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.TriggerBoost()
}

// Track returns the ground track of the current flight.
func (c *Client) Track() *geo.GroundTrack {
	return c.track
}

// Close stops the frame loop.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopCh)
		c.wg.Wait()
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()
	})
	return nil
}

func (c *Client) frameLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.frame)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.update()
		}
	}
}

func (c *Client) update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}

	dt := c.frame.Seconds()
	in := c.input
	if c.pilot != nil {
		in = c.fly(dt)
	}
	c.tel = c.decorate(c.session.Step(in, dt))
	logging.Trace("Frame",
		"state", c.tel.GameState,
		"alt_km", c.tel.AltitudeKm,
		"speed_kms", c.tel.SpeedKms,
		"fuel", c.tel.Fuel)
	if c.obs != nil {
		c.obs.Observe(c.tel)
	}
}

// fly lets the autopilot drive the session for one frame.
func (c *Client) fly(dt float64) sim.Input {
	cmd := c.pilot.Next(c.tel, dt)
	if cmd.Boost {
		c.session.TriggerBoost()
	}
	if cmd.Answer && c.tel.Quiz != nil && c.tel.Quiz.Question != nil {
		if _, err := c.session.AnswerQuestion(c.tel.Quiz.Question.CorrectIndex()); err != nil {
			slog.Debug("Autopilot answer rejected", "error", err)
		}
	}
	if cmd.Reset {
		c.session.Reset()
		c.track.Reset()
		c.pilot.Restart()
	}
	return cmd.Input
}

// decorate adds the ground track position to a snapshot.
func (c *Client) decorate(t sim.Telemetry) sim.Telemetry {
	p := c.track.Push(t.PositionX*sim.ScaleFactor, t.PositionZ*sim.ScaleFactor)
	t.Latitude = p.Lat
	t.Longitude = p.Lon
	t.DownrangeKm = c.track.DownrangeKm()
	t.Heading = c.track.Heading(10)
	return t
}
