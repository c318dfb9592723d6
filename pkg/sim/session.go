package sim

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"liftoff/pkg/mission"
	"liftoff/pkg/model"
	"liftoff/pkg/quiz"
)

// EventRecorder receives notable flight events as they happen.
type EventRecorder interface {
	RecordEvent(ev model.FlightEvent)
}

// Option configures a Session.
type Option func(*Session)

// WithSource injects the random source. Defaults to a time-seeded source.
func WithSource(src Source) Option {
	return func(s *Session) { s.rng = src }
}

// WithRecorder attaches an event recorder.
func WithRecorder(r EventRecorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithQuiz enables the math-challenge gate.
func WithQuiz() Option {
	return func(s *Session) { s.quizEnabled = true }
}

// Session owns one vehicle and steps it frame by frame. It is not safe for
// concurrent use; hosts serialise access.
type Session struct {
	mission mission.Config
	params  Params
	fs      FlightState
	hz      HazardState
	machine *Machine

	rng         Source
	recorder    EventRecorder
	quizEnabled bool
	gate        *quiz.Gate
	climb       *ClimbRateBuffer

	elapsed      float64
	flightTime   float64
	sinceInsert  float64
	celebration  float64
	orbitView    bool
	insertStatus string
	crashReason  string
	inhibit      bool // thrust held off until the player releases it

	last Telemetry
}

// NewSession creates a session on the pad for the mission.
func NewSession(m mission.Config, p Params, opts ...Option) *Session {
	s := &Session{
		mission: m,
		params:  p,
		machine: NewMachine(),
		climb:   NewClimbRateBuffer(2),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewSource(uint64(time.Now().UnixNano()))
	}
	if s.quizEnabled {
		s.gate = quiz.NewGate(s.rng, m.Tier())
	}
	s.reset()
	return s
}

// Mission returns the selected mission.
func (s *Session) Mission() mission.Config { return s.mission }

// Params returns the physics parameters.
func (s *Session) Params() Params { return s.params }

// State returns a copy of the flight state.
func (s *Session) State() FlightState { return s.fs }

// Hazards returns a copy of the hazard state.
func (s *Session) Hazards() HazardState { return s.hz }

// GameState returns the mission state.
func (s *Session) GameState() GameState { return s.machine.State() }

// Telemetry returns the snapshot of the last frame.
func (s *Session) Telemetry() Telemetry { return s.last }

// SetParams replaces the tunables. Mass only changes on the pad.
func (s *Session) SetParams(p Params) {
	s.params = p
	if s.machine.State() == StateReady {
		s.fs.Mass = p.Mass
	}
	s.last = s.snapshot(false, 0, 0)
}

// SelectMission switches mission and resets the session.
func (s *Session) SelectMission(m mission.Config) {
	s.mission = m
	if s.gate != nil {
		s.gate.SetTier(m.Tier())
	}
	slog.Info("Mission selected", "mission", m.Name, "target_km", m.TargetAltitudeKm)
	s.Reset()
}

// Reset restores the mission's initial state.
func (s *Session) Reset() {
	if s.machine.State() == StateFlying {
		s.record(model.EventReset, "Flight abandoned", "")
	}
	s.reset()
}

func (s *Session) reset() {
	s.fs = InitialFlightState(s.mission, s.params)
	s.hz = NewHazardState()
	_, _ = s.machine.Fire(EventReset)
	if s.gate != nil {
		s.gate.Reset()
	}
	s.climb.Reset()
	s.elapsed = 0
	s.flightTime = 0
	s.sinceInsert = 0
	s.celebration = 0
	s.orbitView = false
	s.insertStatus = ""
	s.crashReason = ""
	s.inhibit = false
	s.last = s.snapshot(false, 0, 0)
}

// baseGravity is the mission gravity when set, the tunable otherwise.
func (s *Session) baseGravity() float64 {
	if s.mission.Gravity > 0 {
		return s.mission.Gravity
	}
	return s.params.Gravity
}

// TriggerBoost activates the boost if the vehicle is not done and the pool has fuel.
func (s *Session) TriggerBoost() bool {
	if s.machine.State().Terminal() {
		return false
	}
	if !s.hz.ActivateBoost() {
		return false
	}
	s.record(model.EventBoost, "Boost engaged", fmt.Sprintf("%.0f boost fuel", s.hz.Boost.FuelRemaining))
	return true
}

// AnswerQuestion answers the pending math challenge. A finished flight has
// no question to answer.
func (s *Session) AnswerQuestion(choice int) (quiz.Outcome, error) {
	if s.gate == nil || s.machine.State().Terminal() {
		return quiz.Outcome{}, quiz.ErrNoQuestion
	}
	out, err := s.gate.Answer(choice)
	if err != nil {
		return out, err
	}
	s.applyQuiz(out)
	return out, nil
}

func (s *Session) applyQuiz(out quiz.Outcome) {
	s.fs.Fuel = clamp(s.fs.Fuel+out.FuelDelta, 0, math.Max(s.mission.Fuel, 0))
	if out.DampVelocity {
		s.fs.DampVelocity(quiz.VelocityDamping)
	}
	s.inhibit = !out.ThrustEnabled

	switch out.Result {
	case quiz.PhaseCorrect:
		s.record(model.EventQuizCorrect, "Correct answer", fmt.Sprintf("+%.0f fuel", out.FuelDelta))
	case quiz.PhaseIncorrect:
		s.record(model.EventQuizIncorrect, "Wrong answer", fmt.Sprintf("%.0f fuel", out.FuelDelta))
	case quiz.PhaseTimeout:
		s.record(model.EventQuizTimeout, "Question timed out", fmt.Sprintf("%.0f fuel", out.FuelDelta))
	}
}

// Step advances the session by one frame and returns the new snapshot.
// Hazards update before integration; detectors run on the integrated position.
func (s *Session) Step(in Input, delta float64) Telemetry {
	delta = ClampDelta(delta)
	s.elapsed += delta

	if s.machine.State().Terminal() {
		s.tickCelebration(delta)
		s.last = s.snapshot(false, 0, 0)
		return s.last
	}

	thrust := in.Thrust
	if s.gate != nil {
		if out, fired := s.gate.Tick(delta, s.machine.State() != StateReady); fired {
			s.applyQuiz(out)
		}
		if s.gate.Pending() {
			thrust = false
		}
	}
	if s.inhibit {
		if !in.Thrust {
			s.inhibit = false
		}
		thrust = false
	}

	if s.machine.State() == StateReady {
		if !thrust || s.fs.Fuel <= 0 {
			s.fs.RotationX = UpdateRotation(s.fs.RotationX, in.Pitch)
			s.fs.RotationZ = UpdateRotation(s.fs.RotationZ, in.Roll)
			s.last = s.snapshot(false, 0, 0)
			return s.last
		}
		s.launch()
	}
	s.flightTime += delta

	feat := s.mission.Features
	altKm := s.fs.AltitudeKm()
	burning := thrust && s.fs.Fuel > 0

	started, cleared := s.hz.UpdateMalfunction(feat.EnableMalfunction, burning, delta, s.rng)
	if started {
		s.record(model.EventMalfunction, "Engine malfunction", fmt.Sprintf("engine cut for %.0fs", MalfunctionDuration))
	}
	if cleared {
		s.record(model.EventMalfunctionCleared, "Engine restored", "")
	}
	if s.hz.TryStage(feat.EnableStaging, altKm, thrust, s.mission.Fuel, &s.fs) {
		s.record(model.EventStaging, "Stage separation", fmt.Sprintf("stage 2 fuel %.0f", s.fs.Fuel))
	}
	s.hz.WindGust = WindGust(s.elapsed, s.mission.WindAmplitude)
	firing := burning && !s.hz.Malfunction.Active
	if s.hz.DrainBoost(firing, delta) {
		s.record(model.EventBoostDepleted, "Boost depleted", "")
	}
	mods := s.hz.Modifiers(altKm)

	s.fs.RotationX = UpdateRotation(s.fs.RotationX, in.Pitch)
	s.fs.RotationZ = UpdateRotation(s.fs.RotationZ, in.Roll)
	dir := ThrustDirection(s.fs.RotationX, s.fs.RotationZ)

	power := CalculateThrust(s.params.ThrustPower, thrust, s.fs.Fuel) * mods.ThrustMultiplier
	gravity := Gravity(s.baseGravity(), s.fs.PositionY)
	drag := s.params.DragCoefficient * mods.DragMultiplier
	inertia := Inertia(s.fs.Mass, s.fs.Fuel)

	accel := CalculateAcceleration(power*dir[1], gravity, drag, s.fs.Mass, s.fs.Fuel, s.fs.VerticalVelocity)
	drainRate := s.params.FuelConsumptionRate * mods.FuelRateFactor
	if s.params.UnlimitedFuel {
		drainRate = 0
	}
	res := UpdatePhysics(s.fs.VerticalVelocity, accel, s.fs.PositionY, delta, drainRate, thrust, s.fs.Fuel)
	s.fs.VerticalVelocity = res.Velocity
	s.fs.PositionY = res.Position
	s.fs.Fuel = res.Fuel

	s.fs.LateralVelocityX = UpdateLateral(s.fs.LateralVelocityX, (power*dir[0]+mods.WindX)/inertia, delta, altKm)
	s.fs.LateralVelocityZ = UpdateLateral(s.fs.LateralVelocityZ, (power*dir[2]+mods.WindZ)/inertia, delta, altKm)
	s.fs.PositionX += s.fs.LateralVelocityX * delta * FrameRate
	s.fs.PositionZ += s.fs.LateralVelocityZ * delta * FrameRate

	altKm = s.fs.AltitudeKm()
	speed := s.fs.SpeedKms()
	density := AtmosphericDensity(altKm)
	if feat.EnableTemperature {
		s.fs.Temperature = UpdateTemperature(s.fs.Temperature, speed, density, delta)
	}

	switch {
	case DetectCrash(s.machine.State(), altKm, speed, s.params.DragCoefficient):
		s.crash(CrashOverspeed, fmt.Sprintf("%.2f km/s exceeds %.2f km/s", speed, CrashThresholdKms(s.params.DragCoefficient)))
	case feat.EnableTemperature && s.fs.Temperature > MaxTemperatureC:
		s.crash(CrashOverheat, fmt.Sprintf("hull at %.0f C", s.fs.Temperature))
	default:
		ins := DetectInsertion(feat.EnablePrecisionOrbit, altKm, speed)
		s.insertStatus = ins.Status
		if ins.Success {
			s.insert(altKm, speed)
		}
	}

	if s.machine.State().Terminal() {
		s.last = s.snapshot(false, 0, 0)
		return s.last
	}
	s.last = s.snapshot(firing && power > 0, drainRate, accel)
	return s.last
}

func (s *Session) launch() {
	if _, err := s.machine.Fire(EventLaunch); err != nil {
		slog.Warn("Launch rejected", "error", err)
		return
	}
	slog.Info("Liftoff", "mission", s.mission.Name, "fuel", s.fs.Fuel)
	s.record(model.EventLaunch, "Liftoff", s.mission.Name)
}

func (s *Session) crash(reason, detail string) {
	if _, err := s.machine.Fire(EventCrash); err != nil {
		return
	}
	s.crashReason = reason
	s.insertStatus = ""
	s.endQuiz()
	slog.Info("Vehicle lost", "reason", reason, "altitude_km", s.fs.AltitudeKm(), "speed_kms", s.fs.SpeedKms())
	s.record(model.EventCrash, "Vehicle lost", reason+": "+detail)
}

func (s *Session) insert(altKm, speed float64) {
	if _, err := s.machine.Fire(EventInsert); err != nil {
		return
	}
	s.celebration = CelebrationDuration
	s.sinceInsert = 0
	s.orbitView = false
	s.endQuiz()
	slog.Info("Orbit achieved", "altitude_km", altKm, "speed_kms", speed)
	s.record(model.EventOrbit, "Orbit achieved", fmt.Sprintf("%.0f km at %.2f km/s", altKm, speed))
}

// endQuiz drops a question left open when the flight ends.
func (s *Session) endQuiz() {
	s.inhibit = false
	if s.gate != nil {
		s.gate.Reset()
	}
}

func (s *Session) tickCelebration(delta float64) {
	if s.machine.State() != StateOrbit {
		return
	}
	s.celebration = math.Max(0, s.celebration-delta)
	s.sinceInsert += delta
	if s.sinceInsert >= OrbitViewDelay {
		s.orbitView = true
	}
}

func (s *Session) record(typ, title, summary string) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordEvent(model.FlightEvent{
		Type:       typ,
		Title:      title,
		Summary:    summary,
		Elapsed:    s.flightTime,
		AltitudeKm: s.fs.AltitudeKm(),
		SpeedKms:   s.fs.SpeedKms(),
		Timestamp:  time.Now(),
	})
}

// snapshot builds the telemetry for the current state. accel is the frame's
// net vertical acceleration, gravity and inertia included.
func (s *Session) snapshot(firing bool, drainRate, accel float64) Telemetry {
	state := s.machine.State()
	altKm := s.fs.AltitudeKm()
	speed := s.fs.SpeedKms()
	density := AtmosphericDensity(altKm)
	base := s.baseGravity()

	t := Telemetry{
		Mission:             s.mission.Name,
		GameState:           state,
		Elapsed:             s.elapsed,
		FlightTime:          s.flightTime,
		AltitudeKm:          altKm,
		SpeedKms:            speed,
		PositionX:           s.fs.PositionX,
		PositionZ:           s.fs.PositionZ,
		RotationX:           s.fs.RotationX,
		RotationZ:           s.fs.RotationZ,
		Fuel:                s.fs.Fuel,
		Thrusting:           firing,
		ThrustBlocked:       s.inhibit || (s.gate != nil && s.gate.Pending()),
		MissionProgress:     s.mission.Progress(altKm),
		OrbitalInsertStatus: s.insertStatus,
		CrashReason:         s.crashReason,
		Celebrating:         s.celebration > 0,
		OrbitView:           s.orbitView,
		Mach:                speed / SpeedOfSoundKms,
		AtmosphericDensity:  density,
		TemperatureC:        s.fs.Temperature,
		ParticleScale:       s.params.ParticleScale,
		Hazards: HazardFlags{
			StageSeparated:      s.hz.StageSeparated,
			Malfunction:         s.hz.Malfunction.Active,
			MalfunctionTimeLeft: s.hz.Malfunction.TimeLeft,
			Boost:               s.hz.Boost.Active,
			BoostFuel:           s.hz.Boost.FuelRemaining,
			WindGust:            s.hz.WindGust,
		},
	}
	if s.mission.Fuel > 0 {
		t.FuelPercent = clamp(s.fs.Fuel/s.mission.Fuel*100, 0, 100)
	}
	if firing {
		t.FuelBurnRate = drainRate * FuelDrainFactor
	}

	switch {
	case state == StateReady:
		t.GForce = 1
	case base > 0:
		t.GForce = GForce(accel, base)
	}

	t.ApogeeKm = altKm
	if vy := s.fs.VerticalVelocity; vy > 0 && state == StateFlying {
		g := Gravity(base, s.fs.PositionY) / Inertia(s.fs.Mass, s.fs.Fuel)
		if g > 0 {
			t.ApogeeKm = AltitudeKm(s.fs.PositionY + vy*vy/(2*g))
		} else {
			t.Escaping = true
		}
	}
	if state == StateOrbit {
		t.PerigeeKm = altKm
	}

	if state != StateReady {
		t.ClimbRateKms = s.climb.Update(s.elapsed, altKm)
	}

	if s.gate != nil {
		st := s.gate.Status()
		t.Quiz = &st
	}
	return t
}
