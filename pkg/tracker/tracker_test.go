package tracker

import (
	"sync"
	"testing"

	"liftoff/pkg/model"
)

func TestTracker(t *testing.T) {
	tr := New()
	mission := "Two-Stage Orbit"

	if stats := tr.Snapshot(); len(stats) != 0 {
		t.Errorf("Expected empty stats, got %d", len(stats))
	}

	tr.TrackLaunch(mission)
	tr.TrackStaging(mission)
	tr.TrackMalfunction(mission)
	tr.TrackOutcome(&model.FlightRecord{Mission: mission, Outcome: model.OutcomeCrashed, MaxAltitudeKm: 80})
	tr.TrackLaunch(mission)
	tr.TrackOutcome(&model.FlightRecord{Mission: mission, Outcome: model.OutcomeOrbit, MaxAltitudeKm: 1001, Duration: 140})
	tr.TrackLaunch(mission)
	tr.TrackOutcome(&model.FlightRecord{Mission: mission, Outcome: model.OutcomeOrbit, MaxAltitudeKm: 1000, Duration: 120})
	tr.TrackLaunch(mission)
	tr.TrackOutcome(&model.FlightRecord{Mission: mission, Outcome: model.OutcomeAbandoned, MaxAltitudeKm: 5})

	s, ok := tr.Snapshot()[mission]
	if !ok {
		t.Fatalf("Expected stats for mission %s", mission)
	}
	if s.Attempts != 4 {
		t.Errorf("Expected 4 attempts, got %d", s.Attempts)
	}
	if s.Orbits != 2 || s.Crashes != 1 || s.Abandoned != 1 {
		t.Errorf("Unexpected outcomes: %+v", s)
	}
	if s.Stagings != 1 || s.Malfunctions != 1 {
		t.Errorf("Unexpected hazard counts: %+v", s)
	}
	if s.BestAltitudeKm != 1001 {
		t.Errorf("Expected best altitude 1001, got %v", s.BestAltitudeKm)
	}
	if s.FastestOrbitS != 120 {
		t.Errorf("Expected fastest orbit 120s, got %v", s.FastestOrbitS)
	}
}

func TestTracker_Record(t *testing.T) {
	tr := New()
	tr.Record(&model.FlightRecord{
		Mission: "Precision Insertion", Outcome: model.OutcomeCrashed,
		StageSeparated: true, Malfunctions: 3, MaxAltitudeKm: 400,
	})

	s := tr.Snapshot()["Precision Insertion"]
	want := MissionStats{Attempts: 1, Crashes: 1, Stagings: 1, Malfunctions: 3, BestAltitudeKm: 400}
	if s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.TrackLaunch("Low Orbit")
			tr.TrackOutcome(&model.FlightRecord{Mission: "Low Orbit", Outcome: model.OutcomeOrbit, MaxAltitudeKm: 1000, Duration: 90})
		}()
	}
	wg.Wait()

	s := tr.Snapshot()["Low Orbit"]
	if s.Attempts != 50 || s.Orbits != 50 {
		t.Errorf("Expected 50 attempts and orbits, got %+v", s)
	}
}
