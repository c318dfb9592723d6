// Package probe runs the startup checks of the flight server.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"liftoff/pkg/mission"
)

// checkTimeout bounds a single check.
const checkTimeout = 5 * time.Second

// CheckFunc returns nil when the check passes.
type CheckFunc func(ctx context.Context) error

// Probe is a single startup check.
type Probe struct {
	Name     string
	Check    CheckFunc
	Critical bool // a failure aborts startup
}

// Result holds the outcome of a single probe.
type Result struct {
	Probe    Probe
	Error    error
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (r Result) Passed() bool { return r.Error == nil }

// Run executes the probes in order.
func Run(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, len(probes))
	for i, p := range probes {
		start := time.Now()
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := p.Check(checkCtx)
		cancel()

		results[i] = Result{Probe: p, Error: err, Duration: time.Since(start)}
	}
	return results
}

// AnalyzeResults logs a summary line per probe and joins the critical failures.
func AnalyzeResults(results []Result) error {
	var critical []error

	slog.Info("Startup Checks Summary", "checks", len(results))
	for _, r := range results {
		status := "PASS"
		if !r.Passed() {
			status = "FAIL"
		}
		msg := fmt.Sprintf("[%s] %-20s (%v)", status, r.Probe.Name, r.Duration.Round(time.Millisecond))

		switch {
		case r.Passed():
			slog.Info(msg)
		case r.Probe.Critical:
			slog.Error(msg, "error", r.Error)
			critical = append(critical, fmt.Errorf("%s: %w", r.Probe.Name, r.Error))
		default:
			slog.Warn(msg, "error", r.Error)
		}
	}
	return errors.Join(critical...)
}

// Pinger is a database handle that can be pinged.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Database checks the flight log database answers.
func Database(db Pinger) Probe {
	return Probe{
		Name:     "Flight Log Database",
		Critical: true,
		Check:    db.PingContext,
	}
}

// Mission checks the configured mission exists. The server falls back to the
// catalog default, so the check is not critical.
func Mission(catalog *mission.Catalog, name string) Probe {
	return Probe{
		Name: "Mission Catalog",
		Check: func(ctx context.Context) error {
			_, err := catalog.Get(name)
			return err
		},
	}
}

// Writable checks a file can be created in dir.
func Writable(name, dir string, critical bool) Probe {
	return Probe{
		Name:     name,
		Critical: critical,
		Check: func(ctx context.Context) error {
			f, err := os.CreateTemp(dir, ".probe-*")
			if err != nil {
				return err
			}
			path := f.Name()
			f.Close()
			return os.Remove(path)
		},
	}
}
