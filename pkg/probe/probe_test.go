package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftoff/pkg/mission"
)

type fakeDB struct{ err error }

func (f fakeDB) PingContext(ctx context.Context) error { return f.err }

func TestRun(t *testing.T) {
	probes := []Probe{
		{
			Name:     "Success Probe",
			Check:    func(ctx context.Context) error { return nil },
			Critical: true,
		},
		{
			Name:  "Failure Probe (Non-Critical)",
			Check: func(ctx context.Context) error { return errors.New("minor issue") },
		},
		{
			Name: "Deadline Probe",
			Check: func(ctx context.Context) error {
				if _, ok := ctx.Deadline(); !ok {
					return errors.New("no deadline")
				}
				return nil
			},
		},
	}

	results := Run(context.Background(), probes)
	require.Len(t, results, 3)
	assert.True(t, results[0].Passed())
	assert.False(t, results[1].Passed())
	assert.True(t, results[2].Passed(), "each check runs with a timeout")
}

func TestAnalyzeResults(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		wantErr bool
	}{
		{
			name:    "All Pass",
			results: []Result{{Probe: Probe{Name: "P1", Critical: true}}},
		},
		{
			name:    "Critical Failure",
			results: []Result{{Probe: Probe{Name: "P1", Critical: true}, Error: errors.New("fail")}},
			wantErr: true,
		},
		{
			name:    "Non-Critical Failure",
			results: []Result{{Probe: Probe{Name: "P1"}, Error: errors.New("fail")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AnalyzeResults(tt.results)
			if (err != nil) != tt.wantErr {
				t.Errorf("AnalyzeResults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLiftoffProbes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	catalog := mission.DefaultCatalog()

	assert.NoError(t, Database(fakeDB{}).Check(ctx))
	assert.Error(t, Database(fakeDB{err: errors.New("locked")}).Check(ctx))
	assert.True(t, Database(fakeDB{}).Critical)

	assert.NoError(t, Mission(catalog, "low orbit").Check(ctx))
	err := Mission(catalog, "Mars").Check(ctx)
	assert.ErrorIs(t, err, mission.ErrUnknownMission)
	assert.False(t, Mission(catalog, "Mars").Critical)

	assert.NoError(t, Writable("Logs", dir, true).Check(ctx))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file removed")

	assert.Error(t, Writable("Logs", filepath.Join(dir, "missing"), true).Check(ctx))
}
