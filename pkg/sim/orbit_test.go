package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectInsertion_Simple(t *testing.T) {
	assert.False(t, DetectInsertion(false, 999.9, 0).Success)
	assert.True(t, DetectInsertion(false, 1000.0, 0).Success)
	assert.True(t, DetectInsertion(false, 2000, 20).Success)
	assert.Empty(t, DetectInsertion(false, 500, 3).Status)
}

func TestDetectInsertion_Precision(t *testing.T) {
	tests := []struct {
		name       string
		alt, speed float64
		success    bool
		status     string
	}{
		{"in window", 1000, 7.8, true, "ORBIT ACHIEVED"},
		{"too fast", 1000, 9.0, false, "ALT 1000 km | SPD 9.00 km/s"},
		{"too slow", 960, 7.0, false, "ALT 960 km | SPD 7.00 km/s"},
		{"band edges inclusive", 950, 8.2, true, "ORBIT ACHIEVED"},
		{"below band", 949, 7.8, false, ""},
		{"above band", 1051, 7.8, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectInsertion(true, tt.alt, tt.speed)
			assert.Equal(t, tt.success, got.Success)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestCrashThreshold(t *testing.T) {
	assert.InDelta(t, MaxSpeedKms, CrashThresholdKms(ReferenceDrag), 1e-9)
	assert.Less(t, CrashThresholdKms(0.0002), CrashThresholdKms(0.0001), "more drag tolerates less speed")
	assert.True(t, math.IsInf(CrashThresholdKms(0), 1))
}

func TestDetectCrash(t *testing.T) {
	assert.True(t, DetectCrash(StateFlying, 50, 12, ReferenceDrag))
	assert.False(t, DetectCrash(StateFlying, 50, 11, ReferenceDrag))
	assert.False(t, DetectCrash(StateFlying, 100, 50, ReferenceDrag), "outside the atmosphere")
	assert.False(t, DetectCrash(StateReady, 0, 50, ReferenceDrag))
	assert.False(t, DetectCrash(StateOrbit, 50, 50, ReferenceDrag))
	assert.False(t, DetectCrash(StateFlying, 50, 1000, 0))
}

func TestUpdateTemperature(t *testing.T) {
	assert.Equal(t, AmbientTempC, UpdateTemperature(AmbientTempC, 0, 1, 0.05))

	hot := UpdateTemperature(AmbientTempC, 10, 1, 1)
	assert.Greater(t, hot, AmbientTempC)

	cooled := UpdateTemperature(1000, 0, 1, 1)
	assert.Less(t, cooled, 1000.0)
	assert.GreaterOrEqual(t, cooled, AmbientTempC)
}
