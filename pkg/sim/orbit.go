package sim

import (
	"fmt"
	"math"
)

// Crash reasons.
const (
	CrashOverspeed = "overspeed"
	CrashOverheat  = "overheat"
)

// Insertion is the orbital-insertion verdict for one frame.
type Insertion struct {
	Success bool
	Status  string
}

// DetectInsertion evaluates altitude and speed against the orbit window.
// Precision mode needs both readings inside the window and reports the
// readings while the vehicle is in the altitude band. Simple mode is altitude only.
func DetectInsertion(precision bool, altKm, speedKms float64) Insertion {
	if !precision {
		return Insertion{Success: altKm >= SimpleOrbitKm}
	}
	if altKm < PrecisionMinKm || altKm > PrecisionMaxKm {
		return Insertion{}
	}
	if speedKms >= PrecisionMinKms && speedKms <= PrecisionMaxKms {
		return Insertion{Success: true, Status: "ORBIT ACHIEVED"}
	}
	return Insertion{Status: fmt.Sprintf("ALT %.0f km | SPD %.2f km/s", altKm, speedKms)}
}

// CrashThresholdKms is the tolerated in-atmosphere speed. More configured
// drag lowers it.
func CrashThresholdKms(drag float64) float64 {
	if drag <= 0 {
		return math.Inf(1)
	}
	return MaxSpeedKms * (ReferenceDrag / drag)
}

// DetectCrash reports whether the vehicle breaks up inside the atmosphere.
func DetectCrash(state GameState, altKm, speedKms, drag float64) bool {
	return state == StateFlying && altKm < AtmosphereTopKm && speedKms > CrashThresholdKms(drag)
}

// UpdateTemperature advances hull temperature by one frame.
func UpdateTemperature(temp, speedKms, density, delta float64) float64 {
	heating := speedKms * speedKms * density * HeatingRate
	cooling := CoolingRate * (temp - AmbientTempC)
	return math.Max(AmbientTempC, temp+(heating-cooling)*delta)
}
