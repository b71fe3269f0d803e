package lifegrid

import (
	"fmt"
	"math/rand"
)

// Default seeding thresholds: ~12% of cells start alive, split evenly
// across pure red, green, and blue.
const (
	DefaultRedThreshold   = 0.04
	DefaultGreenThreshold = 0.08
	DefaultBlueThreshold  = 0.12
)

// Thresholds partitions the uniform sample space [0, 1) for initial
// population. A sample below Red seeds a pure red cell, below Green pure
// green, below Blue pure blue; anything else is dead.
type Thresholds struct {
	Red   float64
	Green float64
	Blue  float64
}

// DefaultThresholds returns the default seeding densities.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Red:   DefaultRedThreshold,
		Green: DefaultGreenThreshold,
		Blue:  DefaultBlueThreshold,
	}
}

// Validate checks that the thresholds are ascending values in [0, 1].
func (t Thresholds) Validate() error {
	if t.Red < 0 || t.Red > t.Green || t.Green > t.Blue || t.Blue > 1 {
		return fmt.Errorf("%w: red=%v green=%v blue=%v", ErrInvalidThresholds, t.Red, t.Green, t.Blue)
	}
	return nil
}

// Seed fills dst with the initial population: one uniform sample per cell,
// classified by the thresholds. Seeding runs exactly once per engine, on
// buffer A only; buffer B starts undefined and is first written by the
// first transition step.
func Seed(dst []Cell, rng *rand.Rand, t Thresholds) {
	for i := range dst {
		r := rng.Float64()
		switch {
		case r < t.Red:
			dst[i] = Red
		case r < t.Green:
			dst[i] = Green
		case r < t.Blue:
			dst[i] = Blue
		default:
			dst[i] = 0
		}
	}
}
