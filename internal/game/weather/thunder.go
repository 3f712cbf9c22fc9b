package weather

import (
	"github.com/cory-johannsen/tridentbot/internal/game/random"
	"github.com/cory-johannsen/tridentbot/internal/game/ticks"
)

// FirstThunder simulates one realization of the weather streams and returns
// the start and duration of the first thundering period.
//
// The loop has no upper bound on simulated time; it terminates with
// probability 1 because every gap and duration range has positive width.
//
// Postcondition: duration > 0 and duration <= MaxThunderDuration.
func FirstThunder(src random.Source) (start, duration ticks.Tick) {
	sim := newSimulation(src)
	for {
		o := sim.overlap()
		if o.Duration > 0 {
			return o.Start, o.Duration
		}
		sim.advance()
	}
}

// ThunderOdds estimates the probability that the first thundering period
// begins before threshold, using trials independent realizations.
//
// A trial gives up as soon as the current rain or thunder cycle starts at or
// after threshold.
//
// Postcondition: result is in [0, 1]; ThunderOdds(0, n, src) == 0; trials <= 0
// yields 0.
func ThunderOdds(threshold ticks.Tick, trials int, src random.Source) float64 {
	if trials <= 0 {
		return 0
	}

	successes := 0
	for i := 0; i < trials; i++ {
		if thundersBefore(threshold, src) {
			successes++
		}
	}
	return float64(successes) / float64(trials)
}

// thundersBefore runs a single trial of ThunderOdds.
func thundersBefore(threshold ticks.Tick, src random.Source) bool {
	sim := newSimulation(src)
	for {
		o := sim.overlap()
		if o.Duration > 0 && o.Start < threshold {
			return true
		}
		if sim.thunder.Start >= threshold || sim.rain.Start >= threshold {
			return false
		}
		sim.advance()
	}
}
