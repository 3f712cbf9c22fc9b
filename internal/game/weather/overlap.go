// Package weather simulates the interleaved rain and thunder cycles of the
// overworld and answers questions about the first thundering period.
//
// Thunder is only observable while it is also raining, so a "thundering
// period" is the overlap of a rain cycle and a thunder cycle.
package weather

import "github.com/cory-johannsen/tridentbot/internal/game/ticks"

// Cycle is one active interval of a rain or thunder stream.
//
// Invariant: Start >= 0 and Duration > 0 for every generated Cycle.
type Cycle struct {
	Start    ticks.Tick
	Duration ticks.Tick
}

// End returns the first tick after the cycle.
func (c Cycle) End() ticks.Tick {
	return c.Start + c.Duration
}

// OverlapDuration returns the length of the intersection of the half-open
// intervals [rainStart, rainStart+rainDuration) and
// [thunderStart, thunderStart+thunderDuration), or 0 if they are disjoint.
//
// Precondition: durations are > 0; a zero duration yields 0.
// Postcondition: 0 <= result <= min(rainDuration, thunderDuration) and the
// result is symmetric in its two intervals.
func OverlapDuration(rainStart, rainDuration, thunderStart, thunderDuration ticks.Tick) ticks.Tick {
	end := min(rainStart+rainDuration, thunderStart+thunderDuration)
	start := max(rainStart, thunderStart)
	if end <= start {
		return 0
	}
	return end - start
}

// OverlapStart returns the later of the two start ticks, which is where the
// intersection begins whenever it is non-empty.
func OverlapStart(rainStart, thunderStart ticks.Tick) ticks.Tick {
	return max(rainStart, thunderStart)
}

// Overlap returns the intersection of rain and thunder as a Cycle.
// Duration is 0 when they do not intersect.
func Overlap(rain, thunder Cycle) Cycle {
	return Cycle{
		Start:    OverlapStart(rain.Start, thunder.Start),
		Duration: OverlapDuration(rain.Start, rain.Duration, thunder.Start, thunder.Duration),
	}
}
