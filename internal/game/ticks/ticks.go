// Package ticks defines the game tick time unit and its human-readable
// renderings.
package ticks

import (
	"fmt"
	"math"
	"strings"
)

// Tick is the base game time unit, 1/20 of a second.
type Tick int64

// Unit conversions.
const (
	PerSecond Tick = 20
	PerMinute Tick = 60 * PerSecond
	PerHour   Tick = 60 * PerMinute

	// MillisPerTick is the wall-clock length of one tick.
	MillisPerTick = 50
)

// Minutes returns n minutes expressed in ticks.
func Minutes(n int64) Tick {
	return Tick(n) * PerMinute
}

// FromMinutes converts a fractional minute count to ticks, truncating toward
// zero. Negative and NaN inputs clamp to 0; counts too large for a Tick,
// including +Inf, saturate at math.MaxInt64.
func FromMinutes(minutes float64) Tick {
	if !(minutes > 0) {
		return 0
	}
	t := minutes * float64(PerMinute)
	if t >= math.MaxInt64 {
		return Tick(math.MaxInt64)
	}
	return Tick(t)
}

// FormatClock renders t as a clock reading "HH:MM:SS.mmm".
//
// Precondition: t >= 0.
// Postcondition: hours, minutes and seconds are zero padded to two digits and
// milliseconds to three.
func FormatClock(t Tick) string {
	hours := t / PerHour
	minutes := (t % PerHour) / PerMinute
	seconds := (t % PerMinute) / PerSecond
	millis := (t % PerSecond) * MillisPerTick
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// FormatDuration renders t as a phrase such as "3 minutes 1 second 4 ticks".
// Zero components are omitted; hours are folded into minutes.
//
// Precondition: t >= 0.
func FormatDuration(t Tick) string {
	minutes := t / PerMinute
	seconds := (t % PerMinute) / PerSecond
	rest := t % PerSecond

	parts := make([]string, 0, 3)
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if seconds > 0 {
		parts = append(parts, plural(seconds, "second"))
	}
	if rest > 0 {
		parts = append(parts, plural(rest, "tick"))
	}
	if len(parts) == 0 {
		return plural(0, "tick")
	}
	return strings.Join(parts, " ")
}

func plural(n Tick, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
