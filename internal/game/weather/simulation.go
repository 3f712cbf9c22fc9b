package weather

import (
	"github.com/cory-johannsen/tridentbot/internal/game/random"
	"github.com/cory-johannsen/tridentbot/internal/game/ticks"
)

// Cycle generation ranges. All ranges are half-open [min, max).
var (
	MinGap = ticks.Minutes(10) + 1
	MaxGap = ticks.Minutes(150)

	MinRainDuration = ticks.Minutes(10)
	MaxRainDuration = ticks.Minutes(20)

	MinThunderDuration = ticks.Minutes(3)
	MaxThunderDuration = ticks.Minutes(13)
)

// DefaultTrials is the number of Monte Carlo trials ThunderOdds callers use
// unless configured otherwise.
const DefaultTrials = 1_000_000

// stream describes how one weather stream draws its cycles.
type stream struct {
	minDuration ticks.Tick
	maxDuration ticks.Tick
}

var (
	rainStream    = stream{minDuration: MinRainDuration, maxDuration: MaxRainDuration}
	thunderStream = stream{minDuration: MinThunderDuration, maxDuration: MaxThunderDuration}
)

func drawTicks(src random.Source, lo, hi ticks.Tick) ticks.Tick {
	return ticks.Tick(random.Range(src, int64(lo), int64(hi)))
}

// first draws the opening cycle of the stream.
func (s stream) first(src random.Source) Cycle {
	return Cycle{
		Start:    drawTicks(src, MinGap, MaxGap),
		Duration: drawTicks(src, s.minDuration, s.maxDuration),
	}
}

// next draws the cycle following prev after a fresh gap.
func (s stream) next(src random.Source, prev Cycle) Cycle {
	return Cycle{
		Start:    prev.End() + drawTicks(src, MinGap, MaxGap),
		Duration: drawTicks(src, s.minDuration, s.maxDuration),
	}
}

// simulation is the transient state of one realization of both streams.
// It is created per run and discarded when the run ends.
type simulation struct {
	src     random.Source
	rain    Cycle
	thunder Cycle
}

func newSimulation(src random.Source) *simulation {
	s := &simulation{src: src}
	s.rain = rainStream.first(src)
	s.thunder = thunderStream.first(src)
	return s
}

// overlap returns the intersection of the current rain and thunder cycles.
func (s *simulation) overlap() Cycle {
	return Overlap(s.rain, s.thunder)
}

// advance replaces whichever current cycle started earlier with its
// successor. Rain advances on ties.
func (s *simulation) advance() {
	if s.rain.Start <= s.thunder.Start {
		s.rain = rainStream.next(s.src, s.rain)
	} else {
		s.thunder = thunderStream.next(s.src, s.thunder)
	}
}
