package weather_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tridentbot/internal/game/random"
	"github.com/cory-johannsen/tridentbot/internal/game/ticks"
	"github.com/cory-johannsen/tridentbot/internal/game/weather"
)

// TestFirstThunder_Valid verifies every sample is a non-empty overlap that a
// real rain/thunder cycle pair could produce.
func TestFirstThunder_Valid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := random.NewSeeded(rapid.Int64().Draw(rt, "seed"))
		start, duration := weather.FirstThunder(src)

		assert.Greater(rt, duration, ticks.Tick(0))
		assert.Less(rt, duration, weather.MaxThunderDuration)
		assert.GreaterOrEqual(rt, start, weather.MinGap)
	})
}

func TestFirstThunder_Deterministic(t *testing.T) {
	s1, d1 := weather.FirstThunder(random.NewSeeded(99))
	s2, d2 := weather.FirstThunder(random.NewSeeded(99))
	assert.Equal(t, s1, s2)
	assert.Equal(t, d1, d2)
}

func TestThunderOdds_ZeroThreshold(t *testing.T) {
	assert.Equal(t, 0.0, weather.ThunderOdds(0, 10_000, random.NewSeeded(1)))
}

// No cycle can start before MinGap, so any threshold up to it is impossible.
func TestThunderOdds_BeforeFirstPossibleCycle(t *testing.T) {
	assert.Equal(t, 0.0, weather.ThunderOdds(weather.MinGap, 10_000, random.NewSeeded(2)))
}

func TestThunderOdds_NoTrials(t *testing.T) {
	assert.Equal(t, 0.0, weather.ThunderOdds(ticks.Minutes(60), 0, random.NewSeeded(3)))
	assert.Equal(t, 0.0, weather.ThunderOdds(ticks.Minutes(60), -5, random.NewSeeded(3)))
}

func TestThunderOdds_FarThresholdIsNearlyCertain(t *testing.T) {
	p := weather.ThunderOdds(ticks.Minutes(100*60), 10_000, random.NewSeeded(4))
	assert.Greater(t, p, 0.99)
	assert.LessOrEqual(t, p, 1.0)
}

func TestThunderOdds_SaturatedThresholdIsCertain(t *testing.T) {
	p := weather.ThunderOdds(ticks.FromMinutes(1e16), 1000, random.NewSeeded(1))
	assert.Equal(t, 1.0, p)
}

// TestThunderOdds_Monotonic checks the estimator is non-decreasing in the
// threshold within Monte Carlo tolerance.
func TestThunderOdds_Monotonic(t *testing.T) {
	if testing.Short() {
		t.Skip("monte carlo comparison skipped in short mode")
	}
	const trials = 100_000
	thresholds := []ticks.Tick{
		ticks.Minutes(30),
		ticks.Minutes(60),
		ticks.Minutes(120),
		ticks.Minutes(240),
	}
	prev := 0.0
	for i, threshold := range thresholds {
		p := weather.ThunderOdds(threshold, trials, random.NewSeeded(int64(100+i)))
		assert.GreaterOrEqual(t, p, prev-0.01, "odds at %s", ticks.FormatClock(threshold))
		assert.LessOrEqual(t, p, 1.0)
		prev = p
	}
}

func TestThunderOdds_InUnitInterval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		threshold := ticks.Tick(rapid.Int64Range(0, int64(ticks.Minutes(600))).Draw(rt, "threshold"))
		src := random.NewSeeded(rapid.Int64().Draw(rt, "seed"))
		p := weather.ThunderOdds(threshold, 200, src)
		assert.GreaterOrEqual(rt, p, 0.0)
		assert.LessOrEqual(rt, p, 1.0)
	})
}
