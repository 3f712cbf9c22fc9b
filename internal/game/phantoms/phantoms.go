// Package phantoms simulates when the first group of two or more phantoms
// spawns for a player who has not slept.
package phantoms

import (
	"github.com/cory-johannsen/tridentbot/internal/game/random"
	"github.com/cory-johannsen/tridentbot/internal/game/ticks"
)

const (
	// FirstNight is the first night on which phantoms can spawn
	// (insomnia reaches 72000 ticks during it).
	FirstNight = 4

	// Spawn attempts happen in this window of each night, relative to the
	// night's reference tick.
	firstSpawnInNight ticks.Tick = 693
	lastSpawnInNight  ticks.Tick = 11307

	// insomniaThreshold is the time without sleep after which spawns roll.
	insomniaThreshold ticks.Tick = 72000

	// localDifficulty of a freshly generated world on normal difficulty.
	localDifficulty = 2.25

	// MinGroup is the smallest group reported by SpawnTime.
	MinGroup = 2
	maxGroup = 4
)

// nightStart returns the reference tick of the given night.
func nightStart(night int64) ticks.Tick {
	return ticks.Minutes(night*20 - 10)
}

// Window returns the first and last tick at which a spawn can be attempted
// during the given night.
func Window(night int64) (first, last ticks.Tick) {
	base := nightStart(night)
	return base + firstSpawnInNight, base + lastSpawnInNight
}

// SpawnTime simulates spawn attempts, starting on FirstNight, until a group
// of at least MinGroup phantoms spawns.
//
// Postcondition: spawns is in [MinGroup, 4] and the returned time lies inside
// Window(n) for some night n >= FirstNight.
func SpawnTime(src random.Source) (at ticks.Tick, spawns int) {
	night := int64(FirstNight)
	at, end := Window(night)

	for {
		at += ticks.Tick(random.Between(src, int64(ticks.PerMinute), int64(2*ticks.PerMinute)))
		if at > end {
			night++
			at, end = Window(night)
			continue
		}

		if random.FloatRange(src, 0, 3) >= localDifficulty {
			continue
		}
		insomnia := float64(at-insomniaThreshold) / float64(at)
		if src.Float64() > insomnia {
			continue
		}
		if n := int(random.Between(src, 1, maxGroup)); n >= MinGroup {
			return at, n
		}
	}
}
