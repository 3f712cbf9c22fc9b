package loot

import "github.com/cory-johannsen/tridentbot/internal/game/random"

// MaxTridentDurability is the durability of an undamaged trident.
const MaxTridentDurability = 250

// TridentDurability rolls the durability of a trident dropped by a drowned:
// damage is uniform in [0, 250], then durability is uniform in [0, damage].
//
// Postcondition: result is in [0, MaxTridentDurability].
func TridentDurability(src random.Source) int {
	n := random.Between(src, 0, MaxTridentDurability)
	return int(random.Between(src, 0, n))
}

// TempleGunpowder rolls the gunpowder found in the four chests of a desert
// temple: 16 rolls, each a 10-in-50 hit for 1-8 gunpowder.
func TempleGunpowder(src random.Source) int {
	total := 0
	for i := 0; i < 16; i++ {
		if random.Between(src, 1, 50) <= 10 {
			total += int(random.Between(src, 1, 8))
		}
	}
	return total
}

// DrownedDrops is the combined loot of a batch of drowned kills.
type DrownedDrops struct {
	RottenFlesh    int
	CopperIngots   int
	NautilusShells int
	Tridents       int
	FishingRods    int
}

// Drowned simulates the drops of kills drowned killed with the given looting
// level.
//
// Precondition: looting <= 3.
func Drowned(src random.Source, kills, looting int) DrownedDrops {
	var d DrownedDrops
	for i := 0; i < kills; i++ {
		d.RottenFlesh += random.Intn(src, 2+looting)
		if random.Between(src, 1, 100) <= int64(11+looting) {
			d.CopperIngots++
		}
		if random.Between(src, 1, 10000) <= int64(85+looting*10) {
			if random.Intn(src, 16) < 10 {
				d.Tridents++
			} else {
				d.FishingRods++
			}
		}
		if random.Between(src, 1, 100) <= 3 {
			d.NautilusShells++
		}
	}
	return d
}

// BlazeKills returns how many blazes had to die to collect at least rods
// blaze rods with the given looting level.
func BlazeKills(src random.Source, rods, looting int) int {
	got, kills := 0, 0
	for got < rods {
		got += int(random.Between(src, 0, int64(1+looting)))
		kills++
	}
	return kills
}

// SkullKills returns how many wither skeletons had to die to collect skulls
// skulls with the given looting level.
func SkullKills(src random.Source, skulls, looting int) int {
	got, kills := 0, 0
	for got < skulls {
		if random.Between(src, 1, 1000) <= int64(25+looting*10) {
			got++
		}
		kills++
	}
	return kills
}

// Attempts returns the number of tries until a per-try chance of
// perMille/1000 first succeeds.
//
// Precondition: perMille in [1, 1000].
// Postcondition: result >= 1.
func Attempts(src random.Source, perMille int64) int {
	n := 1
	for random.Between(src, 1, 1000) > perMille {
		n++
	}
	return n
}

// SeedEyes returns the number of pre-filled eyes in a 12-frame end portal,
// each frame having a 1-in-10 chance.
func SeedEyes(src random.Source) int {
	eyes := 0
	for i := 0; i < 12; i++ {
		if random.Intn(src, 10) == 0 {
			eyes++
		}
	}
	return eyes
}

// Tally rolls table n times and counts each outcome, preserving table order.
//
// Precondition: t must have passed Validate().
func Tally(src random.Source, t Table, n int) []int {
	counts := make([]int, len(t))
	index := make(map[string]int, len(t))
	for i, e := range t {
		index[e.Name] = i
	}
	for i := 0; i < n; i++ {
		counts[index[t.Pick(src)]]++
	}
	return counts
}

// Age rolls an age in [0, 100].
func Age(src random.Source) int {
	return int(random.Between(src, 0, 100))
}

// Seed rolls a world seed over the full int64 range.
func Seed(src random.Source) int64 {
	return random.Int64(src)
}
