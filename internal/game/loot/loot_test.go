package loot_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tridentbot/internal/game/loot"
	"github.com/cory-johannsen/tridentbot/internal/game/random"
)

func TestDefault_Valid(t *testing.T) {
	c := loot.Default()
	require.NotNil(t, c)
	assert.Len(t, c.Biomes, 66)
	assert.Equal(t, int64(443_808_771_309), c.Biomes.Total())
	assert.Len(t, c.Cats, 10)
	assert.Len(t, c.AASSG.Stages, 4)
	assert.Len(t, c.Fishing, 3)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := loot.Load(strings.NewReader("fishing: []\nbogus: 1\n"))
	assert.Error(t, err)
}

func TestLoad_RejectsZeroWeight(t *testing.T) {
	doc := `
fishing:
  - name: fish
    weight: 1
    entries: [{ name: cod, weight: 1 }]
biomes: [{ name: Forest, weight: 0 }]
cats: [{ name: Red, weight: 1 }]
aassg:
  fallback: done
`
	_, err := loot.Load(strings.NewReader(doc))
	assert.ErrorContains(t, err, "biomes")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := loot.LoadFile("/nonexistent/content.yaml")
	assert.Error(t, err)
}

func TestTable_PickRespectsWeights(t *testing.T) {
	table := loot.Table{{Name: "never", Weight: 1}, {Name: "always", Weight: 1_000_000_000}}
	src := random.NewSeeded(1)
	for i := 0; i < 100; i++ {
		assert.Equal(t, "always", table.Pick(src))
	}
}

// TestTable_PickReturnsMember verifies Pick only ever returns a table entry.
func TestTable_PickReturnsMember(t *testing.T) {
	c := loot.Default()
	rapid.Check(t, func(rt *rapid.T) {
		src := random.NewSeeded(rapid.Int64().Draw(rt, "seed"))
		name := c.Biomes.Pick(src)
		found := false
		for _, e := range c.Biomes {
			found = found || e.Name == name
		}
		assert.True(rt, found, "unexpected biome %q", name)
	})
}

func TestRun_FallbackWhenNoStageHits(t *testing.T) {
	run := loot.Run{Fallback: "survived"}
	assert.Equal(t, "survived", run.Play(random.NewSeeded(1)))
}

func TestRun_CertainStage(t *testing.T) {
	run := loot.Run{
		Fallback: "survived",
		Stages:   []loot.Stage{{Name: "doom", Chance: 100, Outcomes: loot.Table{{Name: "died", Weight: 1}}}},
	}
	assert.NoError(t, run.Validate())
	assert.Equal(t, "died", run.Play(random.NewSeeded(1)))
}

func TestTridentDurability_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := loot.TridentDurability(random.NewSeeded(rapid.Int64().Draw(rt, "seed")))
		assert.GreaterOrEqual(rt, d, 0)
		assert.LessOrEqual(rt, d, loot.MaxTridentDurability)
	})
}

func TestTempleGunpowder_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := loot.TempleGunpowder(random.NewSeeded(rapid.Int64().Draw(rt, "seed")))
		assert.GreaterOrEqual(rt, g, 0)
		assert.LessOrEqual(rt, g, 16*8)
	})
}

func TestDrowned_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kills := rapid.IntRange(0, 500).Draw(rt, "kills")
		looting := rapid.IntRange(0, 3).Draw(rt, "looting")
		d := loot.Drowned(random.NewSeeded(rapid.Int64().Draw(rt, "seed")), kills, looting)

		assert.LessOrEqual(rt, d.RottenFlesh, kills*(1+looting))
		assert.LessOrEqual(rt, d.CopperIngots, kills)
		assert.LessOrEqual(rt, d.NautilusShells, kills)
		assert.LessOrEqual(rt, d.Tridents+d.FishingRods, kills)
	})
}

func TestBlazeKills(t *testing.T) {
	src := random.NewSeeded(8)
	assert.Equal(t, 0, loot.BlazeKills(src, 0, 0))
	kills := loot.BlazeKills(src, 7, 3)
	assert.GreaterOrEqual(t, kills, 2, "at most 4 rods per kill with looting 3")
}

func TestSkullKills_AtLeastOneKillPerSkull(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		skulls := rapid.IntRange(0, 10).Draw(rt, "skulls")
		kills := loot.SkullKills(random.NewSeeded(rapid.Int64().Draw(rt, "seed")), skulls, 3)
		assert.GreaterOrEqual(rt, kills, skulls)
	})
}

func TestAttempts(t *testing.T) {
	assert.Equal(t, 1, loot.Attempts(random.NewSeeded(1), 1000))
	assert.GreaterOrEqual(t, loot.Attempts(random.NewSeeded(1), 12), 1)
}

func TestSeedEyes_InRange(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		eyes := loot.SeedEyes(random.NewSeeded(seed))
		assert.GreaterOrEqual(t, eyes, 0)
		assert.LessOrEqual(t, eyes, 12)
	}
}

func TestTally_SumsToRolls(t *testing.T) {
	c := loot.Default()
	counts := loot.Tally(random.NewSeeded(5), c.Cats, 250)
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 250, total)
}

func TestAge_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		age := loot.Age(random.NewSeeded(rapid.Int64().Draw(rt, "seed")))
		assert.GreaterOrEqual(rt, age, 0)
		assert.LessOrEqual(rt, age, 100)
	})
}

func TestSeed_Deterministic(t *testing.T) {
	assert.Equal(t, loot.Seed(random.NewSeeded(3)), loot.Seed(random.NewSeeded(3)))
}
