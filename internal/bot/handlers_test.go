package bot_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/tridentbot/internal/bot"
	"github.com/cory-johannsen/tridentbot/internal/game/loot"
	"github.com/cory-johannsen/tridentbot/internal/game/phantoms"
	"github.com/cory-johannsen/tridentbot/internal/game/random"
	"github.com/cory-johannsen/tridentbot/internal/game/ticks"
	"github.com/cory-johannsen/tridentbot/internal/game/weather"
	"github.com/cory-johannsen/tridentbot/internal/storage"
)

func TestWeather(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	start, duration := weather.FirstThunder(seeded())
	want := fmt.Sprintf("First thunder will start at %s and will last %s.",
		ticks.FormatClock(start), ticks.FormatDuration(duration))
	assert.Equal(t, want, say(t, d, "!weather"))
}

func TestThunderOdds(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	assert.Equal(t, "Odds of thunder in first 0 minutes: ~0,0000%", say(t, d, "!thunderodds 0"))

	reply := say(t, d, "!thunderodds 2.5")
	assert.True(t, strings.HasPrefix(reply, "Odds of thunder in first 2,5 minutes: ~"), reply)
	assert.True(t, strings.HasSuffix(reply, "%"), reply)
	assert.NotContains(t, reply, ".")
}

func TestThunderOdds_HugeMinutesAreCertain(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	for _, line := range []string{"!thunderodds 1e16", "!thunderodds 1e300"} {
		reply := say(t, d, line)
		assert.True(t, strings.HasSuffix(reply, "minutes: ~100,0000%"), "%s: %s", line, reply)
	}
}

func TestThunderOdds_EnglishLocale(t *testing.T) {
	d := newDispatcher(t, &fakeStore{}, func(o *bot.Options) { o.Locale = language.English })

	assert.Equal(t, "Odds of thunder in first 0 minutes: ~0.0000%", say(t, d, "!thunderodds 0"))
}

func TestThunderOdds_InvalidSyntax(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	for _, line := range []string{"!thunderodds", "!thunderodds soon", "!thunderodds -1", "!thunderodds NaN", "!thunderodds +Inf"} {
		assert.Equal(t, "Error: Invalid syntax; !thunderodds {time in minutes}", say(t, d, line), line)
	}
}

func TestSkullOdds(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	assert.Equal(t,
		"Wither skeleton kills: 1; Looting level: 0; Odds of getting exactly 1 skull drops: ~2,50000000%; Odds of getting 1 or more skull drops: ~2,50000000%",
		say(t, d, "!skullodds 1 1 0"))

	reply := say(t, d, "!skullodds 0 10 3")
	assert.Contains(t, reply, "Odds of getting 0 or more skull drops: ~100,00000000%")
}

func TestSkullOdds_InvalidSyntax(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	want := "Error: Invalid syntax; !skullodds {drops} {kills} {looting level}"
	for _, line := range []string{
		"!skullodds",
		"!skullodds 1 2",
		"!skullodds 3 2 0",
		"!skullodds 1 2 4",
		"!skullodds 1 10001 0",
		"!skullodds a b c",
		"!skullodds -1 2 0",
	} {
		assert.Equal(t, want, say(t, d, line), line)
	}
}

func TestTridentOdds(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	assert.Equal(t, "Odds of getting 250 durability trident: 0,00158728%.", say(t, d, "!tridentodds 250"))

	reply := say(t, d, "!tridentodds 0")
	assert.True(t, strings.HasPrefix(reply, "Odds of getting exactly 0 durability trident: ~"), reply)
	assert.True(t, strings.HasSuffix(reply, "Odds of getting 0 or more durability trident: ~100,00000000%"), reply)

	assert.Equal(t, "Error: Invalid syntax; !tridentodds {durability}", say(t, d, "!tridentodds 251"))
}

func TestRollTrident_RecordsRoll(t *testing.T) {
	store := &fakeStore{}
	d := newDispatcher(t, store)

	durability := loot.TridentDurability(seeded())
	reply := say(t, d, "!rolltrident")
	if durability <= 1 {
		assert.Equal(t, fmt.Sprintf("Your trident has %d durability LULW !", durability), reply)
	} else {
		assert.Equal(t, fmt.Sprintf("Your trident has %d durability.", durability), reply)
	}
	require.Len(t, store.tridents, 1)
	assert.Equal(t, roll{userID: "1001", value: durability, at: testNow}, store.tridents[0])
}

func TestRollTrident_LowRollsAreMocked(t *testing.T) {
	// One seed rolling 0 or 1, one rolling higher.
	found := map[string]int64{}
	for seed := int64(0); seed < 5000 && len(found) < 2; seed++ {
		switch dur := loot.TridentDurability(random.NewSeeded(seed)); {
		case dur <= 1:
			found["low"] = seed
		default:
			found["high"] = seed
		}
	}
	require.Len(t, found, 2)

	for kind, seed := range found {
		d := newDispatcher(t, &fakeStore{}, func(o *bot.Options) {
			o.Random = func() random.Source { return random.NewSeeded(seed) }
		})
		reply := say(t, d, "!rolltrident")
		assert.Equal(t, kind == "low", strings.HasSuffix(reply, "LULW !"), reply)
	}
}

func TestRollGunpowder_RecordsRoll(t *testing.T) {
	store := &fakeStore{}
	d := newDispatcher(t, store)

	gunpowder := loot.TempleGunpowder(seeded())
	assert.Equal(t, fmt.Sprintf("You got %d gunpowder!", gunpowder), say(t, d, "!gp"))
	require.Len(t, store.gunpowder, 1)
	assert.Equal(t, roll{userID: "1001", value: gunpowder, at: testNow}, store.gunpowder[0])
}

func TestRollDrowned(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	drops := loot.Drowned(seeded(), 100, 3)
	want := fmt.Sprintf(
		"You got %d Rotten Flesh, %d Copper Ingots, %d Nautilus Shells, %d Tridents, %d Fishing Rods from killing 100 drowned with looting 3.",
		drops.RottenFlesh, drops.CopperIngots, drops.NautilusShells, drops.Tridents, drops.FishingRods)
	assert.Equal(t, want, say(t, d, "!rolldrowned 100 3"))

	usage := "Error: Invalid syntax; !rolldrowned {drowned} {looting level}"
	assert.Equal(t, usage, say(t, d, "!rolldrowned 100 4"))
	assert.Equal(t, usage, say(t, d, "!rolldrowned 10001 0"))
	assert.Equal(t, usage, say(t, d, "!rolldrowned 100"))
}

func TestFishingAndBiome(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})
	content := loot.Default()

	assert.Equal(t, "You caught "+content.Fishing.Pick(seeded()), say(t, d, "!fishinge"))
	assert.Equal(t, "You got "+content.Biomes.Pick(seeded())+"!", say(t, d, "!rollbiome"))
}

func TestRollCats(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	assert.Equal(t,
		"You got 0 Jellie, 0 Calico, 0 Red, 0 Tuxedo, 0 White, 0 Ragdoll, 0 British, 0 Tabby, 0 Persian, 0 Siamese.",
		say(t, d, "!rollcats 0"))

	counts := loot.Tally(seeded(), loot.Default().Cats, 25)
	reply := say(t, d, "!rollcats 25")
	assert.True(t, strings.HasPrefix(reply, fmt.Sprintf("You got %d Jellie, %d Calico,", counts[0], counts[1])), reply)

	assert.Equal(t, "Error: Invalid syntax; !rollcats {cats number}", say(t, d, "!rollcats many"))
}

func TestRollBlazeRodsAndSkulls(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	assert.Equal(t, "You got 0 blaze rods from killing 0 blazes with looting 0.", say(t, d, "!rollblazerods 0 0"))
	kills := loot.BlazeKills(seeded(), 7, 3)
	assert.Equal(t, fmt.Sprintf("You got 7 blaze rods from killing %d blazes with looting 3.", kills), say(t, d, "!rollblazerods 7 3"))

	kills = loot.SkullKills(seeded(), 3, 1)
	assert.Equal(t, fmt.Sprintf("You got 3 skulls from killing %d wither skeletons with looting 1.", kills), say(t, d, "!rollskulls 3 1"))

	assert.Equal(t, "Error: Invalid syntax; !rollskulls {skulls} {looting level}", say(t, d, "!rollskulls 3"))
	assert.Equal(t, "Error: Invalid syntax; !rollblazerods {rods} {looting level}", say(t, d, "!rollblazerods 3 9"))
}

func TestAttemptRolls(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	chests := loot.Attempts(seeded(), 12)
	assert.Equal(t, fmt.Sprintf("You needed to check only %d chests to get the Silence Trim!", chests), say(t, d, "!rollsilence"))

	src := seeded()
	vaults := loot.Attempts(src, 75)
	only := ""
	if random.Intn(src, 2) == 0 {
		only = " only"
	}
	assert.Equal(t, fmt.Sprintf("You needed to open%s %d Ominous Vaults to get the Heavy Core!", only, vaults), say(t, d, "!rollheavycore"))
}

func TestSeedAndAgeRolls(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	assert.Equal(t, fmt.Sprintf("Your seed is a %d eye.", loot.SeedEyes(seeded())), say(t, d, "!findseed"))
	assert.Equal(t, fmt.Sprintf("Your seed: %d.", loot.Seed(seeded())), say(t, d, "!rollseed"))
	assert.Equal(t, fmt.Sprintf("Oskar is %d years old.", loot.Age(seeded())), say(t, d, "!age"))
}

func TestRollAASSGAndPhantoms(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	assert.Equal(t, loot.Default().AASSG.Play(seeded()), say(t, d, "!rollaassg"))

	at, spawns := phantoms.SpawnTime(seeded())
	assert.Equal(t, fmt.Sprintf("You got %d phantoms spawn at %s!", spawns, ticks.FormatClock(at)), say(t, d, "!phantoms"))
}

func TestLeaderboards(t *testing.T) {
	store := &fakeStore{rows: []storage.Count{{Name: "alice", Value: 3}, {Name: "Bob", Value: 2}}}
	d := newDispatcher(t, store)

	cases := map[string]string{
		"!topcommands":         "Top 3 most used commands: !alice: 3 uses; !Bob: 2 uses;",
		"!topchatters":         "Top 3 chatters: alice: 3 messages; Bob: 2 messages;",
		"!topspammers":         "Top 3 command spammers: alice: 3 command uses; Bob: 2 command uses;",
		"!tridentjuicers":      "Top 3 best trident rolls: alice - 3; Bob - 2;",
		"!dailytridentjuicers": "Top 3 best trident rolls in last 24 hours: alice - 3; Bob - 2;",
		"!tridentnoobs":        "Top 3 chatters with most 0 durability trident rolls: alice - 3; Bob - 2;",
		"!gpjuicers":           "Top 3 best desert temple gunpowder rolls: alice - 3; Bob - 2;",
	}
	for line, want := range cases {
		assert.Equal(t, want, say(t, d, line), line)
		assert.Equal(t, 3, store.limit, line)
	}
}

func TestLeaderboards_Empty(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	assert.Equal(t, "Top 3 chatters:", say(t, d, "!topchatters"))
}

func TestTridentTop_Window(t *testing.T) {
	store := &fakeStore{}
	d := newDispatcher(t, store)

	say(t, d, "!tridentjuicers")
	assert.True(t, store.since.IsZero())

	say(t, d, "!dailytridentjuicers")
	assert.Equal(t, testNow.Add(-24*time.Hour), store.since)
}

func TestLeaderboards_StorageFailure(t *testing.T) {
	d := newDispatcher(t, &fakeStore{err: errors.New("no such table: users")})

	for _, line := range []string{"!topchatters", "!gpjuicers", "!commandstats weather"} {
		assert.Equal(t, "Error: Couldn't get the statistics.", say(t, d, line), line)
	}
}

func TestCommandStats(t *testing.T) {
	store := &fakeStore{rows: []storage.Count{{Name: "alice", Value: 2}}, total: 3}
	d := newDispatcher(t, store)

	assert.Equal(t, "Top 3 users with most !rolltrident uses: alice: 2 uses; Total uses: 3.", say(t, d, "!commandstats !trident"))
	assert.Equal(t, "rolltrident", store.lastName)

	say(t, d, "!commandstats WEATHER")
	assert.Equal(t, "weather", store.lastName)

	say(t, d, "!commandstats !nosuchcommand")
	assert.Equal(t, "nosuchcommand", store.lastName)

	assert.Equal(t, "Error: Invalid syntax; !commandstats {command name}", say(t, d, "!commandstats"))
	assert.Equal(t, "Error: Invalid syntax; !commandstats {command name}", say(t, d, "!commandstats !"))
}

func TestRaid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raids.txt")
	require.NoError(t, os.WriteFile(path, []byte("Raid one\nRaid two\n"), 0o644))
	d := newDispatcher(t, &fakeStore{}, func(o *bot.Options) { o.RaidFile = path })

	assert.Equal(t, "Raid one\nRaid two", say(t, d, "!raid"))

	require.NoError(t, os.WriteFile(path, []byte("Updated\n"), 0o644))
	assert.Equal(t, "Updated", say(t, d, "!raid"), "the file is read on every invocation")
}

func TestRaid_MissingFile(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	assert.Equal(t, "Error: Couldn't get the raids.", say(t, d, "!raid"))
}
