package bot

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tridentbot/internal/game/loot"
	"github.com/cory-johannsen/tridentbot/internal/game/odds"
	"github.com/cory-johannsen/tridentbot/internal/game/random"
)

// Per-mille chances of the attempt-count rolls.
const (
	silenceTrimPerMille = 12
	heavyCorePerMille   = 75
)

func (d *Dispatcher) rollTrident(req *request) (string, error) {
	durability := loot.TridentDurability(req.src)
	if err := d.store.RecordTridentRoll(req.ctx, req.msg.UserID, durability, d.opts.Now()); err != nil {
		req.logger.Warn("recording trident roll", zap.Int("durability", durability), zap.Error(err))
	}
	if durability <= 1 {
		return fmt.Sprintf("Your trident has %d durability LULW !", durability), nil
	}
	return fmt.Sprintf("Your trident has %d durability.", durability), nil
}

func (d *Dispatcher) rollGunpowder(req *request) (string, error) {
	gunpowder := loot.TempleGunpowder(req.src)
	if err := d.store.RecordGunpowderRoll(req.ctx, req.msg.UserID, gunpowder, d.opts.Now()); err != nil {
		req.logger.Warn("recording gunpowder roll", zap.Int("gunpowder", gunpowder), zap.Error(err))
	}
	return fmt.Sprintf("You got %d gunpowder!", gunpowder), nil
}

func (d *Dispatcher) rollDrowned(req *request) (string, error) {
	v, err := uintArgs(req.args, MaxRolls, odds.MaxLooting)
	if err != nil {
		return "", err
	}
	kills, looting := int(v[0]), int(v[1])
	drops := loot.Drowned(req.src, kills, looting)
	return fmt.Sprintf(
		"You got %d Rotten Flesh, %d Copper Ingots, %d Nautilus Shells, %d Tridents, %d Fishing Rods from killing %d drowned with looting %d.",
		drops.RottenFlesh, drops.CopperIngots, drops.NautilusShells, drops.Tridents, drops.FishingRods, kills, looting,
	), nil
}

func (d *Dispatcher) fishing(req *request) (string, error) {
	return "You caught " + d.opts.Content.Fishing.Pick(req.src), nil
}

func (d *Dispatcher) rollBiome(req *request) (string, error) {
	return fmt.Sprintf("You got %s!", d.opts.Content.Biomes.Pick(req.src)), nil
}

func (d *Dispatcher) rollCats(req *request) (string, error) {
	v, err := uintArgs(req.args, MaxRolls)
	if err != nil {
		return "", err
	}
	cats := d.opts.Content.Cats
	counts := loot.Tally(req.src, cats, int(v[0]))
	parts := make([]string, len(cats))
	for i, e := range cats {
		parts[i] = fmt.Sprintf("%d %s", counts[i], e.Name)
	}
	return "You got " + strings.Join(parts, ", ") + ".", nil
}

func (d *Dispatcher) rollBlazeRods(req *request) (string, error) {
	v, err := uintArgs(req.args, MaxRolls, odds.MaxLooting)
	if err != nil {
		return "", err
	}
	rods, looting := int(v[0]), int(v[1])
	kills := loot.BlazeKills(req.src, rods, looting)
	return fmt.Sprintf("You got %d blaze rods from killing %d blazes with looting %d.", rods, kills, looting), nil
}

func (d *Dispatcher) rollSkulls(req *request) (string, error) {
	v, err := uintArgs(req.args, MaxRolls, odds.MaxLooting)
	if err != nil {
		return "", err
	}
	skulls, looting := int(v[0]), int(v[1])
	kills := loot.SkullKills(req.src, skulls, looting)
	return fmt.Sprintf("You got %d skulls from killing %d wither skeletons with looting %d.", skulls, kills, looting), nil
}

func (d *Dispatcher) rollSilence(req *request) (string, error) {
	chests := loot.Attempts(req.src, silenceTrimPerMille)
	return fmt.Sprintf("You needed to check only %d chests to get the Silence Trim!", chests), nil
}

func (d *Dispatcher) rollHeavyCore(req *request) (string, error) {
	vaults := loot.Attempts(req.src, heavyCorePerMille)
	only := ""
	if random.Intn(req.src, 2) == 0 {
		only = " only"
	}
	return fmt.Sprintf("You needed to open%s %d Ominous Vaults to get the Heavy Core!", only, vaults), nil
}

func (d *Dispatcher) findSeed(req *request) (string, error) {
	return fmt.Sprintf("Your seed is a %d eye.", loot.SeedEyes(req.src)), nil
}

func (d *Dispatcher) rollSeed(req *request) (string, error) {
	return fmt.Sprintf("Your seed: %d.", loot.Seed(req.src)), nil
}

func (d *Dispatcher) age(req *request) (string, error) {
	return fmt.Sprintf("%s is %d years old.", d.opts.Streamer, loot.Age(req.src)), nil
}

func (d *Dispatcher) rollAASSG(req *request) (string, error) {
	return d.opts.Content.AASSG.Play(req.src), nil
}
