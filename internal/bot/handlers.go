package bot

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/number"

	"github.com/cory-johannsen/tridentbot/internal/game/command"
	"github.com/cory-johannsen/tridentbot/internal/game/odds"
	"github.com/cory-johannsen/tridentbot/internal/game/phantoms"
	"github.com/cory-johannsen/tridentbot/internal/game/ticks"
	"github.com/cory-johannsen/tridentbot/internal/game/weather"
)

// MaxRolls caps the count argument of the batch roll commands.
const MaxRolls = 10_000

// handlerFunc is the signature of every command handler.
type handlerFunc func(d *Dispatcher, req *request) (string, error)

// Handlers returns the map from Handler constant to handler function.
// Exported so tests can verify every built-in command is wired.
func Handlers() map[string]handlerFunc {
	return handlerMap
}

// handlerMap is the single source of truth for command dispatch.
// To add a new command: add a Handler constant to commands.go AND add an entry here.
var handlerMap = map[string]handlerFunc{
	command.HandlerWeather:       (*Dispatcher).weather,
	command.HandlerThunderOdds:   (*Dispatcher).thunderOdds,
	command.HandlerSkullOdds:     (*Dispatcher).skullOdds,
	command.HandlerTridentOdds:   (*Dispatcher).tridentOdds,
	command.HandlerRollPhantoms:  (*Dispatcher).rollPhantoms,
	command.HandlerRollTrident:   (*Dispatcher).rollTrident,
	command.HandlerRollGunpowder: (*Dispatcher).rollGunpowder,
	command.HandlerRollDrowned:   (*Dispatcher).rollDrowned,
	command.HandlerFishing:       (*Dispatcher).fishing,
	command.HandlerRollBiome:     (*Dispatcher).rollBiome,
	command.HandlerRollCats:      (*Dispatcher).rollCats,
	command.HandlerRollBlazeRods: (*Dispatcher).rollBlazeRods,
	command.HandlerRollSkulls:    (*Dispatcher).rollSkulls,
	command.HandlerRollSilence:   (*Dispatcher).rollSilence,
	command.HandlerRollHeavyCore: (*Dispatcher).rollHeavyCore,
	command.HandlerFindSeed:      (*Dispatcher).findSeed,
	command.HandlerRollSeed:      (*Dispatcher).rollSeed,
	command.HandlerAge:           (*Dispatcher).age,
	command.HandlerRollAASSG:     (*Dispatcher).rollAASSG,
	command.HandlerTopCommands:   (*Dispatcher).topCommands,
	command.HandlerTopChatters:   (*Dispatcher).topChatters,
	command.HandlerTopSpammers:   (*Dispatcher).topSpammers,
	command.HandlerTridentTop:    (*Dispatcher).tridentTop,
	command.HandlerTridentDaily:  (*Dispatcher).tridentDaily,
	command.HandlerTridentZeros:  (*Dispatcher).tridentZeros,
	command.HandlerGunpowderTop:  (*Dispatcher).gunpowderTop,
	command.HandlerCommandStats:  (*Dispatcher).commandStats,
	command.HandlerRaid:          (*Dispatcher).raid,
	command.HandlerHelp:          (*Dispatcher).help,
	command.HandlerText:          (*Dispatcher).text,
}

// uintArgs parses the first len(limits) arguments as unsigned integers, each
// at most its limit.
func uintArgs(args []string, limits ...uint64) ([]uint64, error) {
	if len(args) < len(limits) {
		return nil, usagef("want %d arguments, got %d", len(limits), len(args))
	}
	values := make([]uint64, len(limits))
	for i, limit := range limits {
		v, err := strconv.ParseUint(args[i], 10, 64)
		if err != nil {
			return nil, usagef("argument %d: %v", i+1, err)
		}
		if v > limit {
			return nil, usagef("argument %d: %d exceeds %d", i+1, v, limit)
		}
		values[i] = v
	}
	return values, nil
}

// decimal formats x in the configured locale with exactly digits fraction
// digits.
func (d *Dispatcher) decimal(x float64, digits int) string {
	return d.printer.Sprintf("%v", number.Decimal(x,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
		number.NoSeparator(),
	))
}

// percent formats a probability as a percentage with digits fraction digits.
func (d *Dispatcher) percent(p float64, digits int) string {
	return d.decimal(p*100, digits)
}

func (d *Dispatcher) weather(req *request) (string, error) {
	start, duration := weather.FirstThunder(req.src)
	return fmt.Sprintf("First thunder will start at %s and will last %s.",
		ticks.FormatClock(start), ticks.FormatDuration(duration)), nil
}

func (d *Dispatcher) thunderOdds(req *request) (string, error) {
	if len(req.args) < 1 {
		return "", usagef("missing minutes")
	}
	minutes, err := strconv.ParseFloat(req.args[0], 64)
	if err != nil || math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0 {
		return "", usagef("minutes %q", req.args[0])
	}
	p := weather.ThunderOdds(ticks.FromMinutes(minutes), d.opts.ThunderTrials, req.src)
	minutesText := d.printer.Sprintf("%v", number.Decimal(minutes, number.NoSeparator()))
	return fmt.Sprintf("Odds of thunder in first %s minutes: ~%s%%", minutesText, d.percent(p, 4)), nil
}

func (d *Dispatcher) skullOdds(req *request) (string, error) {
	v, err := uintArgs(req.args, math.MaxUint64, odds.MaxKills, odds.MaxLooting)
	if err != nil {
		return "", err
	}
	drops, kills, looting := v[0], v[1], v[2]
	exact, atLeast, err := odds.Skull(drops, kills, looting)
	if errors.Is(err, odds.ErrOutOfRange) {
		return "", &UsageError{Reason: err.Error()}
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Wither skeleton kills: %d; Looting level: %d; Odds of getting exactly %d skull drops: ~%s%%; Odds of getting %d or more skull drops: ~%s%%",
		kills, looting, drops, d.percent(exact, 8), drops, d.percent(atLeast, 8),
	), nil
}

func (d *Dispatcher) tridentOdds(req *request) (string, error) {
	v, err := uintArgs(req.args, odds.MaxDurability)
	if err != nil {
		return "", err
	}
	durability := v[0]
	exact, atLeast, err := odds.Trident(durability)
	if err != nil {
		return "", err
	}
	if durability == odds.MaxDurability {
		return fmt.Sprintf("Odds of getting %d durability trident: %s%%.", durability, d.percent(exact, 8)), nil
	}
	return fmt.Sprintf(
		"Odds of getting exactly %d durability trident: ~%s%%; Odds of getting %d or more durability trident: ~%s%%",
		durability, d.percent(exact, 8), durability, d.percent(atLeast, 8),
	), nil
}

func (d *Dispatcher) rollPhantoms(req *request) (string, error) {
	at, spawns := phantoms.SpawnTime(req.src)
	return fmt.Sprintf("You got %d phantoms spawn at %s!", spawns, ticks.FormatClock(at)), nil
}

func (d *Dispatcher) raid(req *request) (string, error) {
	b, err := os.ReadFile(d.opts.RaidFile)
	if err != nil {
		return "", &Failure{Reason: "Couldn't get the raids.", Err: err}
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "No raids.", nil
	}
	return text, nil
}

func (d *Dispatcher) help(req *request) (string, error) {
	cmds := d.registry.Commands()
	names := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		names = append(names, d.opts.Prefix+cmd.Name)
	}
	return "Commands: " + strings.Join(names, ", "), nil
}

func (d *Dispatcher) text(req *request) (string, error) {
	reply, ok := d.opts.Texts[req.cmd.Name]
	if !ok {
		return "", fmt.Errorf("no text for command %q", req.cmd.Name)
	}
	return reply, nil
}
