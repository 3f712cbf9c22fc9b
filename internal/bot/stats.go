package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/tridentbot/internal/storage"
)

// leaderboardSize is the number of rows every statistics reply lists.
const leaderboardSize = 3

const statsFailure = "Couldn't get the statistics."

// leaderboard renders rows after title, each through format.
func leaderboard(title string, rows []storage.Count, format func(storage.Count) string) string {
	var b strings.Builder
	b.WriteString(title)
	for _, row := range rows {
		b.WriteString(" ")
		b.WriteString(format(row))
		b.WriteString(";")
	}
	return b.String()
}

func statsError(err error) error {
	return &Failure{Reason: statsFailure, Err: err}
}

func (d *Dispatcher) topCommands(req *request) (string, error) {
	rows, err := d.store.TopCommands(req.ctx, leaderboardSize)
	if err != nil {
		return "", statsError(err)
	}
	return leaderboard("Top 3 most used commands:", rows, func(c storage.Count) string {
		return fmt.Sprintf("%s%s: %d uses", d.opts.Prefix, c.Name, c.Value)
	}), nil
}

func (d *Dispatcher) topChatters(req *request) (string, error) {
	rows, err := d.store.TopChatters(req.ctx, leaderboardSize)
	if err != nil {
		return "", statsError(err)
	}
	return leaderboard("Top 3 chatters:", rows, func(c storage.Count) string {
		return fmt.Sprintf("%s: %d messages", c.Name, c.Value)
	}), nil
}

func (d *Dispatcher) topSpammers(req *request) (string, error) {
	rows, err := d.store.TopSpammers(req.ctx, leaderboardSize)
	if err != nil {
		return "", statsError(err)
	}
	return leaderboard("Top 3 command spammers:", rows, func(c storage.Count) string {
		return fmt.Sprintf("%s: %d command uses", c.Name, c.Value)
	}), nil
}

func dash(c storage.Count) string {
	return fmt.Sprintf("%s - %d", c.Name, c.Value)
}

func (d *Dispatcher) tridentTop(req *request) (string, error) {
	rows, err := d.store.TopTridentRolls(req.ctx, time.Time{}, leaderboardSize)
	if err != nil {
		return "", statsError(err)
	}
	return leaderboard("Top 3 best trident rolls:", rows, dash), nil
}

func (d *Dispatcher) tridentDaily(req *request) (string, error) {
	since := d.opts.Now().Add(-24 * time.Hour)
	rows, err := d.store.TopTridentRolls(req.ctx, since, leaderboardSize)
	if err != nil {
		return "", statsError(err)
	}
	return leaderboard("Top 3 best trident rolls in last 24 hours:", rows, dash), nil
}

func (d *Dispatcher) tridentZeros(req *request) (string, error) {
	rows, err := d.store.MostZeroTridents(req.ctx, leaderboardSize)
	if err != nil {
		return "", statsError(err)
	}
	return leaderboard("Top 3 chatters with most 0 durability trident rolls:", rows, dash), nil
}

func (d *Dispatcher) gunpowderTop(req *request) (string, error) {
	rows, err := d.store.TopGunpowderRolls(req.ctx, leaderboardSize)
	if err != nil {
		return "", statsError(err)
	}
	return leaderboard("Top 3 best desert temple gunpowder rolls:", rows, dash), nil
}

// commandStats accepts the command with or without the prefix, and aliases
// are counted under their command.
func (d *Dispatcher) commandStats(req *request) (string, error) {
	if len(req.args) < 1 {
		return "", usagef("missing command name")
	}
	name := strings.ToLower(strings.TrimPrefix(req.args[0], d.opts.Prefix))
	if name == "" {
		return "", usagef("empty command name")
	}
	if cmd, ok := d.registry.Resolve(name); ok {
		name = cmd.Name
	}

	rows, err := d.store.CommandTopUsers(req.ctx, name, leaderboardSize)
	if err != nil {
		return "", statsError(err)
	}
	total, err := d.store.CommandTotal(req.ctx, name)
	if err != nil {
		return "", statsError(err)
	}
	title := fmt.Sprintf("Top 3 users with most %s%s uses:", d.opts.Prefix, name)
	reply := leaderboard(title, rows, func(c storage.Count) string {
		return fmt.Sprintf("%s: %d uses", c.Name, c.Value)
	})
	return fmt.Sprintf("%s Total uses: %d.", reply, total), nil
}
