package odds

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an odds query falls outside the modelled range.
var ErrOutOfRange = errors.New("odds: argument out of range")

// Limits for the odds queries.
const (
	MaxLooting    = 3
	MaxKills      = 10_000
	MaxDurability = 250
)

// SkullChance returns the per-kill wither skeleton skull drop chance for the
// given looting level.
func SkullChance(looting uint64) float64 {
	return float64(looting)/100 + 0.025
}

// Skull returns the odds of exactly drops skulls and of drops or more skulls
// from kills wither skeletons with the given looting level.
//
// Postcondition: Returns ErrOutOfRange when looting > MaxLooting,
// kills > MaxKills, or drops > kills.
func Skull(drops, kills, looting uint64) (exact, atLeast float64, err error) {
	if looting > MaxLooting {
		return 0, 0, fmt.Errorf("looting %d exceeds %d: %w", looting, MaxLooting, ErrOutOfRange)
	}
	if kills > MaxKills {
		return 0, 0, fmt.Errorf("kills %d exceeds %d: %w", kills, MaxKills, ErrOutOfRange)
	}
	if drops > kills {
		return 0, 0, fmt.Errorf("drops %d exceed kills %d: %w", drops, kills, ErrOutOfRange)
	}
	exact, atLeast = AtLeast(kills, drops, SkullChance(looting))
	return exact, atLeast, nil
}

// Trident returns the odds that a drowned trident rolls exactly durability
// and durability or more. Trident damage is drawn as n in [0, 250], then
// durability in [0, n].
//
// Postcondition: Returns ErrOutOfRange when durability > MaxDurability.
func Trident(durability uint64) (exact, atLeast float64, err error) {
	if durability > MaxDurability {
		return 0, 0, fmt.Errorf("durability %d exceeds %d: %w", durability, MaxDurability, ErrOutOfRange)
	}
	// tail[k] = P(durability == k) = sum_{n=k}^{250} 1/(251*(n+1))
	var tail float64
	for n := uint64(MaxDurability); ; n-- {
		tail += 1 / (float64(MaxDurability+1) * float64(n+1))
		atLeast += tail
		if n == durability {
			break
		}
	}
	return tail, atLeast, nil
}
