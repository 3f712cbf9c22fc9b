// Package storage defines the persistence contract for chat statistics and
// roll history, and selects a driver implementation from configuration.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tridentbot/internal/config"
)

// ErrUnknownDriver is returned by Open when no implementation is registered
// for the configured driver.
var ErrUnknownDriver = errors.New("unknown database driver")

// Count is one row of a leaderboard: a display name (or command name) and
// its value.
type Count struct {
	Name  string
	Value int64
}

// Store persists chat activity and roll results.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// RecordMessage counts one chat message for the user and refreshes their
	// display name.
	RecordMessage(ctx context.Context, userID, displayName string) error
	// RecordCommand counts one use of the named command by the user.
	//
	// Precondition: RecordMessage has been called for userID.
	RecordCommand(ctx context.Context, name, userID string) error
	// RecordTridentRoll stores a trident durability roll.
	RecordTridentRoll(ctx context.Context, userID string, durability int, at time.Time) error
	// RecordGunpowderRoll stores a desert temple gunpowder roll.
	RecordGunpowderRoll(ctx context.Context, userID string, gunpowder int, at time.Time) error

	// TopCommands returns the most used commands with their total uses.
	TopCommands(ctx context.Context, limit int) ([]Count, error)
	// TopChatters returns the users with the most messages.
	TopChatters(ctx context.Context, limit int) ([]Count, error)
	// TopSpammers returns the users with the most command uses.
	TopSpammers(ctx context.Context, limit int) ([]Count, error)
	// TopTridentRolls returns the highest trident rolls made at or after
	// since; the zero time means all time.
	TopTridentRolls(ctx context.Context, since time.Time, limit int) ([]Count, error)
	// TopGunpowderRolls returns the highest gunpowder rolls.
	TopGunpowderRolls(ctx context.Context, limit int) ([]Count, error)
	// MostZeroTridents returns the users with the most 0 durability rolls.
	MostZeroTridents(ctx context.Context, limit int) ([]Count, error)
	// CommandTopUsers returns the users with the most uses of the command.
	CommandTopUsers(ctx context.Context, name string, limit int) ([]Count, error)
	// CommandTotal returns the total uses of the command; 0 if never used.
	CommandTotal(ctx context.Context, name string) (int64, error)

	// Health checks that the database is reachable within the timeout.
	Health(ctx context.Context, timeout time.Duration) error
	// Close releases all resources.
	Close() error
}

// Opener connects to a database and returns a ready Store.
type Opener func(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (Store, error)

var (
	openersMu sync.RWMutex
	openers   = make(map[string]Opener)
)

// Register makes a driver available to Open under name.
//
// Precondition: name is not already registered and open is non-nil; panics otherwise.
func Register(name string, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	if open == nil {
		panic("storage: Register opener is nil")
	}
	if _, dup := openers[name]; dup {
		panic("storage: Register called twice for driver " + name)
	}
	openers[name] = open
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	openersMu.RLock()
	defer openersMu.RUnlock()
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects to the database selected by cfg.Driver.
//
// Postcondition: Returns a ready Store, or an error wrapping ErrUnknownDriver
// if the driver is not registered.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (Store, error) {
	openersMu.RLock()
	open, ok := openers[cfg.Driver]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	start := time.Now()
	store, err := open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Driver, err)
	}
	logger.Info("store opened", zap.String("driver", cfg.Driver), zap.Duration("elapsed", time.Since(start)))
	return store, nil
}

// UnixMillis converts t to the millisecond timestamps stored in roll tables.
// The zero time maps to 0.
func UnixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
