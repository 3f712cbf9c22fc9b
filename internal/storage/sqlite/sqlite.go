// Package sqlite provides a SQLite-backed Store using the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/tridentbot/internal/config"
	"github.com/cory-johannsen/tridentbot/internal/storage"
	"github.com/cory-johannsen/tridentbot/internal/storage/migrations"
)

func init() {
	storage.Register(config.DriverSQLite, func(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (storage.Store, error) {
		return Open(ctx, cfg, logger)
	})
}

// Store persists chat statistics in a SQLite file.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens the SQLite database at cfg.Path, applying migrations first when
// cfg.AutoMigrate is set.
//
// Precondition: cfg.Path must be non-empty.
// Postcondition: Returns a pinged Store or a non-nil error.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	cfg.Path = filepath.Clean(cfg.Path)

	if cfg.AutoMigrate {
		version, err := migrations.Up(cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("sqlite schema migrated", zap.String("path", cfg.Path), zap.Uint("version", version))
	}

	dsn := cfg.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Health checks that the database responds within the timeout.
func (s *Store) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordMessage upserts the user and increments their message count.
func (s *Store) RecordMessage(ctx context.Context, userID, displayName string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, display_name, messages) VALUES (?, ?, 1)
		 ON CONFLICT (user_id) DO UPDATE
		 SET display_name = excluded.display_name, messages = users.messages + 1`,
		userID, displayName,
	)
	if err != nil {
		return fmt.Errorf("recording message: %w", err)
	}
	return nil
}

// RecordCommand increments the user's use count of the command.
func (s *Store) RecordCommand(ctx context.Context, name, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO commands (name, user_id, uses) VALUES (?, ?, 1)
		 ON CONFLICT (name, user_id) DO UPDATE SET uses = commands.uses + 1`,
		name, userID,
	)
	if err != nil {
		return fmt.Errorf("recording command %q: %w", name, err)
	}
	return nil
}

// RecordTridentRoll inserts a trident roll.
func (s *Store) RecordTridentRoll(ctx context.Context, userID string, durability int, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trident_rolls (durability, unix_time, user_id) VALUES (?, ?, ?)`,
		durability, storage.UnixMillis(at), userID,
	)
	if err != nil {
		return fmt.Errorf("recording trident roll: %w", err)
	}
	return nil
}

// RecordGunpowderRoll inserts a gunpowder roll.
func (s *Store) RecordGunpowderRoll(ctx context.Context, userID string, gunpowder int, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gunpowder_rolls (gunpowder, unix_time, user_id) VALUES (?, ?, ?)`,
		gunpowder, storage.UnixMillis(at), userID,
	)
	if err != nil {
		return fmt.Errorf("recording gunpowder roll: %w", err)
	}
	return nil
}

// TopCommands returns the most used commands summed over all users.
func (s *Store) TopCommands(ctx context.Context, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "top commands",
		`SELECT name, SUM(uses) AS total FROM commands
		 GROUP BY name ORDER BY total DESC, name LIMIT ?`, limit)
}

// TopChatters returns the users with the most chat messages.
func (s *Store) TopChatters(ctx context.Context, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "top chatters",
		`SELECT display_name, messages FROM users
		 ORDER BY messages DESC, display_name LIMIT ?`, limit)
}

// TopSpammers returns the users with the most command uses.
func (s *Store) TopSpammers(ctx context.Context, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "top spammers",
		`SELECT u.display_name, SUM(c.uses) AS total
		 FROM commands c JOIN users u ON c.user_id = u.user_id
		 GROUP BY c.user_id, u.display_name ORDER BY total DESC, u.display_name LIMIT ?`, limit)
}

// TopTridentRolls returns the highest trident rolls made at or after since.
func (s *Store) TopTridentRolls(ctx context.Context, since time.Time, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "top trident rolls",
		`SELECT u.display_name, t.durability
		 FROM trident_rolls t JOIN users u ON t.user_id = u.user_id
		 WHERE t.unix_time >= ?
		 ORDER BY t.durability DESC, t.unix_time LIMIT ?`, storage.UnixMillis(since), limit)
}

// TopGunpowderRolls returns the highest gunpowder rolls.
func (s *Store) TopGunpowderRolls(ctx context.Context, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "top gunpowder rolls",
		`SELECT u.display_name, g.gunpowder
		 FROM gunpowder_rolls g JOIN users u ON g.user_id = u.user_id
		 ORDER BY g.gunpowder DESC, g.unix_time LIMIT ?`, limit)
}

// MostZeroTridents returns the users with the most zero durability tridents.
func (s *Store) MostZeroTridents(ctx context.Context, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "zero durability tridents",
		`SELECT u.display_name, COUNT(*) AS zeros
		 FROM trident_rolls t JOIN users u ON t.user_id = u.user_id
		 WHERE t.durability = 0
		 GROUP BY t.user_id, u.display_name ORDER BY zeros DESC, u.display_name LIMIT ?`, limit)
}

// CommandTopUsers returns the heaviest users of the named command.
func (s *Store) CommandTopUsers(ctx context.Context, name string, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "command top users",
		`SELECT u.display_name, c.uses
		 FROM commands c JOIN users u ON c.user_id = u.user_id
		 WHERE c.name = ?
		 ORDER BY c.uses DESC, u.display_name LIMIT ?`, name, limit)
}

// CommandTotal returns the total uses of the named command, 0 if never used.
func (s *Store) CommandTotal(ctx context.Context, name string) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(uses), 0) FROM commands WHERE name = ?`, name,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("querying command total %q: %w", name, err)
	}
	return total, nil
}

func (s *Store) counts(ctx context.Context, what, query string, args ...any) ([]storage.Count, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", what, err)
	}
	defer rows.Close()

	var result []storage.Count
	for rows.Next() {
		var c storage.Count
		if err := rows.Scan(&c.Name, &c.Value); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", what, err)
	}
	return result, nil
}
