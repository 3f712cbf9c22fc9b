// Package postgres persists chat statistics in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tridentbot/internal/config"
	"github.com/cory-johannsen/tridentbot/internal/storage"
	"github.com/cory-johannsen/tridentbot/internal/storage/migrations"
)

// ApplicationName identifies the bot's sessions in pg_stat_activity.
const ApplicationName = "tridentbot"

// HealthCheckPeriod is how often the pool probes idle connections.
const HealthCheckPeriod = 30 * time.Second

func init() {
	storage.Register(config.DriverPostgres, func(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (storage.Store, error) {
		return Open(ctx, cfg, logger)
	})
}

// Store persists chat statistics in PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Open migrates the database when cfg.AutoMigrate is set, then connects a
// pool and verifies it with a ping.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a connected Store or a non-nil error.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if cfg.AutoMigrate {
		version, err := migrations.Up(cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("postgres schema migrated", zap.String("host", cfg.Host), zap.Uint("version", version))
	}

	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	logger.Info("postgres connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Duration("elapsed", time.Since(start)),
	)
	return NewStore(pool, logger), nil
}

// PoolConfig builds the pgx pool configuration for cfg.
//
// Postcondition: MaxConns is at least 1 and MinConns never exceeds it.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	poolCfg.HealthCheckPeriod = HealthCheckPeriod
	return poolCfg, nil
}

// NewStore creates a Store backed by an existing pool. The Store owns the
// pool and closes it in Close.
//
// Precondition: pool must be connected and migrated.
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Health checks that the database responds within the timeout, logging the
// pool's saturation when it does not.
func (s *Store) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		st := s.pool.Stat()
		s.logger.Warn("postgres health check failed",
			zap.Int32("acquired", st.AcquiredConns()),
			zap.Int32("total", st.TotalConns()),
			zap.Error(err),
		)
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// RecordMessage upserts the user and increments their message count.
func (s *Store) RecordMessage(ctx context.Context, userID, displayName string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, display_name, messages) VALUES ($1, $2, 1)
		 ON CONFLICT (user_id) DO UPDATE
		 SET display_name = EXCLUDED.display_name, messages = users.messages + 1`,
		userID, displayName,
	)
	if err != nil {
		return fmt.Errorf("recording message: %w", err)
	}
	return nil
}

// RecordCommand increments the user's use count of the command.
func (s *Store) RecordCommand(ctx context.Context, name, userID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO commands (name, user_id, uses) VALUES ($1, $2, 1)
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
	_, err := s.pool.Exec(ctx,
		`INSERT INTO trident_rolls (durability, unix_time, user_id) VALUES ($1, $2, $3)`,
		durability, storage.UnixMillis(at), userID,
	)
	if err != nil {
		return fmt.Errorf("recording trident roll: %w", err)
	}
	return nil
}

// RecordGunpowderRoll inserts a gunpowder roll.
func (s *Store) RecordGunpowderRoll(ctx context.Context, userID string, gunpowder int, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO gunpowder_rolls (gunpowder, unix_time, user_id) VALUES ($1, $2, $3)`,
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
		`SELECT name, SUM(uses)::BIGINT AS total FROM commands
		 GROUP BY name ORDER BY total DESC, name LIMIT $1`, limit)
}

// TopChatters returns the users with the most chat messages.
func (s *Store) TopChatters(ctx context.Context, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "top chatters",
		`SELECT display_name, messages FROM users
		 ORDER BY messages DESC, display_name LIMIT $1`, limit)
}

// TopSpammers returns the users with the most command uses.
func (s *Store) TopSpammers(ctx context.Context, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "top spammers",
		`SELECT u.display_name, SUM(c.uses)::BIGINT AS total
		 FROM commands c JOIN users u ON c.user_id = u.user_id
		 GROUP BY c.user_id, u.display_name ORDER BY total DESC, u.display_name LIMIT $1`, limit)
}

// TopTridentRolls returns the highest trident rolls made at or after since.
func (s *Store) TopTridentRolls(ctx context.Context, since time.Time, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "top trident rolls",
		`SELECT u.display_name, t.durability::BIGINT
		 FROM trident_rolls t JOIN users u ON t.user_id = u.user_id
		 WHERE t.unix_time >= $1
		 ORDER BY t.durability DESC, t.unix_time LIMIT $2`, storage.UnixMillis(since), limit)
}

// TopGunpowderRolls returns the highest gunpowder rolls.
func (s *Store) TopGunpowderRolls(ctx context.Context, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "top gunpowder rolls",
		`SELECT u.display_name, g.gunpowder::BIGINT
		 FROM gunpowder_rolls g JOIN users u ON g.user_id = u.user_id
		 ORDER BY g.gunpowder DESC, g.unix_time LIMIT $1`, limit)
}

// MostZeroTridents returns the users with the most zero durability tridents.
func (s *Store) MostZeroTridents(ctx context.Context, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "zero durability tridents",
		`SELECT u.display_name, COUNT(*) AS zeros
		 FROM trident_rolls t JOIN users u ON t.user_id = u.user_id
		 WHERE t.durability = 0
		 GROUP BY t.user_id, u.display_name ORDER BY zeros DESC, u.display_name LIMIT $1`, limit)
}

// CommandTopUsers returns the heaviest users of the named command.
func (s *Store) CommandTopUsers(ctx context.Context, name string, limit int) ([]storage.Count, error) {
	return s.counts(ctx, "command top users",
		`SELECT u.display_name, c.uses
		 FROM commands c JOIN users u ON c.user_id = u.user_id
		 WHERE c.name = $1
		 ORDER BY c.uses DESC, u.display_name LIMIT $2`, name, limit)
}

// CommandTotal returns the total uses of the named command, 0 if never used.
func (s *Store) CommandTotal(ctx context.Context, name string) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(uses), 0)::BIGINT FROM commands WHERE name = $1`, name,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("querying command total %q: %w", name, err)
	}
	return total, nil
}

func (s *Store) counts(ctx context.Context, what, query string, args ...any) ([]storage.Count, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", what, err)
	}
	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.Count, error) {
		var c storage.Count
		err := row.Scan(&c.Name, &c.Value)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", what, err)
	}
	return result, nil
}
