// Package config provides Viper-based configuration loading for the bot.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Transports supported by the chat client.
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "websocket"
)

// Database drivers supported by the storage layer.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MaxChatMessageLength is the longest message Twitch chat accepts.
const MaxChatMessageLength = 500

// TwitchConfig holds chat connection settings.
type TwitchConfig struct {
	// Login is the bot account's login name.
	Login string `mapstructure:"login"`
	// OAuthToken is the chat token, with or without the "oauth:" prefix.
	OAuthToken string `mapstructure:"oauth_token"`
	// Channel is the channel to join, without the leading '#'.
	Channel string `mapstructure:"channel"`
	// Transport is "tcp" (IRC over TLS) or "websocket".
	Transport string `mapstructure:"transport"`
	// Addr is the "host:port" of the TLS IRC endpoint.
	Addr string `mapstructure:"addr"`
	// WebSocketURL is the URL of the WebSocket IRC endpoint.
	WebSocketURL string `mapstructure:"websocket_url"`
	// ReadTimeout bounds each read; 0 disables the deadline.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout bounds each write; 0 disables the deadline.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// MaxMessageLength is the longest reply sent as one chat message.
	MaxMessageLength int `mapstructure:"max_message_length"`
	// ReconnectMaxElapsed stops reconnecting after this long without a
	// successful session; 0 retries forever.
	ReconnectMaxElapsed time.Duration `mapstructure:"reconnect_max_elapsed"`
}

// Password returns the IRC PASS value for the token.
//
// Postcondition: Returns the token with exactly one "oauth:" prefix.
func (t TwitchConfig) Password() string {
	return "oauth:" + strings.TrimPrefix(t.OAuthToken, "oauth:")
}

// DatabaseConfig holds persistence settings for either driver.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	// Path is the SQLite database file.
	Path string `mapstructure:"path"`

	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`

	// AutoMigrate applies pending schema migrations when the store opens.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BotConfig holds command behavior settings.
type BotConfig struct {
	// Prefix marks a chat message as a command.
	Prefix string `mapstructure:"prefix"`
	// ThunderTrials is the Monte Carlo trial count for !thunderodds.
	ThunderTrials int `mapstructure:"thunder_trials"`
	// RaidFile is the text file whose contents !raid replies with.
	RaidFile string `mapstructure:"raid_file"`
	// Locale selects the decimal separator of odds replies.
	Locale string `mapstructure:"locale"`
	// ContentFile optionally replaces the built-in loot tables.
	ContentFile string `mapstructure:"content_file"`
	// TextsFile optionally replaces the built-in fixed-reply commands.
	TextsFile string `mapstructure:"texts_file"`
	// Streamer is the name used by !age.
	Streamer string `mapstructure:"streamer"`
}

// Config is the top-level application configuration.
type Config struct {
	Twitch   TwitchConfig   `mapstructure:"twitch"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Bot      BotConfig      `mapstructure:"bot"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateTwitch(c.Twitch); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBot(c.Bot); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTwitch(t TwitchConfig) error {
	var errs []string
	if t.Login == "" {
		errs = append(errs, "twitch.login must not be empty")
	}
	if strings.TrimPrefix(t.OAuthToken, "oauth:") == "" {
		errs = append(errs, "twitch.oauth_token must not be empty")
	}
	if t.Channel == "" || strings.HasPrefix(t.Channel, "#") {
		errs = append(errs, fmt.Sprintf("twitch.channel must be a channel login without '#', got %q", t.Channel))
	}
	switch t.Transport {
	case TransportTCP:
		if t.Addr == "" {
			errs = append(errs, "twitch.addr must not be empty for the tcp transport")
		}
	case TransportWebSocket:
		if t.WebSocketURL == "" {
			errs = append(errs, "twitch.websocket_url must not be empty for the websocket transport")
		}
	default:
		errs = append(errs, fmt.Sprintf("twitch.transport must be one of [tcp, websocket], got %q", t.Transport))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "twitch.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "twitch.write_timeout must not be negative")
	}
	if t.MaxMessageLength < 1 || t.MaxMessageLength > MaxChatMessageLength {
		errs = append(errs, fmt.Sprintf("twitch.max_message_length must be 1-%d, got %d", MaxChatMessageLength, t.MaxMessageLength))
	}
	if t.ReconnectMaxElapsed < 0 {
		errs = append(errs, "twitch.reconnect_max_elapsed must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			return errors.New("database.path must not be empty for the sqlite driver")
		}
		return nil
	case DriverPostgres:
		return validatePostgres(d)
	default:
		return fmt.Errorf("database.driver must be one of [sqlite, postgres], got %q", d.Driver)
	}
}

func validatePostgres(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateBot(b BotConfig) error {
	var errs []string
	if b.Prefix == "" || strings.ContainsAny(b.Prefix, " \t") {
		errs = append(errs, fmt.Sprintf("bot.prefix must be non-empty without whitespace, got %q", b.Prefix))
	}
	if strings.TrimSpace(b.Streamer) == "" {
		errs = append(errs, "bot.streamer must not be empty")
	}
	if b.ThunderTrials < 1 {
		errs = append(errs, fmt.Sprintf("bot.thunder_trials must be >= 1, got %d", b.ThunderTrials))
	}
	if _, err := language.Parse(b.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("bot.locale %q is not a valid language tag: %v", b.Locale, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v, err := read(path)
	if err != nil {
		return Config{}, err
	}
	return LoadFromViper(v)
}

// LoadDatabase reads only the database and logging sections, for tools that
// never connect to chat.
//
// Postcondition: Returns validated sections or a non-nil error.
func LoadDatabase(path string) (DatabaseConfig, LoggingConfig, error) {
	v, err := read(path)
	if err != nil {
		return DatabaseConfig{}, LoggingConfig{}, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DatabaseConfig{}, LoggingConfig{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	var errs []string
	if err := validateDatabase(cfg.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(cfg.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return DatabaseConfig{}, LoggingConfig{}, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return cfg.Database, cfg.Logging, nil
}

func read(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with TRIDENTBOT_ prefix
	v.SetEnvPrefix("TRIDENTBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return v, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	setDefaults(v)
}

func setDefaults(v *viper.Viper) {
	// Empty defaults register the keys so environment overrides apply.
	v.SetDefault("twitch.login", "")
	v.SetDefault("twitch.oauth_token", "")
	v.SetDefault("twitch.channel", "")
	v.SetDefault("twitch.transport", TransportTCP)
	v.SetDefault("twitch.addr", "irc.chat.twitch.tv:6697")
	v.SetDefault("twitch.websocket_url", "wss://irc-ws.chat.twitch.tv:443")
	v.SetDefault("twitch.read_timeout", "10m")
	v.SetDefault("twitch.write_timeout", "10s")
	v.SetDefault("twitch.max_message_length", MaxChatMessageLength)
	v.SetDefault("twitch.reconnect_max_elapsed", "0s")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "tridentbot.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "tridentbot")
	v.SetDefault("database.password", "tridentbot")
	v.SetDefault("database.name", "tridentbot")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("bot.prefix", "!")
	v.SetDefault("bot.thunder_trials", 1_000_000)
	v.SetDefault("bot.raid_file", "raids.txt")
	v.SetDefault("bot.locale", "pl")
	v.SetDefault("bot.content_file", "")
	v.SetDefault("bot.texts_file", "")
	v.SetDefault("bot.streamer", "Oskar")
}
