// Package bot turns chat messages into command replies: it records chat
// statistics, resolves commands, and runs the simulations behind them.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cory-johannsen/tridentbot/internal/chat"
	"github.com/cory-johannsen/tridentbot/internal/config"
	"github.com/cory-johannsen/tridentbot/internal/game/command"
	"github.com/cory-johannsen/tridentbot/internal/game/loot"
	"github.com/cory-johannsen/tridentbot/internal/game/random"
	"github.com/cory-johannsen/tridentbot/internal/game/weather"
	"github.com/cory-johannsen/tridentbot/internal/storage"
)

// UsageError reports command arguments that cannot be parsed or are out of
// range. The dispatcher answers it with the command's usage line.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return "invalid syntax: " + e.Reason }

func usagef(format string, args ...any) error {
	return &UsageError{Reason: fmt.Sprintf(format, args...)}
}

// Failure is a handler error carrying a reason that is safe to show in chat.
type Failure struct {
	Reason string
	Err    error
}

func (e *Failure) Error() string { return e.Reason + ": " + e.Err.Error() }

func (e *Failure) Unwrap() error { return e.Err }

// Options configures a Dispatcher.
type Options struct {
	// Prefix marks a chat message as a command.
	Prefix string
	// ThunderTrials is the trial count of !thunderodds.
	ThunderTrials int
	// RaidFile is read by !raid on every invocation.
	RaidFile string
	// Streamer is the name used by !age.
	Streamer string
	// Locale selects the number format of odds replies.
	Locale language.Tag
	// Content holds the loot tables.
	Content *loot.Content
	// Texts holds the fixed-reply commands.
	Texts Texts
	// Random returns a fresh source per command; defaults to random.NewSource.
	Random random.Factory
	// Now defaults to time.Now.
	Now func() time.Time
}

// OptionsFromConfig builds Options from the bot configuration, loading the
// content and text overrides it names.
//
// Precondition: cfg has passed config validation.
func OptionsFromConfig(cfg config.BotConfig) (Options, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return Options{}, fmt.Errorf("parsing locale %q: %w", cfg.Locale, err)
	}

	content := loot.Default()
	if cfg.ContentFile != "" {
		if content, err = loot.LoadFile(cfg.ContentFile); err != nil {
			return Options{}, err
		}
	}

	texts := DefaultTexts()
	if cfg.TextsFile != "" {
		if texts, err = LoadTextsFile(cfg.TextsFile); err != nil {
			return Options{}, err
		}
	}

	return Options{
		Prefix:        cfg.Prefix,
		ThunderTrials: cfg.ThunderTrials,
		RaidFile:      cfg.RaidFile,
		Streamer:      cfg.Streamer,
		Locale:        tag,
		Content:       content,
		Texts:         texts,
	}, nil
}

// Dispatcher implements chat.Handler for the bot's commands.
type Dispatcher struct {
	store    storage.Store
	registry *command.Registry
	opts     Options
	printer  *message.Printer
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher over store.
//
// Precondition: store and logger must be non-nil; opts.Content must be valid.
// Postcondition: Returns an error if a text command collides with a built-in.
func NewDispatcher(store storage.Store, opts Options, logger *zap.Logger) (*Dispatcher, error) {
	if opts.Prefix == "" {
		opts.Prefix = "!"
	}
	if opts.ThunderTrials <= 0 {
		opts.ThunderTrials = weather.DefaultTrials
	}
	if opts.Content == nil {
		opts.Content = loot.Default()
	}
	if opts.Texts == nil {
		opts.Texts = Texts{}
	}
	if opts.Random == nil {
		opts.Random = random.NewSource
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	registry, err := command.DefaultRegistry(opts.Texts.Names()...)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		store:    store,
		registry: registry,
		opts:     opts,
		printer:  message.NewPrinter(opts.Locale),
		logger:   logger,
	}, nil
}

// HandleMessage records msg and, when it is a known command, returns the
// reply.
//
// Postcondition: ok is false for plain chat and unknown commands. Storage
// failures while recording never suppress the reply.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg chat.Message) (string, bool) {
	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger := d.logger.With(zap.String("msg_id", id), zap.String("user", msg.Login))

	if err := d.store.RecordMessage(ctx, msg.UserID, msg.DisplayName); err != nil {
		logger.Warn("recording message", zap.Error(err))
	}

	parsed, ok := command.Parse(d.opts.Prefix, msg.Text)
	if !ok {
		return "", false
	}
	cmd, ok := d.registry.Resolve(parsed.Command)
	if !ok {
		logger.Debug("unknown command", zap.String("command", parsed.Command))
		return "", false
	}
	handle, ok := handlerMap[cmd.Handler]
	if !ok {
		logger.Error("command has no handler", zap.String("command", cmd.Name), zap.String("handler", cmd.Handler))
		return "", false
	}

	if err := d.store.RecordCommand(ctx, cmd.Name, msg.UserID); err != nil {
		logger.Warn("recording command use", zap.String("command", cmd.Name), zap.Error(err))
	}

	start := time.Now()
	reply, err := handle(d, &request{
		ctx:    ctx,
		msg:    msg,
		cmd:    cmd,
		args:   parsed.Args,
		src:    d.opts.Random(),
		logger: logger,
	})
	if err != nil {
		return d.errorReply(logger, cmd, err), true
	}
	logger.Debug("command handled",
		zap.String("command", cmd.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return strings.TrimSpace(reply), true
}

func (d *Dispatcher) errorReply(logger *zap.Logger, cmd *command.Command, err error) string {
	var usage *UsageError
	if errors.As(err, &usage) {
		logger.Debug("invalid command syntax", zap.String("command", cmd.Name), zap.Error(err))
		return d.usage(cmd)
	}
	logger.Error("command failed", zap.String("command", cmd.Name), zap.Error(err))
	var failure *Failure
	if errors.As(err, &failure) {
		return "Error: " + failure.Reason
	}
	return "Error: Something went wrong."
}

// usage returns the fixed invalid-syntax reply of cmd.
func (d *Dispatcher) usage(cmd *command.Command) string {
	line := d.opts.Prefix + cmd.Name
	if cmd.Usage != "" {
		line += " " + cmd.Usage
	}
	return "Error: Invalid syntax; " + line
}

// request carries the inputs of one command invocation.
type request struct {
	ctx    context.Context
	msg    chat.Message
	cmd    *command.Command
	args   []string
	src    random.Source
	logger *zap.Logger
}
