package chat

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gopkg.in/irc.v4"

	"github.com/cory-johannsen/tridentbot/internal/config"
)

// ErrAuthFailed is returned when the server rejects the credentials. The
// client does not reconnect after it.
var ErrAuthFailed = errors.New("chat: authentication failed")

// errReconnect is returned by a session when the server asks the client to
// reconnect.
var errReconnect = errors.New("chat: server requested reconnect")

// Message is a chat message received in the joined channel.
type Message struct {
	// ID is the server-assigned message id tag; empty if tags are off.
	ID string
	// Channel is the channel name without '#'.
	Channel string
	// UserID is the sender's stable user id, or their login when the tag is absent.
	UserID string
	// Login is the sender's login name.
	Login string
	// DisplayName is the sender's display name, falling back to Login.
	DisplayName string
	// Text is the message body.
	Text string
}

// Handler produces an optional reply for each chat message.
type Handler interface {
	HandleMessage(ctx context.Context, msg Message) (reply string, ok bool)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg Message) (string, bool)

// HandleMessage calls f.
func (f HandlerFunc) HandleMessage(ctx context.Context, msg Message) (string, bool) {
	return f(ctx, msg)
}

// Dialer opens a new chat connection.
type Dialer func(ctx context.Context) (Conn, error)

// NewDialer returns the Dialer for the configured transport.
//
// Precondition: cfg has passed validation.
func NewDialer(cfg config.TwitchConfig) Dialer {
	if cfg.Transport == config.TransportWebSocket {
		return func(ctx context.Context) (Conn, error) {
			return DialWebSocket(ctx, cfg.WebSocketURL, cfg.ReadTimeout, cfg.WriteTimeout)
		}
	}
	host, _, _ := strings.Cut(cfg.Addr, ":")
	tlsConfig := &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	return func(ctx context.Context) (Conn, error) {
		return DialTCP(ctx, cfg.Addr, tlsConfig, cfg.ReadTimeout, cfg.WriteTimeout)
	}
}

// Client maintains a chat session in one channel, reconnecting on failure.
type Client struct {
	cfg     config.TwitchConfig
	dial    Dialer
	handler Handler
	logger  *zap.Logger

	mu   sync.Mutex
	conn Conn
}

// NewClient creates a chat client.
//
// Precondition: cfg has passed validation; dial, handler, and logger are non-nil.
func NewClient(cfg config.TwitchConfig, dial Dialer, handler Handler, logger *zap.Logger) *Client {
	return &Client{
		cfg:     cfg,
		dial:    dial,
		handler: handler,
		logger:  logger,
	}
}

// Run connects and serves chat until ctx is cancelled, reconnecting with
// exponential backoff after failures.
//
// Postcondition: Returns nil after ctx is cancelled, ErrAuthFailed if the
// credentials are rejected, or the last session error once
// cfg.ReconnectMaxElapsed has passed without a successful session.
func (c *Client) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.cfg.ReconnectMaxElapsed

	op := func() error {
		established, err := c.session(ctx)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if errors.Is(err, ErrAuthFailed) {
			return backoff.Permanent(err)
		}
		if established {
			b.Reset()
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("chat session ended, reconnecting",
			zap.Error(err),
			zap.Duration("wait", wait),
		)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Say sends text to the joined channel, split into messages of at most
// cfg.MaxMessageLength characters.
//
// Postcondition: Returns ErrClosed if no session is active.
func (c *Client) Say(text string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrClosed
	}
	return c.say(conn, text)
}

func (c *Client) say(conn Conn, text string) error {
	for _, chunk := range Split(text, c.cfg.MaxMessageLength) {
		if err := conn.WriteLine(privmsg(c.cfg.Channel, chunk).String()); err != nil {
			return fmt.Errorf("sending to #%s: %w", c.cfg.Channel, err)
		}
		c.logger.Debug("chat message sent", zap.String("text", chunk))
	}
	return nil
}

// session runs one connection. established reports whether the server
// accepted the login.
func (c *Client) session(ctx context.Context) (established bool, err error) {
	start := time.Now()
	conn, err := c.dial(ctx)
	if err != nil {
		return false, err
	}
	c.setConn(conn)
	defer func() {
		c.setConn(nil)
		_ = conn.Close()
	}()

	// Unblock ReadLine on cancellation.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := c.login(conn); err != nil {
		return false, err
	}

	for {
		line, err := conn.ReadLine()
		if err != nil {
			return established, fmt.Errorf("reading: %w", err)
		}
		msg, err := irc.ParseMessage(line)
		if err != nil {
			c.logger.Debug("ignoring malformed line", zap.String("line", line), zap.Error(err))
			continue
		}

		switch msg.Command {
		case "001":
			established = true
			c.logger.Info("chat connected",
				zap.String("login", c.cfg.Login),
				zap.Duration("elapsed", time.Since(start)),
			)
		case "JOIN":
			if strings.EqualFold(senderNick(msg), c.cfg.Login) {
				c.logger.Info("joined channel", zap.String("channel", msg.Param(0)))
			}
		case "PING":
			if err := conn.WriteLine(pongCommand(msg.Trailing()).String()); err != nil {
				return established, fmt.Errorf("answering ping: %w", err)
			}
		case "RECONNECT":
			return established, errReconnect
		case "NOTICE":
			if !established && strings.Contains(strings.ToLower(msg.Trailing()), "authentication failed") {
				return false, fmt.Errorf("%w: %s", ErrAuthFailed, msg.Trailing())
			}
			c.logger.Info("chat notice", zap.String("text", msg.Trailing()))
		case "PRIVMSG":
			c.dispatch(ctx, conn, msg)
		}
	}
}

func (c *Client) login(conn Conn) error {
	for _, m := range []*irc.Message{
		passCommand(c.cfg.Password()),
		nickCommand(c.cfg.Login),
		capReq(Capabilities...),
		joinCommand(c.cfg.Channel),
	} {
		if err := conn.WriteLine(m.String()); err != nil {
			return fmt.Errorf("sending %s: %w", m.Command, err)
		}
	}
	return nil
}

func (c *Client) dispatch(ctx context.Context, conn Conn, m *irc.Message) {
	msg := FromIRC(m)
	c.logger.Debug("chat message received",
		zap.String("id", msg.ID),
		zap.String("user", msg.Login),
		zap.String("text", msg.Text),
	)
	reply, ok := c.handler.HandleMessage(ctx, msg)
	if !ok || reply == "" {
		return
	}
	if err := c.say(conn, reply); err != nil {
		c.logger.Warn("sending reply", zap.String("id", msg.ID), zap.Error(err))
	}
}

func (c *Client) setConn(conn Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}
