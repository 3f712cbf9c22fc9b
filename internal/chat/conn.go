// Package chat connects the bot to Twitch chat: line transports, the IRC
// session client, and reply splitting.
package chat

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrClosed is returned by Conn methods after Close.
var ErrClosed = errors.New("chat: connection closed")

// maxLineLength bounds a single inbound line; Twitch lines with full tags
// stay well below it.
const maxLineLength = 64 * 1024

// Conn is a bidirectional stream of IRC lines.
//
// ReadLine is called from one goroutine; WriteLine and Close may be called
// concurrently with it and with each other.
type Conn interface {
	// ReadLine returns the next line without its "\r\n".
	ReadLine() (string, error)
	// WriteLine sends line followed by "\r\n".
	WriteLine(line string) error
	// Close closes the connection, unblocking a pending ReadLine.
	Close() error
}

// LineConn is a Conn over a TCP (optionally TLS) stream.
type LineConn struct {
	raw     net.Conn
	scanner *bufio.Scanner
	mu      sync.Mutex
	closed  bool

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewLineConn wraps raw with line framing and per-operation deadlines.
//
// Precondition: raw must be a valid, open network connection.
// Postcondition: Returns a LineConn ready for reading and writing. A zero
// timeout disables the corresponding deadline.
func NewLineConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *LineConn {
	scanner := bufio.NewScanner(raw)
	scanner.Buffer(make([]byte, 4096), maxLineLength)
	return &LineConn{
		raw:          raw,
		scanner:      scanner,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// DialTCP connects to addr over TLS, or plain TCP when tlsConfig is nil.
//
// Postcondition: Returns a connected LineConn or a non-nil error.
func DialTCP(ctx context.Context, addr string, tlsConfig *tls.Config, readTimeout, writeTimeout time.Duration) (*LineConn, error) {
	var (
		raw net.Conn
		err error
	)
	if tlsConfig != nil {
		d := &tls.Dialer{Config: tlsConfig}
		raw, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		raw, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	return NewLineConn(raw, readTimeout, writeTimeout), nil
}

// ReadLine reads a single line, stripping the trailing "\r\n" or "\n".
//
// Postcondition: Returns the next line, or an error (io.EOF at end of stream,
// ErrClosed after Close).
func (c *LineConn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	if !c.scanner.Scan() {
		if c.isClosed() {
			return "", ErrClosed
		}
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSuffix(c.scanner.Text(), "\r"), nil
}

// WriteLine sends line followed by "\r\n".
//
// Precondition: line must not contain line breaks.
func (c *LineConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write([]byte(line + "\r\n"))
	return err
}

// Close closes the underlying connection. Repeated calls return nil.
func (c *LineConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.raw.Close()
}

func (c *LineConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
