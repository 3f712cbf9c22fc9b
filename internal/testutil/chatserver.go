package testutil

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// ChatServer is a scripted plain-TCP IRC server for client tests. It accepts
// any number of sequential connections; lines from the current connection
// are delivered on Lines.
type ChatServer struct {
	t        *testing.T
	listener net.Listener

	// Lines receives every line sent by the client, without "\r\n".
	Lines chan string
	// Accepted receives once per accepted connection.
	Accepted chan struct{}

	mu   sync.Mutex
	conn net.Conn
}

// NewChatServer starts a server on a random loopback port.
//
// Postcondition: Returns a listening server that is closed when the test ends.
func NewChatServer(t *testing.T) *ChatServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	s := &ChatServer{
		t:        t,
		listener: listener,
		Lines:    make(chan string, 256),
		Accepted: make(chan struct{}, 16),
	}
	go s.accept()
	t.Cleanup(s.Close)
	return s
}

// Addr returns the "host:port" the server listens on.
func (s *ChatServer) Addr() string {
	return s.listener.Addr().String()
}

func (s *ChatServer) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()
		s.Accepted <- struct{}{}

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			s.Lines <- strings.TrimSuffix(scanner.Text(), "\r")
		}
	}
}

// Send writes a raw line to the current connection, appending "\r\n".
//
// Precondition: A client is connected.
func (s *ChatServer) Send(line string) {
	s.t.Helper()
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		s.t.Fatalf("sending %q: no client connected", line)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(conn, "%s\r\n", line); err != nil {
		s.t.Fatalf("sending %q: %v", line, err)
	}
}

// Expect reads client lines until one has the given prefix, failing the
// test after timeout.
//
// Postcondition: Returns the matching line.
func (s *ChatServer) Expect(prefix string, timeout time.Duration) string {
	s.t.Helper()
	deadline := time.After(timeout)
	var seen []string
	for {
		select {
		case line := <-s.Lines:
			if strings.HasPrefix(line, prefix) {
				return line
			}
			seen = append(seen, line)
		case <-deadline:
			s.t.Fatalf("waiting for line with prefix %q; got %q", prefix, seen)
			return ""
		}
	}
}

// WaitAccepted blocks until a new connection is accepted or timeout passes.
func (s *ChatServer) WaitAccepted(timeout time.Duration) {
	s.t.Helper()
	select {
	case <-s.Accepted:
	case <-time.After(timeout):
		s.t.Fatalf("no connection accepted within %s", timeout)
	}
}

// Disconnect closes the current connection from the server side.
func (s *ChatServer) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

// Close stops the listener and the current connection.
func (s *ChatServer) Close() {
	_ = s.listener.Close()
	s.Disconnect()
}
