package cli

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// LineConn is a client connection speaking the newline-delimited protocol
type LineConn struct {
	conn   net.Conn
	reader *bufio.Reader

	mu sync.Mutex
}

// Dial connects to the game server
func Dial(ctx context.Context, addr string, timeout time.Duration) (*LineConn, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return &LineConn{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Send writes one line. Safe for concurrent use.
func (c *LineConn) Send(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}

// ReadLine blocks until the next line arrives
func (c *LineConn) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadUntil reads lines until one starts with prefix or the timeout elapses
func (c *LineConn) ReadUntil(timeout time.Duration, prefixes ...string) (string, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return "", err
	}
	defer func() { _ = c.conn.SetReadDeadline(time.Time{}) }()

	for {
		line, err := c.ReadLine()
		if err != nil {
			return "", err
		}
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				return line, nil
			}
		}
	}
}

// Close closes the connection
func (c *LineConn) Close() error {
	return c.conn.Close()
}
