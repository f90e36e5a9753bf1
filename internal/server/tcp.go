package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// TCPConfig holds configuration for the line-protocol listener
type TCPConfig struct {
	Host          string
	Port          int
	OutboxSize    int
	WriteTimeout  time.Duration
	MaxLineLength int
}

// DefaultTCPConfig returns sensible defaults for the listener
func DefaultTCPConfig() TCPConfig {
	return TCPConfig{
		Host:          "",
		Port:          9000,
		OutboxSize:    DefaultOutboxSize,
		WriteTimeout:  10 * time.Second,
		MaxLineLength: 4096,
	}
}

// TCPServer accepts raw TCP connections carrying newline-terminated lines
type TCPServer struct {
	cfg        TCPConfig
	dispatcher *Dispatcher
	logger     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

// NewTCPServer creates a listener that feeds lines to dispatcher
func NewTCPServer(cfg TCPConfig, dispatcher *Dispatcher, logger *slog.Logger) *TCPServer {
	if cfg.OutboxSize <= 0 {
		cfg.OutboxSize = DefaultOutboxSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultTCPConfig().WriteTimeout
	}
	if cfg.MaxLineLength <= 0 {
		cfg.MaxLineLength = DefaultTCPConfig().MaxLineLength
	}
	return &TCPServer{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "tcp")),
		conns:      make(map[net.Conn]struct{}),
	}
}

// Listen binds the listening socket
func (s *TCPServer) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *TCPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until ctx is cancelled, then closes every open
// connection and waits for their handlers to finish
func (s *TCPServer) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.logger.Info("starting TCP server", slog.String("addr", s.Addr().String()))

	go func() {
		<-ctx.Done()
		s.shutdown()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				s.logger.Info("TCP server stopped")
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.track(conn, true)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.track(conn, false)
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *TCPServer) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		_ = s.listener.Close()
	}
	for conn := range s.conns {
		_ = conn.Close()
	}
}

func (s *TCPServer) track(conn net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

func (s *TCPServer) handleConn(ctx context.Context, conn net.Conn) {
	out := NewOutbox(&tcpLineWriter{conn: conn, timeout: s.cfg.WriteTimeout}, s.cfg.OutboxSize, s.logger)
	go out.Run()

	sess := NewSession(conn.RemoteAddr().String(), out)
	s.dispatcher.Connect(sess)

	defer func() {
		s.dispatcher.Disconnect(ctx, sess)
		_ = out.Close()
		select {
		case <-out.Done():
		case <-time.After(s.cfg.WriteTimeout):
		}
		_ = conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 1024), s.cfg.MaxLineLength)
	for scanner.Scan() {
		if err := s.dispatcher.Handle(ctx, sess, scanner.Text()); err != nil {
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Debug("read ended", slog.String("session_id", sess.ID()), slog.String("error", err.Error()))
	}
}

// tcpLineWriter writes newline-terminated lines with a per-line deadline
type tcpLineWriter struct {
	conn    net.Conn
	timeout time.Duration
}

func (w *tcpLineWriter) WriteLine(line string) error {
	_ = w.conn.SetWriteDeadline(time.Now().Add(w.timeout))
	_, err := w.conn.Write([]byte(line + "\n"))
	return err
}

func (w *tcpLineWriter) Close() error {
	return w.conn.Close()
}
