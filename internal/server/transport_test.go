package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/deadnumber/internal/dependencies/mocks"
	"github.com/mcoot/deadnumber/internal/services/account"
	"github.com/mcoot/deadnumber/internal/services/room"
	"github.com/mcoot/deadnumber/internal/storage/memory"
	"github.com/mcoot/deadnumber/internal/testutil"
)

type TransportSuite struct {
	suite.Suite
	dispatcher *Dispatcher
	accounts   *account.Directory
	tcp        *TCPServer
	cancel     context.CancelFunc
	served     chan error
}

func TestTransportSuite(t *testing.T) {
	suite.Run(t, new(TransportSuite))
}

func (s *TransportSuite) SetupTest() {
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.accounts = account.New(memory.New(), clk, account.Config{BcryptCost: bcrypt.MinCost}, logger)
	s.Require().NoError(s.accounts.Register(context.Background(), "alice", "pw"))
	s.Require().NoError(s.accounts.Register(context.Background(), "bob", "pw"))

	s.dispatcher = NewDispatcher(s.accounts, room.NewRegistry(room.DefaultConfig()), clk,
		mocks.NewMockRandom(), DefaultDispatcherConfig(), logger)

	cfg := DefaultTCPConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	s.tcp = NewTCPServer(cfg, s.dispatcher, logger)
	s.Require().NoError(s.tcp.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.served = make(chan error, 1)
	go func() { s.served <- s.tcp.Serve(ctx) }()
}

func (s *TransportSuite) TearDownTest() {
	s.cancel()
	select {
	case err := <-s.served:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.Fail("tcp server did not stop")
	}
	s.dispatcher.Close()
}

type lineConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

func (s *TransportSuite) dial() *lineConn {
	conn, err := net.Dial("tcp", s.tcp.Addr().String())
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return &lineConn{conn: conn, reader: bufio.NewReader(conn)}
}

func (s *TransportSuite) write(c *lineConn, line string) {
	_, err := fmt.Fprintf(c.conn, "%s\n", line)
	s.Require().NoError(err)
}

func (s *TransportSuite) read(c *lineConn) string {
	s.Require().NoError(c.conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	line, err := c.reader.ReadString('\n')
	s.Require().NoError(err)
	return strings.TrimRight(line, "\r\n")
}

func (s *TransportSuite) TestTCPLoginAndCreate() {
	c := s.dial()

	s.write(c, "LOGIN|alice|pw")
	s.Equal("LOGIN_SUCCESS|alice", s.read(c))

	s.write(c, "CREATE_ROOM|fun")
	s.Equal("CREATE_SUCCESS|001|fun", s.read(c))
	s.Equal("NEW_ROOM|001|fun|1", s.read(c))
	s.Equal("ROOM_STATUS|fun|alice:WAIT;", s.read(c))
}

func (s *TransportSuite) TestTCPAcceptsCRLF() {
	c := s.dial()

	_, err := c.conn.Write([]byte("LOGIN|alice|pw\r\n"))
	s.Require().NoError(err)
	s.Equal("LOGIN_SUCCESS|alice", s.read(c))
}

func (s *TransportSuite) TestTCPDisconnectLogsOut() {
	c := s.dial()
	s.write(c, "LOGIN|alice|pw")
	s.Equal("LOGIN_SUCCESS|alice", s.read(c))

	s.Require().NoError(c.conn.Close())
	s.Eventually(func() bool { return !s.accounts.IsOnline("alice") }, 2*time.Second, 10*time.Millisecond)
	s.Eventually(func() bool { return s.dispatcher.SessionCount() == 0 }, 2*time.Second, 10*time.Millisecond)

	again := s.dial()
	s.write(again, "LOGIN|alice|pw")
	s.Equal("LOGIN_SUCCESS|alice", s.read(again))
}

func (s *TransportSuite) TestTCPOverlongLineDropsSession() {
	c := s.dial()
	s.write(c, "LOGIN|alice|pw")
	s.Equal("LOGIN_SUCCESS|alice", s.read(c))

	s.write(c, strings.Repeat("x", 10000))
	s.Eventually(func() bool { return !s.accounts.IsOnline("alice") }, 2*time.Second, 10*time.Millisecond)
}

func (s *TransportSuite) TestWebsocketBridge() {
	srv := httptest.NewServer(NewWebsocketHandler(s.dispatcher, 0, nil, testutil.NopLogger()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer ws.Close()

	s.Require().NoError(ws.WriteMessage(websocket.TextMessage, []byte("LOGIN|bob|pw\nGET_ROOMS")))
	s.Require().NoError(ws.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, msg, err := ws.ReadMessage()
	s.Require().NoError(err)
	s.Equal("LOGIN_SUCCESS|bob", string(msg))

	tcp := s.dial()
	s.write(tcp, "LOGIN|alice|pw")
	s.Equal("LOGIN_SUCCESS|alice", s.read(tcp))
	s.write(tcp, "CREATE_ROOM|fun")

	_, msg, err = ws.ReadMessage()
	s.Require().NoError(err)
	s.Equal("NEW_ROOM|001|fun|1", string(msg))
}

func (s *TransportSuite) TestWebsocketOriginCheck() {
	srv := httptest.NewServer(NewWebsocketHandler(s.dispatcher, 0, []string{"https://play.example.com"}, testutil.NopLogger()))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	testCases := []struct {
		name   string
		origin string
		ok     bool
	}{
		{name: "no origin", origin: "", ok: true},
		{name: "same origin", origin: srv.URL, ok: true},
		{name: "allowed origin", origin: "https://play.example.com", ok: true},
		{name: "foreign origin", origin: "https://evil.example.com", ok: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			header := http.Header{}
			if tc.origin != "" {
				header.Set("Origin", tc.origin)
			}
			ws, resp, err := websocket.DefaultDialer.Dial(url, header)
			if !tc.ok {
				s.Require().ErrorIs(err, websocket.ErrBadHandshake)
				s.Equal(http.StatusForbidden, resp.StatusCode)
				return
			}
			s.Require().NoError(err)
			_ = ws.Close()
		})
	}
}
