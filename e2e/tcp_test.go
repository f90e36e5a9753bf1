package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/deadnumber/internal/api/response"
	"github.com/mcoot/deadnumber/internal/factory"
	"github.com/mcoot/deadnumber/internal/protocol"
)

type client struct {
	s      *TCPSuite
	conn   net.Conn
	reader *bufio.Reader
}

func (c *client) send(line string) {
	_, err := fmt.Fprintf(c.conn, "%s\n", line)
	c.s.Require().NoError(err)
}

func (c *client) read() string {
	c.s.Require().NoError(c.conn.SetReadDeadline(time.Now().Add(3 * time.Second)))
	line, err := c.reader.ReadString('\n')
	c.s.Require().NoError(err)
	return strings.TrimRight(line, "\r\n")
}

// expect reads until a line with the given prefix arrives and returns it
func (c *client) expect(prefix string) string {
	for {
		line := c.read()
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
}

type TCPSuite struct {
	suite.Suite
	app    *factory.TestApp
	cancel context.CancelFunc
	done   chan error
}

func TestTCPSuite(t *testing.T) {
	suite.Run(t, new(TCPSuite))
}

func (s *TCPSuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.Require().NoError(s.app.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() { s.done <- s.app.Run(ctx) }()
}

func (s *TCPSuite) TearDownTest() {
	s.cancel()
	select {
	case err := <-s.done:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("server did not stop")
	}
}

func (s *TCPSuite) dial() *client {
	conn, err := net.Dial("tcp", s.app.TCPServer.Addr().String())
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return &client{s: s, conn: conn, reader: bufio.NewReader(conn)}
}

// player registers and logs in a fresh connection
func (s *TCPSuite) player(name string) *client {
	c := s.dial()
	c.send(protocol.Register(name, "secret"))
	s.Equal("REGISTER_RESULT|SUCCESS", c.read())
	c.send(protocol.Login(name, "secret"))
	s.Equal("LOGIN_SUCCESS|"+name, c.expect("LOGIN_"))
	return c
}

// table seats alice and bob in room 001 and starts a game with the given traps
func (s *TCPSuite) table(aliceTrap, bobTrap int) (*client, *client) {
	alice := s.player("alice")
	bob := s.player("bob")

	alice.send(protocol.CreateRoom("fun"))
	s.Equal("CREATE_SUCCESS|001|fun", alice.read())
	bob.send(protocol.JoinRoom("001"))
	s.Equal("ROOM_STATUS|fun|alice:WAIT;bob:WAIT;", bob.expect("ROOM_STATUS"))

	s.app.MockRandom.QueueTraps(aliceTrap, bobTrap)
	alice.send(protocol.Ready())
	bob.send(protocol.Ready())

	alice.expect("UPDATE")
	bob.expect("UPDATE")
	return alice, bob
}

func (s *TCPSuite) adminGet(path string, into any) {
	resp, err := http.Get("http://" + s.app.AdminServer.Addr() + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(into))
}

func (s *TCPSuite) TestFullGameToWinner() {
	alice, bob := s.table(5, 9)

	alice.send("ACTION|alice|CALL|3")
	s.Equal("UPDATE|3|CW|bob|alice:1:5;bob:1:?|1|1|1", bob.expect("UPDATE"))
	alice.expect("UPDATE")

	bob.send("ACTION|bob|PASS|0")
	s.Equal("UPDATE|3|CW|alice|alice:1:?;bob:1:9|2|1|1", alice.expect("UPDATE"))
	bob.expect("UPDATE")

	alice.send("ACTION|alice|CALL|2")
	s.Equal("WINNER|bob|alice:round 2 called 5;", alice.read())
	s.Equal("WINNER|bob|alice:round 2 called 5;", bob.expect("WINNER"))
	s.Equal("ROOM_STATUS|fun|alice:WAIT;bob:WAIT;", alice.read())

	var rooms response.RoomList
	s.adminGet("/api/v1/rooms", &rooms)
	s.Require().Len(rooms.Rooms, 1)
	s.Equal("waiting", rooms.Rooms[0].State)
	for _, m := range rooms.Rooms[0].Members {
		s.False(m.Ready)
	}
}

func (s *TCPSuite) TestTurnTimeoutCallsForIdlePlayer() {
	alice, bob := s.table(5, 9)

	// a reply to GET_ROOMS proves the dispatcher has armed the watchdog
	bob.send(protocol.GetRooms())
	bob.expect("NEW_ROOM")

	s.app.MockClock.Advance(15 * time.Second)

	s.Equal("UPDATE|1|CW|bob|alice:1:5;bob:1:?|1|1|1", bob.expect("UPDATE"))
	s.Equal("UPDATE|1|CW|bob|alice:1:?;bob:1:9|1|1|1", alice.expect("UPDATE"))
}

func (s *TCPSuite) TestDisconnectMidGameAwardsWin() {
	alice, bob := s.table(5, 9)

	s.Require().NoError(bob.conn.Close())

	s.Equal("WINNER|alice|bob:left in round 1;", alice.expect("WINNER"))

	again := s.dial()
	again.send(protocol.Login("bob", "secret"))
	s.Equal("LOGIN_SUCCESS|bob", again.read())
}

func (s *TCPSuite) TestSecondLoginRejected() {
	s.player("alice")

	other := s.dial()
	other.send(protocol.Login("ALICE", "secret"))
	s.Equal("ERROR|ALREADY_LOGGED_IN", other.read())
}

func (s *TCPSuite) TestHealthReportsSessions() {
	s.player("alice")
	s.player("bob")

	var health response.Health
	s.adminGet("/api/v1/health", &health)
	s.Equal("ok", health.Status)
	s.Equal(2, health.Sessions)
	s.Equal(2, health.Accounts)
}

func (s *TCPSuite) TestWebsocketPlayerSeesTCPRoom() {
	s.player("alice")

	ws, _, err := websocket.DefaultDialer.Dial("ws://"+s.app.AdminServer.Addr()+"/ws", nil)
	s.Require().NoError(err)
	defer ws.Close()

	s.Require().NoError(ws.WriteMessage(websocket.TextMessage, []byte(protocol.Register("carol", "pw"))))
	s.Require().NoError(ws.WriteMessage(websocket.TextMessage, []byte(protocol.Login("carol", "pw"))))

	s.Require().NoError(ws.SetReadDeadline(time.Now().Add(3 * time.Second)))
	_, msg, err := ws.ReadMessage()
	s.Require().NoError(err)
	s.Equal("REGISTER_RESULT|SUCCESS", string(msg))
	_, msg, err = ws.ReadMessage()
	s.Require().NoError(err)
	s.Equal("LOGIN_SUCCESS|carol", string(msg))

	s.Require().NoError(ws.WriteMessage(websocket.TextMessage, []byte(protocol.CreateRoom("web"))))
	_, msg, err = ws.ReadMessage()
	s.Require().NoError(err)
	s.Equal("CREATE_SUCCESS|001|web", string(msg))
}
