package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	wsWriteWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	wsPongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than wsPongWait
	wsPingPeriod = (wsPongWait * 9) / 10

	// Maximum message size allowed from peer
	wsMaxMessageSize = 4096
)

// WebsocketHandler bridges websocket peers onto the line protocol. Each text
// frame carries one or more newline-separated lines.
type WebsocketHandler struct {
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	outboxSize int
	logger     *slog.Logger
}

// NewWebsocketHandler creates the /ws endpoint handler. Browser upgrades are
// accepted from the same origin and from allowedOrigins; "*" allows any origin.
func NewWebsocketHandler(dispatcher *Dispatcher, outboxSize int, allowedOrigins []string, logger *slog.Logger) *WebsocketHandler {
	return &WebsocketHandler{
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		outboxSize: outboxSize,
		logger:     logger.With(slog.String("component", "websocket")),
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimSuffix(a, "/"), origin) {
				return true
			}
		}
		return false
	}
}

// ServeHTTP upgrades the request and runs the session until the peer goes away
func (h *WebsocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := NewOutbox(&wsLineWriter{conn: conn}, h.outboxSize, h.logger)
	go out.Run()
	go h.pingLoop(ctx, conn)

	sess := NewSession(r.RemoteAddr, out)
	h.dispatcher.Connect(sess)

	defer func() {
		h.dispatcher.Disconnect(ctx, sess)
		_ = out.Close()
		select {
		case <-out.Done():
		case <-time.After(wsWriteWait):
		}
		_ = conn.Close()
	}()

	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read ended", slog.String("error", err.Error()))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := h.dispatcher.Handle(ctx, sess, line); err != nil {
				return
			}
		}
	}
}

func (h *WebsocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// wsLineWriter sends each line as its own text frame
type wsLineWriter struct {
	conn *websocket.Conn
}

func (w *wsLineWriter) WriteLine(line string) error {
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (w *wsLineWriter) Close() error {
	return w.conn.Close()
}
