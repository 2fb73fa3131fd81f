package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	tailsvc "github.com/rzbill/ralphmc/internal/services/tail"
)

const (
	// wsWriteWait is how long a single websocket write may block.
	wsWriteWait = 10 * time.Second

	// wsPongWait is how long the read side waits between pongs before the
	// peer is considered gone.
	wsPongWait = 60 * time.Second

	// wsReadLimit caps inbound message size. Clients are not expected to
	// send anything beyond control frames.
	wsReadLimit = 1024
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard may be served from a different origin than the API.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsSink adapts a websocket connection into a tail sink. Events go out as
// JSON text messages and keepalives as ping control frames.
type wsSink struct {
	conn *websocket.Conn
	ctx  context.Context
}

func (s *wsSink) Send(ev tailsvc.Event) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(ev)
}

func (s *wsSink) Keepalive() error {
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

func (s *wsSink) Flush() error { return nil }

func (s *wsSink) Context() context.Context { return s.ctx }
