package client

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/newsline-app/newsline/realtime"
)

// Socket is the live side of the API: it receives broadcast events and can
// push reaction commands upstream.
type Socket struct {
	conn    *websocket.Conn
	events  chan realtime.Event
	writeMu sync.Mutex
	once    sync.Once
}

// DialSocket connects to the server's /ws endpoint (ws:// or wss:// URL).
func DialSocket(ctx context.Context, socketURL string) (*Socket, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, socketURL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	s := &Socket{conn: conn, events: make(chan realtime.Event, 64)}
	go s.readLoop()
	return s, nil
}

func (s *Socket) readLoop() {
	defer close(s.events)
	for {
		var event realtime.Event
		if err := s.conn.ReadJSON(&event); err != nil {
			return
		}
		s.events <- event
	}
}

// Events is closed when the connection drops or Close is called.
func (s *Socket) Events() <-chan realtime.Event {
	return s.events
}

func (s *Socket) send(action string, id uint) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(realtime.Command{Action: action, ID: id})
}

func (s *Socket) Like(id uint) error {
	return s.send(realtime.ActionLike, id)
}

func (s *Socket) Dislike(id uint) error {
	return s.send(realtime.ActionDislike, id)
}

func (s *Socket) View(id uint) error {
	return s.send(realtime.ActionView, id)
}

func (s *Socket) Close() error {
	var err error
	s.once.Do(func() {
		err = s.conn.Close()
	})
	return err
}
