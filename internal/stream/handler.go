package stream

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
	CheckOrigin:       func(r *http.Request) bool { return true },
}

// Handler upgrades a request to a websocket and attaches it to a new session
// for the lifetime of the connection.
type Handler struct {
	Hub *Hub
}

// ServeHTTP serves one client until either side closes the connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.Hub.Open()
	if err != nil {
		log.Printf("open session: %v", err)
		conn.WriteJSON(Frame{Type: FrameError, Message: err.Error()})
		if errors.Is(err, ErrHubFull) {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "hub is full"))
		}
		return
	}
	defer h.Hub.Close(session.ID)

	if err := conn.WriteJSON(Frame{Type: FrameWelcome, Session: session.ID}); err != nil {
		return
	}

	frames, unsubscribe := session.Subscribe()
	defer unsubscribe()

	// The writer owns all writes from here on. When the session ends it
	// closes the connection, which unblocks the reader below.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer conn.Close()
		for f := range frames {
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		}
	}()

	h.readCommands(conn, session)

	unsubscribe()
	<-writerDone
}

func (h *Handler) readCommands(conn *websocket.Conn, session *Session) {
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("session %s: read: %v", session.ID, err)
			}
			return
		}

		cmd, ok := ParseCommand(msg.Type)
		if !ok {
			log.Printf("session %s: unknown command %q", session.ID, msg.Type)
			continue
		}
		if !session.Send(cmd) {
			log.Printf("session %s: command queue full, dropped %s", session.ID, cmd)
		}
	}
}
