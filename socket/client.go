package socket

import (
	"net/http"
	"time"

	"quickshare/pkg/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// View pages are served from a different origin than the gateway.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWs upgrades a view-page connection and registers it with the hub.
// The short id is the public read capability, so no credential is checked
// here, matching the public read endpoint.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, shortID string) {
	if shortID == "" {
		http.Error(w, "Missing short_id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	viewer := &Viewer{
		Hub:     hub,
		Conn:    conn,
		ShortID: shortID,
		Send:    make(chan []byte, 256),
	}
	viewer.Hub.Register <- viewer

	go viewer.writePump()
	go viewer.readPump()
}

// readPump only watches for the connection closing. Viewers are read-only;
// anything they send is discarded.
func (v *Viewer) readPump() {
	defer func() {
		v.Hub.Unregister <- v
		v.Conn.Close()
	}()

	for {
		if _, _, err := v.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("error: %v", err)
			}
			break
		}
	}
}

func (v *Viewer) writePump() {
	ticker := time.NewTicker(30 * time.Second) // Keepalive ping
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-v.Send:
			if !ok {
				v.Conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			v.Conn.WriteMessage(websocket.TextMessage, message)
		case <-ticker.C:
			if err := v.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Connection is dead
			}
		}
	}
}
