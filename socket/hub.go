// Package socket pushes content updates to open view pages. Viewers are
// read-only: they subscribe to a short id and receive the current content on
// join plus every successful save afterwards. There is no editing over the
// socket; saves go through the HTTP update endpoint.
package socket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"quickshare/internal/common"
	"quickshare/pkg/logger"

	"github.com/gorilla/websocket"
)

const UpdateType = "UPDATE"

// ContentLoader supplies the current content for a short id when the first
// viewer of a document connects. The document repository satisfies it.
type ContentLoader interface {
	GetContent(ctx context.Context, shortID string) (string, error)
}

// Message is the wire format pushed to viewers.
type Message struct {
	Type    string `json:"type"`
	ShortID string `json:"short_id"`
	Content string `json:"content"`
}

// Update is what the service submits after a successful save.
type Update struct {
	ShortID string
	Content string
}

type Hub struct {
	Rooms      map[string]map[*Viewer]bool
	Broadcast  chan Update
	Register   chan *Viewer
	Unregister chan *Viewer
	loader     ContentLoader

	// Last known content per room so late joiners skip the DB.
	contentCache map[string]string
	mu           sync.Mutex
}

type Viewer struct {
	Hub     *Hub
	Conn    *websocket.Conn
	ShortID string
	Send    chan []byte
}

func NewHub(loader ContentLoader) *Hub {
	return &Hub{
		Rooms:        make(map[string]map[*Viewer]bool),
		Broadcast:    make(chan Update),
		Register:     make(chan *Viewer),
		Unregister:   make(chan *Viewer),
		loader:       loader,
		contentCache: make(map[string]string),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case viewer := <-h.Register:
			h.mu.Lock()
			current, cached := h.contentCache[viewer.ShortID]
			h.mu.Unlock()

			if !cached {
				content, err := h.loader.GetContent(context.Background(), viewer.ShortID)
				switch {
				case errors.Is(err, common.ErrNotFound):
					// No such document: close instead of serving an empty one.
					logger.Sugar.Warnf("Rejecting viewer: document %s not found", viewer.ShortID)
					close(viewer.Send)
					viewer.Conn.Close()
					continue
				case err != nil:
					// Transient load failure: admit the viewer without initial
					// content and leave the cache empty so the next join
					// retries the load.
					logger.Sugar.Errorf("Failed to load document %s for live view: %v", viewer.ShortID, err)
				default:
					current = content
					cached = true
					h.mu.Lock()
					h.contentCache[viewer.ShortID] = content
					h.mu.Unlock()
				}
			}

			h.mu.Lock()
			if h.Rooms[viewer.ShortID] == nil {
				h.Rooms[viewer.ShortID] = make(map[*Viewer]bool)
			}
			h.Rooms[viewer.ShortID][viewer] = true
			h.mu.Unlock()

			// Send the full current content so the page renders immediately.
			if cached {
				initial, _ := json.Marshal(Message{Type: UpdateType, ShortID: viewer.ShortID, Content: current})
				viewer.Send <- initial
			}

		case viewer := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Rooms[viewer.ShortID][viewer]; ok {
				delete(h.Rooms[viewer.ShortID], viewer)
				close(viewer.Send)

				if len(h.Rooms[viewer.ShortID]) == 0 {
					delete(h.Rooms, viewer.ShortID)
					delete(h.contentCache, viewer.ShortID)
					logger.Sugar.Infof("Closed empty live view room: %s", viewer.ShortID)
				}
			}
			h.mu.Unlock()

		case update := <-h.Broadcast:
			h.mu.Lock()
			if _, ok := h.Rooms[update.ShortID]; !ok {
				// Nobody is watching this document.
				h.mu.Unlock()
				continue
			}
			h.contentCache[update.ShortID] = update.Content

			payload, err := json.Marshal(Message{Type: UpdateType, ShortID: update.ShortID, Content: update.Content})
			if err != nil {
				logger.Sugar.Errorf("Error marshalling live view update: %v", err)
				h.mu.Unlock()
				continue
			}

			// Copy the recipient list so the lock is not held during I/O.
			viewers := make([]*Viewer, 0, len(h.Rooms[update.ShortID]))
			for viewer := range h.Rooms[update.ShortID] {
				viewers = append(viewers, viewer)
			}
			h.mu.Unlock()

			for _, viewer := range viewers {
				select {
				case viewer.Send <- payload:
				default:
					// Send buffer full, the viewer is lagging. Drop it rather
					// than block the hub. The send must not happen inline:
					// Run is the only reader of Unregister.
					logger.Sugar.Warnf("Viewer of %s is lagging, unregistering", update.ShortID)
					go func(v *Viewer) { h.Unregister <- v }(viewer)
				}
			}
		}
	}
}

// Notify submits a content update for fan-out to any connected viewers.
func (h *Hub) Notify(shortID, content string) {
	h.Broadcast <- Update{ShortID: shortID, Content: content}
}
