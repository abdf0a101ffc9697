// Package formws streams travel form lifecycle events to watching
// clients over WebSocket. Watchers are grouped per form ID; the stream
// is one way, clients only listen.
package formws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"travauth/db"
	"travauth/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	FormID string
}

type statusMsg struct {
	FormID string
	Data   []byte
}

type Hub struct {
	watchers   map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan statusMsg
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		watchers:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan statusMsg),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.watchers[c.FormID] == nil {
				h.watchers[c.FormID] = make(map[*Client]bool)
			}
			h.watchers[c.FormID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			// the broadcast branch may already have dropped this
			// client and closed its channel
			if conns := h.watchers[c.FormID]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.watchers[m.FormID] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.watchers[m.FormID], c)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for formID, conns := range h.watchers {
				for c := range conns {
					close(c.Send)
				}
				delete(h.watchers, formID)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and closes every watcher's send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Broadcast fans data out to every client watching the form.
func (h *Hub) Broadcast(formID string, data []byte) {
	select {
	case h.broadcast <- statusMsg{FormID: formID, Data: data}:
	case <-h.done:
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WatchTravelForm upgrades the connection and registers the caller as
// a watcher of the form. The form's current status is replayed first
// so a late subscriber does not miss where the form already stands.
func WatchTravelForm(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		formID := ps.ByName("formid")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			FormID: formID,
		}

		// queue the current status as the first frame before the hub
		// learns about the client, so this send cannot race a close
		if data := statusSnapshot(formID); data != nil {
			client.Send <- data
		}

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

// statusSnapshot fetches where the form currently stands so a late
// subscriber does not miss transitions that already happened.
func statusSnapshot(formID string) []byte {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var form models.TravelForm
	err := db.TravelFormsCollection.FindOne(ctx, bson.M{
		"formid":  formID,
		"deleted": bson.M{"$ne": true},
	}).Decode(&form)
	if err != nil {
		log.Println("status replay:", err)
		return nil
	}

	data, err := json.Marshal(models.FormEvent{
		FormID: form.FormID,
		Status: form.Status,
		At:     time.Now().Unix(),
	})
	if err != nil {
		return nil
	}
	return data
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		select {
		case hub.unregister <- c:
		case <-hub.done:
		}
		c.Conn.Close()
	}()

	// watchers never send anything meaningful, drain until close
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
