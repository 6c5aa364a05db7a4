package sse

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dimitrije/harbor-teams/internal/teamform"
	"github.com/google/uuid"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AlertEvent struct {
	FormID   uuid.UUID `json:"form_id"`
	Message  string    `json:"message"`
	Severity string    `json:"severity"`
}

type FormClosedEvent struct {
	FormID uuid.UUID `json:"form_id"`
}

// Client is one open event stream. Forms holds the form sessions it follows.
type Client struct {
	ID    string
	Email string
	Forms map[uuid.UUID]bool
	Send  chan []byte
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *FormMessage
	mu         sync.RWMutex
}

type FormMessage struct {
	FormID uuid.UUID
	Event  Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *FormMessage, 256),
	}
}

// Run dispatches registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Event)
			for _, client := range h.clients {
				if client.Forms[msg.FormID] {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) Follow(clientID string, formID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		client.Forms[formID] = true
	}
}

func (h *Hub) Unfollow(clientID string, formID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Forms, formID)
	}
}

// BroadcastAlert publishes a submission alert to every client following the
// form.
func (h *Hub) BroadcastAlert(formID uuid.UUID, alert teamform.Alert) {
	h.broadcast <- &FormMessage{
		FormID: formID,
		Event: Event{
			Type: "alert",
			Data: AlertEvent{
				FormID:   formID,
				Message:  alert.Message,
				Severity: string(alert.Severity),
			},
		},
	}
}

func (h *Hub) BroadcastFormClosed(formID uuid.UUID) {
	h.broadcast <- &FormMessage{
		FormID: formID,
		Event: Event{
			Type: "form_closed",
			Data: FormClosedEvent{FormID: formID},
		},
	}
}
