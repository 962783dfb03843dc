package collab

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/inamate/inamate/editor-go/internal/engine"
)

// Room groups the sessions editing one project. It remembers the last
// document any session loaded or snapshotted so that later joiners start
// from it.
type Room struct {
	projectID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
	document  string
}

func NewRoom(projectID string) *Room {
	return &Room{
		projectID: projectID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // projectID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	engineOpts []engine.Option
}

// NewHub creates a hub whose sessions are built with opts.
func NewHub(opts ...engine.Option) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		engineOpts: opts,
	}
}

func (h *Hub) engineOptions() []engine.Option {
	return append([]engine.Option(nil), h.engineOpts...)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run. Clients still connected are left to their pumps.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		room = NewRoom(client.ProjectID)
		h.rooms[client.ProjectID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// Send current presence state to new client
	stateMsg := room.presence.StateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		ClientID:    client.ClientID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:     TypePresenceJoin,
		UserID:   client.UserID,
		ClientID: client.ClientID,
		Payload:  joinPayload,
	}
	h.broadcastToRoom(client.ProjectID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "project", client.ProjectID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.ClientID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.ProjectID)
	}
	h.mu.Unlock()

	// Broadcast leave to remaining clients
	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		UserID:   client.UserID,
		ClientID: client.ClientID,
	})
	leaveMsg := &Message{
		Type:     TypePresenceLeave,
		UserID:   client.UserID,
		ClientID: client.ClientID,
		Payload:  leavePayload,
	}
	h.broadcastToRoom(client.ProjectID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "project", client.ProjectID)
}

// updatePresence merges a presence change of sender and broadcasts the
// merged state to the rest of the room.
func (h *Hub) updatePresence(sender *Client, presence *PresencePayload) {
	h.mu.RLock()
	room, ok := h.rooms[sender.ProjectID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	presence.DisplayName = sender.DisplayName
	merged := room.presence.Merge(sender.ClientID, presence)

	outPayload, _ := json.Marshal(merged)
	outMsg := &Message{
		Type:     TypePresenceUpdate,
		UserID:   sender.UserID,
		ClientID: sender.ClientID,
		Payload:  outPayload,
	}
	h.broadcastToRoom(sender.ProjectID, outMsg, sender.ClientID)
}

func (h *Hub) roomDocument(projectID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[projectID]; ok {
		return room.document
	}
	return ""
}

func (h *Hub) storeDocument(projectID, doc string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[projectID]; ok {
		room.document = doc
	}
}

func (h *Hub) broadcastToRoom(projectID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[projectID]
	if !ok {
		return
	}

	// Send never blocks, and holding the lock keeps removeClient from
	// closing a channel mid-broadcast.
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}
