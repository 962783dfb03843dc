package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceManager tracks the cursor, selection and gesture of every
// session in a room, keyed by client id.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

// Merge folds the set fields of p into the stored presence and returns a
// copy of the result. A nil Selection keeps the previous one; an empty
// non-nil Selection clears it.
func (pm *PresenceManager) Merge(clientID string, p *PresencePayload) PresencePayload {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	cur, ok := pm.presences[clientID]
	if !ok {
		cur = &PresencePayload{}
		pm.presences[clientID] = cur
	}
	if p.Cursor != nil {
		c := *p.Cursor
		cur.Cursor = &c
	}
	if p.Selection != nil {
		cur.Selection = append([]string{}, p.Selection...)
	}
	if p.Mode != "" {
		cur.Mode = p.Mode
	}
	if p.DisplayName != "" {
		cur.DisplayName = p.DisplayName
	}
	return *cur
}

func (pm *PresenceManager) Remove(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, clientID)
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]*PresencePayload, len(pm.presences))
	for k, v := range pm.presences {
		p := *v
		result[k] = &p
	}
	return result
}

func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
