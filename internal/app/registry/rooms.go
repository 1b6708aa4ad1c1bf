package registry

import (
	"sync"

	"github.com/Shubham-rawat0/chatApp/internal/core/contracts"
)

// Rooms is the process-wide room → live-subscriber index. It tracks socket
// subscriptions only; whether a subscriber may actually send to the room is a
// durable-membership question answered by the router at send time.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]map[string]contracts.Client // roomID → connID → client
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms: make(map[string]map[string]contracts.Client),
	}
}

func (r *Rooms) Join(roomID string, c contracts.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[string]contracts.Client)
	}
	r.rooms[roomID][c.ConnID()] = c
}

func (r *Rooms) BroadcastTargets(roomID, excludeConnID string) []contracts.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := r.rooms[roomID]
	targets := make([]contracts.Client, 0, len(subs))
	for connID, c := range subs {
		if connID == excludeConnID {
			continue
		}
		targets = append(targets, c)
	}
	return targets
}

// Leave removes the connection from the given rooms. The caller passes the
// rooms it tracked locally for this connection, so cleanup never scans the
// whole index.
func (r *Rooms) Leave(connID string, roomIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, roomID := range roomIDs {
		subs := r.rooms[roomID]
		if subs == nil {
			continue
		}
		delete(subs, connID)
		if len(subs) == 0 {
			delete(r.rooms, roomID)
		}
	}
}
