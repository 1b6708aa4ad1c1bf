package registry

import (
	"sync"

	"github.com/Shubham-rawat0/chatApp/internal/core/contracts"
)

// Presence is the process-wide user → connection index. Last register wins:
// a user opening a second connection displaces the first, which becomes a
// ghost receiver nothing routes to anymore. The displaced socket is not
// closed here; transport writes to a dead handle are a no-op.
type Presence struct {
	mu    sync.RWMutex
	users map[string]contracts.Client
}

func NewPresence() *Presence {
	return &Presence{
		users: make(map[string]contracts.Client),
	}
}

func (p *Presence) Register(userID string, c contracts.Client) contracts.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.users[userID]
	p.users[userID] = c
	if prev != nil && prev.ConnID() == c.ConnID() {
		return nil
	}
	return prev
}

func (p *Presence) Lookup(userID string) (contracts.Client, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.users[userID]
	return c, ok
}

// Remove only honors a removal whose connection handle matches the entry on
// file. A disconnect of a stale connection racing a newer register must not
// evict the newer registration.
func (p *Presence) Remove(userID, connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.users[userID]
	if !ok || c.ConnID() != connID {
		return false
	}
	delete(p.users, userID)
	return true
}

func (p *Presence) Online() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.users))
	for id := range p.users {
		ids = append(ids, id)
	}
	return ids
}
