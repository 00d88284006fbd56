package chat

import "sync"

// PresenceStatus is the last known connectivity of an identity.
type PresenceStatus int

// Presence states. Unknown is reported for identities never seen.
const (
	Unknown PresenceStatus = iota
	Online
	Offline
)

// String returns the lowercase wire name of the status.
func (s PresenceStatus) String() string {
	switch s {
	case Online:
		return "online"
	case Offline:
		return "offline"
	default:
		return "unknown"
	}
}

// Presence tracks online/offline status per identity. It is queried on
// demand only.
type Presence struct {
	mu     sync.RWMutex
	status map[string]PresenceStatus
}

// NewPresence creates an empty tracker.
func NewPresence() *Presence {
	return &Presence{status: make(map[string]PresenceStatus)}
}

// SetOnline marks identity online.
func (p *Presence) SetOnline(identity string) {
	p.set(identity, Online)
}

// SetOffline marks identity offline.
func (p *Presence) SetOffline(identity string) {
	p.set(identity, Offline)
}

func (p *Presence) set(identity string, s PresenceStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status[identity] = s
}

// Status returns the status of identity, or Unknown.
func (p *Presence) Status(identity string) PresenceStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status[identity]
}
