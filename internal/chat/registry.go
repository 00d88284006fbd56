package chat

import "sync"

// Registry maps an identity to the connection that most recently logged in
// with it.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Bind associates identity with conn, replacing any previous association.
// The replaced connection is left open.
func (r *Registry) Bind(identity string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[identity] = conn
}

// Lookup returns the connection bound to identity.
func (r *Registry) Lookup(identity string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[identity]
	return conn, ok
}

// Unbind removes identity from the registry regardless of which connection
// it is bound to. Unknown identities are ignored.
func (r *Registry) Unbind(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, identity)
}

// UnbindIf removes identity only while it is still bound to conn. It
// reports whether the entry was removed.
func (r *Registry) UnbindIf(identity string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bound, ok := r.conns[identity]; !ok || bound != conn {
		return false
	}
	delete(r.conns, identity)
	return true
}

// Len returns the number of bound identities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
