package services

import "sync"

// ConnectionHandle is a live, pushable connection for one authenticated user.
// The socket layer adapts its connections to this so the registry and the
// dispatcher never depend on the transport.
type ConnectionHandle interface {
	ID() string
	Emit(event string, payload interface{})
}

// SessionRegistry maps a user to their live connection handle. It is
// process-local in-memory state; a multi-process deployment would need to
// externalize it, which the pairing logic deliberately does not assume.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]ConnectionHandle
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]ConnectionHandle)}
}

// Bind registers a handle for a user, replacing any prior one. A second
// connection silently supersedes the first; pushes to the superseded handle
// become no-ops on its side.
func (r *SessionRegistry) Bind(userID string, handle ConnectionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = handle
}

// Unbind removes the binding only if handle is still the registered one, so a
// stale disconnect from a superseded connection cannot clear a newer binding.
// It reports whether a binding was removed.
func (r *SessionRegistry) Unbind(userID string, handle ConnectionHandle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sessions[userID]
	if !ok || current.ID() != handle.ID() {
		return false
	}
	delete(r.sessions, userID)
	return true
}

// Lookup returns the live handle for a user, if any.
func (r *SessionRegistry) Lookup(userID string) (ConnectionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handle, ok := r.sessions[userID]
	return handle, ok
}

// Count returns the number of bound sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
