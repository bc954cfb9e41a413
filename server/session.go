package server

import (
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Session binds one long-lived stream connection to the registry. The
// transport carries the MCP session for that connection; POSTed protocol
// frames are handed to it and answered on the stream.
type Session struct {
	ID        string
	CreatedAt time.Time

	transport *mcp.SSEServerTransport
}

// Registry tracks live stream sessions for the process. Registration order
// is kept so senders with a stale or missing session id can fall back to
// the most recent connection.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

// Open registers a new session around the connection's transport.
func (r *Registry) Open(id string, transport *mcp.SSEServerTransport) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		transport: transport,
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.order = append(r.order, s.ID)
	r.mu.Unlock()
	return s
}

// Close deregisters the session.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return
	}
	delete(r.sessions, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Resolve finds the session for id, falling back to the most recently
// registered one. Nil means no session is connected at all.
func (r *Registry) Resolve(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	if len(r.order) == 0 {
		return nil
	}
	return r.sessions[r.order[len(r.order)-1]]
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
