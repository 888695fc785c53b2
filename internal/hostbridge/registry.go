package hostbridge

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Registry tracks live clients so the server can close them on shutdown.
// Boards are never shared between clients.
type Registry struct {
	mu         sync.RWMutex
	clients    map[string]*Client // clientID -> client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	log        *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logger,
	}
}

func (r *Registry) Run() {
	for {
		select {
		case client := <-r.register:
			r.addClient(client)
		case client := <-r.unregister:
			r.removeClient(client)
		case <-r.done:
			return
		}
	}
}

func (r *Registry) Register(client *Client) {
	select {
	case r.register <- client:
	case <-r.done:
	}
}

func (r *Registry) Unregister(client *Client) {
	select {
	case r.unregister <- client:
	case <-r.done:
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

func (r *Registry) addClient(client *Client) {
	r.mu.Lock()
	r.clients[client.ID] = client
	r.mu.Unlock()

	r.log.Info("client connected", "client", client.ID, "session", client.session.ID)
}

func (r *Registry) removeClient(client *Client) {
	r.mu.Lock()
	if _, ok := r.clients[client.ID]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.clients, client.ID)
	close(client.send)
	r.mu.Unlock()

	client.session.Close()
	r.log.Info("client disconnected", "client", client.ID)
}

// Stop ends Run and closes every live connection.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)

		r.mu.Lock()
		defer r.mu.Unlock()
		for id, client := range r.clients {
			client.conn.Close(websocket.StatusGoingAway, "server shutting down")
			delete(r.clients, id)
		}
		r.log.Info("registry stopped")
	})
}
