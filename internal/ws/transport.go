// Package ws is the websocket transport for the signaling hub. It owns
// the live connections; the hub only ever sees connection IDs.
package ws

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/khushalshaarma/vedacode-signaling/internal/metrics"
	"github.com/khushalshaarma/vedacode-signaling/internal/protocol"
)

// Transport maps connection IDs to live clients and implements
// hub.Sender. Send to an unknown or slow connection is a no-op; it
// never blocks and never surfaces an error to the caller.
type Transport struct {
	log     zerolog.Logger
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewTransport returns an empty Transport.
func NewTransport(log zerolog.Logger) *Transport {
	return &Transport{
		log:     log,
		clients: make(map[string]*Client),
	}
}

// Send queues msg for connID. Frames for a connection that has gone
// away are dropped silently; a full send queue drops the frame for
// that recipient only.
func (t *Transport) Send(connID string, msg protocol.Message) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	client, ok := t.clients[connID]
	if !ok {
		metrics.FramesDropped.WithLabelValues("gone").Inc()
		return
	}

	select {
	case client.send <- msg:
	default:
		metrics.FramesDropped.WithLabelValues("slow-recipient").Inc()
		t.log.Warn().Str("conn", connID).Str("event", msg.Event).Msg("send queue full, frame dropped")
	}
}

func (t *Transport) add(client *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clients[client.id] = client
	metrics.ConnectionsActive.Set(float64(len(t.clients)))
}

// remove deletes the client and closes its send queue. Closing under
// the write lock means no Send can race the close.
func (t *Transport) remove(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	client, ok := t.clients[connID]
	if !ok {
		return
	}
	delete(t.clients, connID)
	close(client.send)
	metrics.ConnectionsActive.Set(float64(len(t.clients)))
}

// Count returns the number of open connections.
func (t *Transport) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.clients)
}
