package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/khushalshaarma/vedacode-signaling/internal/hub"
	"github.com/khushalshaarma/vedacode-signaling/internal/protocol"
)

// ServeWs returns the handler for websocket upgrade requests. Each
// upgraded connection gets a UUIDv7 identifier, is registered with the
// transport and announced to the hub, then serviced by its own read
// and write goroutines.
func ServeWs(h *hub.Hub, transport *Transport, log zerolog.Logger, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  maxMessageSize,
		WriteBufferSize: maxMessageSize,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := &Client{
			id:        uuid.Must(uuid.NewV7()).String(),
			conn:      conn,
			hub:       h,
			transport: transport,
			send:      make(chan protocol.Message, sendQueueSize),
			log:       log,
		}

		transport.add(client)

		// Queue the "connected" frame before the read loop starts so
		// the client learns its ID ahead of any relayed traffic.
		h.Connect(client.id)

		go client.writePump()
		go client.readPump()
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients send no Origin header.
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
