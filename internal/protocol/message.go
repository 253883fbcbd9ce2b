package protocol

import "encoding/json"

// Event names exchanged with the browser clients. These mirror the
// socket event names the frontend already listens for, so they must
// not change without a coordinated frontend release.
const (
	// Client to server.
	EventJoinRoom    = "join-room"
	EventUserMessage = "user-message"

	// Server to client.
	EventConnected     = "connected"
	EventUserJoined    = "user-joined"
	EventExistingUsers = "existing-users"
	EventUserLeft      = "user-left"
	EventBotReply      = "bot-reply"
	EventError         = "error"

	// Relayed in both directions. Payloads are opaque to the server
	// beyond the roomId field used for routing.
	EventOffer        = "offer"
	EventAnswer       = "answer"
	EventICECandidate = "ice-candidate"
)

// Message is the envelope for every frame on the websocket, in both
// directions. Data is kept raw: the server routes frames, it does not
// interpret negotiation payloads.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`

	// From is the sender's connection ID, set by the server on
	// relayed frames so the recipient knows which peer is talking.
	From string `json:"from,omitempty"`

	// ID is a server-assigned ULID attached to relayed frames for
	// log correlation. Clients may ignore it.
	ID string `json:"id,omitempty"`
}

// RoomRef extracts just the roomId field from an otherwise opaque
// relay payload (offer, answer, ice-candidate).
type RoomRef struct {
	RoomID string `json:"roomId"`
}

// UserMessage is the chat-widget request payload.
type UserMessage struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// BotReply is the chat-widget response payload, broadcast to the whole
// room including the requester.
type BotReply struct {
	Reply string `json:"reply"`
	From  string `json:"from"`
}

// ErrorPayload is sent back to a client whose request was rejected.
type ErrorPayload struct {
	Error string `json:"error"`
}

// Raw marshals v and panics on failure. It is only used with types in
// this package, which always marshal.
func Raw(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
