// Package hub routes signaling frames between room members. It owns no
// sockets: the transport layer feeds it decoded frames and it calls
// back through a Sender, so the whole state machine runs in tests with
// no network stack.
package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/khushalshaarma/vedacode-signaling/internal/bot"
	"github.com/khushalshaarma/vedacode-signaling/internal/metrics"
	"github.com/khushalshaarma/vedacode-signaling/internal/protocol"
	"github.com/khushalshaarma/vedacode-signaling/internal/registry"
)

// Sender delivers a frame to one connection. Implementations must be
// no-ops for connections that have already gone away and must never
// block on a slow recipient.
type Sender interface {
	Send(connID string, msg protocol.Message)
}

// Hub dispatches inbound frames and maintains room presence. Frames
// from one connection arrive in order (one read loop per connection),
// and sends go straight to per-connection buffered queues, so delivery
// order per sender-recipient pair matches send order.
type Hub struct {
	log       zerolog.Logger
	registry  *registry.Registry
	sender    Sender
	responder bot.Responder

	botTimeout time.Duration
}

// New creates a Hub. responder may be nil, in which case every chat
// request gets the fallback reply.
func New(log zerolog.Logger, reg *registry.Registry, sender Sender, responder bot.Responder, botTimeout time.Duration) *Hub {
	if botTimeout <= 0 {
		botTimeout = 15 * time.Second
	}
	return &Hub{
		log:        log,
		registry:   reg,
		sender:     sender,
		responder:  responder,
		botTimeout: botTimeout,
	}
}

// Connect registers a new connection. The client is told its assigned
// ID; peers learn about it only once it joins a room.
func (h *Hub) Connect(connID string) {
	h.log.Info().Str("conn", connID).Msg("client connected")
	h.sender.Send(connID, protocol.Message{
		Event: protocol.EventConnected,
		Data:  protocol.Raw(connID),
	})
}

// Disconnect removes connID from every room it joined and notifies the
// remaining members of each. It runs synchronously in the transport's
// teardown path, so no later frame can still reach the departed
// connection through the registry.
func (h *Hub) Disconnect(connID string) {
	affected := h.registry.LeaveAll(connID)
	for roomID, remaining := range affected {
		for _, peer := range remaining {
			h.sender.Send(peer, protocol.Message{
				Event: protocol.EventUserLeft,
				Data:  protocol.Raw(connID),
			})
		}
		h.log.Info().Str("conn", connID).Str("room", roomID).Msg("client left room")
	}
	metrics.RoomsActive.Set(float64(h.registry.RoomCount()))
	h.log.Info().Str("conn", connID).Msg("client disconnected")
}

// Dispatch handles one inbound frame. A panic inside a handler is
// recovered and logged so one bad frame cannot take down the process
// or other connections.
func (h *Hub) Dispatch(connID string, msg protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().
				Str("conn", connID).
				Str("event", msg.Event).
				Interface("panic", r).
				Msg("recovered from handler panic")
		}
	}()

	switch msg.Event {
	case protocol.EventJoinRoom:
		h.handleJoin(connID, msg.Data)
	case protocol.EventOffer, protocol.EventAnswer, protocol.EventICECandidate:
		h.handleRelay(connID, msg.Event, msg.Data)
	case protocol.EventUserMessage:
		h.handleUserMessage(connID, msg.Data)
	default:
		h.log.Warn().Str("conn", connID).Str("event", msg.Event).Msg("unknown event")
	}
}

// Shutdown clears all presence state.
func (h *Hub) Shutdown() {
	h.registry.Shutdown()
	metrics.RoomsActive.Set(0)
}

// RoomCount exposes the number of live rooms for health reporting.
func (h *Hub) RoomCount() int {
	return h.registry.RoomCount()
}

func (h *Hub) handleJoin(connID string, data json.RawMessage) {
	var roomID string
	if err := json.Unmarshal(data, &roomID); err != nil || roomID == "" {
		h.log.Warn().Str("conn", connID).Msg("join rejected: missing room id")
		h.sender.Send(connID, protocol.Message{
			Event: protocol.EventError,
			Data:  protocol.Raw(protocol.ErrorPayload{Error: "room id is required"}),
		})
		return
	}

	peers, already := h.registry.Join(roomID, connID)
	if !already {
		metrics.JoinsTotal.Inc()
		metrics.RoomsActive.Set(float64(h.registry.RoomCount()))
		h.log.Info().Str("conn", connID).Str("room", roomID).Int("peers", len(peers)).Msg("client joined room")
		for _, peer := range peers {
			h.sender.Send(peer, protocol.Message{
				Event: protocol.EventUserJoined,
				Data:  protocol.Raw(connID),
			})
		}
	}

	// The roster lets the joiner pick which peer to negotiate with
	// first. Sent on duplicate joins too; it is pure information.
	if peers == nil {
		peers = []string{}
	}
	h.sender.Send(connID, protocol.Message{
		Event: protocol.EventExistingUsers,
		Data:  protocol.Raw(peers),
	})
}

// handleRelay forwards an opaque negotiation payload to every other
// member of the payload's room. Presence bookkeeping can race with
// message arrival, so an unknown room or a non-member sender is a
// silent drop rather than an error.
func (h *Hub) handleRelay(connID, event string, data json.RawMessage) {
	var ref protocol.RoomRef
	if err := json.Unmarshal(data, &ref); err != nil || ref.RoomID == "" {
		metrics.FramesDropped.WithLabelValues("no-room").Inc()
		h.log.Debug().Str("conn", connID).Str("event", event).Msg("relay dropped: no room id")
		return
	}
	if !h.registry.Contains(ref.RoomID, connID) {
		metrics.FramesDropped.WithLabelValues("not-member").Inc()
		h.log.Debug().Str("conn", connID).Str("room", ref.RoomID).Str("event", event).Msg("relay dropped: sender not in room")
		return
	}

	frame := protocol.Message{
		Event: event,
		Data:  data,
		From:  connID,
		ID:    ulid.Make().String(),
	}
	for _, peer := range h.registry.Members(ref.RoomID) {
		if peer == connID {
			continue
		}
		h.sender.Send(peer, frame)
		metrics.FramesRelayed.WithLabelValues(event).Inc()
	}
}

// handleUserMessage asks the chat-completion collaborator for a reply
// and broadcasts it to the whole room, requester included. The upstream
// call runs off the dispatch path so a slow collaborator never stalls
// signaling for anyone else.
func (h *Hub) handleUserMessage(connID string, data json.RawMessage) {
	var req protocol.UserMessage
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		metrics.FramesDropped.WithLabelValues("no-room").Inc()
		h.log.Debug().Str("conn", connID).Msg("user message dropped: no room id")
		return
	}

	h.log.Info().Str("conn", connID).Str("room", req.RoomID).Msg("chat message received")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.botTimeout)
		defer cancel()

		reply, status := h.askResponder(ctx, req.Message)
		metrics.BotReplies.WithLabelValues(status).Inc()

		frame := protocol.Message{
			Event: protocol.EventBotReply,
			Data:  protocol.Raw(protocol.BotReply{Reply: reply, From: bot.SenderName}),
			ID:    ulid.Make().String(),
		}
		for _, peer := range h.registry.Members(req.RoomID) {
			h.sender.Send(peer, frame)
			metrics.FramesRelayed.WithLabelValues(protocol.EventBotReply).Inc()
		}
	}()
}

// askResponder never fails: any collaborator error becomes the
// user-visible fallback reply.
func (h *Hub) askResponder(ctx context.Context, message string) (reply, status string) {
	if h.responder == nil {
		return bot.FallbackReply, "error"
	}

	start := time.Now()
	reply, err := h.responder.Reply(ctx, message)
	metrics.BotLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		h.log.Error().Err(err).Msg("chat completion failed")
		return bot.FallbackReply, "error"
	}
	return reply, "ok"
}
