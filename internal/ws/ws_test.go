package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/khushalshaarma/vedacode-signaling/internal/hub"
	"github.com/khushalshaarma/vedacode-signaling/internal/protocol"
	"github.com/khushalshaarma/vedacode-signaling/internal/registry"
)

func TestSendToUnknownConnectionIsNoOp(t *testing.T) {
	tr := NewTransport(zerolog.Nop())
	// Must not panic or block.
	tr.Send("ghost", protocol.Message{Event: protocol.EventUserJoined})
}

func TestSendDropsWhenQueueFull(t *testing.T) {
	tr := NewTransport(zerolog.Nop())
	client := &Client{id: "c1", send: make(chan protocol.Message, 1)}
	tr.add(client)

	tr.Send("c1", protocol.Message{Event: "a"})
	tr.Send("c1", protocol.Message{Event: "b"}) // queue full, dropped

	if got := len(client.send); got != 1 {
		t.Fatalf("expected 1 queued frame, got %d", got)
	}
	if msg := <-client.send; msg.Event != "a" {
		t.Fatalf("expected first frame kept, got %q", msg.Event)
	}
}

func TestRemoveClosesQueueOnce(t *testing.T) {
	tr := NewTransport(zerolog.Nop())
	client := &Client{id: "c1", send: make(chan protocol.Message, 1)}
	tr.add(client)

	tr.remove("c1")
	tr.remove("c1") // second remove must be a no-op

	if _, ok := <-client.send; ok {
		t.Fatal("queue should be closed after remove")
	}
	tr.Send("c1", protocol.Message{Event: "late"}) // must not panic
}

// testPeer wraps a dialed websocket for the integration tests below.
type testPeer struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

func dialPeer(t *testing.T, url string) *testPeer {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	p := &testPeer{t: t, conn: conn}
	msg := p.expect(protocol.EventConnected)
	if err := json.Unmarshal(msg.Data, &p.id); err != nil {
		t.Fatal(err)
	}
	return p
}

// expect reads frames until one with the given event arrives.
func (p *testPeer) expect(event string) protocol.Message {
	p.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p.conn.SetReadDeadline(deadline)
		var msg protocol.Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			p.t.Fatalf("waiting for %s: %v", event, err)
		}
		if msg.Event == event {
			return msg
		}
	}
	p.t.Fatalf("no %s frame before deadline", event)
	return protocol.Message{}
}

func (p *testPeer) send(event string, data string) {
	p.t.Helper()
	msg := protocol.Message{Event: event, Data: json.RawMessage(data)}
	if err := p.conn.WriteJSON(msg); err != nil {
		p.t.Fatal(err)
	}
}

func (p *testPeer) join(roomID string) {
	p.t.Helper()
	p.send(protocol.EventJoinRoom, `"`+roomID+`"`)
}

func newSignalingServer(t *testing.T) string {
	t.Helper()
	log := zerolog.Nop()
	transport := NewTransport(log)
	h := hub.New(log, registry.New(), transport, nil, time.Second)
	srv := httptest.NewServer(ServeWs(h, transport, log, []string{"*"}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestNegotiationOverWire(t *testing.T) {
	url := newSignalingServer(t)

	a := dialPeer(t, url)
	a.join("room42")
	roster := a.expect(protocol.EventExistingUsers)
	var ids []string
	if err := json.Unmarshal(roster.Data, &ids); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("first joiner expected empty roster, got %v", ids)
	}

	b := dialPeer(t, url)
	b.join("room42")

	joined := a.expect(protocol.EventUserJoined)
	var joinedID string
	if err := json.Unmarshal(joined.Data, &joinedID); err != nil {
		t.Fatal(err)
	}
	if joinedID != b.id {
		t.Fatalf("a heard about %q, expected %q", joinedID, b.id)
	}

	roster = b.expect(protocol.EventExistingUsers)
	if err := json.Unmarshal(roster.Data, &ids); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != a.id {
		t.Fatalf("b expected roster [%s], got %v", a.id, ids)
	}

	a.send(protocol.EventOffer, `{"offer":{"sdp":"x"},"roomId":"room42"}`)
	offer := b.expect(protocol.EventOffer)
	if offer.From != a.id {
		t.Fatalf("offer sender %q, expected %q", offer.From, a.id)
	}

	b.send(protocol.EventAnswer, `{"answer":{"sdp":"y"},"roomId":"room42"}`)
	answer := a.expect(protocol.EventAnswer)
	if answer.From != b.id {
		t.Fatalf("answer sender %q, expected %q", answer.From, b.id)
	}
}

func TestPeerDisconnectNotifiesRoom(t *testing.T) {
	url := newSignalingServer(t)

	a := dialPeer(t, url)
	a.join("r")
	b := dialPeer(t, url)
	b.join("r")
	a.expect(protocol.EventUserJoined)

	b.conn.Close()

	left := a.expect(protocol.EventUserLeft)
	var id string
	if err := json.Unmarshal(left.Data, &id); err != nil {
		t.Fatal(err)
	}
	if id != b.id {
		t.Fatalf("expected departure of %q, got %q", b.id, id)
	}
}

func TestEmptyJoinGetsError(t *testing.T) {
	url := newSignalingServer(t)

	a := dialPeer(t, url)
	a.join("")
	errFrame := a.expect(protocol.EventError)

	var payload protocol.ErrorPayload
	if err := json.Unmarshal(errFrame.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Error == "" {
		t.Fatal("expected a populated error payload")
	}
}
