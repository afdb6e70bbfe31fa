package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/id"
	domainmail "saletype/internal/domain/mail"
	"saletype/internal/infrastructure/storage/postgres"
)

func testMessage() domainmail.Message {
	return domainmail.Message{
		TemplateID: id.New().String(),
		Model:      domainmail.ModelInvoice,
		RecordID:   id.New().String(),
		From:       "billing@example.com",
		To:         "buyer@example.com",
		Subject:    "Invoice INV-00001",
		Body:       "<p>Hello</p>",
	}
}

func TestHTTPGateway_Deliver(t *testing.T) {
	var got sendRequest
	var auth, idem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		auth = r.Header.Get("Authorization")
		idem = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	gw := NewHTTPGateway(GatewayConfig{BaseURL: srv.URL, APIKey: "secret"})
	msg := testMessage()
	require.NoError(t, gw.Deliver(context.Background(), msg))

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, msg.Model+":"+msg.RecordID+":"+msg.TemplateID, idem)
	assert.Equal(t, []string{"buyer@example.com"}, got.To)
	assert.Equal(t, "Invoice INV-00001", got.Subject)
	assert.Equal(t, "<p>Hello</p>", got.HTML)
}

func TestHTTPGateway_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"recipient suppressed"}`))
	}))
	defer srv.Close()

	gw := NewHTTPGateway(GatewayConfig{BaseURL: srv.URL})
	err := gw.Deliver(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "recipient suppressed")
}

type fakePublisher struct {
	events []postgres.DomainEvent
}

func (p *fakePublisher) Publish(_ context.Context, e postgres.DomainEvent) error {
	p.events = append(p.events, e)
	return nil
}

type fakeGateway struct {
	err  error
	sent []domainmail.Message
}

func (g *fakeGateway) Deliver(_ context.Context, m domainmail.Message) error {
	if g.err != nil {
		return g.err
	}
	g.sent = append(g.sent, m)
	return nil
}

func TestOutbox_RoundTrip(t *testing.T) {
	pub := &fakePublisher{}
	msg := testMessage()
	require.NoError(t, NewOutboxQueue(pub).Enqueue(context.Background(), msg))
	require.Len(t, pub.events, 1)

	ev := pub.events[0]
	assert.Equal(t, EventSend, ev.EventType)
	assert.Equal(t, domainmail.ModelInvoice, ev.AggregateType)
	assert.Equal(t, msg.RecordID, ev.AggregateID.String())

	payload, err := json.Marshal(ev.Payload)
	require.NoError(t, err)

	gw := &fakeGateway{}
	h := NewOutboxHandler(gw)
	require.NoError(t, h.Handle(context.Background(), &postgres.OutboxMessage{
		ID:        id.New(),
		EventType: EventSend,
		Payload:   payload,
	}))
	require.Len(t, gw.sent, 1)
	assert.Equal(t, msg, gw.sent[0])
}

func TestOutboxQueue_InvalidRecord(t *testing.T) {
	msg := testMessage()
	msg.RecordID = "not-a-uuid"
	assert.Error(t, NewOutboxQueue(&fakePublisher{}).Enqueue(context.Background(), msg))
}

func TestOutboxHandler_Errors(t *testing.T) {
	gw := &fakeGateway{err: errors.New("down")}
	h := NewOutboxHandler(gw)

	tests := []struct {
		name string
		msg  *postgres.OutboxMessage
	}{
		{name: "unknown event", msg: &postgres.OutboxMessage{EventType: "order.confirmed"}},
		{name: "bad payload", msg: &postgres.OutboxMessage{EventType: EventSend, Payload: []byte("{")}},
		{name: "gateway down", msg: &postgres.OutboxMessage{EventType: EventSend, Payload: []byte(`{"to":"a@b.c"}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, h.Handle(context.Background(), tt.msg))
		})
	}
}
