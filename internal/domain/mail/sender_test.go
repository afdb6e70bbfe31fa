package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/domain/domaintest"
)

type fakeGateway struct {
	err  error
	sent []Message
}

func (g *fakeGateway) Deliver(_ context.Context, msg Message) error {
	if g.err != nil {
		return g.err
	}
	g.sent = append(g.sent, msg)
	return nil
}

type fakeQueue struct {
	err    error
	queued []Message
}

func (q *fakeQueue) Enqueue(_ context.Context, msg Message) error {
	if q.err != nil {
		return q.err
	}
	q.queued = append(q.queued, msg)
	return nil
}

func newFixture(t *testing.T) (*Template, *Sender, *fakeGateway, *fakeQueue) {
	t.Helper()
	tpl := NewTemplate("MT-1", "Quotation", ModelSaleOrder)
	tpl.Subject = "Quotation {{ object.number }}"
	tpl.Body = "<p>Dear {{ partner.name }}, {{ company.name }} sends {{ object.number }}.</p>"
	require.NoError(t, tpl.Validate(context.Background()))

	gw := &fakeGateway{}
	q := &fakeQueue{}
	repo := domaintest.NewMemoryRepo[*Template]("mail_template", tpl)
	return tpl, NewSender(repo, gw, q, "sales@example.com"), gw, q
}

func request(tpl *Template) Request {
	tplID := tpl.ID
	return Request{
		TemplateID: &tplID,
		Model:      ModelSaleOrder,
		RecordID:   id.New(),
		To:         "buyer@example.com",
		Lang:       "fr_FR",
		Render: RenderContext{
			Object:  map[string]any{"number": "SO-00042"},
			Company: map[string]any{"name": "ACME"},
			Partner: map[string]any{"name": "Jane"},
		},
	}
}

func TestSend_StrictDelivers(t *testing.T) {
	tpl, sender, gw, q := newFixture(t)

	res, err := sender.Send(context.Background(), request(tpl), Strict())
	require.NoError(t, err)
	assert.Equal(t, StatusSent, res.Status)
	require.Len(t, gw.sent, 1)
	assert.Empty(t, q.queued)

	msg := gw.sent[0]
	assert.Equal(t, "Quotation SO-00042", msg.Subject)
	assert.Equal(t, "<p>Dear Jane, ACME sends SO-00042.</p>", msg.Body)
	assert.Equal(t, "sales@example.com", msg.From)
	assert.Equal(t, "fr_FR", msg.Lang)
}

func TestSend_TemplateOverrides(t *testing.T) {
	tpl, sender, gw, _ := newFixture(t)
	from, lang := "billing@example.com", "en_US"
	tpl.EmailFrom = &from
	tpl.Lang = &lang

	_, err := sender.Send(context.Background(), request(tpl), Strict())
	require.NoError(t, err)
	require.Len(t, gw.sent, 1)
	assert.Equal(t, from, gw.sent[0].From)
	assert.Equal(t, lang, gw.sent[0].Lang)
}

func TestSend_GatewayFailure(t *testing.T) {
	tests := []struct {
		name       string
		opts       SendOptions
		wantErr    bool
		wantStatus Status
		wantQueued int
	}{
		{name: "strict surfaces the failure", opts: Strict(), wantErr: true, wantStatus: StatusFailed},
		{name: "best effort queues a retry", opts: BestEffort(), wantStatus: StatusQueued, wantQueued: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, sender, gw, q := newFixture(t)
			gw.err = errors.New("smtp relay down")

			res, err := sender.Send(context.Background(), request(tpl), tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsMailDelivery(err))
				assert.Equal(t, 502, apperror.GetHTTPStatus(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Len(t, q.queued, tt.wantQueued)
		})
	}
}

func TestSend_BestEffortQueueFailureIsSwallowed(t *testing.T) {
	tpl, sender, gw, q := newFixture(t)
	gw.err = errors.New("timeout")
	q.err = errors.New("db down")

	res, err := sender.Send(context.Background(), request(tpl), BestEffort())
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
}

func TestSend_NotForcedIsQueued(t *testing.T) {
	tpl, sender, gw, q := newFixture(t)

	res, err := sender.Send(context.Background(), request(tpl), SendOptions{RaiseOnError: true})
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, res.Status)
	assert.Empty(t, gw.sent)
	require.Len(t, q.queued, 1)
	assert.Equal(t, "Quotation SO-00042", q.queued[0].Subject)
}

func TestSend_NoTemplate(t *testing.T) {
	_, sender, gw, q := newFixture(t)
	req := Request{Model: ModelSaleOrder, RecordID: id.New(), To: "buyer@example.com"}

	res, err := sender.Send(context.Background(), req, Strict())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMailTemplateMissing, appErr.Code)
	assert.Equal(t, StatusTemplateRequired, res.Status)

	res, err = sender.Send(context.Background(), req, BestEffort())
	require.NoError(t, err)
	assert.Equal(t, StatusTemplateRequired, res.Status)
	assert.Empty(t, gw.sent)
	assert.Empty(t, q.queued)
}

func TestSend_NoRecipient(t *testing.T) {
	tpl, sender, gw, _ := newFixture(t)
	req := request(tpl)
	req.To = ""

	_, err := sender.Send(context.Background(), req, Strict())
	require.Error(t, err)

	res, err := sender.Send(context.Background(), req, BestEffort())
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Empty(t, gw.sent)
}

func TestSend_WrongModel(t *testing.T) {
	tpl, sender, _, _ := newFixture(t)
	req := request(tpl)
	req.Model = ModelInvoice

	_, err := sender.Send(context.Background(), req, Strict())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestTemplate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *Template)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Template) {}},
		{name: "unknown model", mutate: func(t *Template) { t.Model = "res.partner" }, wantErr: true},
		{name: "missing subject", mutate: func(t *Template) { t.Subject = "" }, wantErr: true},
		{name: "broken syntax", mutate: func(t *Template) { t.Body = "{% if %}" }, wantErr: true},
		{name: "bad sender", mutate: func(t *Template) { s := "nobody"; t.EmailFrom = &s }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := NewTemplate("MT", "Invoice", ModelInvoice)
			tpl.Subject = "Invoice {{ object.number }}"
			tt.mutate(tpl)
			err := tpl.Validate(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
