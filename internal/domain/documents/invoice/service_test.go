package invoice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/domain"
	"saletype/internal/domain/catalogs/journal"
	"saletype/internal/domain/documents/documentstest"
	"saletype/internal/domain/domaintest"
	"saletype/internal/domain/mail"
	"saletype/internal/domain/saletype"
)

type memInvoices struct {
	mu    sync.Mutex
	docs  map[id.ID]Invoice
	lines map[id.ID][]Line
}

func newMemInvoices() *memInvoices {
	return &memInvoices{docs: map[id.ID]Invoice{}, lines: map[id.ID][]Line{}}
}

func (m *memInvoices) Create(_ context.Context, doc *Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memInvoices) GetByID(_ context.Context, docID id.ID) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	doc.Lines = nil
	return &doc, nil
}

func (m *memInvoices) GetByNumber(_ context.Context, number string) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.docs {
		if doc.Number == number {
			return &doc, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (m *memInvoices) Update(_ context.Context, doc *Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.docs[doc.ID]
	if !ok {
		return apperror.NewNotFound("invoice", doc.ID.String())
	}
	if cur.Version != doc.Version {
		return apperror.NewConcurrentModification("invoice", doc.ID)
	}
	doc.Version++
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memInvoices) Delete(_ context.Context, docID id.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, docID)
	return nil
}

func (m *memInvoices) GetLines(_ context.Context, docID id.ID) ([]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Line(nil), m.lines[docID]...), nil
}

func (m *memInvoices) SaveLines(_ context.Context, docID id.ID, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[docID] = append([]Line(nil), lines...)
	return nil
}

func (m *memInvoices) List(context.Context, ListFilter) (domain.ListResult[*Invoice], error) {
	return domain.ListResult[*Invoice]{}, nil
}

func (m *memInvoices) GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error) {
	return m.GetByID(ctx, docID)
}

type fakeJournals struct {
	byID        map[id.ID]*journal.Journal
	defaultSale *journal.Journal
}

func (f *fakeJournals) GetByID(_ context.Context, journalID id.ID) (*journal.Journal, error) {
	j, ok := f.byID[journalID]
	if !ok {
		return nil, apperror.NewNotFound("journal", journalID.String())
	}
	return j, nil
}

func (f *fakeJournals) GetDefaultSale(_ context.Context, companyID id.ID) (*journal.Journal, error) {
	if f.defaultSale == nil {
		return nil, apperror.NewNotFound("journal", companyID.String())
	}
	return f.defaultSale, nil
}

type invoiceFixture struct {
	*documentstest.Fixture
	svc      *Service
	repo     *memInvoices
	prefixes []string
	typ      *saletype.SaleType
	sale     *journal.Journal
	typeJrnl *journal.Journal
	term     id.ID
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()

	typ := documentstest.Type("RETAIL", 10)
	f := &invoiceFixture{
		Fixture: documentstest.NewFixture(typ),
		repo:    newMemInvoices(),
		typ:     typ,
		term:    id.New(),
	}
	f.sale = journal.NewJournal("SAL", "Customer Invoices", journal.TypeSale, f.Company.ID)
	f.sale.ShortCode = "INV"
	f.typeJrnl = journal.NewJournal("RET", "Retail Invoices", journal.TypeSale, f.Company.ID)
	f.typeJrnl.ShortCode = "RTL"

	typ.JournalID = documentstest.Ref(f.typeJrnl.ID)
	typ.PaymentTermID = documentstest.Ref(f.term)

	journals := &fakeJournals{
		byID: map[id.ID]*journal.Journal{
			f.sale.ID:     f.sale,
			f.typeJrnl.ID: f.typeJrnl,
		},
		defaultSale: f.sale,
	}

	num := &numerator.MockGenerator{
		GetNextNumberFunc: func(_ context.Context, cfg numerator.Config, _ *numerator.Options, _ time.Time) (string, error) {
			f.prefixes = append(f.prefixes, cfg.Prefix)
			return cfg.Prefix + "/00001", nil
		},
	}

	f.svc = NewService(ServiceConfig{
		Repo:      f.repo,
		TxManager: &domaintest.TxManager{},
		Numerator: num,
		Types:     f.Assigner,
		Journals:  journals,
		Requests:  f.Requests,
		Mailer:    f.Mailer,
	})
	return f
}

func (f *invoiceFixture) invoice(moveType MoveType) *Invoice {
	doc := NewInvoice(f.Company.ID, f.Customer.ID, moveType)
	doc.AddLine(id.New(), decimal.NewFromInt(3), decimal.NewFromInt(7))
	return doc
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name        string
		moveType    MoveType
		explicit    bool
		wantType    bool
		wantJournal func(f *invoiceFixture) id.ID
		wantTerm    bool
	}{
		{
			name:        "customer invoice resolves type and takes its journal",
			moveType:    MoveOutInvoice,
			wantType:    true,
			wantJournal: func(f *invoiceFixture) id.ID { return f.typeJrnl.ID },
			wantTerm:    true,
		},
		{
			name:        "explicit type keeps the default journal",
			moveType:    MoveOutInvoice,
			explicit:    true,
			wantType:    true,
			wantJournal: func(f *invoiceFixture) id.ID { return f.sale.ID },
		},
		{
			name:     "vendor bill never carries a type or a sale journal",
			moveType: MoveInInvoice,
			explicit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvoiceFixture(t)
			doc := f.invoice(tt.moveType)
			if tt.explicit {
				doc.SetSaleTypeID(f.typ.ID)
			}

			require.NoError(t, f.svc.Create(context.Background(), doc))

			if tt.wantType {
				assert.Equal(t, f.typ.ID, doc.GetSaleTypeID())
			} else {
				assert.False(t, doc.HasSaleType())
			}
			if tt.wantJournal == nil {
				assert.Nil(t, doc.JournalID)
			} else {
				require.NotNil(t, doc.JournalID)
				assert.Equal(t, tt.wantJournal(f), *doc.JournalID)
			}
			assert.Equal(t, tt.wantTerm, doc.PaymentTermID != nil)
			assert.Equal(t, "/", doc.Number)
		})
	}
}

func TestService_ChangeSaleType_NotSale(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	doc := f.invoice(MoveEntry)
	require.NoError(t, f.svc.Create(ctx, doc))

	_, _, err := f.svc.ChangeSaleType(ctx, doc.ID, f.typ.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMoveTypeNotSale, appErr.Code)
}

func TestService_Post_Numbering(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	doc := f.invoice(MoveOutInvoice)
	require.NoError(t, f.svc.Create(ctx, doc))

	posted, res, err := f.svc.Post(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.True(t, posted.Posted)
	assert.Equal(t, 1, posted.PostedVersion)
	assert.Equal(t, "RTL/00001", posted.Number)
	assert.Empty(t, f.Mailer.Calls)

	_, _, err = f.svc.Post(ctx, doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentPosted, appErr.Code)
}

func TestService_Post_RequiresLines(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	doc := NewInvoice(f.Company.ID, f.Customer.ID, MoveOutInvoice)
	require.NoError(t, f.svc.Create(ctx, doc))

	_, _, err := f.svc.Post(ctx, doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_Post_AutomaticMail(t *testing.T) {
	tests := []struct {
		name       string
		mailerErr  error
		result     mail.Result
		wantStatus mail.Status
		wantResult bool
	}{
		{
			name:       "sent",
			wantStatus: mail.StatusSent,
			wantResult: true,
		},
		{
			name:       "queued after gateway failure",
			result:     mail.Result{Status: mail.StatusQueued, Error: "gateway down"},
			wantStatus: mail.StatusQueued,
			wantResult: true,
		},
		{
			name:      "mailer error does not fail posting",
			mailerErr: errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvoiceFixture(t)
			ctx := context.Background()
			templateID := id.New()
			f.typ.InvoiceTemplateID = &templateID
			f.typ.SendInvoiceMailAutomatically = true
			f.Mailer.Result = tt.result
			f.Mailer.Err = tt.mailerErr

			doc := f.invoice(MoveOutInvoice)
			require.NoError(t, f.svc.Create(ctx, doc))

			posted, res, err := f.svc.Post(ctx, doc.ID)
			require.NoError(t, err)
			assert.True(t, posted.Posted)

			require.Len(t, f.Mailer.Calls, 1)
			assert.Equal(t, mail.BestEffort(), f.Mailer.Calls[0].Options)
			assert.Equal(t, &templateID, f.Mailer.Calls[0].Request.TemplateID)
			assert.Equal(t, Model, f.Mailer.Calls[0].Request.Model)

			if !tt.wantResult {
				assert.Nil(t, res)
				return
			}
			require.NotNil(t, res)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestService_Send_Strict(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	f.Mailer.Err = apperror.NewMailTemplateMissing(Model, "x")

	doc := f.invoice(MoveOutInvoice)
	require.NoError(t, f.svc.Create(ctx, doc))

	_, err := f.svc.Send(ctx, doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMailTemplateMissing, appErr.Code)

	require.Len(t, f.Mailer.Calls, 1)
	assert.Equal(t, mail.Strict(), f.Mailer.Calls[0].Options)
	assert.Nil(t, f.Mailer.Calls[0].Request.TemplateID)
}

func TestService_Refund(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	doc := f.invoice(MoveOutInvoice)
	require.NoError(t, f.svc.Create(ctx, doc))

	_, err := f.svc.Refund(ctx, doc.ID)
	require.Error(t, err)

	posted, _, err := f.svc.Post(ctx, doc.ID)
	require.NoError(t, err)

	refund, err := f.svc.Refund(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, MoveOutRefund, refund.MoveType)
	assert.Equal(t, f.typ.ID, refund.GetSaleTypeID())
	assert.Equal(t, posted.Number, refund.InvoiceOrigin)
	require.NotNil(t, refund.ReversedEntryID)
	assert.Equal(t, doc.ID, *refund.ReversedEntryID)
	assert.Equal(t, posted.AmountTotal.String(), refund.AmountTotal.String())

	_, _, err = f.svc.Post(ctx, refund.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"RTL", "RRTL"}, f.prefixes)
}

func TestService_Classify(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	other := documentstest.Type("SERVICES", 20)
	servicesJournal, servicesTerm := id.New(), id.New()
	other.JournalID = documentstest.Ref(servicesJournal)
	other.PaymentTermID = documentstest.Ref(servicesTerm)
	category := id.New()
	rule := saletype.NewRule("services")
	rule.CategoryIDs = []id.ID{category}
	other.AddRule(rule)
	require.NoError(t, f.Types.Create(ctx, other))

	doc := f.invoice(MoveOutInvoice)
	f.Categories[doc.Lines[0].ProductID] = category
	require.NoError(t, f.svc.Create(ctx, doc))

	entry := f.invoice(MoveEntry)
	require.NoError(t, f.svc.Create(ctx, entry))

	results, err := f.svc.Classify(ctx, []id.ID{doc.ID, entry.ID})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Changed)
	assert.Equal(t, other.ID.String(), *results[0].SaleTypeID)
	assert.Equal(t, "not_sale", results[1].Skipped)
	assert.Nil(t, results[1].SaleTypeID)

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, stored.GetSaleTypeID())
	require.NotNil(t, stored.JournalID)
	assert.Equal(t, servicesJournal, *stored.JournalID)
	require.NotNil(t, stored.PaymentTermID)
	assert.Equal(t, servicesTerm, *stored.PaymentTermID)
}
