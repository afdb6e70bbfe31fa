package sale_order

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
	"saletype/internal/domain/documents/documentstest"
	"saletype/internal/domain/documents/invoice"
	"saletype/internal/domain/domaintest"
	"saletype/internal/domain/mail"
	"saletype/internal/domain/report"
	"saletype/internal/domain/saletype"
)

type memOrders struct {
	mu    sync.Mutex
	docs  map[id.ID]SaleOrder
	lines map[id.ID][]Line
}

func newMemOrders() *memOrders {
	return &memOrders{docs: map[id.ID]SaleOrder{}, lines: map[id.ID][]Line{}}
}

func (m *memOrders) Create(_ context.Context, doc *SaleOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memOrders) GetByID(_ context.Context, docID id.ID) (*SaleOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("sale_order", docID.String())
	}
	doc.Lines = nil
	return &doc, nil
}

func (m *memOrders) GetByNumber(_ context.Context, number string) (*SaleOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.docs {
		if doc.Number == number {
			return &doc, nil
		}
	}
	return nil, apperror.NewNotFound("sale_order", number)
}

func (m *memOrders) Update(_ context.Context, doc *SaleOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.docs[doc.ID]
	if !ok {
		return apperror.NewNotFound("sale_order", doc.ID.String())
	}
	if cur.Version != doc.Version {
		return apperror.NewConcurrentModification("sale_order", doc.ID)
	}
	doc.Version++
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memOrders) Delete(_ context.Context, docID id.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, docID)
	return nil
}

func (m *memOrders) GetLines(_ context.Context, docID id.ID) ([]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Line(nil), m.lines[docID]...), nil
}

func (m *memOrders) SaveLines(_ context.Context, docID id.ID, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[docID] = append([]Line(nil), lines...)
	return nil
}

func (m *memOrders) List(context.Context, ListFilter) (domain.ListResult[*SaleOrder], error) {
	return domain.ListResult[*SaleOrder]{}, nil
}

func (m *memOrders) GetForUpdate(ctx context.Context, docID id.ID) (*SaleOrder, error) {
	return m.GetByID(ctx, docID)
}

type fakePrinter struct {
	calls []id.ID
}

func (p *fakePrinter) Print(_ context.Context, reportID *id.ID, model string, recordIDs []id.ID) (*report.Action, error) {
	p.calls = append(p.calls, *reportID)
	return &report.Action{Type: report.ActionType, ReportID: reportID.String(), Model: model}, nil
}

type fakeInvoices struct {
	created []*invoice.Invoice
}

func (f *fakeInvoices) Create(_ context.Context, doc *invoice.Invoice) error {
	f.created = append(f.created, doc)
	return nil
}

type orderFixture struct {
	*documentstest.Fixture
	svc       *Service
	repo      *memOrders
	printer   *fakePrinter
	invoices  *fakeInvoices
	prefixes  []string
	retail    *saletype.SaleType
	wholesale *saletype.SaleType
	warehouse id.ID
	term      id.ID
	route     id.ID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	prefix := "RET"
	retail := documentstest.Type("RETAIL", 10)
	retail.SequencePrefix = &prefix
	wholesale := documentstest.Type("WHOLESALE", 20)

	f := &orderFixture{
		Fixture:   documentstest.NewFixture(retail, wholesale),
		repo:      newMemOrders(),
		printer:   &fakePrinter{},
		invoices:  &fakeInvoices{},
		retail:    retail,
		wholesale: wholesale,
		warehouse: id.New(),
		term:      id.New(),
		route:     id.New(),
	}
	retail.WarehouseID = documentstest.Ref(f.warehouse)
	retail.PaymentTermID = documentstest.Ref(f.term)
	retail.PickingPolicy = saletype.PickingOne
	retail.RouteID = documentstest.Ref(f.route)

	num := &numerator.MockGenerator{
		GetNextNumberFunc: func(_ context.Context, cfg numerator.Config, _ *numerator.Options, _ time.Time) (string, error) {
			f.prefixes = append(f.prefixes, cfg.Prefix)
			return cfg.Prefix + "-00001", nil
		},
	}

	f.svc = NewService(ServiceConfig{
		Repo:      f.repo,
		TxManager: &domaintest.TxManager{},
		Numerator: num,
		Types:     f.Assigner,
		Requests:  f.Requests,
		Mailer:    f.Mailer,
		Printer:   f.printer,
		Invoices:  f.invoices,
	})
	return f
}

func (f *orderFixture) order() *SaleOrder {
	doc := NewSaleOrder(f.Company.ID, f.Customer.ID)
	doc.AddLine(id.New(), decimal.NewFromInt(2), decimal.NewFromInt(5))
	return doc
}

func TestService_Create_ResolvesAndCascades(t *testing.T) {
	f := newOrderFixture(t)
	f.Customer.SaleTypeID = documentstest.Ref(f.retail.ID)

	doc := f.order()
	require.NoError(t, f.svc.Create(context.Background(), doc))

	assert.Equal(t, f.retail.ID, doc.GetSaleTypeID())
	require.NotNil(t, doc.WarehouseID)
	assert.Equal(t, f.warehouse, *doc.WarehouseID)
	require.NotNil(t, doc.PaymentTermID)
	assert.Equal(t, f.term, *doc.PaymentTermID)
	assert.Equal(t, saletype.PickingOne, doc.PickingPolicy)
	require.NotNil(t, doc.Lines[0].RouteID)
	assert.Equal(t, f.route, *doc.Lines[0].RouteID)

	assert.Equal(t, "RET-00001", doc.Number)
	assert.Equal(t, []string{"RET"}, f.prefixes)
	assert.Equal(t, "10.00", doc.AmountTotal.StringFixed(2))
}

func TestService_Create_FallsBackToFirstCompanyType(t *testing.T) {
	f := newOrderFixture(t)
	f.retail.Sequence = 30

	doc := f.order()
	require.NoError(t, f.svc.Create(context.Background(), doc))

	assert.Equal(t, f.wholesale.ID, doc.GetSaleTypeID())
	assert.Nil(t, doc.WarehouseID)
	assert.Equal(t, []string{DefaultPrefix}, f.prefixes)
}

func TestService_Create_ExplicitTypeSkipsCascade(t *testing.T) {
	f := newOrderFixture(t)

	doc := f.order()
	doc.SetSaleTypeID(f.retail.ID)
	require.NoError(t, f.svc.Create(context.Background(), doc))

	assert.Equal(t, f.retail.ID, doc.GetSaleTypeID())
	assert.Nil(t, doc.WarehouseID)
	assert.Nil(t, doc.PaymentTermID)
	require.NotNil(t, doc.Lines[0].RouteID)
	assert.Equal(t, f.route, *doc.Lines[0].RouteID)
}

func TestService_Create_KeepsGivenNumber(t *testing.T) {
	f := newOrderFixture(t)

	doc := f.order()
	doc.Number = "MANUAL-1"
	require.NoError(t, f.svc.Create(context.Background(), doc))

	assert.Equal(t, "MANUAL-1", doc.Number)
	assert.Empty(t, f.prefixes)
}

func TestService_Create_RejectsTypeOfAnotherCompany(t *testing.T) {
	f := newOrderFixture(t)
	f.retail.CompanyID = documentstest.Ref(id.New())

	doc := f.order()
	doc.SetSaleTypeID(f.retail.ID)
	err := f.svc.Create(context.Background(), doc)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCompanyMismatch, appErr.Code)
	assert.Empty(t, f.repo.docs)
}

func TestService_ChangePartner(t *testing.T) {
	tests := []struct {
		name        string
		partnerType bool
		wantType    func(f *orderFixture) id.ID
		wantChanged []string
	}{
		{
			name:        "partner without type keeps the current one",
			wantType:    func(f *orderFixture) id.ID { return f.wholesale.ID },
			wantChanged: []string{"partner_id"},
		},
		{
			name:        "partner type replaces the current one",
			partnerType: true,
			wantType:    func(f *orderFixture) id.ID { return f.retail.ID },
			wantChanged: []string{"partner_id", "sale_type_id", "warehouse_id", "picking_policy", "payment_term_id", "order_line.route_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			ctx := context.Background()

			doc := f.order()
			doc.SetSaleTypeID(f.wholesale.ID)
			require.NoError(t, f.svc.Create(ctx, doc))

			other := documentstest.NewFixture().Customer
			if tt.partnerType {
				other.SaleTypeID = documentstest.Ref(f.retail.ID)
			}
			require.NoError(t, f.Partners.Create(ctx, other))

			got, changed, err := f.svc.ChangePartner(ctx, doc.ID, other.ID)
			require.NoError(t, err)
			assert.Equal(t, other.ID, got.PartnerID)
			assert.Equal(t, tt.wantType(f), got.GetSaleTypeID())
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestService_ChangeSaleType_RejectsConfirmed(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	doc := f.order()
	require.NoError(t, f.svc.Create(ctx, doc))
	_, err := f.svc.Confirm(ctx, doc.ID)
	require.NoError(t, err)

	_, _, err = f.svc.ChangeSaleType(ctx, doc.ID, f.wholesale.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentPosted, appErr.Code)
}

func TestService_OnTypeChangeHook(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	var seen []id.ID
	f.svc.Hooks().OnTypeChanged(func(_ context.Context, doc *SaleOrder) error {
		seen = append(seen, doc.GetSaleTypeID())
		return nil
	})

	doc := f.order()
	doc.SetSaleTypeID(f.wholesale.ID)
	require.NoError(t, f.svc.Create(ctx, doc))

	_, changed, err := f.svc.ChangeSaleType(ctx, doc.ID, f.retail.ID)
	require.NoError(t, err)
	assert.Contains(t, changed, "warehouse_id")
	assert.Equal(t, []id.ID{f.retail.ID}, seen)
}

func TestService_AddLineAppliesRoute(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	doc := f.order()
	doc.SetSaleTypeID(f.retail.ID)
	require.NoError(t, f.svc.Create(ctx, doc))

	got, err := f.svc.AddLine(ctx, doc.ID, id.New(), decimal.NewFromInt(1), decimal.NewFromInt(3))
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	require.NotNil(t, got.Lines[1].RouteID)
	assert.Equal(t, f.route, *got.Lines[1].RouteID)
	assert.Equal(t, "13.00", got.AmountTotal.StringFixed(2))
}

func TestService_Classify(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	product := id.New()
	rule := saletype.NewRule("wholesale products")
	rule.ProductIDs = []id.ID{product}
	f.wholesale.AddRule(rule)

	wholesaleWarehouse, wholesaleTerm, pricelist := id.New(), id.New(), id.New()
	f.wholesale.WarehouseID = documentstest.Ref(wholesaleWarehouse)
	f.wholesale.PaymentTermID = documentstest.Ref(wholesaleTerm)
	f.wholesale.PricelistID = documentstest.Ref(pricelist)

	var typeChanges int
	f.svc.Hooks().OnTypeChanged(func(context.Context, *SaleOrder) error {
		typeChanges++
		return nil
	})

	draft := NewSaleOrder(f.Company.ID, f.Customer.ID)
	draft.AddLine(product, decimal.NewFromInt(1), decimal.NewFromInt(1))
	draft.SetSaleTypeID(f.retail.ID)
	require.NoError(t, f.svc.Create(ctx, draft))

	confirmed := NewSaleOrder(f.Company.ID, f.Customer.ID)
	confirmed.AddLine(product, decimal.NewFromInt(1), decimal.NewFromInt(1))
	confirmed.SetSaleTypeID(f.retail.ID)
	require.NoError(t, f.svc.Create(ctx, confirmed))
	_, err := f.svc.Confirm(ctx, confirmed.ID)
	require.NoError(t, err)

	results, err := f.svc.Classify(ctx, []id.ID{draft.ID, confirmed.ID})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Changed)
	require.NotNil(t, results[0].SaleTypeID)
	assert.Equal(t, f.wholesale.ID.String(), *results[0].SaleTypeID)

	assert.False(t, results[1].Changed)
	assert.Equal(t, "locked", results[1].Skipped)
	assert.Equal(t, f.retail.ID.String(), *results[1].SaleTypeID)

	stored, err := f.svc.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, f.wholesale.ID, stored.GetSaleTypeID())
	assert.Equal(t, 1, typeChanges)

	// The wholesale defaults cascade. Wholesale has no route, so lines
	// keep the retail one.
	require.NotNil(t, stored.WarehouseID)
	assert.Equal(t, wholesaleWarehouse, *stored.WarehouseID)
	require.NotNil(t, stored.PaymentTermID)
	assert.Equal(t, wholesaleTerm, *stored.PaymentTermID)
	require.NotNil(t, stored.PricelistID)
	assert.Equal(t, pricelist, *stored.PricelistID)
	require.NotNil(t, stored.Lines[0].RouteID)
	assert.Equal(t, f.route, *stored.Lines[0].RouteID)

	again, err := f.svc.Classify(ctx, []id.ID{draft.ID})
	require.NoError(t, err)
	assert.False(t, again[0].Changed)
	assert.Equal(t, 1, typeChanges)
}

func TestService_SendQuotation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	templateID := id.New()
	f.retail.QuotationTemplateID = &templateID

	doc := f.order()
	doc.SetSaleTypeID(f.retail.ID)
	require.NoError(t, f.svc.Create(ctx, doc))

	res, err := f.svc.SendQuotation(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, mail.StatusSent, res.Status)

	require.Len(t, f.Mailer.Calls, 1)
	call := f.Mailer.Calls[0]
	assert.Equal(t, mail.Strict(), call.Options)
	assert.Equal(t, &templateID, call.Request.TemplateID)
	assert.Equal(t, Model, call.Request.Model)
	assert.Equal(t, "buyer@example.com", call.Request.To)
	assert.Equal(t, "fr_FR", call.Request.Lang)
	assert.Equal(t, doc.Number, call.Request.Render.Object["number"])

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSent, stored.State)
}

func TestService_SendQuotation_FailureKeepsDraft(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.Mailer.Err = apperror.NewMailDelivery("tpl", errors.New("gateway down"))

	doc := f.order()
	require.NoError(t, f.svc.Create(ctx, doc))

	_, err := f.svc.SendQuotation(ctx, doc.ID)
	assert.True(t, apperror.IsMailDelivery(err))

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StateDraft, stored.State)
}

func TestService_PrintQuotation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	doc := f.order()
	doc.SetSaleTypeID(f.retail.ID)
	require.NoError(t, f.svc.Create(ctx, doc))

	action, err := f.svc.PrintQuotation(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, action)

	reportID := id.New()
	f.retail.QuotationReportID = &reportID
	action, err = f.svc.PrintQuotation(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, reportID.String(), action.ReportID)
	assert.Equal(t, []id.ID{reportID}, f.printer.calls)
}

func TestService_CreateInvoice(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	journalID := id.New()
	f.retail.JournalID = &journalID

	doc := f.order()
	doc.SetSaleTypeID(f.retail.ID)
	doc.PaymentTermID = documentstest.Ref(f.term)
	require.NoError(t, f.svc.Create(ctx, doc))

	_, err := f.svc.CreateInvoice(ctx, doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)

	_, err = f.svc.Confirm(ctx, doc.ID)
	require.NoError(t, err)

	inv, err := f.svc.CreateInvoice(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, f.invoices.created, 1)

	assert.Equal(t, invoice.MoveOutInvoice, inv.MoveType)
	assert.Equal(t, f.retail.ID, inv.GetSaleTypeID())
	require.NotNil(t, inv.JournalID)
	assert.Equal(t, journalID, *inv.JournalID)
	require.NotNil(t, inv.PaymentTermID)
	assert.Equal(t, f.term, *inv.PaymentTermID)
	assert.Equal(t, doc.Number, inv.InvoiceOrigin)
	require.NotNil(t, inv.SaleOrderID)
	assert.Equal(t, doc.ID, *inv.SaleOrderID)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "10.00", inv.AmountTotal.StringFixed(2))
}
