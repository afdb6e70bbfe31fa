package saletype

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/domain/audit"
	"saletype/internal/domain/catalogs/journal"
	"saletype/internal/domain/catalogs/terms"
	"saletype/internal/domain/catalogs/warehouse"
	"saletype/internal/domain/domaintest"
)

type memTypeRepo struct {
	*domaintest.MemoryRepo[*SaleType]
}

func (r memTypeRepo) FirstForCompany(ctx context.Context, companyID id.ID) (*SaleType, error) {
	types, _ := r.Candidates(ctx, companyID)
	if len(types) == 0 {
		return nil, apperror.NewNotFound("sale_type", companyID.String())
	}
	return types[0], nil
}

func (r memTypeRepo) First(context.Context) (*SaleType, error) {
	types := r.All()
	SortTypes(types)
	if len(types) == 0 {
		return nil, apperror.NewNotFound("sale_type", "first")
	}
	return types[0], nil
}

func (r memTypeRepo) Candidates(_ context.Context, companyID id.ID) ([]*SaleType, error) {
	var out []*SaleType
	for _, t := range r.All() {
		if !t.DeletionMark && t.AvailableIn(companyID) {
			out = append(out, t)
		}
	}
	return out, nil
}

type recordedEntry struct {
	entityID id.ID
	action   audit.Action
	changes  map[string]any
}

type memRecorder struct {
	mu      sync.Mutex
	entries []recordedEntry
}

func (m *memRecorder) Record(_ context.Context, _ string, entityID id.ID, action audit.Action, changes map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, recordedEntry{entityID, action, changes})
	return nil
}

type serviceFixture struct {
	svc         *Service
	repo        memTypeRepo
	recorder    *memRecorder
	company     id.ID
	warehouse   *warehouse.Warehouse
	sale        *journal.Journal
	purchase    *journal.Journal
	foreign     *journal.Journal
	route       *terms.Route
	hiddenRoute *terms.Route
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{company: id.New()}
	f.warehouse = warehouse.NewWarehouse("WH", "Main", f.company)
	f.sale = journal.NewJournal("INV", "Customer invoices", journal.TypeSale, f.company)
	f.purchase = journal.NewJournal("BILL", "Vendor bills", journal.TypePurchase, f.company)
	f.foreign = journal.NewJournal("INV2", "Other company", journal.TypeSale, id.New())
	f.route = &terms.Route{SaleSelectable: true}
	f.route.BaseCatalog.ID = id.New()
	f.route.Name = "Dropship"
	f.hiddenRoute = &terms.Route{}
	f.hiddenRoute.BaseCatalog.ID = id.New()
	f.hiddenRoute.Name = "Internal"

	f.repo = memTypeRepo{domaintest.NewMemoryRepo[*SaleType]("sale_type")}
	f.recorder = &memRecorder{}
	f.svc = NewService(ServiceConfig{
		Repo:       f.repo,
		TxManager:  &domaintest.TxManager{},
		Numerator:  &numerator.MockGenerator{},
		Journals:   domaintest.NewMemoryRepo("journal", f.sale, f.purchase, f.foreign),
		Warehouses: domaintest.NewMemoryRepo("warehouse", f.warehouse),
		Routes:     domaintest.NewMemoryRepo("route", f.route, f.hiddenRoute),
		Audit:      f.recorder,
	})
	return f
}

func TestService_Create_DerivesCompanyFromWarehouse(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	st := NewSaleType("", "Retail")
	st.WarehouseID = ptr(f.warehouse.ID)
	st.CompanyID = ptr(id.New())
	require.NoError(t, f.svc.Create(ctx, st))

	require.NotNil(t, st.CompanyID)
	assert.Equal(t, f.company, *st.CompanyID)
	assert.Regexp(t, `^ST-\d{4}-00001$`, st.Code)

	global := NewSaleType("G", "Global")
	global.CompanyID = ptr(f.company)
	require.NoError(t, f.svc.Create(ctx, global))
	assert.True(t, global.IsGlobal())
}

func TestService_Create_JournalMustBeSale(t *testing.T) {
	f := newServiceFixture()

	st := NewSaleType("T", "Bad journal")
	st.JournalID = ptr(f.purchase.ID)
	err := f.svc.Create(context.Background(), st)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeJournalNotSale, appErr.Code)
	assert.Equal(t, 0, f.repo.Len())
}

func TestService_Create_JournalCompanyMismatch(t *testing.T) {
	f := newServiceFixture()

	st := NewSaleType("T", "Mismatch")
	st.WarehouseID = ptr(f.warehouse.ID)
	st.JournalID = ptr(f.foreign.ID)
	err := f.svc.Create(context.Background(), st)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCompanyMismatch, appErr.Code)
}

func TestService_Create_References(t *testing.T) {
	tests := []struct {
		name  string
		apply func(f *serviceFixture, st *SaleType)
		field string
	}{
		{"missing warehouse", func(_ *serviceFixture, st *SaleType) { st.WarehouseID = ptr(id.New()) }, "warehouseId"},
		{"missing journal", func(_ *serviceFixture, st *SaleType) { st.JournalID = ptr(id.New()) }, "journalId"},
		{"missing route", func(_ *serviceFixture, st *SaleType) { st.RouteID = ptr(id.New()) }, "routeId"},
		{"route not sale selectable", func(f *serviceFixture, st *SaleType) { st.RouteID = ptr(f.hiddenRoute.ID) }, "routeId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()
			st := NewSaleType("T", "Refs")
			tt.apply(f, st)

			err := f.svc.Create(context.Background(), st)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestService_Create_InvalidPickingPolicy(t *testing.T) {
	f := newServiceFixture()
	st := NewSaleType("T", "Policy")
	st.PickingPolicy = "sometimes"

	err := f.svc.Create(context.Background(), st)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "pickingPolicy", appErr.Details["field"])
}

func TestService_Rules(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	st := NewSaleType("T", "Rules")
	require.NoError(t, f.svc.Create(ctx, st))

	late := NewRule("late")
	late.Sequence = 30
	late.ProductIDs = []id.ID{id.New()}
	_, err := f.svc.AddRule(ctx, st.ID, late)
	require.NoError(t, err)

	early := NewRule("early")
	early.Sequence = 5
	early.CategoryIDs = []id.ID{id.New()}
	got, err := f.svc.AddRule(ctx, st.ID, early)
	require.NoError(t, err)

	require.Len(t, got.Rules, 2)
	assert.Equal(t, "early", got.Rules[0].Name)
	assert.Equal(t, st.ID, got.Rules[1].SaleTypeID)

	got, err = f.svc.RemoveRule(ctx, st.ID, early.ID)
	require.NoError(t, err)
	require.Len(t, got.Rules, 1)
	assert.Equal(t, late.ID, got.Rules[0].ID)

	_, err = f.svc.RemoveRule(ctx, st.ID, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_ProductDomain(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	product := id.New()

	st := NewSaleType("T", "Domain")
	r := NewRule("p")
	r.ProductIDs = []id.ID{product}
	st.AddRule(r)
	require.NoError(t, f.svc.Create(ctx, st))

	got, err := f.svc.ProductDomain(ctx, st.ID, saleDomain)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = f.svc.ProductDomain(ctx, id.New(), saleDomain)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Match_UsesCandidatesInSequenceOrder(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	product := id.New()

	second := NewSaleType("S", "Second")
	second.Sequence = 20
	r2 := NewRule("p")
	r2.ProductIDs = []id.ID{product}
	second.AddRule(r2)

	first := NewSaleType("F", "First")
	first.Sequence = 1
	r1 := NewRule("p")
	r1.ProductIDs = []id.ID{product}
	first.AddRule(r1)

	require.NoError(t, f.svc.Create(ctx, second))
	require.NoError(t, f.svc.Create(ctx, first))

	got, err := f.svc.Match(ctx, f.company, NewLines([]id.ID{product}, nil))
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	require.NoError(t, f.svc.Delete(ctx, first.ID))
	got, err = f.svc.Match(ctx, f.company, NewLines([]id.ID{product}, nil))
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestService_AuditTrail(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	st := NewSaleType("T", "Audited")
	require.NoError(t, f.svc.Create(ctx, st))
	st.Name = "Renamed"
	require.NoError(t, f.svc.Update(ctx, st))
	require.NoError(t, f.svc.HardDelete(ctx, st.ID))

	require.Len(t, f.recorder.entries, 3)
	assert.Equal(t, audit.ActionCreate, f.recorder.entries[0].action)
	assert.Equal(t, audit.ActionUpdate, f.recorder.entries[1].action)
	assert.Equal(t, "Renamed", f.recorder.entries[1].changes["name"])
	assert.Equal(t, audit.ActionDelete, f.recorder.entries[2].action)
	assert.Equal(t, 0, f.repo.Len())
}

func TestService_HardDelete_Referenced(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	st := NewSaleType("T", "Referenced")
	require.NoError(t, f.svc.Create(ctx, st))
	f.repo.Referenced = func(id.ID) bool { return true }

	err := f.svc.HardDelete(ctx, st.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)

	// soft delete stays possible
	require.NoError(t, f.svc.Delete(ctx, st.ID))
	got, err := f.svc.GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.True(t, got.DeletionMark)
}
