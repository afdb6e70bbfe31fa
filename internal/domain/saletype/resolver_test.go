package saletype

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/apperror"
	appctx "saletype/internal/core/context"
	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/partner"
	"saletype/internal/domain/domaintest"
)

type fakeFinder struct {
	types []*SaleType // ordered
	err   error
}

func (f *fakeFinder) Exists(_ context.Context, typeID id.ID) (bool, error) {
	for _, t := range f.types {
		if t.ID == typeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFinder) FirstForCompany(_ context.Context, companyID id.ID) (*SaleType, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.types {
		if t.AvailableIn(companyID) {
			return t, nil
		}
	}
	return nil, apperror.NewNotFound("sale_type", companyID.String())
}

func (f *fakeFinder) First(_ context.Context) (*SaleType, error) {
	if len(f.types) == 0 {
		return nil, apperror.NewNotFound("sale_type", "first")
	}
	return f.types[0], nil
}

type resolverFixture struct {
	companyA, companyB  id.ID
	globalType, typeOfB *SaleType
	partnerType         *SaleType
	commercial, contact *partner.Partner
	bare                *partner.Partner
	partners            *domaintest.MemoryRepo[*partner.Partner]
	finder              *fakeFinder
}

func newResolverFixture() *resolverFixture {
	f := &resolverFixture{companyA: id.New(), companyB: id.New()}

	f.typeOfB = NewSaleType("B", "Company B")
	f.typeOfB.Sequence = 1
	f.typeOfB.CompanyID = ptr(f.companyB)
	f.globalType = NewSaleType("G", "Global")
	f.globalType.Sequence = 5
	f.partnerType = NewSaleType("P", "Partner")
	f.partnerType.Sequence = 20
	f.finder = &fakeFinder{types: []*SaleType{f.typeOfB, f.globalType, f.partnerType}}

	f.commercial = partner.NewPartner("C", "Commercial", true)
	f.contact = partner.NewPartner("K", "Contact", false)
	f.contact.CommercialPartnerID = ptr(f.commercial.ID)
	f.bare = partner.NewPartner("N", "No type", true)

	f.partners = domaintest.NewMemoryRepo("partner", f.commercial, f.contact, f.bare)
	return f
}

func (f *resolverFixture) resolve(t *testing.T, ctx context.Context, req Request) Resolution {
	t.Helper()
	res, err := NewResolver(f.partners, f.finder).Resolve(ctx, req)
	require.NoError(t, err)
	return res
}

func TestResolver_PartnerType(t *testing.T) {
	f := newResolverFixture()
	f.contact.SaleTypeID = ptr(f.partnerType.ID)
	f.commercial.SaleTypeID = ptr(f.globalType.ID)

	res := f.resolve(t, context.Background(), Request{PartnerID: ptr(f.contact.ID), CompanyID: f.companyA, OnCreate: true})
	assert.Equal(t, Resolution{TypeID: f.partnerType.ID, Source: SourcePartner}, res)
}

func TestResolver_PartnerCompanyOverride(t *testing.T) {
	f := newResolverFixture()
	f.contact.SaleTypeID = ptr(f.globalType.ID)
	f.contact.SetSaleTypeFor(f.companyB, ptr(f.typeOfB.ID))

	res := f.resolve(t, context.Background(), Request{PartnerID: ptr(f.contact.ID), CompanyID: f.companyB})
	assert.Equal(t, f.typeOfB.ID, res.TypeID)

	res = f.resolve(t, context.Background(), Request{PartnerID: ptr(f.contact.ID), CompanyID: f.companyA})
	assert.Equal(t, f.globalType.ID, res.TypeID)
}

func TestResolver_CommercialPartnerFallback(t *testing.T) {
	f := newResolverFixture()
	f.commercial.SaleTypeID = ptr(f.partnerType.ID)

	res := f.resolve(t, context.Background(), Request{PartnerID: ptr(f.contact.ID), CompanyID: f.companyA})
	assert.Equal(t, Resolution{TypeID: f.partnerType.ID, Source: SourceCommercial}, res)
}

func TestResolver_ContextDefault(t *testing.T) {
	f := newResolverFixture()
	ctx := appctx.WithDefaultSaleType(context.Background(), f.partnerType.ID)

	res := f.resolve(t, ctx, Request{PartnerID: ptr(f.bare.ID), CompanyID: f.companyA})
	assert.Equal(t, Resolution{TypeID: f.partnerType.ID, Source: SourceContext}, res)
}

func TestResolver_UnknownContextDefaultIsSkipped(t *testing.T) {
	f := newResolverFixture()
	ctx := appctx.WithDefaultSaleType(context.Background(), id.New())

	res := f.resolve(t, ctx, Request{CompanyID: f.companyA})
	assert.Equal(t, Resolution{TypeID: f.globalType.ID, Source: SourceCompany}, res)
}

func TestResolver_CompanyFallback(t *testing.T) {
	f := newResolverFixture()

	res := f.resolve(t, context.Background(), Request{CompanyID: f.companyA})
	assert.Equal(t, Resolution{TypeID: f.globalType.ID, Source: SourceCompany}, res, "type of company B must be skipped")

	res = f.resolve(t, context.Background(), Request{CompanyID: f.companyB})
	assert.Equal(t, Resolution{TypeID: f.typeOfB.ID, Source: SourceCompany}, res)
}

func TestResolver_FirstTypeFallback(t *testing.T) {
	f := newResolverFixture()
	f.finder.types = []*SaleType{f.typeOfB}

	res := f.resolve(t, context.Background(), Request{CompanyID: f.companyA})
	assert.Equal(t, Resolution{TypeID: f.typeOfB.ID, Source: SourceAny}, res)
}

func TestResolver_PartnerChangeKeepsCurrent(t *testing.T) {
	f := newResolverFixture()

	res := f.resolve(t, context.Background(), Request{PartnerID: ptr(f.bare.ID), CompanyID: f.companyA})
	assert.False(t, res.Found())

	res = f.resolve(t, context.Background(), Request{PartnerID: ptr(f.bare.ID), CompanyID: f.companyA, OnCreate: true})
	assert.Equal(t, SourceCompany, res.Source)
}

func TestResolver_NoTypes(t *testing.T) {
	f := newResolverFixture()
	f.finder.types = nil

	res := f.resolve(t, context.Background(), Request{CompanyID: f.companyA})
	assert.False(t, res.Found())
}

func TestResolver_Errors(t *testing.T) {
	f := newResolverFixture()

	_, err := NewResolver(f.partners, f.finder).Resolve(context.Background(), Request{PartnerID: ptr(id.New())})
	assert.True(t, apperror.IsNotFound(err))

	f.finder.err = errors.New("db down")
	_, err = NewResolver(f.partners, f.finder).Resolve(context.Background(), Request{CompanyID: f.companyA})
	assert.EqualError(t, err, "db down")
}
