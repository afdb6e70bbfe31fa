package main

import (
	"saletype/internal/domain/catalogs/partner"
	"saletype/internal/domain/catalogs/product"
	"saletype/internal/domain/documents/invoice"
	"saletype/internal/domain/documents/sale_order"
	"saletype/internal/domain/saletype"
	"saletype/internal/i18n"
	"saletype/internal/metadata"
)

// setupMetadataRegistry initializes and populates the metadata registry.
func setupMetadataRegistry() *metadata.Registry {
	reg := metadata.NewRegistry(func(locale, entity, column string) (string, string, bool) {
		if entity != "sale_type" {
			return "", "", false
		}
		l, ok := i18n.ColumnLabel(locale, column)
		return l.Name, l.Help, ok
	})

	// --- Catalogs ---
	reg.Register(metadata.Inspect(saletype.SaleType{}, "sale_type", metadata.TypeCatalog).
		WithOptions("pickingPolicy", string(saletype.PickingDirect), string(saletype.PickingOne)).
		WithOptions("sequenceResetPeriod", "never", "year", "month").
		WithReference("mailTemplateId", "mail_template").
		WithReference("reportId", "report").
		WithReference("invoiceMailTemplateId", "mail_template"))
	reg.Register(metadata.Inspect(partner.Partner{}, "partner", metadata.TypeCatalog).
		WithReference("commercialPartnerId", "partner"))
	reg.Register(metadata.Inspect(product.Product{}, "product", metadata.TypeCatalog).
		WithOptions("type", string(product.TypeGoods), string(product.TypeConsumable), string(product.TypeService)))

	// --- Documents ---
	reg.Register(metadata.Inspect(sale_order.SaleOrder{}, "sale_order", metadata.TypeDocument).
		WithOptions("state",
			string(sale_order.StateDraft), string(sale_order.StateSent),
			string(sale_order.StateSale), string(sale_order.StateCancel)).
		WithOptions("pickingPolicy", string(saletype.PickingDirect), string(saletype.PickingOne)))
	reg.Register(metadata.Inspect(invoice.Invoice{}, "invoice", metadata.TypeDocument).
		WithOptions("moveType",
			string(invoice.MoveOutInvoice), string(invoice.MoveOutRefund),
			string(invoice.MoveInInvoice), string(invoice.MoveInRefund), string(invoice.MoveEntry)).
		WithReference("reversedEntryId", "invoice"))

	return reg
}
