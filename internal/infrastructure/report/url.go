// Package report builds download locations for printed reports.
package report

import (
	"net/url"
	"strings"

	"saletype/internal/core/id"
	domainreport "saletype/internal/domain/report"
)

// URLBuilder renders "{base}/report/{format}/{report_name}/{id,id}".
type URLBuilder struct {
	baseURL string
}

var _ domainreport.URLBuilder = (*URLBuilder)(nil)

// NewURLBuilder creates a builder rooted at baseURL (e.g. "https://erp.example.com").
func NewURLBuilder(baseURL string) *URLBuilder {
	return &URLBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL implements domainreport.URLBuilder.
func (b *URLBuilder) URL(r *domainreport.Report, recordIDs []id.ID) string {
	ids := make([]string, len(recordIDs))
	for i, rid := range recordIDs {
		ids[i] = rid.String()
	}
	return b.baseURL + "/report/" + string(r.Format) + "/" +
		url.PathEscape(r.ReportName) + "/" + strings.Join(ids, ",")
}
