package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ignite/adreport/internal/report"
)

// ExportCSV streams a delimited export. Scope "all" emits the raw
// per-record rows; "campaign" and "tag" emit the per-creative rollup for
// the named campaign or tag, with the file name carrying the scope suffix.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	scope := report.ExportScope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = report.ScopeAll
	}
	name := r.URL.Query().Get("name")

	records := h.store.Records()

	switch scope {
	case report.ScopeAll:
		writeCSVHeaders(w, report.ExportFileName(scope, ""))
		if err := report.WriteRecords(w, records); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
		}

	case report.ScopeCampaign:
		if name == "" {
			respondError(w, http.StatusBadRequest, "name required for campaign export")
			return
		}
		filtered := records[:0:0]
		for _, rec := range records {
			if strings.EqualFold(rec.Campaign, name) {
				filtered = append(filtered, rec)
			}
		}
		writeCSVHeaders(w, report.ExportFileName(scope, name))
		if err := report.WriteCreativeRollup(w, report.GroupByCreative(filtered), scope); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
		}

	case report.ScopeTag:
		if name == "" {
			respondError(w, http.StatusBadRequest, "name required for tag export")
			return
		}
		// A combined tag name covers both of its source tags.
		keys := make(map[string]bool)
		for _, k := range report.ResolveTagFilter(name) {
			keys[k] = true
		}
		filtered := records[:0:0]
		for _, rec := range records {
			if keys[strings.ToUpper(rec.Tag)] {
				filtered = append(filtered, rec)
			}
		}
		writeCSVHeaders(w, report.ExportFileName(scope, name))
		if err := report.WriteCreativeRollup(w, report.GroupByCreative(filtered), scope); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
		}

	default:
		respondError(w, http.StatusBadRequest, "unknown scope: "+string(scope))
	}
}

func writeCSVHeaders(w http.ResponseWriter, fileName string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
}
