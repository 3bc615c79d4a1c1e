package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ExportScope selects which rows an export covers and which rollup shape
// it uses.
type ExportScope string

const (
	ScopeAll      ExportScope = "all"      // raw per-record rows
	ScopeCampaign ExportScope = "campaign" // per-creative rollup for one campaign
	ScopeTag      ExportScope = "tag"      // per-creative rollup for one tag
)

// multiValueSep joins multi-valued export fields.
const multiValueSep = "; "

// ExportFileName returns the download name for an export; the suffix names
// the scope so files are tellable apart.
func ExportFileName(scope ExportScope, name string) string {
	suffix := "all"
	if scope != ScopeAll && name != "" {
		suffix = sanitizeFileName(name)
	}
	return fmt.Sprintf("report_export_%s.csv", suffix)
}

// WriteRecords writes the raw per-record export: one row per record with a
// header line, numbers as plain numbers.
func WriteRecords(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"subid", "campaign", "creative", "tag", "revenue", "advertiser", "source_file"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.SubID,
			r.Campaign,
			r.Creative,
			r.Tag,
			formatNumber(r.Revenue),
			r.Advertiser,
			r.SourceFile,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCreativeRollup writes the per-creative export. Campaign-scoped
// exports list each creative's tags; tag-scoped exports list its campaigns.
func WriteCreativeRollup(w io.Writer, groups []CreativeGroup, scope ExportScope) error {
	cw := csv.NewWriter(w)

	header := []string{"creative", "frequency", "revenue", "tags", "advertisers"}
	if scope == ScopeTag {
		header = []string{"creative", "frequency", "revenue", "campaigns", "advertisers"}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, g := range groups {
		grouping := strings.Join(g.Tags, multiValueSep)
		if scope == ScopeTag {
			grouping = strings.Join(g.Campaigns, multiValueSep)
		}
		row := []string{
			g.Creative,
			strconv.Itoa(g.Frequency),
			formatNumber(g.Revenue),
			grouping,
			strings.Join(g.Advertisers, multiValueSep),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_")
	return replacer.Replace(name)
}
