package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingColumns is returned when a file's header row has no subid or
// revenue column. It fails the whole file; rows are never partially read.
var ErrMissingColumns = errors.New("required subid/revenue columns not found")

// ParseReportCSV reads one uploaded file's raw text into a Batch.
//
// Required columns are matched by case-insensitive substring against the
// header row: one containing "subid" and one containing "rev". An optional
// column containing "conv" supplies the conversion count. Rows that are too
// short, have an empty subid, or zero/unparseable revenue are skipped
// silently; only the skip count is kept.
func ParseReportCSV(text, sourceFile string) (*Batch, error) {
	reader := csv.NewReader(strings.NewReader(stripBOM(text)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: %w", sourceFile, ErrMissingColumns)
		}
		return nil, fmt.Errorf("%s: read header: %w", sourceFile, err)
	}

	subIdx, revIdx, convIdx := mapReportColumns(header)
	if subIdx < 0 || revIdx < 0 {
		return nil, fmt.Errorf("%s: %w", sourceFile, ErrMissingColumns)
	}

	batch := NewBatch(sourceFile)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			batch.SkippedRows++
			continue
		}
		if len(row) <= subIdx || len(row) <= revIdx {
			batch.SkippedRows++
			continue
		}

		subid := strings.TrimSpace(row[subIdx])
		if subid == "" {
			batch.SkippedRows++
			continue
		}
		revenue, ok := parseRevenue(row[revIdx])
		if !ok || revenue == 0 {
			batch.SkippedRows++
			continue
		}

		conversions := 1
		if convIdx >= 0 && convIdx < len(row) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[convIdx]), 64); err == nil {
				conversions = int(v)
			}
		}

		parsed := ParseSubID(subid)
		rec := Record{
			SubID:       subid,
			Revenue:     revenue,
			Campaign:    parsed.Campaign,
			Creative:    parsed.Creative,
			Tag:         parsed.Tag,
			SourceFile:  sourceFile,
			Conversions: conversions,
		}
		if parsed.HasAdvertiser() {
			rec.Advertiser = parsed.Advertiser
		} else {
			rec.Advertiser = ClassifyAdvertiser(sourceFile, parsed.Campaign, parsed.Creative)
		}

		batch.Records = append(batch.Records, rec)
		batch.Campaigns[rec.Campaign] = true
		batch.Tags[strings.ToUpper(rec.Tag)] = true
		batch.Creatives[rec.Creative] = true
		batch.Advertisers[rec.Advertiser] = true
	}

	return batch, nil
}

// mapReportColumns resolves header indices by substring match. The first
// matching header wins for each column.
func mapReportColumns(header []string) (subIdx, revIdx, convIdx int) {
	subIdx, revIdx, convIdx = -1, -1, -1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case subIdx < 0 && strings.Contains(name, "subid"):
			subIdx = i
		case revIdx < 0 && strings.Contains(name, "rev"):
			revIdx = i
		case convIdx < 0 && strings.Contains(name, "conv"):
			convIdx = i
		}
	}
	return subIdx, revIdx, convIdx
}

// parseRevenue accepts plain numbers plus dollar-style formatting
// ($, commas, spaces).
func parseRevenue(raw string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
