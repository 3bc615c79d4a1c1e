package report

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// TargetNA is returned when a tag has no configured target revenue.
const TargetNA = "NA"

// DefaultTargetMultiplierThreshold is the batch revenue at which numeric
// targets are scaled x7. This is NOT the dashboard celebration threshold
// (12k-15k on a different figure); the two are intentionally separate.
const DefaultTargetMultiplierThreshold = 40000

// cleanDollarRe matches plain dollar amounts ("$1,800", "1800", "950.50").
// Tag references like "JSG43" mix letters and digits and never match.
var cleanDollarRe = regexp.MustCompile(`^\$?\s*[0-9][0-9,]*(\.[0-9]+)?$`)

// TargetTable is the read-only target-revenue reference table, keyed by
// trimmed upper-cased tag name. Values are one of: a dollar-like numeric
// string, the literal "0", or another tag's name (an indirection that is
// displayed verbatim, never followed).
type TargetTable struct {
	values    map[string]string
	threshold float64
}

// NewTargetTable builds a table from configuration. A non-positive
// threshold falls back to the default.
func NewTargetTable(values map[string]string, threshold float64) *TargetTable {
	if threshold <= 0 {
		threshold = DefaultTargetMultiplierThreshold
	}
	t := &TargetTable{values: make(map[string]string, len(values)), threshold: threshold}
	for tag, v := range values {
		t.values[normalizeTagKey(tag)] = strings.TrimSpace(v)
	}
	return t
}

// Resolve returns the display value for a tag's target revenue.
// Numeric values are multiplied x7 when the batch revenue meets the
// threshold; values mixing letters and digits (tag references) and
// letters-only values are returned verbatim; unknown tags resolve to "NA".
func (t *TargetTable) Resolve(tag string, batchRevenue float64) string {
	value, ok := t.values[normalizeTagKey(tag)]
	if !ok {
		return TargetNA
	}

	hasLetter, hasDigit := scanValue(value)
	if hasLetter || !hasDigit {
		return value
	}

	amount, ok := parseRevenue(value)
	if !ok {
		return value
	}
	if batchRevenue >= t.threshold {
		amount *= 7
	}
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// Lookup returns the raw configured value for a tag.
func (t *TargetTable) Lookup(tag string) (string, bool) {
	v, ok := t.values[normalizeTagKey(tag)]
	return v, ok
}

// Total sums every clean dollar entry in the table, skipping tag
// references, and applies the x7 rule against the combined-batch total.
func (t *TargetTable) Total(combinedRevenue float64) float64 {
	var total float64
	for _, value := range t.values {
		if !cleanDollarRe.MatchString(value) {
			continue
		}
		if amount, ok := parseRevenue(value); ok {
			total += amount
		}
	}
	if combinedRevenue >= t.threshold {
		total *= 7
	}
	return total
}

func normalizeTagKey(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

func scanValue(value string) (hasLetter, hasDigit bool) {
	for _, r := range value {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter, hasDigit
}
