package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTargetTable() *TargetTable {
	return NewTargetTable(map[string]string{
		"jsg43 ": "$1,800", // keys are trimmed and upper-cased
		"CM":     "0",
		"ET31":   "JSG43", // reference to another tag, displayed verbatim
		"TAGX":   "pending",
		"ZZ9":    "$950.50",
	}, 0)
}

func TestTargetResolveNumeric(t *testing.T) {
	tbl := testTargetTable()

	// Below the threshold the configured number passes through unscaled.
	assert.Equal(t, "1800", tbl.Resolve("JSG43", 39000))
	// At or above the threshold it is multiplied x7.
	assert.Equal(t, "12600", tbl.Resolve("JSG43", 41000))
	assert.Equal(t, "12600", tbl.Resolve("jsg43", 40000))
	assert.Equal(t, "6653.5", tbl.Resolve("ZZ9", 40000))
}

func TestTargetResolveVerbatim(t *testing.T) {
	tbl := testTargetTable()

	// Letter+digit values are tag references: no arithmetic, even over
	// the threshold.
	assert.Equal(t, "JSG43", tbl.Resolve("ET31", 100000))
	// Letters-only values pass through too.
	assert.Equal(t, "pending", tbl.Resolve("TAGX", 100000))
}

func TestTargetResolveZeroAndMissing(t *testing.T) {
	tbl := testTargetTable()

	assert.Equal(t, "0", tbl.Resolve("CM", 100000))
	assert.Equal(t, "NA", tbl.Resolve("UNKNOWN", 100000))
}

func TestTargetTotal(t *testing.T) {
	tbl := testTargetTable()

	// Sums $1,800 + 0 + $950.50; skips the JSG43 reference and "pending".
	assert.InDelta(t, 2750.5, tbl.Total(39000), 1e-9)
	assert.InDelta(t, 19253.5, tbl.Total(41000), 1e-9)
}

func TestTargetCustomThreshold(t *testing.T) {
	tbl := NewTargetTable(map[string]string{"JSG43": "$100"}, 500)
	assert.Equal(t, "700", tbl.Resolve("JSG43", 500))
	assert.Equal(t, "100", tbl.Resolve("JSG43", 499))
}
