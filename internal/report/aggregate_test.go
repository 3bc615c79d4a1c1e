package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(subid string, revenue float64, conversions int, file string) Record {
	p := ParseSubID(subid)
	r := Record{
		SubID:       subid,
		Revenue:     revenue,
		Campaign:    p.Campaign,
		Creative:    p.Creative,
		Tag:         p.Tag,
		SourceFile:  file,
		Conversions: conversions,
	}
	if p.HasAdvertiser() {
		r.Advertiser = p.Advertiser
	} else {
		r.Advertiser = ClassifyAdvertiser(file, p.Campaign, p.Creative)
	}
	return r
}

func TestAggregateRevenueConservation(t *testing.T) {
	records := []Record{
		rec("SQLI/AC2/JSG43", 10, 1, "plain.csv"),
		rec("SQLI/AC3/JSG43", 5, 2, "plain.csv"),
		rec("CAMP_CREATIVE_TAGX", 7.5, 1, "orb_weekly.csv"),
		rec("XCE/NADR/064IMG(31)", 2.5, 1, "plain.csv"),
	}

	stats := Aggregate(records)
	assert.Equal(t, 25.0, stats.TotalRevenue)
	assert.Equal(t, 4, stats.TotalRecords)
	assert.Equal(t, 5, stats.TotalConversions)

	var campaignSum, tagSum float64
	for _, c := range stats.Campaigns {
		campaignSum += c.Revenue
	}
	for _, g := range stats.Tags {
		tagSum += g.Revenue
	}
	assert.Equal(t, stats.TotalRevenue, campaignSum)
	assert.Equal(t, stats.TotalRevenue, tagSum)
}

func TestAggregateCampaignAndTagBuckets(t *testing.T) {
	records := []Record{
		rec("SQLI/AC2/JSG43", 10, 3, "plain.csv"),
		rec("SQLI/AC2/JSG43", 2, 1, "plain.csv"),
		rec("SQLI/AC3/jsg43", 5, 1, "plain.csv"), // lower-case tag groups with JSG43
		rec("OTHERCAMP/AD1/ZZ9", 40, 1, "plain.csv"),
	}

	stats := Aggregate(records)
	require.Len(t, stats.Campaigns, 2)

	// Campaigns sorted by revenue descending
	assert.Equal(t, "OTHERCAMP", stats.Campaigns[0].Name)
	assert.Equal(t, "SQLI", stats.Campaigns[1].Name)
	assert.Equal(t, 17.0, stats.Campaigns[1].Revenue)
	assert.Equal(t, []string{"JSG43"}, stats.Campaigns[1].Tags)

	// Creatives within a campaign sorted by frequency descending
	creatives := stats.Campaigns[1].Creatives
	require.Len(t, creatives, 2)
	assert.Equal(t, "SQLI/AC2", creatives[0].Name)
	assert.Equal(t, 4, creatives[0].Frequency)
	assert.Equal(t, 12.0, creatives[0].Revenue)

	// Tag keys are upper-cased for grouping
	var jsg *TagStats
	for i := range stats.Tags {
		if stats.Tags[i].Name == "JSG43" {
			jsg = &stats.Tags[i]
		}
	}
	require.NotNil(t, jsg)
	assert.Equal(t, 17.0, jsg.Revenue)
	assert.Equal(t, []string{"SQLI"}, jsg.Campaigns)
}

func TestAggregateAdvertiserRouting(t *testing.T) {
	records := []Record{
		rec("SQLI/AC2/JSG43", 10, 1, "jmt_report.csv"),  // JMT Media
		rec("CAMP_MI_TAGX", 20, 1, "jmt_report.csv"),    // MI marker: only MI
		rec("CAMP_CM_TAGX", 5, 1, "plain.csv"),          // CM token: Other + CM Gmail
		rec("OTHER_CREATIVE_TAGY", 1, 1, "unknown.csv"), // Other
	}

	stats := Aggregate(records)

	byName := map[string]AdvertiserStats{}
	for _, a := range stats.Advertisers {
		byName[a.Name] = a
	}

	assert.Equal(t, 10.0, byName["JMT Media"].Revenue)
	assert.Equal(t, 20.0, byName["MI"].Revenue)
	assert.Equal(t, 5.0, byName["CM Gmail"].Revenue)
	// The CM record still lands in its classified bucket too
	assert.Equal(t, 6.0, byName["Other"].Revenue)
	// The MI record is excluded from JMT Media despite the file name match
	assert.NotContains(t, byName["JMT Media"].Campaigns, "CAMP")
}

func TestAggregateMIExclusionInTagBreakdown(t *testing.T) {
	records := []Record{
		rec("CAMP_MI_TAGX", 20, 1, "jmt_report.csv"),
		rec("CAMP_AD1_TAGX", 5, 1, "jmt_report.csv"),
	}

	stats := Aggregate(records)
	require.Len(t, stats.Tags, 1)
	tag := stats.Tags[0]
	require.Len(t, tag.Advertisers, 2)
	assert.Equal(t, "MI", tag.Advertisers[0].Name)
	assert.Equal(t, 20.0, tag.Advertisers[0].Revenue)
	assert.Equal(t, "JMT Media", tag.Advertisers[1].Name)
	assert.Equal(t, 5.0, tag.Advertisers[1].Revenue)
}

func TestAggregateIdempotent(t *testing.T) {
	records := []Record{
		rec("SQLI/AC2/JSG43", 10, 1, "plain.csv"),
		rec("CAMP_CREATIVE_TAGX", 7, 2, "orb.csv"),
		rec("CAMP_CM_TAGX", 3, 1, "plain.csv"),
		rec("XCE/NADR/064IMG(30)", 4, 1, "plain.csv"),
	}

	first := Aggregate(records)
	second := Aggregate(records)
	assert.Equal(t, first, second)
}

func TestAggregateCombinesTagPair(t *testing.T) {
	records := []Record{
		rec("XCE/NADR/064IMG(30)", 10, 1, "plain.csv"), // tag CM
		rec("XCE/NADR/064IMG(24)", 4, 2, "plain.csv"),  // tag CMG
		rec("SQLI/AC2/JSG43", 1, 1, "plain.csv"),
	}

	stats := Aggregate(records)

	names := make([]string, 0, len(stats.Tags))
	for _, tag := range stats.Tags {
		names = append(names, tag.Name)
	}
	assert.Contains(t, names, "CM+CMG")
	assert.NotContains(t, names, "CM")
	assert.NotContains(t, names, "CMG")

	var combined *TagStats
	for i := range stats.Tags {
		if stats.Tags[i].Name == "CM+CMG" {
			combined = &stats.Tags[i]
		}
	}
	require.NotNil(t, combined)
	assert.Equal(t, 14.0, combined.Revenue)
	require.NotNil(t, combined.Combined)
	assert.Equal(t, "CM", combined.Combined.FirstTag)
	assert.Equal(t, 10.0, combined.Combined.FirstRevenue)
	assert.Equal(t, "CMG", combined.Combined.SecondTag)
	assert.Equal(t, 4.0, combined.Combined.SecondRevenue)

	// Shared creative sums rather than duplicates
	require.Len(t, combined.Creatives, 1)
	assert.Equal(t, "NADR/064IMG", combined.Creatives[0].Name)
	assert.Equal(t, 3, combined.Creatives[0].Frequency)
	assert.Equal(t, 14.0, combined.Creatives[0].Revenue)

	// Conservation still holds across the combined entry
	var tagSum float64
	for _, tag := range stats.Tags {
		tagSum += tag.Revenue
	}
	assert.Equal(t, stats.TotalRevenue, tagSum)
}

func TestAggregateCombinesWhenOneSourceMissing(t *testing.T) {
	records := []Record{
		rec("XCE/NADR/064IMG(30)", 10, 1, "plain.csv"), // tag CM only
	}

	stats := Aggregate(records)
	require.Len(t, stats.Tags, 1)
	assert.Equal(t, "CM+CMG", stats.Tags[0].Name)
	assert.Equal(t, 10.0, stats.Tags[0].Revenue)
	require.NotNil(t, stats.Tags[0].Combined)
	assert.Equal(t, 10.0, stats.Tags[0].Combined.FirstRevenue)
	assert.Equal(t, 0.0, stats.Tags[0].Combined.SecondRevenue)
}

func TestResolveTagFilter(t *testing.T) {
	assert.Equal(t, []string{"CM", "CMG"}, ResolveTagFilter("CM+CMG"))
	assert.Equal(t, []string{"CM", "CMG"}, ResolveTagFilter("cm+cmg"))
	assert.Equal(t, []string{"JSG43"}, ResolveTagFilter("jsg43"))
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Empty(t, stats.Campaigns)
	assert.Empty(t, stats.Tags)
	assert.Empty(t, stats.Advertisers)
}
