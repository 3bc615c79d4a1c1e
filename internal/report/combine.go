package report

import "strings"

// Some traffic-source tags are two halves of the same buy and report as one
// unit. After aggregation the pairs below are merged into a single combined
// entry whose name joins the sources with "+"; the sources are removed from
// the tag map so they are never retrievable separately. The combined entry
// keeps each source's individual revenue for display.
var combinedTagPairs = []struct {
	First  string
	Second string
	Name   string
}{
	{First: "CM", Second: "CMG", Name: "CM+CMG"},
}

// CombineTags merges the configured tag pairs inside an owned builder map.
// It runs after the aggregation pass, before the map is consumed into
// sorted arrays, so there is no iteration over the map while it mutates.
// A pair combines when at least one of its sources exists.
func CombineTags(tagMap map[string]*tagBuilder) {
	for _, pair := range combinedTagPairs {
		first := tagMap[pair.First]
		second := tagMap[pair.Second]
		if first == nil && second == nil {
			continue
		}

		combined := newTagBuilder(pair.Name)
		combined.combined = &CombinedTag{FirstTag: pair.First, SecondTag: pair.Second}

		if first != nil {
			mergeTagBuilder(combined, first)
			combined.combined.FirstRevenue = first.revenue
		}
		if second != nil {
			mergeTagBuilder(combined, second)
			combined.combined.SecondRevenue = second.revenue
		}

		delete(tagMap, pair.First)
		delete(tagMap, pair.Second)
		tagMap[pair.Name] = combined
	}
}

// mergeTagBuilder folds src into dst: revenue and advertiser maps are
// summed, campaign lists unioned, and creatives present in both sources
// have their frequency and revenue summed rather than duplicated.
func mergeTagBuilder(dst, src *tagBuilder) {
	dst.revenue += src.revenue
	for _, campaign := range src.campaigns.names {
		dst.campaigns.add(campaign)
	}
	for name, rev := range src.advertisers {
		dst.advertisers[name] += rev
	}
	for name, cb := range src.creatives {
		existing, ok := dst.creatives[name]
		if !ok {
			existing = &creativeBuilder{name: name, tags: newOrderedSet()}
			dst.creatives[name] = existing
		}
		existing.frequency += cb.frequency
		existing.revenue += cb.revenue
		for _, tag := range cb.tags.names {
			existing.tags.add(tag)
		}
	}
}

// ResolveTagFilter expands a tag selection into the upper-cased tag keys it
// covers: a combined name resolves to its two constituent tags, anything
// else to itself.
func ResolveTagFilter(name string) []string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, pair := range combinedTagPairs {
		if upper == strings.ToUpper(pair.Name) {
			return []string{pair.First, pair.Second}
		}
	}
	return []string{upper}
}
