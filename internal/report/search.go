package report

import "strings"

// CreativeGroup is one creative's rollup across the whole record set,
// produced by search queries and by the per-creative export.
type CreativeGroup struct {
	Creative    string   `json:"creative"`
	Frequency   int      `json:"frequency"`
	Revenue     float64  `json:"revenue"`
	Campaigns   []string `json:"campaigns"`
	Tags        []string `json:"tags"`
	Advertisers []string `json:"advertisers"`
}

// SearchCreatives filters records whose creative name contains the query
// (case-insensitive) and groups matches by exact creative name. Groups come
// back sorted by revenue descending; an empty query returns nothing.
func SearchCreatives(records []Record, query string) []CreativeGroup {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	matched := records[:0:0]
	for _, r := range records {
		if strings.Contains(strings.ToUpper(r.Creative), query) {
			matched = append(matched, r)
		}
	}
	return GroupByCreative(matched)
}

// GroupByCreative rolls records up by exact creative name, summing revenue
// and frequency and unioning campaigns, tags, and advertisers. Advertiser
// names follow the same MI routing as the main aggregation.
func GroupByCreative(records []Record) []CreativeGroup {
	type groupBuilder struct {
		frequency   int
		revenue     float64
		campaigns   *orderedSet
		tags        *orderedSet
		advertisers *orderedSet
	}

	groups := make(map[string]*groupBuilder)
	order := []string{}
	for _, r := range records {
		g, ok := groups[r.Creative]
		if !ok {
			g = &groupBuilder{
				campaigns:   newOrderedSet(),
				tags:        newOrderedSet(),
				advertisers: newOrderedSet(),
			}
			groups[r.Creative] = g
			order = append(order, r.Creative)
		}
		g.frequency += r.Conversions
		g.revenue += r.Revenue
		g.campaigns.add(r.Campaign)
		g.tags.add(strings.ToUpper(r.Tag))
		adv, _ := routeAdvertiser(r)
		g.advertisers.add(adv)
	}

	out := make([]CreativeGroup, 0, len(groups))
	for _, name := range order {
		g := groups[name]
		out = append(out, CreativeGroup{
			Creative:    name,
			Frequency:   g.frequency,
			Revenue:     g.revenue,
			Campaigns:   g.campaigns.sorted(),
			Tags:        g.tags.sorted(),
			Advertisers: g.advertisers.sorted(),
		})
	}
	sortByRevenue(out, func(g CreativeGroup) (float64, string) { return g.Revenue, g.Creative })
	return out
}
