package report

import (
	"sort"
	"strings"
)

// Aggregate performs one pass over all records and builds the campaign,
// tag, creative, and advertiser rollups. The result is a pure function of
// the input slice: builder maps are local to the call and consumed into
// sorted arrays at the end, and ties are broken by name so reruns produce
// identical output.
func Aggregate(records []Record) *Stats {
	stats := &Stats{}

	campaignMap := make(map[string]*campaignBuilder)
	tagMap := make(map[string]*tagBuilder)
	advertiserMap := make(map[string]*advertiserBuilder)

	for _, r := range records {
		stats.TotalRevenue += r.Revenue
		stats.TotalRecords++
		stats.TotalConversions += r.Conversions

		tagKey := strings.ToUpper(r.Tag)

		// Campaign bucket
		cb, ok := campaignMap[r.Campaign]
		if !ok {
			cb = newCampaignBuilder(r.Campaign)
			campaignMap[r.Campaign] = cb
		}
		cb.revenue += r.Revenue
		cb.tags.add(tagKey)
		cb.creatives.add(r, tagKey)

		// Tag bucket
		tb, ok := tagMap[tagKey]
		if !ok {
			tb = newTagBuilder(tagKey)
			tagMap[tagKey] = tb
		}
		tb.revenue += r.Revenue
		tb.campaigns.add(r.Campaign)
		tb.creatives.add(r, tagKey)

		// Advertiser routing: the MI marker wins over the classified
		// advertiser, and CM traffic is additionally summed into the
		// synthetic CM Gmail bucket. The same routing feeds the per-tag
		// advertiser breakdown so all paths agree.
		advName, cmGmail := routeAdvertiser(r)
		ab, ok := advertiserMap[advName]
		if !ok {
			ab = &advertiserBuilder{name: advName, campaigns: newOrderedSet()}
			advertiserMap[advName] = ab
		}
		ab.revenue += r.Revenue
		ab.campaigns.add(r.Campaign)
		tb.advertisers[advName] += r.Revenue

		if cmGmail {
			gb, ok := advertiserMap[AdvertiserCMGmail]
			if !ok {
				gb = &advertiserBuilder{name: AdvertiserCMGmail, campaigns: newOrderedSet()}
				advertiserMap[AdvertiserCMGmail] = gb
			}
			gb.revenue += r.Revenue
			gb.campaigns.add(r.Campaign)
			tb.advertisers[AdvertiserCMGmail] += r.Revenue
		}
	}

	CombineTags(tagMap)

	stats.Campaigns = buildCampaignStats(campaignMap)
	stats.Tags = buildTagStats(tagMap)
	stats.Advertisers = buildAdvertiserStats(advertiserMap)
	return stats
}

// orderedSet keeps first-seen order while deduplicating names.
type orderedSet struct {
	seen  map[string]bool
	names []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(name string) {
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.names = append(s.names, name)
}

func (s *orderedSet) sorted() []string {
	out := append([]string(nil), s.names...)
	sort.Strings(out)
	return out
}

// creativeSet accumulates per-creative frequency, revenue, and tags.
type creativeSet map[string]*creativeBuilder

type creativeBuilder struct {
	name      string
	frequency int
	revenue   float64
	tags      *orderedSet
}

func (cs creativeSet) add(r Record, tagKey string) {
	b, ok := cs[r.Creative]
	if !ok {
		b = &creativeBuilder{name: r.Creative, tags: newOrderedSet()}
		cs[r.Creative] = b
	}
	b.frequency += r.Conversions
	b.revenue += r.Revenue
	b.tags.add(tagKey)
}

func (cs creativeSet) build() []CreativeStats {
	out := make([]CreativeStats, 0, len(cs))
	for _, b := range cs {
		out = append(out, CreativeStats{
			Name:      b.name,
			Frequency: b.frequency,
			Revenue:   b.revenue,
			Tags:      b.tags.sorted(),
		})
	}
	// Frequency descending, name ascending on ties
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Name < out[j].Name
	})
	return out
}

type campaignBuilder struct {
	name      string
	revenue   float64
	tags      *orderedSet
	creatives creativeSet
}

func newCampaignBuilder(name string) *campaignBuilder {
	return &campaignBuilder{name: name, tags: newOrderedSet(), creatives: make(creativeSet)}
}

type tagBuilder struct {
	name        string
	revenue     float64
	campaigns   *orderedSet
	creatives   creativeSet
	advertisers map[string]float64
	combined    *CombinedTag
}

func newTagBuilder(name string) *tagBuilder {
	return &tagBuilder{
		name:        name,
		campaigns:   newOrderedSet(),
		creatives:   make(creativeSet),
		advertisers: make(map[string]float64),
	}
}

type advertiserBuilder struct {
	name      string
	revenue   float64
	campaigns *orderedSet
}

func buildCampaignStats(m map[string]*campaignBuilder) []CampaignStats {
	out := make([]CampaignStats, 0, len(m))
	for _, cb := range m {
		out = append(out, CampaignStats{
			Name:      cb.name,
			Revenue:   cb.revenue,
			Creatives: cb.creatives.build(),
			Tags:      cb.tags.sorted(),
		})
	}
	sortByRevenue(out, func(s CampaignStats) (float64, string) { return s.Revenue, s.Name })
	return out
}

func buildTagStats(m map[string]*tagBuilder) []TagStats {
	out := make([]TagStats, 0, len(m))
	for _, tb := range m {
		advertisers := make([]AdvertiserRevenue, 0, len(tb.advertisers))
		for name, rev := range tb.advertisers {
			advertisers = append(advertisers, AdvertiserRevenue{Name: name, Revenue: rev})
		}
		sortByRevenue(advertisers, func(a AdvertiserRevenue) (float64, string) { return a.Revenue, a.Name })

		out = append(out, TagStats{
			Name:        tb.name,
			Revenue:     tb.revenue,
			Creatives:   tb.creatives.build(),
			Campaigns:   tb.campaigns.sorted(),
			Advertisers: advertisers,
			Combined:    tb.combined,
		})
	}
	sortByRevenue(out, func(s TagStats) (float64, string) { return s.Revenue, s.Name })
	return out
}

func buildAdvertiserStats(m map[string]*advertiserBuilder) []AdvertiserStats {
	out := make([]AdvertiserStats, 0, len(m))
	for _, ab := range m {
		out = append(out, AdvertiserStats{
			Name:      ab.name,
			Revenue:   ab.revenue,
			Campaigns: ab.campaigns.sorted(),
		})
	}
	sortByRevenue(out, func(s AdvertiserStats) (float64, string) { return s.Revenue, s.Name })
	return out
}

// sortByRevenue sorts descending by revenue with name ascending on ties.
func sortByRevenue[T any](items []T, key func(T) (float64, string)) {
	sort.Slice(items, func(i, j int) bool {
		ri, ni := key(items[i])
		rj, nj := key(items[j])
		if ri != rj {
			return ri > rj
		}
		return ni < nj
	})
}
