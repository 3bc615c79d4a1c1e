package report

// Record is one valid data row from an uploaded report CSV. Fields derived
// from the subid (campaign, creative, tag) are filled in during ingest and
// never mutated afterwards.
type Record struct {
	SubID       string  `json:"subid"`
	Revenue     float64 `json:"revenue"`
	Campaign    string  `json:"campaign"`
	Creative    string  `json:"creative"`
	Tag         string  `json:"tag"` // raw case, upper-cased only for grouping
	Advertiser  string  `json:"advertiser"`
	SourceFile  string  `json:"source_file"`
	Conversions int     `json:"conversions"` // defaults to 1 when the column is absent
}

// Batch holds the records parsed from a single uploaded file plus the
// deduplicated names seen while parsing. Batches combine by concatenating
// record slices and unioning the name sets.
type Batch struct {
	ID          string          `json:"id"`
	SourceFile  string          `json:"source_file"`
	Records     []Record        `json:"-"`
	Campaigns   map[string]bool `json:"-"`
	Tags        map[string]bool `json:"-"`
	Creatives   map[string]bool `json:"-"`
	Advertisers map[string]bool `json:"-"`
	SkippedRows int             `json:"skipped_rows"`
}

// CreativeStats is the per-creative rollup within a campaign or tag.
type CreativeStats struct {
	Name      string   `json:"name"`
	Frequency int      `json:"frequency"` // sum of conversion counts
	Revenue   float64  `json:"revenue"`
	Tags      []string `json:"tags"`
}

// CampaignStats is the per-campaign rollup.
type CampaignStats struct {
	Name      string          `json:"name"`
	Revenue   float64         `json:"revenue"`
	Creatives []CreativeStats `json:"creatives"` // sorted by frequency descending
	Tags      []string        `json:"tags"`
}

// AdvertiserRevenue is one advertiser's share of a tag's revenue.
type AdvertiserRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// CombinedTag carries the two source tags of a merged entry and each one's
// individual revenue contribution. It is an overlay on TagStats, present
// only for synthetic combined tags.
type CombinedTag struct {
	FirstTag      string  `json:"first_tag"`
	SecondTag     string  `json:"second_tag"`
	FirstRevenue  float64 `json:"first_revenue"`
	SecondRevenue float64 `json:"second_revenue"`
}

// TagStats is the per-tag (ET) rollup. Name is upper-cased, or a synthetic
// combined name containing "+".
type TagStats struct {
	Name        string              `json:"name"`
	Revenue     float64             `json:"revenue"`
	Creatives   []CreativeStats     `json:"creatives"` // sorted by frequency descending
	Campaigns   []string            `json:"campaigns"`
	Advertisers []AdvertiserRevenue `json:"advertisers"` // sorted by revenue descending
	Combined    *CombinedTag        `json:"combined,omitempty"`
}

// AdvertiserStats is the per-advertiser rollup.
type AdvertiserStats struct {
	Name      string   `json:"name"`
	Revenue   float64  `json:"revenue"`
	Campaigns []string `json:"campaigns"`
}

// Stats is the full recomputed rollup over one record set. Top-level slices
// are sorted by revenue descending with name as tiebreak, so re-running
// aggregation on the same records yields identical output.
type Stats struct {
	TotalRevenue     float64           `json:"total_revenue"`
	TotalRecords     int               `json:"total_records"`
	TotalConversions int               `json:"total_conversions"`
	Campaigns        []CampaignStats   `json:"campaigns"`
	Tags             []TagStats        `json:"tags"`
	Advertisers      []AdvertiserStats `json:"advertisers"`
}

// NewBatch returns an empty batch for one source file.
func NewBatch(sourceFile string) *Batch {
	return &Batch{
		SourceFile:  sourceFile,
		Campaigns:   make(map[string]bool),
		Tags:        make(map[string]bool),
		Creatives:   make(map[string]bool),
		Advertisers: make(map[string]bool),
	}
}

// Merge appends another batch's records and unions its name sets.
func (b *Batch) Merge(other *Batch) {
	b.Records = append(b.Records, other.Records...)
	for k := range other.Campaigns {
		b.Campaigns[k] = true
	}
	for k := range other.Tags {
		b.Tags[k] = true
	}
	for k := range other.Creatives {
		b.Creatives[k] = true
	}
	for k := range other.Advertisers {
		b.Advertisers[k] = true
	}
	b.SkippedRows += other.SkippedRows
}
