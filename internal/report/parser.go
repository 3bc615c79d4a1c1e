package report

import (
	"regexp"
	"strings"
)

// Subid format examples:
// XCE/NADR/064IMG(30)     parenthesized-number format, advertiser embedded
// SQLI/AC2/JSG43          slash format: campaign/.../tag
// CAMP_CREATIVE_TAGX      underscore fallback
//
// Formats are tried in that order; parsing never fails outright. A subid
// that matches nothing fills campaign, creative, and tag with the whole
// string so the record still lands in a bucket.

// ParsedSubID is the decoded form of one identifier string.
type ParsedSubID struct {
	Raw        string
	Campaign   string
	Creative   string
	Tag        string
	Advertiser string // only set by the parenthesized-number format
}

// HasAdvertiser reports whether the subid carried its own advertiser token,
// which bypasses the file-name classification rules.
func (p *ParsedSubID) HasAdvertiser() bool {
	return p.Advertiser != ""
}

// parenFormatRe matches ADV/CAMPAIGN/CREATIVE-SUFFIX(NUMBER).
var parenFormatRe = regexp.MustCompile(`^([^/]+)/([^/]+)/([^/()]+)\((\d+)\)$`)

// tagNumberNames maps the parenthesized number to a tag name. Numbers not
// listed here produce a generated ET name.
var tagNumberNames = map[string]string{
	"30": "CM",
	"24": "CMG",
}

// advertiserAliases remaps short embedded advertiser codes to their
// canonical names.
var advertiserAliases = map[string]string{
	"XCE": "XC EXC",
}

// campaignAliases rewrites campaign codes after slash/underscore parsing.
var campaignAliases = map[string]string{
	"NWL": "NEWSLETTER",
}

// ParseSubID decodes one identifier string into campaign, creative, and tag.
func ParseSubID(subid string) ParsedSubID {
	p := ParsedSubID{Raw: subid}

	// Format 1: parenthesized number with embedded advertiser
	if m := parenFormatRe.FindStringSubmatch(subid); m != nil {
		adv, campaign, suffix, number := m[1], m[2], m[3], m[4]
		p.Campaign = campaign
		p.Creative = campaign + "/" + suffix
		p.Tag = TagForNumber(number)
		p.Advertiser = canonicalAdvertiser(adv)
		return p
	}

	// Format 2: slash-delimited
	if strings.Contains(subid, "/") {
		parts := nonEmptySegments(strings.Split(subid, "/"))
		switch {
		case len(parts) >= 2:
			p.Campaign = aliasCampaign(parts[0])
			p.Tag = parts[len(parts)-1]
			p.Creative = strings.Join(parts[:len(parts)-1], "/")
			return p
		case len(parts) == 1:
			p.Campaign = aliasCampaign(parts[0])
			p.Creative = parts[0]
			p.Tag = parts[0]
			return p
		}
	}

	// Format 3: underscore-delimited fallback
	parts := strings.Split(subid, "_")
	switch {
	case len(parts) >= 3:
		p.Campaign = aliasCampaign(parts[0])
		p.Tag = parts[len(parts)-1]
		p.Creative = strings.Join(parts[:len(parts)-1], "_")
	case len(parts) == 2:
		p.Campaign = aliasCampaign(parts[0])
		p.Creative = parts[0]
		p.Tag = parts[1]
	default:
		p.Campaign = aliasCampaign(subid)
		p.Creative = subid
		p.Tag = subid
	}
	return p
}

// TagForNumber resolves a parenthesized traffic number to its tag name.
func TagForNumber(number string) string {
	if name, ok := tagNumberNames[number]; ok {
		return name
	}
	return "ET" + number
}

func canonicalAdvertiser(code string) string {
	if name, ok := advertiserAliases[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

func aliasCampaign(campaign string) string {
	if name, ok := campaignAliases[strings.ToUpper(campaign)]; ok {
		return name
	}
	return campaign
}

func nonEmptySegments(parts []string) []string {
	out := parts[:0:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
