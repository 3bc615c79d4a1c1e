package report

import "strings"

// Advertiser attribution is an ordered decision list: the first matching
// rule wins, so rule order here is load-bearing. The MI creative marker is
// always checked first because it overrides every file-name rule, and the
// JMT/JMTX pair must run before JMX so the visually similar codes do not
// cross-match. All comparisons are case-insensitive; inputs arrive
// upper-cased.
//
// These rules only apply to records parsed via the slash/underscore
// formats; the parenthesized-number format embeds its own advertiser.

// AdvertiserOther is the fallback bucket for unmatched records.
const AdvertiserOther = "Other"

// AdvertiserMI is the bucket for records carrying the MI marker.
const AdvertiserMI = "MI"

// AdvertiserCMGmail is the synthetic aggregation-time bucket for CM traffic.
const AdvertiserCMGmail = "CM Gmail"

// advertiserIcon is the dedicated bucket for ICO-prefixed creatives.
const advertiserIcon = "Icon Media"

type advertiserRule struct {
	name     string
	match    func(file, campaign, creative string) bool
	icoCheck bool // creative prefix "ICO" reroutes to Icon Media
}

var advertiserRules = []advertiserRule{
	{name: AdvertiserMI, match: func(_, _, creative string) bool {
		return strings.Contains(creative, "_MI")
	}},
	{name: "XC EXC", match: fileContains("XC")},
	{name: "JMT Media", match: func(file, _, _ string) bool {
		return strings.Contains(file, "JMT") || strings.Contains(file, "JMTX")
	}},
	{name: "JMX Network", match: fileContains("JMX")},
	{name: "Bluestone", match: fileContains("BLS")},
	{name: "Nova Direct", match: fileContains("NVA"), icoCheck: true},
	{name: "Orbit", match: fileContains("ORB")},
	{name: "Platinum", match: fileContains("PLT")},
	{name: "Veridian", match: fileContains("VRD")},
	{name: advertiserIcon, match: func(_, campaign, _ string) bool {
		return campaign == "ICON" || campaign == "ICONG"
	}, icoCheck: true},
}

func fileContains(code string) func(file, campaign, creative string) bool {
	return func(file, _, _ string) bool {
		return strings.Contains(file, code)
	}
}

// ClassifyAdvertiser attributes a record to an advertiser from its source
// file name, campaign, and creative.
func ClassifyAdvertiser(sourceFile, campaign, creative string) string {
	file := strings.ToUpper(sourceFile)
	camp := strings.ToUpper(campaign)
	cre := strings.ToUpper(creative)

	for _, rule := range advertiserRules {
		if !rule.match(file, camp, cre) {
			continue
		}
		if rule.icoCheck && strings.HasPrefix(cre, "ICO") {
			return advertiserIcon
		}
		return rule.name
	}
	return AdvertiserOther
}

// HasMIMarker reports whether the subid carries an MI token bounded by
// underscores or the string edges. Records matching it are counted only
// under the MI advertiser, across every aggregation path.
func HasMIMarker(subid string) bool {
	for _, token := range strings.Split(strings.ToUpper(subid), "_") {
		if token == "MI" {
			return true
		}
	}
	return false
}

// IsCMGmail reports whether the subid belongs to the synthetic CM Gmail
// advertiser bucket: a CM token bounded by underscores or string edges, or
// a CMG substring anywhere in the identifier.
func IsCMGmail(subid string) bool {
	up := strings.ToUpper(subid)
	if strings.Contains(up, "CMG") {
		return true
	}
	for _, token := range strings.Split(up, "_") {
		if token == "CM" {
			return true
		}
	}
	return false
}

// routeAdvertiser returns the advertiser bucket a record's revenue lands in
// (the MI marker overrides the classified advertiser) and whether the
// record is additionally summed into CM Gmail.
func routeAdvertiser(r Record) (string, bool) {
	if HasMIMarker(r.SubID) {
		return AdvertiserMI, false
	}
	return r.Advertiser, IsCMGmail(r.SubID)
}
