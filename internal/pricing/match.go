// Package pricing selects a rate for each lane and prices it line by line.
package pricing

import (
	"sort"
	"strings"

	"github.com/sells-group/rfp-pricer/internal/model"
)

// Tier identifies the matcher stage that produced a candidate list.
type Tier int

// Matcher tiers, most specific first. TierNone means no rate shares the
// lane's mode.
const (
	TierNone Tier = iota
	TierExact
	TierRelaxed
	TierMode
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierRelaxed:
		return "relaxed"
	case TierMode:
		return "mode"
	default:
		return "none"
	}
}

// Source maps the tier to the rate source recorded on a priced lane.
func (t Tier) Source() model.RateSource {
	switch t {
	case TierExact:
		return model.SourceExact
	case TierRelaxed:
		return model.SourceRelaxed
	case TierMode:
		return model.SourceMode
	default:
		return model.SourceTemplate
	}
}

// Match returns the candidate rates for lane, best first. It never invents a
// rate: an empty result means the caller must fall back to a template.
func Match(lane model.Lane, rates []model.Rate) []model.Rate {
	_, out := MatchTier(lane, rates)
	return out
}

// MatchTier runs the three-tier funnel and reports which tier answered. A
// later tier is consulted only when every earlier tier came back empty.
func MatchTier(lane model.Lane, rates []model.Rate) (Tier, []model.Rate) {
	sameMode := make([]model.Rate, 0, len(rates))
	for _, r := range rates {
		if r.Mode == lane.Mode {
			sameMode = append(sameMode, r)
		}
	}
	if len(sameMode) == 0 {
		return TierNone, nil
	}

	if exact := filterScope(lane, sameMode, true); len(exact) > 0 {
		return TierExact, exact
	}
	if relaxed := filterScope(lane, sameMode, false); len(relaxed) > 0 {
		return TierRelaxed, relaxed
	}
	bySpecificity(sameMode)
	return TierMode, sameMode
}

func filterScope(lane model.Lane, rates []model.Rate, withEquipment bool) []model.Rate {
	var out []model.Rate
	for _, r := range rates {
		if scopeMatches(r.Scope, lane, withEquipment) {
			out = append(out, r)
		}
	}
	bySpecificity(out)
	return out
}

// scopeMatches treats an empty rate field as a wildcard. A populated rate
// field must equal the lane's value, ignoring case.
func scopeMatches(s model.Scope, lane model.Lane, withEquipment bool) bool {
	if !fieldMatches(s.OriginPort, lane.Origin.Port) ||
		!fieldMatches(s.DestPort, lane.Destination.Port) ||
		!fieldMatches(s.OriginAirport, lane.Origin.Airport) ||
		!fieldMatches(s.DestAirport, lane.Destination.Airport) {
		return false
	}
	return !withEquipment || fieldMatches(s.Equipment, lane.Equipment)
}

func fieldMatches(rateValue, laneValue string) bool {
	rv := strings.TrimSpace(rateValue)
	if rv == "" {
		return true
	}
	return strings.EqualFold(rv, strings.TrimSpace(laneValue))
}

// specificity counts the populated scope fields of a rate.
func specificity(s model.Scope) int {
	n := 0
	for _, v := range []string{s.OriginPort, s.DestPort, s.OriginAirport, s.DestAirport, s.Equipment} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

func bySpecificity(rates []model.Rate) {
	sort.SliceStable(rates, func(i, j int) bool {
		return specificity(rates[i].Scope) > specificity(rates[j].Scope)
	})
}
