package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/rfp-pricer/internal/model"
)

func shaLax(equipment string) model.Lane {
	return model.Lane{
		Mode:        model.ModeOcean,
		Origin:      model.Place{Port: "CNSHA"},
		Destination: model.Place{Port: "USLAX"},
		Equipment:   equipment,
	}
}

func TestMatchTier(t *testing.T) {
	t.Parallel()

	exact := oceanRate(model.Scope{OriginPort: "cnsha", DestPort: "USLAX", Equipment: "40hc"}, "2000")
	noEquip := oceanRate(model.Scope{OriginPort: "CNSHA", DestPort: "USLAX", Equipment: "20GP"}, "1500")
	otherLane := oceanRate(model.Scope{OriginPort: "VNSGN", DestPort: "USSEA"}, "1800")
	air := model.Rate{Mode: model.ModeAir, Charges: []model.Charge{charge("Air", model.UOMPerKg, "4")}}

	tests := []struct {
		name     string
		lane     model.Lane
		rates    []model.Rate
		wantTier Tier
		wantBase []string
	}{
		{"exact wins", shaLax("40HC"), []model.Rate{otherLane, noEquip, exact}, TierExact, []string{"2000"}},
		{"relaxed ignores equipment", shaLax("45HC"), []model.Rate{otherLane, noEquip}, TierRelaxed, []string{"1500"}},
		{"mode only", shaLax("40HC"), []model.Rate{otherLane, air}, TierMode, []string{"1800"}},
		{"no rate for mode", shaLax("40HC"), []model.Rate{air}, TierNone, nil},
		{"no rates", shaLax("40HC"), nil, TierNone, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tier, got := MatchTier(tt.lane, tt.rates)
			assert.Equal(t, tt.wantTier, tier)
			var bases []string
			for _, r := range got {
				bases = append(bases, r.Charges[0].Rate.String())
			}
			assert.Equal(t, tt.wantBase, bases)
		})
	}
}

func TestMatch_ExactTierStopsFunnel(t *testing.T) {
	t.Parallel()

	// A mode-only candidate exists, but an exact candidate hides it.
	wildcard := oceanRate(model.Scope{}, "900")
	other := oceanRate(model.Scope{OriginPort: "DEHAM"}, "1100")
	tier, got := MatchTier(shaLax("40HC"), []model.Rate{other, wildcard})
	assert.Equal(t, TierExact, tier)
	require.Len(t, got, 1)
	assert.Equal(t, "900", got[0].Charges[0].Rate.String())
}

func TestMatch_WildcardScopeMatchesEveryLaneOfMode(t *testing.T) {
	t.Parallel()

	wildcard := oceanRate(model.Scope{}, "900")
	lanes := []model.Lane{
		shaLax("40HC"),
		{Mode: model.ModeOcean},
		{Mode: model.ModeOcean, Origin: model.Place{Airport: "PVG"}, Equipment: "LCL"},
	}
	for i, lane := range lanes {
		tier, got := MatchTier(lane, []model.Rate{wildcard})
		assert.Equal(t, TierExact, tier, "lane %d", i)
		assert.Len(t, got, 1, "lane %d", i)
	}
}

func TestMatch_EmptyLaneFieldDoesNotMatchPopulatedScope(t *testing.T) {
	t.Parallel()

	scoped := oceanRate(model.Scope{OriginPort: "CNSHA"}, "1000")
	tier, _ := MatchTier(model.Lane{Mode: model.ModeOcean}, []model.Rate{scoped})
	assert.Equal(t, TierMode, tier)
}

func TestMatch_OrdersBySpecificity(t *testing.T) {
	t.Parallel()

	rates := []model.Rate{
		oceanRate(model.Scope{}, "1"),
		oceanRate(model.Scope{OriginPort: "CNSHA"}, "2"),
		oceanRate(model.Scope{OriginPort: "CNSHA", DestPort: "USLAX", Equipment: "40HC"}, "3"),
		oceanRate(model.Scope{DestPort: "USLAX"}, "4"),
	}
	got := Match(shaLax("40HC"), rates)
	require.Len(t, got, 4)
	var order []string
	for _, r := range got {
		order = append(order, r.Charges[0].Rate.String())
	}
	assert.Equal(t, []string{"3", "2", "4", "1"}, order)

	// The caller's slice is left untouched.
	assert.Equal(t, "1", rates[0].Charges[0].Rate.String())
}

func TestTier_Source(t *testing.T) {
	t.Parallel()
	assert.Equal(t, model.SourceExact, TierExact.Source())
	assert.Equal(t, model.SourceRelaxed, TierRelaxed.Source())
	assert.Equal(t, model.SourceMode, TierMode.Source())
	assert.Equal(t, model.SourceTemplate, TierNone.Source())
	assert.Equal(t, "relaxed", TierRelaxed.String())
}
