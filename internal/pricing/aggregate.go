package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/rfp-pricer/internal/model"
	"github.com/sells-group/rfp-pricer/internal/template"
)

// PriceAll prices every lane in input order. Lanes without a matching rate
// are priced against a rate synthesized from lib, so the result always has
// one entry per lane. A nil lib uses the built-in catalog.
func PriceAll(lanes []model.Lane, rates []model.Rate, lib *template.Library) model.PricedResult {
	if lib == nil {
		lib = template.Default()
	}

	res := model.PricedResult{
		Lanes:       make([]model.PricedLane, 0, len(lanes)),
		TotalAnnual: decimal.Zero,
	}
	for i, lane := range lanes {
		pl := priceOne(lane, rates, lib)
		pl.LaneIndex = i
		res.Lanes = append(res.Lanes, pl)
		res.TotalAnnual = res.TotalAnnual.Add(pl.AnnualCost)
	}
	return res
}

func priceOne(lane model.Lane, rates []model.Rate, lib *template.Library) model.PricedLane {
	tier, candidates := MatchTier(lane, rates)
	if len(candidates) > 0 {
		pl := PriceLane(lane, candidates[0])
		pl.Source = tier.Source()
		return pl
	}

	rate, key := lib.Synthesize(lane)
	pl := PriceLane(lane, rate)
	pl.Source = model.SourceTemplate
	pl.TemplateKey = string(key)
	return pl
}
