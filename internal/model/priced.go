package model

import "github.com/shopspring/decimal"

func init() {
	// Money in payloads and priced results is encoded as JSON numbers.
	// decimal.Decimal decodes both numbers and quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// RateSource records how the rate behind a priced lane was chosen.
type RateSource string

// Rate sources, in decreasing order of specificity.
const (
	SourceExact    RateSource = "exact"
	SourceRelaxed  RateSource = "relaxed"
	SourceMode     RateSource = "mode"
	SourceTemplate RateSource = "template"
)

// PricedLineItem is one charge of a lane after quantity resolution.
type PricedLineItem struct {
	Name       string          `json:"name"`
	UOM        UOM             `json:"uom"`
	Rate       decimal.Decimal `json:"rate"`
	Qty        decimal.Decimal `json:"qty"`
	Extended   decimal.Decimal `json:"extended"`
	MinApplied bool            `json:"min_applied"`
}

// PricedLane is a lane after pricing. UnitCost is the cost of one shipment;
// flat charges are counted once per shipment, not once per lane.
type PricedLane struct {
	LaneIndex   int              `json:"lane_index"`
	Mode        Mode             `json:"mode"`
	Equipment   string           `json:"equipment,omitempty"`
	Currency    string           `json:"currency"`
	Source      RateSource       `json:"source"`
	TemplateKey string           `json:"template_key,omitempty"`
	Charges     []PricedLineItem `json:"charges"`
	UnitCost    decimal.Decimal  `json:"unit_cost"`
	AnnualCost  decimal.Decimal  `json:"annual_cost"`
}

// Templated reports whether the lane was priced against a synthesized rate.
func (p PricedLane) Templated() bool {
	return p.Source == SourceTemplate
}

// PricedResult holds every priced lane in input order and their annual total.
type PricedResult struct {
	Lanes       []PricedLane    `json:"lanes"`
	TotalAnnual decimal.Decimal `json:"total_annual"`
}

// TemplatedCount returns the number of lanes priced from templates.
func (r PricedResult) TemplatedCount() int {
	n := 0
	for _, l := range r.Lanes {
		if l.Templated() {
			n++
		}
	}
	return n
}
