// Package report renders a priced RFP as a self-contained proposal document.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/rfp-pricer/internal/model"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var proposalTmpl = template.Must(template.ParseFS(templateFS, "templates/proposal.html.tmpl"))

var assumptions = []string{
	"Unit cost is the sum of all charges for one shipment. Flat charges are counted once per shipment.",
	"Annual cost is unit cost multiplied by the declared shipments per year. Lanes without declared volume show no annual cost.",
	"Weight and volume based charges use the declared average shipment weight and volume.",
	"Lanes marked as template are priced from standard tariffs and are indicative until a lane-specific rate is agreed.",
	"Rates exclude duties, taxes, insurance and currency adjustments.",
}

var plan = []planStep{
	{"Week 1", "Rate confirmation and lane review with your logistics team."},
	{"Weeks 2-3", "Carrier allocation, booking procedures and document templates."},
	{"Week 4", "Pilot shipments on the highest volume lanes."},
	{"Ongoing", "Quarterly business reviews and rate validity checks."},
}

type planStep struct {
	When string
	What string
}

type chargeView struct {
	Name       string
	UOM        model.UOM
	Qty        string
	Rate       string
	Extended   string
	MinApplied bool
}

type laneView struct {
	Number     int
	Route      string
	Mode       model.Mode
	Equipment  string
	Source     string
	Shipments  string
	UnitCost   string
	AnnualCost string
	Charges    []chargeView
}

type proposalView struct {
	Meta           model.Meta
	LaneCount      int
	TemplatedCount int
	Total          string
	MixedCurrency  bool
	Lanes          []laneView
	Assumptions    []string
	Plan           []planStep
}

// ToHTML projects a priced result onto the proposal template. It performs no
// pricing: every figure comes from result as computed.
func ToHTML(payload model.RfpPayload, result model.PricedResult) (string, error) {
	f := newFormatter()
	currency := payload.Meta.Currency

	v := proposalView{
		Meta:           payload.Meta,
		LaneCount:      len(result.Lanes),
		TemplatedCount: result.TemplatedCount(),
		Total:          f.money(result.TotalAnnual, currency),
		Assumptions:    assumptions,
		Plan:           plan,
	}

	for _, pl := range result.Lanes {
		var lane model.Lane
		if pl.LaneIndex >= 0 && pl.LaneIndex < len(payload.Lanes) {
			lane = payload.Lanes[pl.LaneIndex]
		}
		if pl.Currency != "" && pl.Currency != currency {
			v.MixedCurrency = true
		}

		lv := laneView{
			Number:     pl.LaneIndex + 1,
			Route:      lane.Origin.Label() + " → " + lane.Destination.Label(),
			Mode:       pl.Mode,
			Equipment:  pl.Equipment,
			Source:     sourceLabel(pl),
			Shipments:  "-",
			UnitCost:   f.money(pl.UnitCost, pl.Currency),
			AnnualCost: f.money(pl.AnnualCost, pl.Currency),
		}
		if n := lane.Demand.ShipmentsPerYear; n != nil {
			lv.Shipments = f.p.Sprintf("%d", *n)
		}
		for _, c := range pl.Charges {
			lv.Charges = append(lv.Charges, chargeView{
				Name:       c.Name,
				UOM:        c.UOM,
				Qty:        c.Qty.Round(3).String(),
				Rate:       f.amount(c.Rate),
				Extended:   f.amount(c.Extended),
				MinApplied: c.MinApplied,
			})
		}
		v.Lanes = append(v.Lanes, lv)
	}

	var buf bytes.Buffer
	if err := proposalTmpl.Execute(&buf, v); err != nil {
		return "", eris.Wrap(err, "report: render html")
	}
	return buf.String(), nil
}

func sourceLabel(pl model.PricedLane) string {
	if pl.Templated() {
		return "template " + pl.TemplateKey
	}
	return "rate (" + string(pl.Source) + " match)"
}

type formatter struct {
	p *message.Printer
}

func newFormatter() formatter {
	return formatter{p: message.NewPrinter(language.English)}
}

// amount renders d with two decimals and thousands separators.
func (f formatter) amount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fixed
	}
	return fmt.Sprintf("%s.%s", f.p.Sprintf("%d", n), frac)
}

func (f formatter) money(d decimal.Decimal, currency string) string {
	if currency == "" {
		return f.amount(d)
	}
	return currency + " " + f.amount(d)
}
