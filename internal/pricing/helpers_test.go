package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/rfp-pricer/internal/model"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func charge(name string, uom model.UOM, rate string) model.Charge {
	return model.Charge{Name: name, UOM: uom, Rate: dec(rate), Currency: "USD"}
}

func withMin(c model.Charge, min string) model.Charge {
	c.Min = decimal.NewNullDecimal(dec(min))
	return c
}

func oceanRate(scope model.Scope, base string) model.Rate {
	return model.Rate{
		Mode:     model.ModeOcean,
		Scope:    scope,
		Currency: "USD",
		Charges:  []model.Charge{charge("Ocean Freight", model.UOMPerCnt, base)},
	}
}
