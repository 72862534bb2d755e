package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/rfp-pricer/internal/model"
)

// QtyForCharge resolves the billable quantity of one shipment for a unit of
// measure. Weight and volume come from the lane's declared averages, floored
// at zero; every other unit bills exactly one.
func QtyForCharge(uom model.UOM, d model.Demand) decimal.Decimal {
	switch uom {
	case model.UOMPerKg:
		return nonNegative(d.AvgWeightKg)
	case model.UOMPerCbm:
		return nonNegative(d.AvgVolumeCbm)
	default:
		// flat, per_shpt and per_cnt. Multi-container shipments are not
		// modelled, so per_cnt is one container per shipment.
		return decimal.NewFromInt(1)
	}
}

func nonNegative(v *float64) decimal.Decimal {
	if v == nil || *v <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

// ShipmentsPerYear returns the declared annual shipments floored at zero.
func ShipmentsPerYear(d model.Demand) decimal.Decimal {
	if d.ShipmentsPerYear == nil || *d.ShipmentsPerYear <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(*d.ShipmentsPerYear))
}

// PriceCharge extends one charge for a lane and applies its minimum.
func PriceCharge(c model.Charge, d model.Demand) model.PricedLineItem {
	qty := QtyForCharge(c.UOM, d)
	item := model.PricedLineItem{
		Name:     c.Name,
		UOM:      c.UOM,
		Rate:     c.Rate,
		Qty:      qty,
		Extended: qty.Mul(c.Rate),
	}
	if c.Min.Valid && item.Extended.LessThan(c.Min.Decimal) {
		item.Extended = c.Min.Decimal
		item.MinApplied = true
	}
	return item
}

// PriceLane prices every charge of rate against lane, in the rate's order.
//
// UnitCost is the sum of all extended amounts and is treated as a cost per
// shipment, flat charges included. AnnualCost is UnitCost times the declared
// shipments per year, so a lane without volume keeps a unit cost but prices
// to zero per year.
func PriceLane(lane model.Lane, rate model.Rate) model.PricedLane {
	pl := model.PricedLane{
		Mode:      lane.Mode,
		Equipment: lane.Equipment,
		Currency:  rate.Currency,
		Charges:   make([]model.PricedLineItem, 0, len(rate.Charges)),
		UnitCost:  decimal.Zero,
	}
	for _, c := range rate.Charges {
		item := PriceCharge(c, lane.Demand)
		pl.Charges = append(pl.Charges, item)
		pl.UnitCost = pl.UnitCost.Add(item.Extended)
	}
	pl.AnnualCost = pl.UnitCost.Mul(ShipmentsPerYear(lane.Demand))
	return pl
}
