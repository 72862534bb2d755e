package template

import (
	"regexp"

	"github.com/sells-group/rfp-pricer/internal/model"
)

// BuiltinVersion identifies the built-in catalog revision.
const BuiltinVersion = "2026.1"

func minOf(v float64) *float64 { return &v }

var builtin = map[Key]Template{
	KeyAir: {
		Name:     "Air freight",
		Currency: "USD",
		Base:     ChargeSpec{Name: "Air Freight", UOM: model.UOMPerKg, Rate: 4.50, Min: minOf(150)},
		Accessorials: []ChargeSpec{
			{Name: "Fuel Surcharge", UOM: model.UOMPerKg, Rate: 1.10},
			{Name: "Security Surcharge", UOM: model.UOMPerKg, Rate: 0.15, Min: minOf(25)},
			{Name: "Origin Handling", UOM: model.UOMPerShpt, Rate: 85},
			{Name: "Destination Handling", UOM: model.UOMPerShpt, Rate: 95},
			{Name: "Documentation", UOM: model.UOMFlat, Rate: 45},
		},
	},
	KeyOceanFCL: {
		Name:     "Ocean FCL",
		Currency: "USD",
		Base:     ChargeSpec{Name: "Ocean Freight", UOM: model.UOMPerCnt, Rate: 2500},
		Accessorials: []ChargeSpec{
			{Name: "Bunker Adjustment (BAF)", UOM: model.UOMPerCnt, Rate: 350},
			{Name: "Low Sulphur Surcharge (LSS)", UOM: model.UOMPerCnt, Rate: 120},
			{Name: "Origin THC", UOM: model.UOMPerCnt, Rate: 280},
			{Name: "Destination THC", UOM: model.UOMPerCnt, Rate: 310},
			{Name: "Documentation", UOM: model.UOMFlat, Rate: 75},
		},
	},
	KeyOceanLCL: {
		Name:     "Ocean LCL",
		Currency: "USD",
		Base:     ChargeSpec{Name: "Ocean Freight", UOM: model.UOMPerCbm, Rate: 85, Min: minOf(150)},
		Accessorials: []ChargeSpec{
			{Name: "Bunker Adjustment (BAF)", UOM: model.UOMPerCbm, Rate: 12},
			{Name: "Low Sulphur Surcharge (LSS)", UOM: model.UOMPerCbm, Rate: 6},
			{Name: "Origin CFS", UOM: model.UOMPerCbm, Rate: 22, Min: minOf(60)},
			{Name: "Destination CFS", UOM: model.UOMPerCbm, Rate: 25, Min: minOf(60)},
			{Name: "Documentation", UOM: model.UOMFlat, Rate: 65},
		},
	},
	KeyTruckTL: {
		Name:     "Truckload",
		Currency: "USD",
		Base:     ChargeSpec{Name: "Linehaul", UOM: model.UOMPerShpt, Rate: 1850},
		Accessorials: []ChargeSpec{
			{Name: "Fuel Surcharge", UOM: model.UOMPerShpt, Rate: 420},
			{Name: "Loading / Unloading", UOM: model.UOMPerShpt, Rate: 150},
			{Name: "Documentation", UOM: model.UOMFlat, Rate: 25},
		},
	},
	KeyTruckDray: {
		Name:     "Drayage",
		Currency: "USD",
		Base:     ChargeSpec{Name: "Drayage", UOM: model.UOMPerCnt, Rate: 650},
		Accessorials: []ChargeSpec{
			{Name: "Chassis", UOM: model.UOMPerCnt, Rate: 90},
			{Name: "Fuel Surcharge", UOM: model.UOMPerCnt, Rate: 140},
			{Name: "Pier Pass", UOM: model.UOMPerCnt, Rate: 75},
			{Name: "Documentation", UOM: model.UOMFlat, Rate: 25},
		},
	},
}

// Container sizes (20/40/45, optionally with ' or ft) or an ISO type suffix.
const containerPattern = `(?i)(^|[^0-9])(20|40|45)\s*('|ft)?\s*(HC|HQ|GP|DV|RF|OT|ST)?($|[^0-9a-z])|\b(HC|HQ|GP|RF|OT)\b`

const drayPattern = `(?i)dray|\bport\b|\bramp\b`

func builtinPatterns() []KeyPattern {
	return []KeyPattern{
		{Mode: model.ModeOcean, Pattern: regexp.MustCompile(containerPattern), Key: KeyOceanFCL},
		{Mode: model.ModeTruck, Pattern: regexp.MustCompile(drayPattern), Key: KeyTruckDray},
	}
}

var defaultLibrary = &Library{
	Version:   BuiltinVersion,
	templates: builtin,
	patterns:  builtinPatterns(),
}
