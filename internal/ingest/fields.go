package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sells-group/rfp-pricer/internal/model"
)

// Canonical lane fields.
const (
	FieldMode             = "mode"
	FieldIncoterm         = "incoterm"
	FieldOriginCountry    = "origin_country"
	FieldOriginCity       = "origin_city"
	FieldOriginPort       = "origin_port"
	FieldOriginAirport    = "origin_airport"
	FieldDestCountry      = "dest_country"
	FieldDestCity         = "dest_city"
	FieldDestPort         = "dest_port"
	FieldDestAirport      = "dest_airport"
	FieldServiceLevel     = "service_level"
	FieldEquipment        = "equipment"
	FieldShipmentsPerYear = "shipments_per_year"
	FieldAvgWeightKg      = "avg_weight_kg"
	FieldAvgVolumeCbm     = "avg_volume_cbm"
	FieldCurrency         = "currency"
)

// ChargeSlot is a named charge probed in rate rows through the columns
// <Key>_rate, <Key>_uom and <Key>_min.
type ChargeSlot struct {
	Key        string
	Name       string
	DefaultUOM model.UOM
}

// ChargeSlots lists the probed charges in output order.
var ChargeSlots = []ChargeSlot{
	{Key: "base", Name: "Base Freight", DefaultUOM: model.UOMPerShpt},
	{Key: "fuel", Name: "Fuel / BAF", DefaultUOM: model.UOMPerShpt},
	{Key: "security", Name: "Security / LSS", DefaultUOM: model.UOMPerShpt},
	{Key: "origin_thc", Name: "Origin THC", DefaultUOM: model.UOMPerShpt},
	{Key: "dest_thc", Name: "Destination THC", DefaultUOM: model.UOMPerShpt},
	{Key: "doc", Name: "Documentation", DefaultUOM: model.UOMFlat},
}

func (s ChargeSlot) rateField() string { return s.Key + "_rate" }
func (s ChargeSlot) uomField() string  { return s.Key + "_uom" }
func (s ChargeSlot) minField() string  { return s.Key + "_min" }

var numberCleaner = strings.NewReplacer(",", "", " ", "", "$", "", "€", "", "£", "", "¥", "")

func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "USD"), "usd")
	switch {
	case !strings.Contains(s, ","), thousandsGrouped(s):
	case isDecimalComma(s):
		s = strings.Replace(s, ",", ".", 1)
	default:
		// Commas that are neither grouping nor a decimal mark.
		return ""
	}
	return numberCleaner.Replace(s)
}

// thousandsGrouped reports whether every comma in s is followed by exactly
// three digits.
func thousandsGrouped(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		digits := 0
		for j := i + 1; j < len(s) && s[j] >= '0' && s[j] <= '9'; j++ {
			digits++
		}
		if digits != 3 {
			return false
		}
	}
	return true
}

// isDecimalComma reports whether s uses a single comma as its decimal mark,
// as in "2,5".
func isDecimalComma(s string) bool {
	return strings.Count(s, ",") == 1 && !strings.Contains(s, ".") && !thousandsGrouped(s)
}

// parseFloat parses a spreadsheet number. ok is false for empty, malformed,
// NaN and infinite values.
func parseFloat(s string) (v float64, ok bool) {
	c := cleanNumber(s)
	if c == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(c, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseDecimal parses a monetary amount exactly.
func parseDecimal(s string) (decimal.Decimal, bool) {
	c := cleanNumber(s)
	if c == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(c)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
