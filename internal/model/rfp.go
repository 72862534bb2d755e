package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Mode is the transport mode of a lane or rate.
type Mode string

// Supported transport modes.
const (
	ModeAir   Mode = "AIR"
	ModeOcean Mode = "OCEAN"
	ModeLCL   Mode = "LCL"
	ModeFCL   Mode = "FCL"
	ModeTruck Mode = "TRUCK"
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeAir, ModeOcean, ModeLCL, ModeFCL, ModeTruck}

// ParseMode normalizes s (trimmed, case-insensitive) to a Mode.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case ModeAir, ModeOcean, ModeLCL, ModeFCL, ModeTruck:
		return m, true
	}
	return "", false
}

// UOM is the unit of measure a charge is billed by.
type UOM string

// Supported units of measure.
const (
	UOMFlat    UOM = "flat"
	UOMPerShpt UOM = "per_shpt"
	UOMPerKg   UOM = "per_kg"
	UOMPerCbm  UOM = "per_cbm"
	UOMPerCnt  UOM = "per_cnt"
)

var uomAliases = map[string]UOM{
	"flat":          UOMFlat,
	"lump_sum":      UOMFlat,
	"per_shpt":      UOMPerShpt,
	"per_shipment":  UOMPerShpt,
	"shipment":      UOMPerShpt,
	"per_kg":        UOMPerKg,
	"kg":            UOMPerKg,
	"per_cbm":       UOMPerCbm,
	"cbm":           UOMPerCbm,
	"per_cnt":       UOMPerCnt,
	"per_container": UOMPerCnt,
	"container":     UOMPerCnt,
}

// ParseUOM normalizes s to a UOM. Spaces, dashes and slashes are treated as
// underscores, so "per kg" and "per-kg" both resolve to per_kg.
func ParseUOM(s string) (UOM, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(key)
	u, ok := uomAliases[key]
	return u, ok
}

// RfpPayload is the complete input envelope of a quoting session.
type RfpPayload struct {
	Meta  Meta   `json:"meta"`
	Lanes []Lane `json:"lanes"`
	Rates []Rate `json:"rates"`
}

// Meta describes the bid being quoted.
type Meta struct {
	BidName   string  `json:"bid_name"`
	Customer  string  `json:"customer"`
	ValidFrom string  `json:"valid_from"`
	ValidTo   string  `json:"valid_to"`
	Currency  string  `json:"currency"`
	Contact   Contact `json:"contact"`
}

// Contact is the sales contact printed on the proposal.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Place is one end of a lane. Every field is optional.
type Place struct {
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	Port    string `json:"port,omitempty"`
	Airport string `json:"airport,omitempty"`
}

// Label returns the most specific non-empty location name.
func (p Place) Label() string {
	for _, s := range []string{p.Port, p.Airport, p.City, p.Country} {
		if s != "" {
			return s
		}
	}
	return "-"
}

// Demand is the annual volume declared for a lane.
type Demand struct {
	ShipmentsPerYear *int     `json:"shipments_per_year,omitempty"`
	AvgWeightKg      *float64 `json:"avg_weight_kg,omitempty"`
	AvgVolumeCbm     *float64 `json:"avg_volume_cbm,omitempty"`
}

// Lane is one shipping relationship to be priced.
type Lane struct {
	Mode         Mode   `json:"mode"`
	Incoterm     string `json:"incoterm,omitempty"`
	Origin       Place  `json:"origin"`
	Destination  Place  `json:"destination"`
	ServiceLevel string `json:"service_level,omitempty"`
	Equipment    string `json:"equipment,omitempty"`
	Demand       Demand `json:"demand"`
}

// Scope restricts the lanes a rate applies to. An empty field matches any
// lane value.
type Scope struct {
	OriginPort    string `json:"origin_port,omitempty"`
	DestPort      string `json:"dest_port,omitempty"`
	OriginAirport string `json:"origin_airport,omitempty"`
	DestAirport   string `json:"dest_airport,omitempty"`
	Equipment     string `json:"equipment,omitempty"`
}

// Rate is a priced offer for a scope of lanes.
type Rate struct {
	Mode     Mode     `json:"mode"`
	Scope    Scope    `json:"scope"`
	Currency string   `json:"currency"`
	Charges  []Charge `json:"charges"`
}

// Charge is a single billable line item.
type Charge struct {
	Name     string              `json:"name"`
	UOM      UOM                 `json:"uom"`
	Rate     decimal.Decimal     `json:"rate"`
	Min      decimal.NullDecimal `json:"min"`
	Currency string              `json:"currency,omitempty"`
}
