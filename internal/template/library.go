// Package template holds the catalog of default charge sets used to price a
// lane when no explicit rate matches it.
package template

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/sells-group/rfp-pricer/internal/model"
)

// Key identifies a template in the catalog.
type Key string

// Template keys.
const (
	KeyAir       Key = "AIR"
	KeyOceanFCL  Key = "OCEAN_FCL"
	KeyOceanLCL  Key = "OCEAN_LCL"
	KeyTruckTL   Key = "TRUCK_TL"
	KeyTruckDray Key = "TRUCK_DRAY"
)

// Keys lists every template key in catalog order.
var Keys = []Key{KeyAir, KeyOceanFCL, KeyOceanLCL, KeyTruckTL, KeyTruckDray}

// ValidKey reports whether k is part of the closed key set.
func ValidKey(k Key) bool {
	for _, v := range Keys {
		if v == k {
			return true
		}
	}
	return false
}

// ChargeSpec is a default charge. Amounts are plain floats so the catalog can
// be written by hand in YAML.
type ChargeSpec struct {
	Name string    `yaml:"name" json:"name"`
	UOM  model.UOM `yaml:"uom" json:"uom"`
	Rate float64   `yaml:"rate" json:"rate"`
	Min  *float64  `yaml:"min,omitempty" json:"min,omitempty"`
}

// Charge converts the spec to a model charge in the given currency.
func (s ChargeSpec) Charge(currency string) model.Charge {
	c := model.Charge{
		Name:     s.Name,
		UOM:      s.UOM,
		Rate:     decimal.NewFromFloat(s.Rate),
		Currency: currency,
	}
	if s.Min != nil {
		c.Min = decimal.NewNullDecimal(decimal.NewFromFloat(*s.Min))
	}
	return c
}

// Template is a default charge set for one mode/equipment category.
type Template struct {
	Name         string       `yaml:"name" json:"name"`
	Currency     string       `yaml:"currency" json:"currency"`
	Base         ChargeSpec   `yaml:"base" json:"base"`
	Accessorials []ChargeSpec `yaml:"accessorials" json:"accessorials"`
}

// Charges returns the base charge followed by the accessorials.
func (t Template) Charges() []model.Charge {
	out := make([]model.Charge, 0, 1+len(t.Accessorials))
	out = append(out, t.Base.Charge(t.Currency))
	for _, a := range t.Accessorials {
		out = append(out, a.Charge(t.Currency))
	}
	return out
}

// KeyPattern maps equipment text for a mode to a template key. Patterns are
// evaluated in order and the first match wins.
type KeyPattern struct {
	Mode    model.Mode
	Pattern *regexp.Regexp
	Key     Key
}

// Library is an immutable template catalog plus its key-selection table.
type Library struct {
	Version   string
	templates map[Key]Template
	patterns  []KeyPattern
}

// Template returns the template stored under k.
func (l *Library) Template(k Key) (Template, bool) {
	t, ok := l.templates[k]
	return t, ok
}

// Patterns returns a copy of the key-selection table.
func (l *Library) Patterns() []KeyPattern {
	return append([]KeyPattern(nil), l.patterns...)
}

// PickKey maps a mode and free-form equipment text to a template key. It is
// total: every input yields one of Keys.
func (l *Library) PickKey(mode model.Mode, equipment string) Key {
	for _, p := range l.patterns {
		if p.Mode == mode && p.Pattern.MatchString(equipment) {
			return p.Key
		}
	}
	switch mode {
	case model.ModeAir:
		return KeyAir
	case model.ModeFCL:
		return KeyOceanFCL
	case model.ModeTruck:
		return KeyTruckTL
	default:
		return KeyOceanLCL
	}
}

// Synthesize builds a rate for lane from its template, scoped only by the
// lane's equipment.
func (l *Library) Synthesize(lane model.Lane) (model.Rate, Key) {
	key := l.PickKey(lane.Mode, lane.Equipment)
	t, ok := l.templates[key]
	if !ok {
		t = builtin[key]
	}
	return model.Rate{
		Mode:     lane.Mode,
		Scope:    model.Scope{Equipment: lane.Equipment},
		Currency: t.Currency,
		Charges:  t.Charges(),
	}, key
}

// PickTemplateKey selects a key using the built-in pattern table.
func PickTemplateKey(mode model.Mode, equipment string) Key {
	return defaultLibrary.PickKey(mode, equipment)
}

// Default returns the built-in catalog.
func Default() *Library {
	return defaultLibrary
}
