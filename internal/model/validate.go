package model

import (
	"fmt"
	"strings"
)

// Issue is a single contract violation found by Validate.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a payload.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Path+": "+is.Message)
	}
	return fmt.Sprintf("invalid payload (%d issues): %s", len(e.Issues), strings.Join(parts, "; "))
}

// Normalize canonicalizes mode and UOM spellings in place so that "ocean" and
// "Per KG" validate. Unknown values are left untouched for Validate to report.
func Normalize(p *RfpPayload) {
	for i := range p.Lanes {
		if m, ok := ParseMode(string(p.Lanes[i].Mode)); ok {
			p.Lanes[i].Mode = m
		}
	}
	for i := range p.Rates {
		r := &p.Rates[i]
		if m, ok := ParseMode(string(r.Mode)); ok {
			r.Mode = m
		}
		for j := range r.Charges {
			if u, ok := ParseUOM(string(r.Charges[j].UOM)); ok {
				r.Charges[j].UOM = u
			}
		}
	}
}

// Validate checks p against the lane, rate and charge contracts the pricer
// relies on. It returns nil or a *ValidationError.
func Validate(p RfpPayload) error {
	var issues []Issue
	add := func(path, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	for i, l := range p.Lanes {
		path := fmt.Sprintf("lanes[%d]", i)
		if _, ok := ParseMode(string(l.Mode)); !ok {
			add(path+".mode", "unknown mode %q", l.Mode)
		}
		d := l.Demand
		if d.ShipmentsPerYear != nil && *d.ShipmentsPerYear < 0 {
			add(path+".demand.shipments_per_year", "must be >= 0, got %d", *d.ShipmentsPerYear)
		}
		if d.AvgWeightKg != nil && *d.AvgWeightKg < 0 {
			add(path+".demand.avg_weight_kg", "must be >= 0, got %g", *d.AvgWeightKg)
		}
		if d.AvgVolumeCbm != nil && *d.AvgVolumeCbm < 0 {
			add(path+".demand.avg_volume_cbm", "must be >= 0, got %g", *d.AvgVolumeCbm)
		}
	}

	for i, r := range p.Rates {
		path := fmt.Sprintf("rates[%d]", i)
		if _, ok := ParseMode(string(r.Mode)); !ok {
			add(path+".mode", "unknown mode %q", r.Mode)
		}
		if len(r.Charges) == 0 {
			add(path+".charges", "rate has no charges")
		}
		for j, c := range r.Charges {
			cpath := fmt.Sprintf("%s.charges[%d]", path, j)
			if strings.TrimSpace(c.Name) == "" {
				add(cpath+".name", "must not be empty")
			}
			if _, ok := ParseUOM(string(c.UOM)); !ok {
				add(cpath+".uom", "unknown unit of measure %q", c.UOM)
			}
			if c.Rate.IsNegative() {
				add(cpath+".rate", "must be >= 0, got %s", c.Rate)
			}
			if c.Min.Valid && c.Min.Decimal.IsNegative() {
				add(cpath+".min", "must be >= 0, got %s", c.Min.Decimal)
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
