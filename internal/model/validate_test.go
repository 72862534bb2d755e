package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"AIR", ModeAir, true},
		{" ocean ", ModeOcean, true},
		{"lcl", ModeLCL, true},
		{"Fcl", ModeFCL, true},
		{"truck", ModeTruck, true},
		{"rail", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseUOM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want UOM
		ok   bool
	}{
		{"flat", UOMFlat, true},
		{"PER_SHPT", UOMPerShpt, true},
		{"per shipment", UOMPerShpt, true},
		{"per-kg", UOMPerKg, true},
		{"CBM", UOMPerCbm, true},
		{"per container", UOMPerCnt, true},
		{"per_pallet", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseUOM(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPlaceLabel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "CNSHA", Place{Country: "CN", City: "Shanghai", Port: "CNSHA"}.Label())
	assert.Equal(t, "Shanghai", Place{Country: "CN", City: "Shanghai"}.Label())
	assert.Equal(t, "-", Place{}.Label())
}

func validPayload() RfpPayload {
	return RfpPayload{
		Lanes: []Lane{{
			Mode:   ModeOcean,
			Demand: Demand{ShipmentsPerYear: intPtr(52), AvgWeightKg: floatPtr(1200)},
		}},
		Rates: []Rate{{
			Mode:     ModeOcean,
			Currency: "USD",
			Charges: []Charge{{
				Name: "Ocean Freight",
				UOM:  UOMPerCnt,
				Rate: decimal.NewFromInt(2000),
				Min:  decimal.NewNullDecimal(decimal.NewFromInt(100)),
			}},
		}},
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Validate(validPayload()))
}

func TestValidate_CollectsEveryIssue(t *testing.T) {
	t.Parallel()

	p := validPayload()
	p.Lanes[0].Mode = "RAIL"
	p.Lanes[0].Demand.ShipmentsPerYear = intPtr(-1)
	p.Lanes[0].Demand.AvgVolumeCbm = floatPtr(-2.5)
	p.Rates[0].Charges[0].Rate = decimal.NewFromInt(-5)
	p.Rates[0].Charges[0].Min = decimal.NewNullDecimal(decimal.NewFromInt(-1))
	p.Rates[0].Charges[0].UOM = "per_pallet"
	p.Rates[0].Charges[0].Name = " "

	err := Validate(p)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	paths := make([]string, 0, len(ve.Issues))
	for _, is := range ve.Issues {
		paths = append(paths, is.Path)
	}
	assert.ElementsMatch(t, []string{
		"lanes[0].mode",
		"lanes[0].demand.shipments_per_year",
		"lanes[0].demand.avg_volume_cbm",
		"rates[0].charges[0].name",
		"rates[0].charges[0].uom",
		"rates[0].charges[0].rate",
		"rates[0].charges[0].min",
	}, paths)
	assert.Contains(t, err.Error(), "7 issues")
}

func TestValidate_RateWithoutCharges(t *testing.T) {
	t.Parallel()

	p := validPayload()
	p.Rates[0].Charges = nil

	var ve *ValidationError
	require.ErrorAs(t, Validate(p), &ve)
	require.Len(t, ve.Issues, 1)
	assert.Equal(t, "rates[0].charges", ve.Issues[0].Path)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	p := validPayload()
	p.Lanes[0].Mode = "ocean"
	p.Rates[0].Mode = "Ocean"
	p.Rates[0].Charges[0].UOM = "Per Container"

	Normalize(&p)
	assert.Equal(t, ModeOcean, p.Lanes[0].Mode)
	assert.Equal(t, ModeOcean, p.Rates[0].Mode)
	assert.Equal(t, UOMPerCnt, p.Rates[0].Charges[0].UOM)
	assert.NoError(t, Validate(p))
}

func TestPricedResult_TemplatedCount(t *testing.T) {
	t.Parallel()

	r := PricedResult{Lanes: []PricedLane{
		{Source: SourceExact},
		{Source: SourceTemplate},
		{Source: SourceMode},
		{Source: SourceTemplate},
	}}
	assert.Equal(t, 2, r.TemplatedCount())
}
