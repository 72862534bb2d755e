package ingest

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/rfp-pricer/internal/fetcher"
	"github.com/sells-group/rfp-pricer/internal/model"
)

// metaSheet is an optional two-column key/value sheet carrying bid metadata.
const metaSheet = "meta"

func (a *Adapter) ingestWorkbook(name string, data []byte, guess *GuessMap) (*Result, error) {
	wb, err := fetcher.OpenXLSX(data)
	if err != nil {
		return nil, fail(name, "open workbook", err)
	}
	sheets := wb.SheetNames()
	if len(sheets) == 0 {
		return nil, fail(name, "open workbook", eris.New("workbook has no sheets"))
	}

	laneSheet, err := resolveSheet(sheets, guess.Lanes, "lane")
	if err != nil {
		return nil, fail(name, "resolve lanes sheet", err)
	}
	rateSheet, err := resolveSheet(sheets, guess.Rates, "rate")
	if err != nil {
		return nil, fail(name, "resolve rates sheet", err)
	}

	res := &Result{Format: FormatXLSX}
	res.Payload.Meta = a.workbookMeta(wb, sheets, res)

	laneRows, err := wb.Rows(laneSheet)
	if err != nil {
		return nil, fail(name, "read lanes sheet", err)
	}
	res.Payload.Lanes = extractLanes(newTable(laneSheet, laneRows, guess.Lanes), res)

	rateRows, err := wb.Rows(rateSheet)
	if err != nil {
		return nil, fail(name, "read rates sheet", err)
	}
	res.Payload.Rates = extractRates(newTable(rateSheet, rateRows, guess.Rates), res.Payload.Meta.Currency, res)

	if err := model.Validate(res.Payload); err != nil {
		return nil, fail(name, "validate", err)
	}
	return res, nil
}

// resolveSheet picks the configured sheet, else the first sheet whose name
// contains hint, else the first sheet.
func resolveSheet(sheets []string, guess *SheetGuess, hint string) (string, error) {
	if want := guess.SheetName(); want != "" {
		for _, s := range sheets {
			if s == want {
				return s, nil
			}
		}
		for _, s := range sheets {
			if strings.EqualFold(strings.TrimSpace(s), want) {
				return s, nil
			}
		}
		return "", eris.Errorf("sheet %q not found (have %s)", want, strings.Join(sheets, ", "))
	}
	for _, s := range sheets {
		if strings.Contains(strings.ToLower(s), hint) {
			return s, nil
		}
	}
	return sheets[0], nil
}

// table is a header-indexed view over one sheet.
type table struct {
	sheet   string
	guess   *SheetGuess
	columns map[string]int
	rows    [][]string
	// firstRow is the 1-based sheet row number of rows[0].
	firstRow int
}

func headerKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func newTable(sheet string, rows [][]string, guess *SheetGuess) *table {
	t := &table{sheet: sheet, guess: guess, columns: map[string]int{}}
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		for j, h := range row {
			if k := headerKey(h); k != "" {
				if _, dup := t.columns[k]; !dup {
					t.columns[k] = j
				}
			}
		}
		t.rows = rows[i+1:]
		t.firstRow = i + 2
		break
	}
	return t
}

// get returns the trimmed cell for a canonical field, looking up the guessed
// header first and the field's own name second.
func (t *table) get(row []string, field string) string {
	idx, ok := t.columns[headerKey(t.guess.Header(field))]
	if !ok {
		idx, ok = t.columns[headerKey(field)]
	}
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseMode applies the row mode rules: empty drops the row, unknown values
// are coerced to OCEAN.
func (t *table) parseMode(row []string, rowNum int, res *Result) (model.Mode, bool) {
	raw := strings.ToUpper(t.get(row, FieldMode))
	if raw == "" {
		res.add(t.sheet, rowNum, KindDropped, "mode is empty")
		return "", false
	}
	mode, ok := model.ParseMode(raw)
	if !ok {
		res.add(t.sheet, rowNum, KindCoerced, "unknown mode %q treated as %s", raw, model.ModeOcean)
		return model.ModeOcean, true
	}
	return mode, true
}

// maxShipmentsPerYear bounds the annual shipment count so that rounding to
// int cannot overflow.
const maxShipmentsPerYear = math.MaxInt32

func extractLanes(t *table, res *Result) []model.Lane {
	var lanes []model.Lane
	for i, row := range t.rows {
		if isBlank(row) {
			continue
		}
		rowNum := t.firstRow + i
		mode, ok := t.parseMode(row, rowNum, res)
		if !ok {
			continue
		}

		lane := model.Lane{
			Mode:     mode,
			Incoterm: t.get(row, FieldIncoterm),
			Origin: model.Place{
				Country: t.get(row, FieldOriginCountry),
				City:    t.get(row, FieldOriginCity),
				Port:    t.get(row, FieldOriginPort),
				Airport: t.get(row, FieldOriginAirport),
			},
			Destination: model.Place{
				Country: t.get(row, FieldDestCountry),
				City:    t.get(row, FieldDestCity),
				Port:    t.get(row, FieldDestPort),
				Airport: t.get(row, FieldDestAirport),
			},
			ServiceLevel: t.get(row, FieldServiceLevel),
			Equipment:    t.get(row, FieldEquipment),
		}
		if v, ok := t.quantity(row, rowNum, FieldShipmentsPerYear, res); ok {
			if v > maxShipmentsPerYear {
				res.add(t.sheet, rowNum, KindSkipped, "%s %q is out of range", FieldShipmentsPerYear, t.get(row, FieldShipmentsPerYear))
			} else {
				n := int(math.Round(v))
				lane.Demand.ShipmentsPerYear = &n
			}
		}
		if v, ok := t.quantity(row, rowNum, FieldAvgWeightKg, res); ok {
			lane.Demand.AvgWeightKg = &v
		}
		if v, ok := t.quantity(row, rowNum, FieldAvgVolumeCbm, res); ok {
			lane.Demand.AvgVolumeCbm = &v
		}
		lanes = append(lanes, lane)
	}
	return lanes
}

// quantity reads a non-negative demand figure. Unparseable or negative cells
// are reported and treated as undeclared.
func (t *table) quantity(row []string, rowNum int, field string, res *Result) (float64, bool) {
	raw := t.get(row, field)
	if raw == "" {
		return 0, false
	}
	v, ok := parseFloat(raw)
	if !ok || v < 0 {
		res.add(t.sheet, rowNum, KindSkipped, "%s %q is not a non-negative number", field, raw)
		return 0, false
	}
	t.noteDecimalComma(raw, rowNum, field, res)
	return v, true
}

// noteDecimalComma records numeric cells read with a comma as decimal mark.
func (t *table) noteDecimalComma(raw string, rowNum int, label string, res *Result) {
	if isDecimalComma(raw) {
		res.add(t.sheet, rowNum, KindCoerced, "%s %q read with a decimal comma", label, raw)
	}
}

func extractRates(t *table, defaultCurrency string, res *Result) []model.Rate {
	var rates []model.Rate
	for i, row := range t.rows {
		if isBlank(row) {
			continue
		}
		rowNum := t.firstRow + i
		mode, ok := t.parseMode(row, rowNum, res)
		if !ok {
			continue
		}

		currency := strings.ToUpper(t.get(row, FieldCurrency))
		if currency == "" {
			currency = defaultCurrency
		}
		rate := model.Rate{
			Mode: mode,
			Scope: model.Scope{
				OriginPort:    t.get(row, FieldOriginPort),
				DestPort:      t.get(row, FieldDestPort),
				OriginAirport: t.get(row, FieldOriginAirport),
				DestAirport:   t.get(row, FieldDestAirport),
				Equipment:     t.get(row, FieldEquipment),
			},
			Currency: currency,
		}
		for _, slot := range ChargeSlots {
			if c, ok := t.charge(row, rowNum, slot, currency, res); ok {
				rate.Charges = append(rate.Charges, c)
			}
		}
		if len(rate.Charges) == 0 {
			res.add(t.sheet, rowNum, KindDropped, "rate has no priced charge columns")
			continue
		}
		rates = append(rates, rate)
	}
	return rates
}

// charge probes one slot's rate/uom/min triple. The slot is kept only when
// its rate is a finite, non-negative number.
func (t *table) charge(row []string, rowNum int, slot ChargeSlot, currency string, res *Result) (model.Charge, bool) {
	raw := t.get(row, slot.rateField())
	if raw == "" {
		return model.Charge{}, false
	}
	amount, ok := parseDecimal(raw)
	if !ok || amount.IsNegative() {
		res.add(t.sheet, rowNum, KindSkipped, "%s rate %q is not a non-negative number", slot.Name, raw)
		return model.Charge{}, false
	}
	t.noteDecimalComma(raw, rowNum, slot.Name+" rate", res)

	c := model.Charge{Name: slot.Name, UOM: slot.DefaultUOM, Rate: amount, Currency: currency}
	if rawUOM := t.get(row, slot.uomField()); rawUOM != "" {
		if u, ok := model.ParseUOM(rawUOM); ok {
			c.UOM = u
		} else {
			res.add(t.sheet, rowNum, KindCoerced, "%s unit %q treated as %s", slot.Name, rawUOM, slot.DefaultUOM)
		}
	}
	if rawMin := t.get(row, slot.minField()); rawMin != "" {
		if m, ok := parseDecimal(rawMin); ok && !m.IsNegative() {
			c.Min = decimal.NewNullDecimal(m)
			t.noteDecimalComma(rawMin, rowNum, slot.Name+" minimum", res)
		} else {
			res.add(t.sheet, rowNum, KindSkipped, "%s minimum %q is not a non-negative number", slot.Name, rawMin)
		}
	}
	return c, true
}

// workbookMeta reads the optional meta sheet and fills the gaps from the
// placeholder metadata.
func (a *Adapter) workbookMeta(wb *fetcher.Workbook, sheets []string, res *Result) model.Meta {
	meta := a.PlaceholderMeta()
	var name string
	for _, s := range sheets {
		if headerKey(s) == metaSheet {
			name = s
			break
		}
	}
	if name == "" {
		res.add("", 0, KindDefaulted, "workbook has no meta sheet; placeholder metadata used")
		return meta
	}

	rows, err := wb.Rows(name)
	if err != nil {
		res.add(name, 0, KindDefaulted, "meta sheet unreadable; placeholder metadata used")
		return meta
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		v := strings.TrimSpace(row[1])
		if v == "" {
			continue
		}
		switch headerKey(row[0]) {
		case "bid_name", "bid":
			meta.BidName = v
		case "customer":
			meta.Customer = v
		case "valid_from":
			meta.ValidFrom = v
		case "valid_to":
			meta.ValidTo = v
		case "currency":
			meta.Currency = strings.ToUpper(v)
		case "contact_name":
			meta.Contact.Name = v
		case "contact_email":
			meta.Contact.Email = v
		case "contact_phone":
			meta.Contact.Phone = v
		}
	}
	return meta
}
