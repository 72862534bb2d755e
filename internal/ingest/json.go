package ingest

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/rfp-pricer/internal/model"
)

// ingestJSON handles documents already in canonical {meta, lanes, rates}
// shape. The payload is validated before it is trusted.
func (a *Adapter) ingestJSON(name string, data []byte) (*Result, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fail(name, "decode json", err)
	}
	_, hasLanes := probe["lanes"]
	_, hasRates := probe["rates"]
	if !hasLanes || !hasRates {
		return nil, fail(name, "decode json", eris.New("document must contain lanes and rates"))
	}

	res := &Result{Format: FormatJSON}
	if err := json.Unmarshal(data, &res.Payload); err != nil {
		return nil, fail(name, "decode json", err)
	}

	model.Normalize(&res.Payload)
	if err := model.Validate(res.Payload); err != nil {
		return nil, fail(name, "validate", err)
	}

	if meta, ok := probe["meta"]; !ok || string(meta) == "null" {
		res.Payload.Meta = a.PlaceholderMeta()
		res.add("", 0, KindDefaulted, "document has no meta; placeholder metadata used")
	}
	return res, nil
}
