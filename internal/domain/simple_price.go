package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// SimplePriceFields names the per-asset keys of a CoinGecko /simple/price body
// for one fiat currency.
type SimplePriceFields struct {
	Price     string
	MarketCap string
	Volume24h string
	Change24h string
}

func FieldsFor(currency string) SimplePriceFields {
	c := strings.ToLower(currency)
	return SimplePriceFields{
		Price:     c,
		MarketCap: c + "_market_cap",
		Volume24h: c + "_24h_vol",
		Change24h: c + "_24h_change",
	}
}

// ParseSimplePrice extracts one asset's quote from a /simple/price response
// keyed by asset id. Absent, null, non-numeric or out-of-range values read as
// zero; only a body that is not a JSON object (or an asset entry that is not an
// object) is an error. The payload is kept verbatim on the returned quote.
func ParseSimplePrice(payload []byte, asset, currency string) (Quote, error) {
	q := Quote{Raw: payload}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(payload, &body); err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if body == nil {
		return Quote{}, fmt.Errorf("%w: body is null", ErrMalformedPayload)
	}
	entry, ok := body[asset]
	if !ok {
		return q, nil
	}

	var values map[string]any
	dec := json.NewDecoder(bytes.NewReader(entry))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return Quote{}, fmt.Errorf("%w: asset %q: %v", ErrMalformedPayload, asset, err)
	}
	if values == nil {
		return Quote{}, fmt.Errorf("%w: asset %q is null", ErrMalformedPayload, asset)
	}

	f := FieldsFor(currency)
	q.Price = float(number(values, f.Price))
	q.MarketCap = integer(number(values, f.MarketCap))
	q.Volume24h = integer(number(values, f.Volume24h))
	q.PriceChange24h = float(number(values, f.Change24h))
	return q, nil
}

func number(values map[string]any, key string) decimal.Decimal {
	n, ok := values[key].(json.Number)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// float reads d as a finite float64; anything out of range is zero.
func float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// integer truncates d to int64; anything out of range is zero.
func integer(d decimal.Decimal) int64 {
	b := d.BigInt()
	if !b.IsInt64() {
		return 0
	}
	return b.Int64()
}
