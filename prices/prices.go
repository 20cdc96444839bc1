package prices

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

var (
	ErrMissingPrice   = errors.New("missing token price")
	ErrInvalidPayload = errors.New("invalid price payload")
)

// TokenPrices maps a mint to its USD price.
type TokenPrices map[solana.PublicKey]decimal.Decimal

// Get reports false for unknown mints and for non-positive prices.
func (p TokenPrices) Get(mint solana.PublicKey) (decimal.Decimal, bool) {
	v, ok := p[mint]
	if !ok || v.Sign() <= 0 {
		return decimal.Zero, false
	}
	return v, true
}

// Require fails with ErrMissingPrice where Get reports false.
func (p TokenPrices) Require(mint solana.PublicKey) (decimal.Decimal, error) {
	v, ok := p.Get(mint)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingPrice, mint)
	}
	return v, nil
}

// ParseJupiterPrices reads a Jupiter price API response:
//
//	{"data": {"<mint>": {"id": "<mint>", "price": "1.23"}}}
//
// Entries with a null price are skipped.
func ParseJupiterPrices(body []byte) (TokenPrices, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidPayload
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsObject() {
		return nil, fmt.Errorf("%w: no data object", ErrInvalidPayload)
	}

	out := make(TokenPrices)
	var err error
	data.ForEach(func(key, value gjson.Result) bool {
		price := value.Get("price")
		if !price.Exists() || price.Type == gjson.Null {
			return true
		}
		var mint solana.PublicKey
		if mint, err = solana.PublicKeyFromBase58(key.String()); err != nil {
			err = fmt.Errorf("%w: mint %q: %v", ErrInvalidPayload, key.String(), err)
			return false
		}
		var d decimal.Decimal
		if d, err = decimal.NewFromString(price.String()); err != nil {
			err = fmt.Errorf("%w: price of %s: %v", ErrInvalidPayload, mint, err)
			return false
		}
		out[mint] = d
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseMapping reads a JSON array of objects, taking the mint from mintPath
// and the price from pricePath of each element, e.g.
//
//	ParseMapping(body, "mint", "usdPrice")
func ParseMapping(body []byte, mintPath, pricePath string) (TokenPrices, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidPayload
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array", ErrInvalidPayload)
	}

	out := make(TokenPrices)
	for i, item := range root.Array() {
		mintStr := item.Get(mintPath).String()
		mint, err := solana.PublicKeyFromBase58(mintStr)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d mint %q: %v", ErrInvalidPayload, i, mintStr, err)
		}
		price, err := decimal.NewFromString(item.Get(pricePath).String())
		if err != nil {
			return nil, fmt.Errorf("%w: element %d price: %v", ErrInvalidPayload, i, err)
		}
		out[mint] = price
	}
	return out, nil
}
