package domain

import (
	"fmt"
	"time"
)

// Product is a catalog record with per-currency (and optionally per-locale)
// prices. It implements the Priceable capability consumed by the entity
// resolver.
type Product struct {
	ID                 string         `json:"id"`
	SKU                string         `json:"sku"`
	Name               string         `json:"name"`
	Currency           string         `json:"currency"`
	OriginalPriceCents int64          `json:"originalPriceCents"`
	Prices             []ProductPrice `json:"prices,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
}

// ProductPrice is one price row. An empty locale matches any locale within
// its currency.
type ProductPrice struct {
	Currency string `json:"currency"`
	Locale   string `json:"locale,omitempty"`
	Cents    int64  `json:"cents"`
}

var _ Priceable = (*Product)(nil)

func (p *Product) BuyableID() string { return p.ID }

// Price picks the best matching price row for the context: an exact
// (currency, locale) match wins over the currency-wide row. No row for the
// context currency is an UnresolvablePrice failure, not a zero price.
func (p *Product) Price(pctx PricingContext) (int64, error) {
	var currencyWide *ProductPrice
	for i := range p.Prices {
		row := &p.Prices[i]
		if row.Currency != pctx.Currency {
			continue
		}
		if row.Locale == pctx.Locale {
			return row.Cents, nil
		}
		if row.Locale == "" && currencyWide == nil {
			currencyWide = row
		}
	}
	if currencyWide != nil {
		return currencyWide.Cents, nil
	}
	return 0, fmt.Errorf("no %s price for product %s: %w", pctx.Currency, p.ID, ErrNotFound)
}

func (p *Product) OriginalPrice() int64 { return p.OriginalPriceCents }
