package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/currency"
)

// PricingContext carries the axes along which a resolved price may vary.
// It is immutable; build a new one when any axis changes.
type PricingContext struct {
	CustomerID string // empty for anonymous carts
	Instance   string
	Currency   string
	Locale     string
}

// NewPricingContext validates the currency code and returns a context.
func NewPricingContext(customerID, instance, currencyCode, locale string) (PricingContext, error) {
	if _, err := currency.ParseISO(currencyCode); err != nil {
		return PricingContext{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}
	return PricingContext{
		CustomerID: customerID,
		Instance:   instance,
		Currency:   currencyCode,
		Locale:     locale,
	}, nil
}

// Fingerprint digests the ordered attribute tuple. Cached prices stay valid
// exactly as long as the fingerprint string compares equal.
func (c PricingContext) Fingerprint() string {
	h := sha256.New()
	for _, part := range []string{c.CustomerID, c.Instance, c.Currency, c.Locale} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
