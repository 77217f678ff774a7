package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Priceable is the capability a loaded catalog record must expose to be
// priced. The original price is queried without a context.
type Priceable interface {
	BuyableID() string
	Price(pctx PricingContext) (int64, error)
	OriginalPrice() int64
}

// LineItem is one cart entry: a quantity plus a reference to a buyable
// entity. The unit price is not stored with the item; it is resolved lazily
// through the deferred-resolution trigger armed by the owning cart.
type LineItem struct {
	rowID       string
	BuyableType string
	BuyableID   string
	Quantity    int
	Options     map[string]string

	resolved *ResolvedPrice
	model    any
	resolve  func()
}

// NewLineItem builds an item and derives its row id from type, id and
// options, so identical purchases collapse to the same row.
func NewLineItem(buyableType, buyableID string, quantity int, options map[string]string) (*LineItem, error) {
	if quantity < 1 {
		return nil, InvalidQuantityError{Quantity: quantity}
	}
	return &LineItem{
		rowID:       generateRowID(buyableType, buyableID, options),
		BuyableType: buyableType,
		BuyableID:   buyableID,
		Quantity:    quantity,
		Options:     options,
	}, nil
}

// RestoreLineItem rebuilds an item from its stored row representation,
// keeping the persisted row id. The restored item is cold: no resolved
// price, no loaded model.
func RestoreLineItem(rowID, buyableType, buyableID string, quantity int, options map[string]string) (*LineItem, error) {
	if quantity < 1 {
		return nil, InvalidQuantityError{RowID: rowID, Quantity: quantity}
	}
	return &LineItem{
		rowID:       rowID,
		BuyableType: buyableType,
		BuyableID:   buyableID,
		Quantity:    quantity,
		Options:     options,
	}, nil
}

func (li *LineItem) RowID() string { return li.rowID }

// SetQuantity replaces the quantity; a value below 1 is rejected and prior
// state is left unchanged.
func (li *LineItem) SetQuantity(quantity int) error {
	if quantity < 1 {
		return InvalidQuantityError{RowID: li.rowID, Quantity: quantity}
	}
	li.Quantity = quantity
	return nil
}

// UnitPrice returns the resolved unit price. On a miss it fires the
// deferred-resolution trigger once; the trigger usually resolves every
// sibling row in one batch, not just this one. With no trigger armed and no
// price resolved the accessor returns zero so unresolved carts still render.
func (li *LineItem) UnitPrice() int64 {
	li.ensureResolved()
	if li.resolved == nil {
		return 0
	}
	return li.resolved.UnitPrice()
}

// OriginalPrice returns the resolved pre-discount price, zero when
// unresolved. Same trigger semantics as UnitPrice.
func (li *LineItem) OriginalPrice() int64 {
	li.ensureResolved()
	if li.resolved == nil {
		return 0
	}
	return li.resolved.OriginalPrice()
}

// Subtotal is unit price times quantity.
func (li *LineItem) Subtotal() int64 {
	return li.UnitPrice() * int64(li.Quantity)
}

func (li *LineItem) ensureResolved() {
	if li.resolved == nil && li.resolve != nil {
		li.resolve()
	}
}

// SetResolvedPrice replaces the resolved price wholesale.
func (li *LineItem) SetResolvedPrice(p ResolvedPrice) { li.resolved = &p }

func (li *LineItem) ClearResolvedPrice() { li.resolved = nil }

func (li *LineItem) PriceResolved() bool { return li.resolved != nil }

// ArmTrigger registers the zero-argument deferred-resolution trigger. It is
// a capability reference back to the owning cart's resolution gate, never an
// ownership edge.
func (li *LineItem) ArmTrigger(fn func()) { li.resolve = fn }

// Model returns the backing entity loaded by batch model-loading, nil when
// not loaded.
func (li *LineItem) Model() any { return li.model }

func (li *LineItem) SetModel(m any) { li.model = m }

func (li *LineItem) ModelLoaded() bool { return li.model != nil }

func generateRowID(buyableType, buyableID string, options map[string]string) string {
	h := sha256.New()
	h.Write([]byte(buyableType))
	h.Write([]byte{0})
	h.Write([]byte(buyableID))

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(options[k]))
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}
