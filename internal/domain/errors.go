package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrDuplicateItem     = errors.New("duplicate item")
	ErrMaxItemsExceeded  = errors.New("max items exceeded")
	ErrInvalidRowID      = errors.New("invalid row id")
	ErrUnresolvablePrice = errors.New("unresolvable price")

	// Sub-causes of ErrUnresolvablePrice.
	ErrModelNotFound = errors.New("model not found")
	ErrNotPriceable  = errors.New("not priceable")
)

// InvalidQuantityError rejects a quantity below 1 at construction or update.
type InvalidQuantityError struct {
	RowID    string
	Quantity int
}

func (e InvalidQuantityError) Error() string {
	if e.RowID != "" {
		return fmt.Sprintf("invalid quantity %d for row %s", e.Quantity, e.RowID)
	}
	return fmt.Sprintf("invalid quantity %d", e.Quantity)
}

func (e InvalidQuantityError) Unwrap() error { return ErrInvalidQuantity }

// DuplicateItemError reports an add that collides with an existing row under
// a no-duplicates policy.
type DuplicateItemError struct {
	Instance string
	RowID    string
}

func (e DuplicateItemError) Error() string {
	return fmt.Sprintf("cart %s already holds row %s", e.Instance, e.RowID)
}

func (e DuplicateItemError) Unwrap() error { return ErrDuplicateItem }

// MaxItemsExceededError reports an add that would exceed the per-instance cap.
type MaxItemsExceededError struct {
	Instance string
	Count    int
	Max      int
}

func (e MaxItemsExceededError) Error() string {
	return fmt.Sprintf("cart %s holds %d items, cap is %d", e.Instance, e.Count, e.Max)
}

func (e MaxItemsExceededError) Unwrap() error { return ErrMaxItemsExceeded }

// InvalidRowIDError reports an operation against a row id absent from the
// collection.
type InvalidRowIDError struct {
	Instance string
	RowID    string
}

func (e InvalidRowIDError) Error() string {
	return fmt.Sprintf("cart %s has no row %s", e.Instance, e.RowID)
}

func (e InvalidRowIDError) Unwrap() error { return ErrInvalidRowID }

// UnresolvablePriceError reports a failed price resolution. Reason is one of
// ErrModelNotFound, ErrNotPriceable, or a resolver-specific cause; nil means
// a generic failure (e.g. every composite branch abstained).
type UnresolvablePriceError struct {
	RowID       string
	BuyableType string
	BuyableID   string
	Reason      error
}

func (e UnresolvablePriceError) Error() string {
	msg := fmt.Sprintf("cannot resolve price for row %s (%s %s)", e.RowID, e.BuyableType, e.BuyableID)
	if e.Reason != nil {
		msg += ": " + e.Reason.Error()
	}
	return msg
}

func (e UnresolvablePriceError) Unwrap() []error {
	if e.Reason != nil {
		return []error{ErrUnresolvablePrice, e.Reason}
	}
	return []error{ErrUnresolvablePrice}
}
