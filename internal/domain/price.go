package domain

// ResolvedPrice is the immutable result of one price lookup, in the smallest
// currency unit. It is created by a resolver, owned by exactly one line item
// and replaced wholesale on re-resolution, never mutated in place.
type ResolvedPrice struct {
	unit     int64
	original int64
}

func NewResolvedPrice(unitCents, originalCents int64) ResolvedPrice {
	return ResolvedPrice{unit: unitCents, original: originalCents}
}

func (p ResolvedPrice) UnitPrice() int64 { return p.unit }

func (p ResolvedPrice) OriginalPrice() int64 { return p.original }
