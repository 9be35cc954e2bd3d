package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tiered is anything that can take part in tier selection.
type Tiered interface {
	Threshold() decimal.Decimal
	Active() bool
}

// Tier is a quantity break: from MinQty upward the unit price is UnitPrice.
type Tier struct {
	MinQty    decimal.Decimal
	UnitPrice decimal.Decimal
	IsActive  bool
}

func (t Tier) Threshold() decimal.Decimal { return t.MinQty }
func (t Tier) Active() bool               { return t.IsActive }

// VariantTier is a Tier scoped to one size variant.
type VariantTier struct {
	Tier
	VariantID uuid.UUID
}

// SelectTier returns the active tier with the greatest threshold that is
// still <= quantity. The scan is linear over the input as given; when two
// qualifying tiers share a threshold the one seen first is kept. ok is false
// when nothing qualifies, including for an empty list.
func SelectTier[T Tiered](tiers []T, quantity decimal.Decimal) (best T, ok bool) {
	for _, t := range tiers {
		if !t.Active() || quantity.LessThan(t.Threshold()) {
			continue
		}
		if !ok || t.Threshold().GreaterThan(best.Threshold()) {
			best, ok = t, true
		}
	}
	return best, ok
}
