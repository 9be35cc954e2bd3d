// Package pricing resolves the unit price of an order line from a branch's
// catalog data. Everything here is pure and safe for concurrent use.
package pricing

import (
	"printshop-orders/internal/model"
	"printshop-orders/pkg/numeric"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source tags which rule produced the base unit price.
type Source string

const (
	SourceHalfMeterSpecial Source = "half-meter-special"
	SourceVariantMatrix    Source = "variant-quantity-matrix"
	SourceVariantBase      Source = "variant-base-price"
	SourceQuantityTier     Source = "quantity-price"
	SourceBase             Source = "base-price"
)

type VariantPrice struct {
	VariantID uuid.UUID
	Price     decimal.Decimal
	IsActive  bool
}

type ParamPrice struct {
	ParamID  uuid.UUID
	Name     string
	Delta    decimal.Decimal
	IsActive bool
}

// Listing is everything the engine needs to know about one product in one
// branch: the base price plus the four pricing dimensions.
type Listing struct {
	UnitKind             model.UnitKind
	BasePrice            decimal.Decimal
	HalfStepSpecialPrice *decimal.Decimal
	QuantityTiers        []Tier
	VariantPrices        []VariantPrice
	VariantTiers         []VariantTier
	ParamPrices          []ParamPrice
}

// AppliedParam is the delta one requested param actually contributed.
type AppliedParam struct {
	ParamID uuid.UUID
	Delta   decimal.Decimal
}

type Quote struct {
	UnitPrice        decimal.Decimal
	AppliedThreshold *decimal.Decimal
	Source           Source
	ParamDelta       decimal.Decimal
	// Params has one entry per requested param id, in request order.
	Params []AppliedParam
}

// IsFlat reports whether the unit price is already the whole line price.
func (q Quote) IsFlat() bool {
	return q.Source == SourceHalfMeterSpecial
}

// Subtotal is the line total for quantity under this quote.
func (q Quote) Subtotal(quantity decimal.Decimal) decimal.Decimal {
	if q.IsFlat() {
		return q.UnitPrice
	}
	return q.UnitPrice.Mul(quantity)
}

// ListingFrom flattens a preloaded BranchProduct into a Listing.
func ListingFrom(bp *model.BranchProduct) Listing {
	l := Listing{
		UnitKind:             bp.Product.UnitKind,
		BasePrice:            bp.Price,
		HalfStepSpecialPrice: bp.Product.HalfStepSpecialPrice,
	}
	for _, t := range bp.QuantityTiers {
		l.QuantityTiers = append(l.QuantityTiers, Tier{MinQty: t.MinQty, UnitPrice: t.UnitPrice, IsActive: t.IsActive})
	}
	for _, v := range bp.VariantPrices {
		l.VariantPrices = append(l.VariantPrices, VariantPrice{VariantID: v.VariantID, Price: v.Price, IsActive: v.IsActive})
	}
	for _, t := range bp.VariantQuantityTiers {
		l.VariantTiers = append(l.VariantTiers, VariantTier{
			Tier:      Tier{MinQty: t.MinQty, UnitPrice: t.UnitPrice, IsActive: t.IsActive},
			VariantID: t.VariantID,
		})
	}
	for _, p := range bp.ParamPrices {
		l.ParamPrices = append(l.ParamPrices, ParamPrice{ParamID: p.ParamID, Name: p.Param.Name, Delta: p.PriceDelta, IsActive: p.IsActive})
	}
	return l
}

// ResolveUnitPrice computes the unit price of a line. quantity must be
// positive; rejecting quantities below the product minimum is the caller's job.
//
// Base price precedence: half-meter special, then the variant rules when a
// variant is given (matrix tier, flat variant price, base price), otherwise
// the quantity tiers and finally the base price. Param deltas are added on
// top except for the half-meter special, which is a fixed line price.
func ResolveUnitPrice(l Listing, variantID *uuid.UUID, quantity decimal.Decimal, paramIDs []uuid.UUID) Quote {
	if special, ok := halfMeterSpecial(l, quantity); ok {
		q := Quote{UnitPrice: special, Source: SourceHalfMeterSpecial, ParamDelta: numeric.Zero}
		for _, id := range paramIDs {
			q.Params = append(q.Params, AppliedParam{ParamID: id, Delta: numeric.Zero})
		}
		return q
	}

	var q Quote
	if variantID != nil {
		q = variantBase(l, *variantID, quantity)
	} else {
		q = quantityBase(l, quantity)
	}

	q.ParamDelta = numeric.Zero
	for _, id := range paramIDs {
		delta := paramDelta(l.ParamPrices, id)
		q.Params = append(q.Params, AppliedParam{ParamID: id, Delta: delta})
		q.ParamDelta = q.ParamDelta.Add(delta)
	}
	q.UnitPrice = q.UnitPrice.Add(q.ParamDelta)
	return q
}

func halfMeterSpecial(l Listing, quantity decimal.Decimal) (decimal.Decimal, bool) {
	if l.UnitKind != model.UnitMeter || l.HalfStepSpecialPrice == nil {
		return numeric.Zero, false
	}
	if !numeric.IsPositive(*l.HalfStepSpecialPrice) || !numeric.IsHalf(quantity) {
		return numeric.Zero, false
	}
	return *l.HalfStepSpecialPrice, true
}

func variantBase(l Listing, variantID uuid.UUID, quantity decimal.Decimal) Quote {
	var scoped []VariantTier
	for _, t := range l.VariantTiers {
		if t.VariantID == variantID {
			scoped = append(scoped, t)
		}
	}
	if tier, ok := SelectTier(scoped, quantity); ok {
		return Quote{UnitPrice: tier.UnitPrice, AppliedThreshold: numeric.Ptr(tier.MinQty), Source: SourceVariantMatrix}
	}
	for _, vp := range l.VariantPrices {
		if vp.VariantID == variantID && vp.IsActive {
			return Quote{UnitPrice: vp.Price, Source: SourceVariantBase}
		}
	}
	return Quote{UnitPrice: l.BasePrice, Source: SourceBase}
}

func quantityBase(l Listing, quantity decimal.Decimal) Quote {
	if tier, ok := SelectTier(l.QuantityTiers, quantity); ok {
		return Quote{UnitPrice: tier.UnitPrice, AppliedThreshold: numeric.Ptr(tier.MinQty), Source: SourceQuantityTier}
	}
	return Quote{UnitPrice: l.BasePrice, Source: SourceBase}
}

// paramDelta is zero for unknown or inactive params.
func paramDelta(prices []ParamPrice, id uuid.UUID) decimal.Decimal {
	for _, p := range prices {
		if p.ParamID == id && p.IsActive {
			return p.Delta
		}
	}
	return numeric.Zero
}
