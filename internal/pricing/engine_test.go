package pricing

import (
	"testing"

	"printshop-orders/internal/model"
	"printshop-orders/pkg/numeric"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return numeric.MustParse(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Equal(d(want)), "expected %s, got %s", want, got)
}

func TestSelectTier(t *testing.T) {
	tiers := []Tier{
		{MinQty: d("10"), UnitPrice: d("90"), IsActive: true},
		{MinQty: d("50"), UnitPrice: d("80"), IsActive: true},
		{MinQty: d("25"), UnitPrice: d("85"), IsActive: false},
		{MinQty: d("5"), UnitPrice: d("95"), IsActive: true},
	}

	t.Run("empty", func(t *testing.T) {
		_, ok := SelectTier([]Tier(nil), d("100"))
		assert.False(t, ok)
	})

	t.Run("nothing qualifies", func(t *testing.T) {
		_, ok := SelectTier(tiers, d("4.99"))
		assert.False(t, ok)
	})

	t.Run("exact threshold qualifies", func(t *testing.T) {
		tier, ok := SelectTier(tiers, d("10"))
		require.True(t, ok)
		assertDecimal(t, "90", tier.UnitPrice)
	})

	t.Run("inactive tier is skipped", func(t *testing.T) {
		tier, ok := SelectTier(tiers, d("30"))
		require.True(t, ok)
		assertDecimal(t, "10", tier.MinQty)
	})

	t.Run("greatest threshold wins regardless of order", func(t *testing.T) {
		tier, ok := SelectTier(tiers, d("500"))
		require.True(t, ok)
		assertDecimal(t, "50", tier.MinQty)
	})
}

func TestSelectTierMonotonic(t *testing.T) {
	tiers := []Tier{
		{MinQty: d("0.5"), UnitPrice: d("30"), IsActive: true},
		{MinQty: d("3"), UnitPrice: d("25"), IsActive: true},
		{MinQty: d("1"), UnitPrice: d("28"), IsActive: true},
		{MinQty: d("10"), UnitPrice: d("20"), IsActive: true},
	}

	prev := decimal.NewFromInt(-1)
	for q := d("0.25"); q.LessThanOrEqual(d("15")); q = q.Add(d("0.25")) {
		threshold := decimal.NewFromInt(-1)
		if tier, ok := SelectTier(tiers, q); ok {
			threshold = tier.MinQty
		}
		assert.Truef(t, threshold.GreaterThanOrEqual(prev), "quantity %s selected %s after %s", q, threshold, prev)
		prev = threshold
	}
}

func baseListing() Listing {
	return Listing{
		UnitKind:  model.UnitPiece,
		BasePrice: d("100"),
		QuantityTiers: []Tier{
			{MinQty: d("10"), UnitPrice: d("90"), IsActive: true},
		},
	}
}

func TestResolveQuantityTier(t *testing.T) {
	// quantity on the tier threshold takes the tier price
	q := ResolveUnitPrice(baseListing(), nil, d("10"), nil)
	assertDecimal(t, "90", q.UnitPrice)
	assert.Equal(t, SourceQuantityTier, q.Source)
	require.NotNil(t, q.AppliedThreshold)
	assertDecimal(t, "10", *q.AppliedThreshold)
	assertDecimal(t, "900", q.Subtotal(d("10")))
}

func TestResolveBelowTierUsesBasePrice(t *testing.T) {
	q := ResolveUnitPrice(baseListing(), nil, d("9"), nil)
	assertDecimal(t, "100", q.UnitPrice)
	assert.Equal(t, SourceBase, q.Source)
	assert.Nil(t, q.AppliedThreshold)
	assertDecimal(t, "0", q.ParamDelta)
}

func TestResolveHalfMeterSpecial(t *testing.T) {
	variant := uuid.New()
	param := uuid.New()
	l := Listing{
		UnitKind:             model.UnitMeter,
		BasePrice:            d("40"),
		HalfStepSpecialPrice: numeric.Ptr(d("25")),
		QuantityTiers:        []Tier{{MinQty: d("0.5"), UnitPrice: d("10"), IsActive: true}},
		VariantPrices:        []VariantPrice{{VariantID: variant, Price: d("60"), IsActive: true}},
		VariantTiers:         []VariantTier{{Tier: Tier{MinQty: d("0.5"), UnitPrice: d("5"), IsActive: true}, VariantID: variant}},
		ParamPrices:          []ParamPrice{{ParamID: param, Delta: d("7"), IsActive: true}},
	}

	for name, v := range map[string]*uuid.UUID{"no variant": nil, "variant": &variant} {
		t.Run(name, func(t *testing.T) {
			q := ResolveUnitPrice(l, v, d("0.5"), []uuid.UUID{param})
			assert.Equal(t, SourceHalfMeterSpecial, q.Source)
			assertDecimal(t, "25", q.UnitPrice)
			assertDecimal(t, "0", q.ParamDelta)
			assert.Nil(t, q.AppliedThreshold)
			assert.True(t, q.IsFlat())
			// flat line price, not 12.5
			assertDecimal(t, "25", q.Subtotal(d("0.5")))
			require.Len(t, q.Params, 1)
			assertDecimal(t, "0", q.Params[0].Delta)
		})
	}
}

func TestResolveHalfMeterSpecialNeedsMeterAndPositivePrice(t *testing.T) {
	l := Listing{UnitKind: model.UnitPiece, BasePrice: d("40"), HalfStepSpecialPrice: numeric.Ptr(d("25"))}
	q := ResolveUnitPrice(l, nil, d("0.5"), nil)
	assert.Equal(t, SourceBase, q.Source)
	assertDecimal(t, "20", q.Subtotal(d("0.5")))

	l.UnitKind = model.UnitMeter
	l.HalfStepSpecialPrice = numeric.Ptr(d("0"))
	q = ResolveUnitPrice(l, nil, d("0.5"), nil)
	assert.Equal(t, SourceBase, q.Source)

	l.HalfStepSpecialPrice = numeric.Ptr(d("25"))
	q = ResolveUnitPrice(l, nil, d("1.5"), nil)
	assert.Equal(t, SourceBase, q.Source)
	assertDecimal(t, "60", q.Subtotal(d("1.5")))
}

func TestResolveVariantPaths(t *testing.T) {
	variant := uuid.New()
	other := uuid.New()
	l := Listing{
		UnitKind:  model.UnitPiece,
		BasePrice: d("100"),
		QuantityTiers: []Tier{
			{MinQty: d("1"), UnitPrice: d("70"), IsActive: true},
		},
		VariantPrices: []VariantPrice{
			{VariantID: variant, Price: d("60"), IsActive: true},
			{VariantID: other, Price: d("55"), IsActive: false},
		},
		VariantTiers: []VariantTier{
			{Tier: Tier{MinQty: d("5"), UnitPrice: d("40"), IsActive: true}, VariantID: variant},
			{Tier: Tier{MinQty: d("2"), UnitPrice: d("10"), IsActive: true}, VariantID: other},
		},
	}

	t.Run("matrix beats flat variant price", func(t *testing.T) {
		q := ResolveUnitPrice(l, &variant, d("5"), nil)
		assertDecimal(t, "40", q.UnitPrice)
		assert.Equal(t, SourceVariantMatrix, q.Source)
		require.NotNil(t, q.AppliedThreshold)
		assertDecimal(t, "5", *q.AppliedThreshold)
	})

	t.Run("flat variant price below matrix threshold", func(t *testing.T) {
		q := ResolveUnitPrice(l, &variant, d("4"), nil)
		assertDecimal(t, "60", q.UnitPrice)
		assert.Equal(t, SourceVariantBase, q.Source)
		assert.Nil(t, q.AppliedThreshold)
	})

	t.Run("inactive variant price falls back to base price, not quantity tiers", func(t *testing.T) {
		q := ResolveUnitPrice(l, &other, d("1"), nil)
		assertDecimal(t, "100", q.UnitPrice)
		assert.Equal(t, SourceBase, q.Source)
	})

	t.Run("tiers of other variants are ignored", func(t *testing.T) {
		unknown := uuid.New()
		q := ResolveUnitPrice(l, &unknown, d("50"), nil)
		assertDecimal(t, "100", q.UnitPrice)
		assert.Equal(t, SourceBase, q.Source)
	})
}

func TestResolveParamDeltas(t *testing.T) {
	plus, minus, inactive, unknown := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	l := baseListing()
	l.ParamPrices = []ParamPrice{
		{ParamID: plus, Delta: d("5"), IsActive: true},
		{ParamID: minus, Delta: d("-2"), IsActive: true},
		{ParamID: inactive, Delta: d("50"), IsActive: false},
	}

	q := ResolveUnitPrice(l, nil, d("1"), []uuid.UUID{plus, minus})
	assertDecimal(t, "103", q.UnitPrice)
	assertDecimal(t, "3", q.ParamDelta)

	q = ResolveUnitPrice(l, nil, d("1"), []uuid.UUID{inactive, unknown})
	assertDecimal(t, "100", q.UnitPrice)
	assertDecimal(t, "0", q.ParamDelta)
	require.Len(t, q.Params, 2)
	assertDecimal(t, "0", q.Params[0].Delta)

	// duplicates are not collapsed
	q = ResolveUnitPrice(l, nil, d("1"), []uuid.UUID{plus, plus})
	assertDecimal(t, "110", q.UnitPrice)
}

func TestResolveParamDeltasAreAdditiveOnEveryPath(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	variant := uuid.New()
	l := Listing{
		UnitKind:      model.UnitMeter,
		BasePrice:     d("12.10"),
		QuantityTiers: []Tier{{MinQty: d("3"), UnitPrice: d("11.30"), IsActive: true}},
		VariantPrices: []VariantPrice{{VariantID: variant, Price: d("15.05"), IsActive: true}},
		VariantTiers:  []VariantTier{{Tier: Tier{MinQty: d("10"), UnitPrice: d("13.70"), IsActive: true}, VariantID: variant}},
		ParamPrices: []ParamPrice{
			{ParamID: a, Delta: d("0.10"), IsActive: true},
			{ParamID: b, Delta: d("0.20"), IsActive: true},
		},
	}

	cases := []struct {
		variant  *uuid.UUID
		quantity string
	}{
		{nil, "1"}, {nil, "3.5"}, {&variant, "2"}, {&variant, "10"},
	}
	for _, c := range cases {
		plain := ResolveUnitPrice(l, c.variant, d(c.quantity), nil)
		with := ResolveUnitPrice(l, c.variant, d(c.quantity), []uuid.UUID{a, b})
		assert.Equal(t, plain.Source, with.Source)
		assertDecimal(t, plain.UnitPrice.Add(d("0.30")).String(), with.UnitPrice)
	}
}

func TestListingFrom(t *testing.T) {
	variant, param := uuid.New(), uuid.New()
	bp := &model.BranchProduct{
		Price:   d("100"),
		Product: model.Product{UnitKind: model.UnitMeter, HalfStepSpecialPrice: numeric.Ptr(d("25"))},
		QuantityTiers: []model.QuantityPriceTier{
			{MinQty: d("10"), UnitPrice: d("90"), IsActive: true},
		},
		VariantPrices: []model.VariantPrice{{VariantID: variant, Price: d("60"), IsActive: true}},
		VariantQuantityTiers: []model.VariantQuantityPriceTier{
			{VariantID: variant, MinQty: d("5"), UnitPrice: d("40"), IsActive: true},
		},
		ParamPrices: []model.ParamPrice{
			{ParamID: param, Param: model.Param{Name: "Laminado"}, PriceDelta: d("5"), IsActive: true},
		},
	}

	l := ListingFrom(bp)
	assert.Equal(t, model.UnitMeter, l.UnitKind)
	assertDecimal(t, "100", l.BasePrice)
	require.Len(t, l.VariantTiers, 1)
	assert.Equal(t, variant, l.VariantTiers[0].VariantID)
	require.Len(t, l.ParamPrices, 1)
	assert.Equal(t, "Laminado", l.ParamPrices[0].Name)

	q := ResolveUnitPrice(l, &variant, d("5"), []uuid.UUID{param})
	assertDecimal(t, "45", q.UnitPrice)
}
