package service_test

import (
	"context"
	"testing"

	"printshop-orders/internal/pricing"
	"printshop-orders/internal/service"
	"printshop-orders/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	s := newShop(t)
	svc := service.NewPricingService(s.store, logger.Discard())
	ctx := context.Background()

	t.Run("half meter special ignores params", func(t *testing.T) {
		res, err := svc.Quote(ctx, &service.QuoteRequest{
			BranchID:  s.main.ID,
			ProductID: s.banner.ProductID,
			Quantity:  d("0.5"),
			ParamIDs:  []uuid.UUID{s.laminate.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, pricing.SourceHalfMeterSpecial, res.Source)
		assertDecimal(t, "25", res.UnitPrice)
		assertDecimal(t, "25", res.Subtotal)
		require.Len(t, res.Params, 1)
		assertDecimal(t, "0", res.Params[0].Delta)
	})

	t.Run("variant matrix beats flat variant price", func(t *testing.T) {
		res, err := svc.Quote(ctx, &service.QuoteRequest{
			BranchID:  s.main.ID,
			ProductID: s.mug.ProductID,
			VariantID: &s.mugLarge,
			Quantity:  d("5"),
		})
		require.NoError(t, err)
		assert.Equal(t, pricing.SourceVariantMatrix, res.Source)
		assertDecimal(t, "40", res.UnitPrice)
		assertDecimal(t, "200", res.Subtotal)
		require.NotNil(t, res.AppliedThreshold)
		assertDecimal(t, "5", *res.AppliedThreshold)
		assert.Equal(t, "Taza", res.ProductName)
	})

	t.Run("params add up", func(t *testing.T) {
		res, err := svc.Quote(ctx, &service.QuoteRequest{
			BranchID:  s.main.ID,
			ProductID: s.banner.ProductID,
			Quantity:  d("3"),
			ParamIDs:  []uuid.UUID{s.laminate.ID, s.eyelets.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, pricing.SourceBase, res.Source)
		assertDecimal(t, "103", res.UnitPrice)
		assertDecimal(t, "3", res.ParamDelta)
		assertDecimal(t, "309", res.Subtotal)
	})

	t.Run("same checks as order lines", func(t *testing.T) {
		_, err := svc.Quote(ctx, &service.QuoteRequest{BranchID: s.main.ID, ProductID: s.mug.ProductID, Quantity: d("2")})
		assert.ErrorIs(t, err, service.ErrVariantRequired)

		_, err = svc.Quote(ctx, &service.QuoteRequest{BranchID: s.pickup.ID, ProductID: s.banner.ProductID, Quantity: d("2")})
		assert.ErrorIs(t, err, service.ErrProductUnavailable)

		_, err = svc.Quote(ctx, &service.QuoteRequest{BranchID: s.main.ID, Quantity: d("2")})
		assert.ErrorIs(t, err, service.ErrInvalidRequest)
	})
}
