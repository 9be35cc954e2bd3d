package service

import (
	"context"
	"errors"
	"fmt"

	"printshop-orders/internal/model"
	"printshop-orders/internal/pricing"
	"printshop-orders/internal/repository"
	"printshop-orders/pkg/logger"
	"printshop-orders/pkg/numeric"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PricingService interface {
	Quote(ctx context.Context, req *QuoteRequest) (*QuoteResult, error)
}

type QuoteRequest struct {
	BranchID  uuid.UUID       `json:"branch_id" validate:"uuid_required"`
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	ParamIDs  []uuid.UUID     `json:"param_ids,omitempty"`
}

type QuotedParam struct {
	ParamID uuid.UUID       `json:"param_id"`
	Delta   decimal.Decimal `json:"delta"`
}

type QuoteResult struct {
	ProductName      string           `json:"product_name"`
	UnitKind         model.UnitKind   `json:"unit_kind"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	Subtotal         decimal.Decimal  `json:"subtotal"`
	AppliedThreshold *decimal.Decimal `json:"applied_threshold,omitempty"`
	Source           pricing.Source   `json:"source"`
	ParamDelta       decimal.Decimal  `json:"param_delta"`
	Params           []QuotedParam    `json:"params"`
}

type pricingService struct {
	uow    repository.UnitOfWork
	logger *logger.Logger
}

func NewPricingService(uow repository.UnitOfWork, log *logger.Logger) PricingService {
	return &pricingService{uow: uow, logger: log.WithComponent("pricing_service")}
}

// Quote previews the price of one line without persisting anything.
func (s *pricingService) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResult, error) {
	if err := validationError(req); err != nil {
		return nil, err
	}

	var result *QuoteResult
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		line, err := priceLine(repos, req.BranchID, req.ProductID, req.VariantID, req.Quantity, req.ParamIDs)
		if err != nil {
			return err
		}
		result = &QuoteResult{
			ProductName:      line.product.Name,
			UnitKind:         line.product.UnitKind,
			Quantity:         req.Quantity,
			UnitPrice:        line.quote.UnitPrice,
			Subtotal:         line.subtotal,
			AppliedThreshold: line.quote.AppliedThreshold,
			Source:           line.quote.Source,
			ParamDelta:       line.quote.ParamDelta,
			Params:           make([]QuotedParam, len(line.quote.Params)),
		}
		for i, p := range line.quote.Params {
			result.Params[i] = QuotedParam{ParamID: p.ParamID, Delta: p.Delta}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Quote rejected", "branch_id", req.BranchID, "product_id", req.ProductID, "error", err)
		return nil, err
	}
	return result, nil
}

// pricedLine is one validated, priced order line.
type pricedLine struct {
	product  *model.Product
	quote    pricing.Quote
	subtotal decimal.Decimal
}

// priceLine runs the per-line checks in order (availability, positive and
// storable quantity, product minimum, required variant) and resolves the price.
func priceLine(repos repository.Repositories, branchID, productID uuid.UUID, variantID *uuid.UUID, quantity decimal.Decimal, paramIDs []uuid.UUID) (*pricedLine, error) {
	bp, err := repos.Catalog.FindBranchProduct(branchID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrProductUnavailable, productID)
	}
	if err != nil {
		return nil, err
	}
	if !bp.IsActive || !bp.Product.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, bp.Product.Name)
	}

	if !numeric.IsPositive(quantity) {
		return nil, fmt.Errorf("%w: %s got %s", ErrInvalidQuantity, bp.Product.Name, quantity)
	}
	if !numeric.FitsQuantity(quantity) {
		return nil, fmt.Errorf("%w: %s got %s, at most %d decimals below %s", ErrInvalidQuantity, bp.Product.Name, quantity, numeric.QuantityScale, numeric.MaxQuantity)
	}
	if quantity.LessThan(bp.Product.MinQty) {
		return nil, fmt.Errorf("%w: %s requires at least %s, got %s", ErrBelowMinimumQuantity, bp.Product.Name, bp.Product.MinQty, quantity)
	}
	if bp.Product.NeedsVariant && variantID == nil {
		return nil, fmt.Errorf("%w: %s", ErrVariantRequired, bp.Product.Name)
	}

	quote := pricing.ResolveUnitPrice(pricing.ListingFrom(bp), variantID, quantity, paramIDs)
	return &pricedLine{
		product:  &bp.Product,
		quote:    quote,
		subtotal: quote.Subtotal(quantity),
	}, nil
}
