package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"printshop-orders/internal/fulfillment"
	"printshop-orders/internal/model"
	"printshop-orders/internal/repository"
	"printshop-orders/pkg/logger"
	"printshop-orders/pkg/numeric"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest, actor model.Actor) (*CreateOrderResult, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, req *UpdateOrderRequest, actor model.Actor) (*model.Order, error)
	MarkDelivered(ctx context.Context, orderID uuid.UUID, actor model.Actor) (*model.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID, actor model.Actor) (*model.Order, error)
}

type OrderLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	ParamIDs  []uuid.UUID     `json:"param_ids,omitempty"`
}

type CreateOrderRequest struct {
	BranchID       uuid.UUID          `json:"branch_id" validate:"uuid_required"`
	PickupBranchID uuid.UUID          `json:"pickup_branch_id" validate:"uuid_required"`
	CustomerID     uuid.UUID          `json:"customer_id" validate:"uuid_required"`
	ShippingType   string             `json:"shipping_type" validate:"omitempty,max=30"`
	PaymentMethod  string             `json:"payment_method" validate:"omitempty,max=30"`
	Notes          string             `json:"notes"`
	Lines          []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type CreateOrderResult struct {
	OrderID uuid.UUID        `json:"order_id"`
	Total   decimal.Decimal  `json:"total"`
	Stage   model.OrderStage `json:"stage"`
}

type UpdateItemRequest struct {
	ItemID       uuid.UUID        `json:"item_id" validate:"uuid_required"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	VariantID    *uuid.UUID       `json:"variant_id,omitempty"`
	ClearVariant bool             `json:"clear_variant,omitempty"`
}

// UpdateOrderRequest changes header fields and re-prices the listed items.
// Nil fields are left as they are.
type UpdateOrderRequest struct {
	PickupBranchID *uuid.UUID          `json:"pickup_branch_id,omitempty"`
	ShippingType   *string             `json:"shipping_type,omitempty" validate:"omitempty,max=30"`
	PaymentMethod  *string             `json:"payment_method,omitempty" validate:"omitempty,max=30"`
	Notes          *string             `json:"notes,omitempty"`
	Items          []UpdateItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
}

type orderService struct {
	uow      repository.UnitOfWork
	notifier Notifier
	logger   *logger.Logger
	now      func() time.Time
}

func NewOrderService(uow repository.UnitOfWork, notifier Notifier, log *logger.Logger) OrderService {
	return &orderService{
		uow:      uow,
		notifier: notifier,
		logger:   log.WithComponent("order_service"),
		now:      time.Now,
	}
}

// CreateOrder registers the order and all of its lines in one transaction.
// The header starts at REGISTERED with a zero total and receives the summed
// subtotals once every line has been persisted.
func (s *orderService) CreateOrder(ctx context.Context, req *CreateOrderRequest, actor model.Actor) (*CreateOrderResult, error) {
	if err := validationError(req); err != nil {
		s.logger.Warn("Create order rejected", "error", err)
		return nil, err
	}
	if !actor.CanActOnBranch(req.BranchID) {
		return nil, ErrNotAuthorized
	}

	var result CreateOrderResult
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := requireBranch(repos, req.BranchID); err != nil {
			return err
		}
		if err := requireBranch(repos, req.PickupBranchID); err != nil {
			return err
		}
		if err := requireCustomer(repos, req.CustomerID); err != nil {
			return err
		}

		order := &model.Order{
			BranchID:       req.BranchID,
			PickupBranchID: req.PickupBranchID,
			CustomerID:     req.CustomerID,
			Stage:          model.StageRegistered,
			Total:          numeric.Zero,
			ShippingType:   req.ShippingType,
			PaymentMethod:  req.PaymentMethod,
			Notes:          req.Notes,
		}
		order.CreatedBy = actor.UserID.String()
		order.UpdatedBy = actor.UserID.String()
		if err := repos.Orders.CreateOrder(order); err != nil {
			return err
		}

		total := numeric.Zero
		for i, line := range req.Lines {
			item, err := s.buildItem(repos, order, line)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			item.CreatedBy = actor.UserID.String()
			item.UpdatedBy = actor.UserID.String()
			if err := repos.Orders.CreateItem(item); err != nil {
				return err
			}
			total = total.Add(item.Subtotal)
		}

		if err := repos.Orders.UpdateOrderTotal(order.ID, total); err != nil {
			return err
		}

		result = CreateOrderResult{OrderID: order.ID, Total: total, Stage: order.Stage}
		return nil
	})
	if err != nil {
		s.logOutcome("Create order failed", err, "branch_id", req.BranchID)
		return nil, err
	}

	s.logger.Info("Order created", "order_id", result.OrderID, "branch_id", req.BranchID, "lines", len(req.Lines), "total", numeric.Money(result.Total))
	s.notifier.Notify(Event{
		Type:       EventOrderCreated,
		OrderID:    result.OrderID,
		BranchID:   req.BranchID,
		Stage:      string(result.Stage),
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		OccurredAt: s.now(),
	})
	return &result, nil
}

// buildItem prices one line and assembles the item with its option snapshots
// and its seeded production steps.
func (s *orderService) buildItem(repos repository.Repositories, order *model.Order, line OrderLineRequest) (*model.OrderItem, error) {
	priced, err := priceLine(repos, order.BranchID, line.ProductID, line.VariantID, line.Quantity, line.ParamIDs)
	if err != nil {
		return nil, err
	}

	options, err := snapshotOptions(repos, priced)
	if err != nil {
		return nil, err
	}

	return &model.OrderItem{
		OrderID:          order.ID,
		ProductID:        line.ProductID,
		ProductName:      priced.product.Name,
		UnitKind:         priced.product.UnitKind,
		Quantity:         line.Quantity,
		VariantID:        line.VariantID,
		UnitPrice:        priced.quote.UnitPrice,
		Subtotal:         priced.subtotal,
		AppliedThreshold: priced.quote.AppliedThreshold,
		PriceSource:      string(priced.quote.Source),
		ParamDelta:       priced.quote.ParamDelta,
		CurrentStepOrder: 1,
		IsReady:          false,
		Steps:            fulfillment.SeedSteps(priced.product.ProcessSteps),
		Options:          options,
	}, nil
}

// snapshotOptions freezes the name and the delta actually applied for every
// requested param, duplicates included.
func snapshotOptions(repos repository.Repositories, priced *pricedLine) ([]model.OrderItemOption, error) {
	if len(priced.quote.Params) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(priced.quote.Params))
	for i, p := range priced.quote.Params {
		ids[i] = p.ParamID
	}
	params, err := repos.Catalog.FindParamsByIDs(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(params))
	for _, p := range params {
		names[p.ID] = p.Name
	}

	options := make([]model.OrderItemOption, len(priced.quote.Params))
	for i, applied := range priced.quote.Params {
		name, ok := names[applied.ParamID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrParamNotFound, applied.ParamID)
		}
		options[i] = model.OrderItemOption{ParamID: applied.ParamID, Name: name, PriceDelta: applied.Delta}
	}
	return options, nil
}

// UpdateOrder applies header edits and re-prices the listed items with their
// stored option params, then recomputes the order total. A re-priced item's
// ParamDelta follows the current catalog while its option rows keep the deltas
// charged at creation.
func (s *orderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, req *UpdateOrderRequest, actor model.Actor) (*model.Order, error) {
	if err := validationError(req); err != nil {
		s.logger.Warn("Update order rejected", "order_id", orderID, "error", err)
		return nil, err
	}

	var updated *model.Order
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		order, err := lockWritableOrder(repos, orderID, actor)
		if err != nil {
			return err
		}

		if req.PickupBranchID != nil {
			if err := requireBranch(repos, *req.PickupBranchID); err != nil {
				return err
			}
			order.PickupBranchID = *req.PickupBranchID
		}
		if req.ShippingType != nil {
			order.ShippingType = *req.ShippingType
		}
		if req.PaymentMethod != nil {
			order.PaymentMethod = *req.PaymentMethod
		}
		if req.Notes != nil {
			order.Notes = *req.Notes
		}
		order.UpdatedBy = actor.UserID.String()
		if err := repos.Orders.UpdateOrderHeader(order); err != nil {
			return err
		}

		items, err := repos.Orders.FindItemsByOrder(order.ID)
		if err != nil {
			return err
		}
		index := make(map[uuid.UUID]int, len(items))
		for i := range items {
			index[items[i].ID] = i
		}

		for _, change := range req.Items {
			i, ok := index[change.ItemID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrItemNotFound, change.ItemID)
			}
			item := &items[i]
			if change.Quantity != nil {
				item.Quantity = *change.Quantity
			}
			if change.ClearVariant {
				item.VariantID = nil
			} else if change.VariantID != nil {
				item.VariantID = change.VariantID
			}

			priced, err := priceLine(repos, order.BranchID, item.ProductID, item.VariantID, item.Quantity, item.ParamIDs())
			if err != nil {
				return fmt.Errorf("item %s: %w", item.ID, err)
			}
			item.UnitPrice = priced.quote.UnitPrice
			item.Subtotal = priced.subtotal
			item.AppliedThreshold = priced.quote.AppliedThreshold
			item.PriceSource = string(priced.quote.Source)
			item.ParamDelta = priced.quote.ParamDelta
			item.UpdatedBy = actor.UserID.String()
			if err := repos.Orders.UpdateItemPricing(item); err != nil {
				return err
			}
		}

		total := numeric.Zero
		for _, item := range items {
			total = total.Add(item.Subtotal)
		}
		if err := repos.Orders.UpdateOrderTotal(order.ID, total); err != nil {
			return err
		}

		updated, err = repos.Orders.FindOrder(order.ID)
		return err
	})
	if err != nil {
		s.logOutcome("Update order failed", err, "order_id", orderID)
		return nil, err
	}

	s.logger.Info("Order updated", "order_id", orderID, "items_repriced", len(req.Items), "total", numeric.Money(updated.Total))
	s.notifier.Notify(Event{
		Type:       EventOrderUpdated,
		OrderID:    updated.ID,
		BranchID:   updated.BranchID,
		Stage:      string(updated.Stage),
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		OccurredAt: s.now(),
	})
	return updated, nil
}

// MarkDelivered is the only way into DELIVERED. The stage is absorbing.
func (s *orderService) MarkDelivered(ctx context.Context, orderID uuid.UUID, actor model.Actor) (*model.Order, error) {
	var delivered *model.Order
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		order, err := lockWritableOrder(repos, orderID, actor)
		if err != nil {
			return err
		}
		if err := repos.Orders.MarkDelivered(order.ID, s.now(), actor.UserID.String()); err != nil {
			return err
		}
		delivered, err = repos.Orders.FindOrder(order.ID)
		return err
	})
	if err != nil {
		s.logOutcome("Mark delivered failed", err, "order_id", orderID)
		return nil, err
	}

	s.logger.Info("Order delivered", "order_id", orderID, "by", actor.UserID)
	s.notifier.Notify(Event{
		Type:       EventOrderDelivered,
		OrderID:    delivered.ID,
		BranchID:   delivered.BranchID,
		Stage:      string(delivered.Stage),
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		OccurredAt: s.now(),
	})
	return delivered, nil
}

// GetOrder returns the order with items, steps and options. Staff of the
// registering or the pickup branch may read it.
func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID, actor model.Actor) (*model.Order, error) {
	var order *model.Order
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		found, err := repos.Orders.FindOrder(orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if !actor.CanActOnBranch(found.BranchID) && !actor.CanActOnBranch(found.PickupBranchID) {
			return ErrNotAuthorized
		}
		order = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) logOutcome(msg string, err error, args ...interface{}) {
	args = append(args, "error", err)
	if KindOf(err) == KindInternal {
		s.logger.Error(msg, args...)
		return
	}
	s.logger.Warn(msg, args...)
}

// lockWritableOrder locks the order row and checks that actor may change it
// and that it is not delivered yet.
func lockWritableOrder(repos repository.Repositories, orderID uuid.UUID, actor model.Actor) (*model.Order, error) {
	order, err := repos.Orders.LockOrder(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if !actor.CanActOnBranch(order.BranchID) {
		return nil, ErrNotAuthorized
	}
	if order.Stage == model.StageDelivered {
		return nil, ErrOrderDelivered
	}
	return order, nil
}

func requireBranch(repos repository.Repositories, id uuid.UUID) error {
	branch, err := repos.Directory.FindBranch(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, id)
	}
	if err != nil {
		return err
	}
	if !branch.IsActive {
		return fmt.Errorf("%w: %s is inactive", ErrBranchNotFound, branch.Name)
	}
	return nil
}

func requireCustomer(repos repository.Repositories, id uuid.UUID) error {
	customer, err := repos.Directory.FindCustomer(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
	}
	if err != nil {
		return err
	}
	if !customer.IsActive {
		return fmt.Errorf("%w: %s is inactive", ErrCustomerNotFound, customer.FullName)
	}
	return nil
}
