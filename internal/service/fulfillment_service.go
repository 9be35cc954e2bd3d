package service

import (
	"context"
	"errors"
	"time"

	"printshop-orders/internal/fulfillment"
	"printshop-orders/internal/model"
	"printshop-orders/internal/repository"
	"printshop-orders/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FulfillmentService interface {
	AdvanceItemStep(ctx context.Context, itemID uuid.UUID, actor model.Actor) (*AdvanceResult, error)
}

type AdvanceResult struct {
	OrderID          uuid.UUID        `json:"order_id"`
	OrderStage       model.OrderStage `json:"order_stage"`
	ItemReady        bool             `json:"item_ready"`
	CurrentStepOrder int              `json:"current_step_order"`
}

type fulfillmentService struct {
	uow      repository.UnitOfWork
	notifier Notifier
	logger   *logger.Logger
	now      func() time.Time
}

func NewFulfillmentService(uow repository.UnitOfWork, notifier Notifier, log *logger.Logger) FulfillmentService {
	return &fulfillmentService{
		uow:      uow,
		notifier: notifier,
		logger:   log.WithComponent("fulfillment_service"),
		now:      time.Now,
	}
}

// AdvanceItemStep moves one item forward and recomputes the order stage.
// Calling it on a ready item returns the current state and writes nothing.
func (s *fulfillmentService) AdvanceItemStep(ctx context.Context, itemID uuid.UUID, actor model.Actor) (*AdvanceResult, error) {
	var (
		result   AdvanceResult
		branchID uuid.UUID
		changed  bool
	)
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		item, err := repos.Orders.FindItem(itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		order, err := lockWritableOrder(repos, item.OrderID, actor)
		if err != nil {
			return err
		}
		branchID = order.BranchID

		// re-read under the order lock so a concurrent advance is not lost
		item, err = repos.Orders.FindItem(itemID)
		if err != nil {
			return err
		}

		result = AdvanceResult{
			OrderID:          order.ID,
			OrderStage:       order.Stage,
			ItemReady:        item.IsReady,
			CurrentStepOrder: item.CurrentStepOrder,
		}
		if item.IsReady {
			return nil
		}

		fulfillment.SortSteps(item.Steps)
		res := fulfillment.Advance(item, s.now())
		if err := repos.Orders.SaveSteps(completedSteps(item.Steps, res.Completed)); err != nil {
			return err
		}
		item.UpdatedBy = actor.UserID.String()
		if err := repos.Orders.UpdateItemProgress(item); err != nil {
			return err
		}

		// must stay last: reads readiness after this item's write
		readiness, err := repos.Orders.ItemReadiness(order.ID)
		if err != nil {
			return err
		}
		stage := fulfillment.Stage(readiness)
		if stage != order.Stage {
			if err := repos.Orders.UpdateOrderStage(order.ID, stage); err != nil {
				return err
			}
		}

		changed = true
		result.OrderStage = stage
		result.ItemReady = item.IsReady
		result.CurrentStepOrder = item.CurrentStepOrder
		return nil
	})
	if err != nil {
		if KindOf(err) == KindInternal {
			s.logger.Error("Advance failed", "item_id", itemID, "error", err)
		} else {
			s.logger.Warn("Advance rejected", "item_id", itemID, "error", err)
		}
		return nil, err
	}

	if !changed {
		return &result, nil
	}

	s.logger.Info("Item advanced", "item_id", itemID, "order_id", result.OrderID, "step", result.CurrentStepOrder, "item_ready", result.ItemReady, "order_stage", result.OrderStage)
	ready := result.ItemReady
	id := itemID
	s.notifier.Notify(Event{
		Type:       EventItemAdvanced,
		OrderID:    result.OrderID,
		ItemID:     &id,
		BranchID:   branchID,
		Stage:      string(result.OrderStage),
		ItemReady:  &ready,
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		OccurredAt: s.now(),
	})
	return &result, nil
}

func completedSteps(steps []model.OrderItemStep, orders []int) []model.OrderItemStep {
	if len(orders) == 0 {
		return nil
	}
	done := make(map[int]bool, len(orders))
	for _, o := range orders {
		done[o] = true
	}
	out := make([]model.OrderItemStep, 0, len(orders))
	for _, s := range steps {
		if done[s.StepOrder] {
			out = append(out, s)
		}
	}
	return out
}
