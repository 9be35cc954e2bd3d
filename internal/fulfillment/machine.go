// Package fulfillment holds the per-item production state machine and the
// order-level stage aggregation. It does no I/O; callers persist the result.
package fulfillment

import (
	"sort"
	"time"

	"printshop-orders/internal/model"
)

// Result describes what a call to Advance changed.
type Result struct {
	// Transitioned is false when the item was already ready.
	Transitioned bool
	// Completed holds the step orders newly marked DONE, ascending.
	Completed []int
	// BecameReady is true when this call moved the item to READY.
	BecameReady bool
}

// Advance moves item one step forward.
//
// The step at CurrentStepOrder is marked DONE. If the next step is the last
// one and is named LISTO it is closed in the same call and the item becomes
// ready; if there is no next step the item becomes ready too. A ready item is
// left untouched.
func Advance(item *model.OrderItem, now time.Time) Result {
	if item.IsReady {
		return Result{}
	}

	res := Result{Transitioned: true}
	steps := indexSteps(item.Steps)
	last := lastOrder(item.Steps)

	if complete(steps[item.CurrentStepOrder], now) {
		res.Completed = append(res.Completed, item.CurrentStepOrder)
	}

	next := item.CurrentStepOrder + 1
	step, exists := steps[next]
	switch {
	case !exists:
		item.IsReady = true
	case next == last && isReadyStep(step.Name):
		if complete(step, now) {
			res.Completed = append(res.Completed, next)
		}
		item.CurrentStepOrder = next
		item.IsReady = true
	default:
		item.CurrentStepOrder = next
	}

	res.BecameReady = item.IsReady
	return res
}

// Stage aggregates item readiness into the order stage. It never yields
// DELIVERED; that transition is explicit.
func Stage(ready []bool) model.OrderStage {
	if len(ready) == 0 {
		return model.StageInProgress
	}
	for _, r := range ready {
		if !r {
			return model.StageInProgress
		}
	}
	return model.StageReady
}

// SortSteps orders steps by StepOrder in place.
func SortSteps(steps []model.OrderItemStep) {
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].StepOrder < steps[j].StepOrder })
}

// complete marks a pending step done. DONE never reverts, so a step that is
// already done keeps its original timestamp.
func complete(step *model.OrderItemStep, now time.Time) bool {
	if step == nil || step.Status == model.StepDone {
		return false
	}
	at := now
	step.Status = model.StepDone
	step.CompletedAt = &at
	return true
}

func indexSteps(steps []model.OrderItemStep) map[int]*model.OrderItemStep {
	idx := make(map[int]*model.OrderItemStep, len(steps))
	for i := range steps {
		idx[steps[i].StepOrder] = &steps[i]
	}
	return idx
}

func lastOrder(steps []model.OrderItemStep) int {
	last := 0
	for _, s := range steps {
		if s.StepOrder > last {
			last = s.StepOrder
		}
	}
	return last
}

// isReadyStep matches the step name exactly; "Listo" is an ordinary step.
func isReadyStep(name string) bool {
	return name == model.StepReady
}
