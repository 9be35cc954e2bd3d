package fulfillment

import (
	"sort"

	"printshop-orders/internal/model"
)

// SeedSteps builds the pending steps of a new item from the product template.
// Inactive rows are dropped and the rest renumbered 1..n in StepOrder order so
// the item's step orders are always contiguous. With no usable template the
// default IMPRESION, LISTO pair is used.
func SeedSteps(template []model.ProcessStep) []model.OrderItemStep {
	active := make([]model.ProcessStep, 0, len(template))
	for _, s := range template {
		if s.IsActive {
			active = append(active, s)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].StepOrder < active[j].StepOrder })

	if len(active) == 0 {
		return []model.OrderItemStep{
			{Name: model.StepPrinting, StepOrder: 1, Status: model.StepPending},
			{Name: model.StepReady, StepOrder: 2, Status: model.StepPending},
		}
	}

	steps := make([]model.OrderItemStep, len(active))
	for i, s := range active {
		steps[i] = model.OrderItemStep{Name: s.Name, StepOrder: i + 1, Status: model.StepPending}
	}
	return steps
}
