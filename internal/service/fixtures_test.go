package service_test

import (
	"testing"

	"printshop-orders/internal/model"
	"printshop-orders/internal/repository/memory"
	"printshop-orders/internal/service"
	"printshop-orders/pkg/numeric"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return numeric.MustParse(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Equal(d(want)), "expected %s, got %s", want, got)
}

// shop is a small catalog shared by the service tests: two branches, one
// customer, a banner sold by the meter, a mug that needs a size variant and a
// flyer with a three-step template.
type shop struct {
	store *memory.Store

	main, pickup, closed model.Branch
	customer             model.Customer

	laminate, eyelets, unpriced model.Param

	banner, mug, flyer model.BranchProduct
	mugLarge           uuid.UUID

	admin, operator, outsider model.Actor
}

func newShop(t *testing.T) *shop {
	t.Helper()
	s := &shop{store: memory.NewStore()}

	s.main = s.store.AddBranch(model.Branch{Name: "Centro", IsActive: true})
	s.pickup = s.store.AddBranch(model.Branch{Name: "Norte", IsActive: true})
	s.closed = s.store.AddBranch(model.Branch{Name: "Sur", IsActive: false})
	s.customer = s.store.AddCustomer(model.Customer{FullName: "Ana Perez", IsActive: true})

	s.laminate = s.store.AddParam(model.Param{Name: "Laminado", IsActive: true})
	s.eyelets = s.store.AddParam(model.Param{Name: "Ojales", IsActive: true})
	s.unpriced = s.store.AddParam(model.Param{Name: "Sin costo", IsActive: true})

	s.banner = s.store.AddBranchProduct(model.BranchProduct{
		BranchID: s.main.ID,
		Price:    d("100"),
		IsActive: true,
		Product: model.Product{
			Name:                 "Lona",
			UnitKind:             model.UnitMeter,
			MinQty:               d("0.5"),
			QtyStep:              d("0.5"),
			HalfStepSpecialPrice: numeric.Ptr(d("25")),
			IsActive:             true,
		},
		QuantityTiers: []model.QuantityPriceTier{
			{MinQty: d("10"), UnitPrice: d("90"), IsActive: true},
		},
		ParamPrices: []model.ParamPrice{
			{ParamID: s.laminate.ID, PriceDelta: d("5"), IsActive: true},
			{ParamID: s.eyelets.ID, PriceDelta: d("-2"), IsActive: true},
		},
	})

	s.mugLarge = uuid.New()
	s.mug = s.store.AddBranchProduct(model.BranchProduct{
		BranchID: s.main.ID,
		Price:    d("30"),
		IsActive: true,
		Product: model.Product{
			Name:         "Taza",
			UnitKind:     model.UnitPiece,
			NeedsVariant: true,
			MinQty:       d("1"),
			QtyStep:      d("1"),
			IsActive:     true,
			ProcessSteps: []model.ProcessStep{
				{Name: "SUBLIMADO", StepOrder: 1, IsActive: true},
				{Name: "LISTO", StepOrder: 2, IsActive: true},
			},
		},
		VariantPrices: []model.VariantPrice{
			{VariantID: s.mugLarge, Price: d("60"), IsActive: true},
		},
		VariantQuantityTiers: []model.VariantQuantityPriceTier{
			{VariantID: s.mugLarge, MinQty: d("5"), UnitPrice: d("40"), IsActive: true},
		},
	})

	s.flyer = s.store.AddBranchProduct(model.BranchProduct{
		BranchID: s.main.ID,
		Price:    d("2"),
		IsActive: true,
		Product: model.Product{
			Name:     "Volante",
			UnitKind: model.UnitPiece,
			MinQty:   d("100"),
			QtyStep:  d("100"),
			IsActive: true,
			ProcessSteps: []model.ProcessStep{
				{Name: "DISENO", StepOrder: 10, IsActive: true},
				{Name: "IMPRESION", StepOrder: 20, IsActive: true},
				{Name: "CORTE", StepOrder: 30, IsActive: true},
			},
		},
	})

	s.admin = model.Actor{UserID: uuid.New(), Name: "Root", RoleCode: model.RoleGlobalAdmin}
	s.operator = model.Actor{UserID: uuid.New(), Name: "Luis", RoleCode: model.RoleOperator, BranchID: s.main.ID}
	s.outsider = model.Actor{UserID: uuid.New(), Name: "Eva", RoleCode: model.RoleOperator, BranchID: s.pickup.ID}
	return s
}

func (s *shop) line(bp model.BranchProduct, qty string, params ...uuid.UUID) service.OrderLineRequest {
	return service.OrderLineRequest{ProductID: bp.ProductID, Quantity: d(qty), ParamIDs: params}
}
