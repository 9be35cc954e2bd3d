package repository

import (
	"time"

	"printshop-orders/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	CreateOrder(order *model.Order) error
	CreateItem(item *model.OrderItem) error
	FindOrder(id uuid.UUID) (*model.Order, error)
	LockOrder(id uuid.UUID) (*model.Order, error)
	FindItem(id uuid.UUID) (*model.OrderItem, error)
	FindItemsByOrder(orderID uuid.UUID) ([]model.OrderItem, error)
	ItemReadiness(orderID uuid.UUID) ([]bool, error)
	SaveSteps(steps []model.OrderItemStep) error
	UpdateItemProgress(item *model.OrderItem) error
	UpdateItemPricing(item *model.OrderItem) error
	UpdateOrderHeader(order *model.Order) error
	UpdateOrderTotal(id uuid.UUID, total decimal.Decimal) error
	UpdateOrderStage(id uuid.UUID, stage model.OrderStage) error
	MarkDelivered(id uuid.UUID, at time.Time, updatedBy string) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) CreateOrder(order *model.Order) error {
	return r.db.Omit("Items", "Customer").Create(order).Error
}

// CreateItem inserts the item together with its Steps and Options.
func (r *orderRepo) CreateItem(item *model.OrderItem) error {
	return r.db.Create(item).Error
}

func (r *orderRepo) FindOrder(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Preload("Items.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// LockOrder reads the order header with SELECT ... FOR UPDATE. Must run in a
// transaction; concurrent writers on the same order queue up behind it.
func (r *orderRepo) LockOrder(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindItem(id uuid.UUID) (*model.OrderItem, error) {
	var item model.OrderItem
	err := r.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderRepo) FindItemsByOrder(orderID uuid.UUID) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// ItemReadiness returns the ready flag of every item in the order as it is
// visible to the current transaction.
func (r *orderRepo) ItemReadiness(orderID uuid.UUID) ([]bool, error) {
	var flags []bool
	err := r.db.Model(&model.OrderItem{}).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Pluck("is_ready", &flags).Error
	return flags, err
}

func (r *orderRepo) SaveSteps(steps []model.OrderItemStep) error {
	for _, s := range steps {
		err := r.db.Model(&model.OrderItemStep{}).
			Where("id = ?", s.ID).
			Updates(map[string]interface{}{
				"status":       s.Status,
				"completed_at": s.CompletedAt,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepo) UpdateItemProgress(item *model.OrderItem) error {
	return r.db.Model(&model.OrderItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"current_step_order": item.CurrentStepOrder,
			"is_ready":           item.IsReady,
			"updated_by":         item.UpdatedBy,
		}).Error
}

func (r *orderRepo) UpdateItemPricing(item *model.OrderItem) error {
	return r.db.Model(&model.OrderItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity":          item.Quantity,
			"variant_id":        item.VariantID,
			"unit_price":        item.UnitPrice,
			"subtotal":          item.Subtotal,
			"applied_threshold": item.AppliedThreshold,
			"price_source":      item.PriceSource,
			"param_delta":       item.ParamDelta,
			"updated_by":        item.UpdatedBy,
		}).Error
}

func (r *orderRepo) UpdateOrderHeader(order *model.Order) error {
	return r.db.Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"pickup_branch_id": order.PickupBranchID,
			"shipping_type":    order.ShippingType,
			"payment_method":   order.PaymentMethod,
			"notes":            order.Notes,
			"updated_by":       order.UpdatedBy,
		}).Error
}

func (r *orderRepo) UpdateOrderTotal(id uuid.UUID, total decimal.Decimal) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).Update("total", total).Error
}

func (r *orderRepo) UpdateOrderStage(id uuid.UUID, stage model.OrderStage) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).Update("stage", stage).Error
}

func (r *orderRepo) MarkDelivered(id uuid.UUID, at time.Time, updatedBy string) error {
	return r.db.Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stage":        model.StageDelivered,
			"delivered_at": at,
			"updated_by":   updatedBy,
		}).Error
}
