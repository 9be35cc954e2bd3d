package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStage string

const (
	StageRegistered OrderStage = "REGISTERED"
	StageInProgress OrderStage = "IN_PROGRESS"
	StageReady      OrderStage = "READY"
	StageDelivered  OrderStage = "DELIVERED"
)

type StepStatus string

const (
	StepPending StepStatus = "PENDING"
	StepDone    StepStatus = "DONE"
)

// Default production template used when a product defines none
const (
	StepPrinting = "IMPRESION"
	StepReady    = "LISTO"
)

type Order struct {
	BaseModel
	BranchID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	PickupBranchID uuid.UUID       `gorm:"type:uuid;not null;index" json:"pickup_branch_id"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer       *Customer       `json:"customer,omitempty"`
	Stage          OrderStage      `gorm:"type:varchar(20);not null;default:REGISTERED;index" json:"stage"`
	Total          decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"total"`
	ShippingType   string          `gorm:"type:varchar(30)" json:"shipping_type"`
	PaymentMethod  string          `gorm:"type:varchar(30)" json:"payment_method"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is one line of an order. Product name and unit kind are frozen at
// order time so later catalog edits do not rewrite history.
type OrderItem struct {
	BaseModel
	OrderID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID        uuid.UUID        `gorm:"type:uuid;not null" json:"product_id"`
	ProductName      string           `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitKind         UnitKind         `gorm:"type:varchar(10);not null" json:"unit_kind"`
	Quantity         decimal.Decimal  `gorm:"type:numeric(12,3);not null" json:"quantity"`
	VariantID        *uuid.UUID       `gorm:"type:uuid" json:"variant_id,omitempty"`
	UnitPrice        decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Subtotal         decimal.Decimal  `gorm:"type:numeric;not null" json:"subtotal"`
	AppliedThreshold *decimal.Decimal `gorm:"type:numeric(12,3)" json:"applied_threshold,omitempty"`
	PriceSource      string           `gorm:"type:varchar(40)" json:"price_source"`
	ParamDelta       decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0" json:"param_delta"`
	CurrentStepOrder int              `gorm:"not null;default:1" json:"current_step_order"`
	IsReady          bool             `gorm:"default:false;index" json:"is_ready"`

	Steps   []OrderItemStep   `gorm:"foreignKey:OrderItemID" json:"steps,omitempty"`
	Options []OrderItemOption `gorm:"foreignKey:OrderItemID" json:"options,omitempty"`
}

// ParamIDs returns the originating param ids of the item's options, in order.
func (i *OrderItem) ParamIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(i.Options))
	for n, opt := range i.Options {
		ids[n] = opt.ParamID
	}
	return ids
}

type OrderItemStep struct {
	BaseModel
	OrderItemID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_item_step" json:"order_item_id"`
	Name        string     `gorm:"type:varchar(60);not null" json:"name"`
	StepOrder   int        `gorm:"not null;uniqueIndex:ux_item_step" json:"step_order"`
	Status      StepStatus `gorm:"type:varchar(10);not null;default:PENDING" json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// OrderItemOption snapshots a chosen param. Never updated after creation.
type OrderItemOption struct {
	BaseModel
	OrderItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_item_id"`
	ParamID     uuid.UUID       `gorm:"type:uuid;not null" json:"param_id"`
	Name        string          `gorm:"type:varchar(120);not null" json:"name"`
	PriceDelta  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price_delta"`
}
