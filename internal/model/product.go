package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitKind string

const (
	UnitMeter UnitKind = "METER"
	UnitPiece UnitKind = "PIECE"
)

// Product is the catalog definition shared by every branch.
type Product struct {
	BaseModel
	Name                 string           `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	UnitKind             UnitKind         `gorm:"type:varchar(10);not null" json:"unit_kind" validate:"required,oneof=METER PIECE"`
	NeedsVariant         bool             `gorm:"default:false" json:"needs_variant"`
	MinQty               decimal.Decimal  `gorm:"type:numeric(12,3);not null;default:1" json:"min_qty"`
	QtyStep              decimal.Decimal  `gorm:"type:numeric(12,3);not null;default:1" json:"qty_step"`
	HalfStepSpecialPrice *decimal.Decimal `gorm:"type:numeric(12,2)" json:"half_step_special_price,omitempty"`
	IsActive             bool             `gorm:"default:true" json:"is_active"`

	ProcessSteps []ProcessStep `gorm:"foreignKey:ProductID" json:"process_steps,omitempty"`
}

// ProcessStep is one row of a product's production template. Items copy the
// active rows, in StepOrder, when they are created.
type ProcessStep struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string    `gorm:"type:varchar(60);not null" json:"name"`
	StepOrder int       `gorm:"not null" json:"step_order"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}

// SizeVariant is a size option such as "A4" or "40x60cm".
type SizeVariant struct {
	BaseModel
	Name string `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
}

// Param is an add-on that can be attached to a line (lamination, eyelets...).
type Param struct {
	BaseModel
	Name     string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
