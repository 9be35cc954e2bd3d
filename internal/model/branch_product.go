package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BranchProduct is the pricing root of a product inside one branch.
type BranchProduct struct {
	BaseModel
	BranchID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_branch_product" json:"branch_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_branch_product" json:"product_id"`
	Product   Product         `json:"product"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	IsActive  bool            `gorm:"default:true" json:"is_active"`

	QuantityTiers        []QuantityPriceTier        `gorm:"foreignKey:BranchProductID" json:"quantity_tiers,omitempty"`
	VariantPrices        []VariantPrice             `gorm:"foreignKey:BranchProductID" json:"variant_prices,omitempty"`
	VariantQuantityTiers []VariantQuantityPriceTier `gorm:"foreignKey:BranchProductID" json:"variant_quantity_tiers,omitempty"`
	ParamPrices          []ParamPrice               `gorm:"foreignKey:BranchProductID" json:"param_prices,omitempty"`
}

type QuantityPriceTier struct {
	BaseModel
	BranchProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_qty_tier" json:"branch_product_id"`
	MinQty          decimal.Decimal `gorm:"type:numeric(12,3);not null;uniqueIndex:ux_qty_tier" json:"min_qty"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	DisplayOrder    int             `gorm:"default:0" json:"display_order"`
}

type VariantPrice struct {
	BaseModel
	BranchProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_variant_price" json:"branch_product_id"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_variant_price" json:"variant_id"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
}

type VariantQuantityPriceTier struct {
	BaseModel
	BranchProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_variant_qty_tier" json:"branch_product_id"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_variant_qty_tier" json:"variant_id"`
	MinQty          decimal.Decimal `gorm:"type:numeric(12,3);not null;uniqueIndex:ux_variant_qty_tier" json:"min_qty"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	DisplayOrder    int             `gorm:"default:0" json:"display_order"`
}

// ParamPrice is a signed delta added to the unit price when the param is chosen.
type ParamPrice struct {
	BaseModel
	BranchProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_param_price" json:"branch_product_id"`
	ParamID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_param_price" json:"param_id"`
	Param           Param           `json:"param"`
	PriceDelta      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price_delta"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
}
