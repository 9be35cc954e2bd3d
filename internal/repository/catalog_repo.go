package repository

import (
	"printshop-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	FindBranchProduct(branchID, productID uuid.UUID) (*model.BranchProduct, error)
	FindParamsByIDs(ids []uuid.UUID) ([]model.Param, error)
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db}
}

// FindBranchProduct loads the full pricing aggregate of a product in a branch:
// product (with its process template), tiers, variant prices and param prices.
func (r *catalogRepo) FindBranchProduct(branchID, productID uuid.UUID) (*model.BranchProduct, error) {
	var bp model.BranchProduct
	err := r.db.
		Preload("Product").
		Preload("Product.ProcessSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Preload("QuantityTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_qty ASC")
		}).
		Preload("VariantPrices").
		Preload("VariantQuantityTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_qty ASC")
		}).
		Preload("ParamPrices").
		Preload("ParamPrices.Param").
		Where("branch_id = ? AND product_id = ?", branchID, productID).
		First(&bp).Error
	if err != nil {
		return nil, err
	}
	return &bp, nil
}

func (r *catalogRepo) FindParamsByIDs(ids []uuid.UUID) ([]model.Param, error) {
	var params []model.Param
	if len(ids) == 0 {
		return params, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&params).Error; err != nil {
		return nil, err
	}
	return params, nil
}
