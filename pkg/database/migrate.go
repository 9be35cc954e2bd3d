package database

import (
	"printshop-orders/internal/model"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.Branch{},
		&model.Customer{},
		&model.User{},
		&model.SizeVariant{},
		&model.Param{},
		&model.Product{},
		&model.ProcessStep{},
		&model.BranchProduct{},
		&model.QuantityPriceTier{},
		&model.VariantPrice{},
		&model.VariantQuantityPriceTier{},
		&model.ParamPrice{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderItemStep{},
		&model.OrderItemOption{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
