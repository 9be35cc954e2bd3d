package main

import (
	"errors"
	"fmt"
	"time"

	"printshop-orders/internal/model"
	"printshop-orders/internal/repository"
	"printshop-orders/pkg/config"
	"printshop-orders/pkg/database"
	"printshop-orders/pkg/jwt"
	"printshop-orders/pkg/logger"
	"printshop-orders/pkg/numeric"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// seed loads a demo catalog. Running it again changes nothing.
func main() {
	envErr := config.LoadEnvFile()
	cfg := config.Load()

	logCfg := logger.DefaultConfig()
	logCfg.Format = "text"
	logCfg.Component = "seed"
	log := logger.New(logCfg)
	if envErr != nil {
		log.Warn(".env file not found, relying on system env")
	}

	db, err := database.Connect(cfg.Database, database.GormLogLevel(cfg.LogLevel))
	if err != nil {
		log.Fatal("Database connection failed", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed", "error", err)
	}

	var centro model.Branch
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		centro, err = seedCatalog(tx)
		return err
	})
	if err != nil {
		log.Fatal("Seeding catalog failed", "error", err)
	}
	log.Info("Catalog ready", "branch", centro.Name, "branch_id", centro.ID)

	users, err := seedUsers(repository.NewUserRepo(db), centro.ID)
	if err != nil {
		log.Fatal("Seeding users failed", "error", err)
	}

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, skipping demo tokens")
		return
	}
	ttl := config.GetDuration("SEED_TOKEN_TTL", 24*time.Hour)
	for _, u := range users {
		branchID := uuid.Nil
		if u.BranchID != nil {
			branchID = *u.BranchID
		}
		token, err := jwt.GenerateToken([]byte(cfg.JWTSecret), u.ID, u.FullName, u.RoleCode, branchID, ttl)
		if err != nil {
			log.Error("Token generation failed", "email", u.Email, "error", err)
			continue
		}
		fmt.Printf("%s (%s)\n  %s\n", u.Email, u.RoleCode, token)
	}
}

// firstOrCreate looks dest up by query and inserts it when missing.
func firstOrCreate(tx *gorm.DB, dest interface{}, query string, args ...interface{}) error {
	err := tx.Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(dest).Error
	}
	return err
}

func seedCatalog(tx *gorm.DB) (model.Branch, error) {
	centro := model.Branch{Name: "Centro", Address: "Av. Principal 100", IsActive: true}
	norte := model.Branch{Name: "Norte", Address: "Calle 8 #22", IsActive: true}
	for _, b := range []*model.Branch{&centro, &norte} {
		if err := firstOrCreate(tx, b, "name = ?", b.Name); err != nil {
			return centro, err
		}
	}

	customer := model.Customer{FullName: "Cliente Mostrador", PhoneNumber: "0000000000", IsActive: true}
	if err := firstOrCreate(tx, &customer, "full_name = ?", customer.FullName); err != nil {
		return centro, err
	}

	laminado := model.Param{Name: "Laminado", IsActive: true}
	ojales := model.Param{Name: "Ojales", IsActive: true}
	for _, p := range []*model.Param{&laminado, &ojales} {
		if err := firstOrCreate(tx, p, "name = ?", p.Name); err != nil {
			return centro, err
		}
	}

	grande := model.SizeVariant{Name: "11oz"}
	if err := firstOrCreate(tx, &grande, "name = ?", grande.Name); err != nil {
		return centro, err
	}

	lona := model.Product{
		Name:                 "Lona impresa",
		UnitKind:             model.UnitMeter,
		MinQty:               numeric.Half,
		QtyStep:              numeric.Half,
		HalfStepSpecialPrice: numeric.Ptr(numeric.MustParse("25")),
		IsActive:             true,
	}
	taza := model.Product{
		Name:         "Taza sublimada",
		UnitKind:     model.UnitPiece,
		NeedsVariant: true,
		MinQty:       numeric.One,
		QtyStep:      numeric.One,
		IsActive:     true,
		ProcessSteps: []model.ProcessStep{
			{Name: "DISENO", StepOrder: 1, IsActive: true},
			{Name: "SUBLIMADO", StepOrder: 2, IsActive: true},
			{Name: model.StepReady, StepOrder: 3, IsActive: true},
		},
	}
	for _, p := range []*model.Product{&lona, &taza} {
		if err := firstOrCreate(tx, p, "name = ?", p.Name); err != nil {
			return centro, err
		}
	}

	for _, branch := range []model.Branch{centro, norte} {
		bpLona := model.BranchProduct{
			BranchID:  branch.ID,
			ProductID: lona.ID,
			Price:     numeric.MustParse("100"),
			IsActive:  true,
			QuantityTiers: []model.QuantityPriceTier{
				{MinQty: numeric.MustParse("10"), UnitPrice: numeric.MustParse("90"), IsActive: true, DisplayOrder: 1},
				{MinQty: numeric.MustParse("50"), UnitPrice: numeric.MustParse("80"), IsActive: true, DisplayOrder: 2},
			},
			ParamPrices: []model.ParamPrice{
				{ParamID: laminado.ID, PriceDelta: numeric.MustParse("5"), IsActive: true},
				{ParamID: ojales.ID, PriceDelta: numeric.MustParse("2"), IsActive: true},
			},
		}
		bpTaza := model.BranchProduct{
			BranchID:  branch.ID,
			ProductID: taza.ID,
			Price:     numeric.MustParse("30"),
			IsActive:  true,
			VariantPrices: []model.VariantPrice{
				{VariantID: grande.ID, Price: numeric.MustParse("60"), IsActive: true},
			},
			VariantQuantityTiers: []model.VariantQuantityPriceTier{
				{VariantID: grande.ID, MinQty: numeric.MustParse("12"), UnitPrice: numeric.MustParse("45"), IsActive: true},
			},
		}
		for _, bp := range []*model.BranchProduct{&bpLona, &bpTaza} {
			if err := firstOrCreate(tx, bp, "branch_id = ? AND product_id = ?", bp.BranchID, bp.ProductID); err != nil {
				return centro, err
			}
		}
	}
	return centro, nil
}

func seedUsers(users repository.UserRepository, branchID uuid.UUID) ([]*model.User, error) {
	defaults := []*model.User{
		{Email: "admin@example.com", FullName: "Administrador General", RoleCode: model.RoleGlobalAdmin, IsActive: true},
		{Email: "centro@example.com", FullName: "Encargado Centro", RoleCode: model.RoleBranchAdmin, BranchID: &branchID, IsActive: true},
		{Email: "operador@example.com", FullName: "Operador Centro", RoleCode: model.RoleOperator, BranchID: &branchID, IsActive: true},
	}

	seeded := make([]*model.User, 0, len(defaults))
	for _, u := range defaults {
		existing, err := users.FindByEmail(u.Email)
		if err == nil {
			seeded = append(seeded, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		u.CreatedBy = "system"
		u.UpdatedBy = "system"
		if err := users.Create(u); err != nil {
			return nil, err
		}
		seeded = append(seeded, u)
	}
	return seeded, nil
}
