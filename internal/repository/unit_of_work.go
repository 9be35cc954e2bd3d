package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories is the set of repositories bound to one transaction.
type Repositories struct {
	Catalog   CatalogRepository
	Directory DirectoryRepository
	Orders    OrderRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Catalog:   NewCatalogRepo(db),
		Directory: NewDirectoryRepo(db),
		Orders:    NewOrderRepo(db),
	}
}

// UnitOfWork runs fn inside one transaction. Returning an error from fn rolls
// everything back; nil commits.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
