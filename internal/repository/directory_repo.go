package repository

import (
	"printshop-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectoryRepository looks up the branches and customers an order refers to.
type DirectoryRepository interface {
	FindBranch(id uuid.UUID) (*model.Branch, error)
	FindCustomer(id uuid.UUID) (*model.Customer, error)
}

type directoryRepo struct {
	db *gorm.DB
}

func NewDirectoryRepo(db *gorm.DB) DirectoryRepository {
	return &directoryRepo{db}
}

func (r *directoryRepo) FindBranch(id uuid.UUID) (*model.Branch, error) {
	var branch model.Branch
	if err := r.db.First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *directoryRepo) FindCustomer(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
