package model

import (
	"github.com/google/uuid"
)

// User is a staff member. Credentials live with the identity provider; this
// service only needs the role and the branch the user works at.
type User struct {
	BaseModel
	Email    string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	FullName string     `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	RoleCode string     `gorm:"type:varchar(30);not null" json:"role_code" validate:"required,oneof=GLOBAL_ADMIN BRANCH_ADMIN OPERATOR"`
	BranchID *uuid.UUID `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	IsActive bool       `gorm:"default:true" json:"is_active"`
}

// Actor is the already-authenticated caller of a mutating operation.
type Actor struct {
	UserID   uuid.UUID
	Name     string
	RoleCode string
	BranchID uuid.UUID
}

func (a Actor) IsGlobalAdmin() bool {
	return a.RoleCode == RoleGlobalAdmin
}

// CanActOnBranch reports whether the actor may mutate data owned by branchID.
func (a Actor) CanActOnBranch(branchID uuid.UUID) bool {
	if a.IsGlobalAdmin() {
		return true
	}
	return a.BranchID != uuid.Nil && a.BranchID == branchID
}

// ActorFor builds the acting context of a stored user
func (u *User) ActorFor() Actor {
	actor := Actor{UserID: u.ID, Name: u.FullName, RoleCode: u.RoleCode}
	if u.BranchID != nil {
		actor.BranchID = *u.BranchID
	}
	return actor
}
