package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestActorCanActOnBranch(t *testing.T) {
	branch := uuid.New()
	other := uuid.New()

	admin := Actor{RoleCode: RoleGlobalAdmin}
	assert.True(t, admin.CanActOnBranch(branch))

	operator := Actor{RoleCode: RoleOperator, BranchID: branch}
	assert.True(t, operator.CanActOnBranch(branch))
	assert.False(t, operator.CanActOnBranch(other))

	unassigned := Actor{RoleCode: RoleBranchAdmin}
	assert.False(t, unassigned.CanActOnBranch(uuid.Nil))
}

func TestUserActorFor(t *testing.T) {
	branch := uuid.New()
	u := &User{FullName: "Ana", RoleCode: RoleOperator, BranchID: &branch}
	u.ID = uuid.New()

	actor := u.ActorFor()
	assert.Equal(t, u.ID, actor.UserID)
	assert.Equal(t, branch, actor.BranchID)
	assert.False(t, actor.IsGlobalAdmin())
}

func TestOrderItemParamIDsKeepsOrderAndDuplicates(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	item := OrderItem{Options: []OrderItemOption{{ParamID: a}, {ParamID: b}, {ParamID: a}}}
	assert.Equal(t, []uuid.UUID{a, b, a}, item.ParamIDs())
}
