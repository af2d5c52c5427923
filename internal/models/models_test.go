package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusAvailable, StatusAssigned, StatusNeedsRepair, StatusBroken, StatusMissing, StatusSold} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("available"))
	assert.False(t, ValidStatus("LOST"))
	assert.False(t, ValidStatus(""))
}

func TestRetiredStatus(t *testing.T) {
	assert.True(t, RetiredStatus(StatusSold))
	assert.True(t, RetiredStatus(StatusMissing))
	assert.False(t, RetiredStatus(StatusAvailable))
	assert.False(t, RetiredStatus(StatusBroken))
	assert.False(t, RetiredStatus(StatusNeedsRepair))
	assert.False(t, RetiredStatus(StatusAssigned))
}

func TestValidRepairType(t *testing.T) {
	assert.True(t, ValidRepairType(RepairInternal))
	assert.True(t, ValidRepairType(RepairExternal))
	assert.False(t, ValidRepairType("internal"))
	assert.False(t, ValidRepairType(""))
}

func TestValidateRoles(t *testing.T) {
	assert.True(t, ValidateRoles([]string{RoleAdmin}))
	assert.True(t, ValidateRoles([]string{RoleAdmin, RoleStaff}))
	assert.False(t, ValidateRoles(nil))
	assert.False(t, ValidateRoles([]string{}))
	assert.False(t, ValidateRoles([]string{"root"}))
	assert.False(t, ValidateRoles([]string{RoleAdmin, "superuser"}))
}

func TestAssignmentOpen(t *testing.T) {
	a := &AssetAssignment{}
	assert.True(t, a.Open())

	now := time.Now()
	a.ReturnDate = &now
	assert.False(t, a.Open())
}

func TestUserRedacted(t *testing.T) {
	u := User{Email: "ops@example.com", PasswordHash: "$2a$10$hash"}
	r := u.Redacted()
	assert.Empty(t, r.PasswordHash)
	assert.Equal(t, "ops@example.com", r.Email)
	// original untouched
	assert.NotEmpty(t, u.PasswordHash)
}
