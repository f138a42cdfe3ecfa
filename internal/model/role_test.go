package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminHoldsEveryPrivilege(t *testing.T) {
	admin := FindRole(RoleAdmin)
	require.NotNil(t, admin)
	assert.Len(t, admin.Privileges, len(DefaultPrivileges))
}

func TestStaffCannotManageCatalogOrStaff(t *testing.T) {
	staff := PrivilegesFor(RoleStaff)
	assert.Contains(t, staff, PrivOrderCreate)
	assert.Contains(t, staff, PrivCashOpen)
	assert.NotContains(t, staff, PrivProductCreate)
	assert.NotContains(t, staff, PrivUserCreate)
	assert.NotContains(t, staff, PrivReportView)
}

func TestFindRoleReturnsCopy(t *testing.T) {
	role := FindRole(RoleStaff)
	require.NotNil(t, role)
	role.Privileges[0] = "tampered"

	assert.NotEqual(t, "tampered", PrivilegesFor(RoleStaff)[0])
	assert.Nil(t, FindRole("CHEF"))
	assert.Nil(t, PrivilegesFor("CHEF"))
}
