package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminRoles(t *testing.T) {
	config := Default(1)
	assert.Empty(t, config.AdminRoleIDs)

	assert.True(t, config.AddAdminRole(100))
	assert.True(t, config.AddAdminRole(200))
	assert.False(t, config.AddAdminRole(100))
	assert.Equal(t, []int64{100, 200}, config.AdminRoleIDs)

	assert.True(t, config.IsAdminRole(100))
	assert.False(t, config.IsAdminRole(300))

	assert.True(t, config.RemoveAdminRole(100))
	assert.False(t, config.RemoveAdminRole(100))
	assert.Equal(t, []int64{200}, config.AdminRoleIDs)
}
