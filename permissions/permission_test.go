package permissions_test

import (
	"testing"

	"motel/permissions"
)

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     permissions.Role
		other    permissions.Role
		expected bool
	}{
		{
			name:     "super_admin at least admin",
			role:     permissions.RoleSuperAdmin,
			other:    permissions.RoleAdmin,
			expected: true,
		},
		{
			name:     "admin at least admin",
			role:     permissions.RoleAdmin,
			other:    permissions.RoleAdmin,
			expected: true,
		},
		{
			name:     "receptionist not at least admin",
			role:     permissions.RoleReceptionist,
			other:    permissions.RoleAdmin,
			expected: false,
		},
		{
			name:     "admin not at least super_admin",
			role:     permissions.RoleAdmin,
			other:    permissions.RoleSuperAdmin,
			expected: false,
		},
		{
			name:     "unknown role satisfies nothing",
			role:     permissions.Role("manager"),
			other:    permissions.RoleReceptionist,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.AtLeast(tt.other); got != tt.expected {
				t.Errorf("expected AtLeast to be %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		name       string
		role       permissions.Role
		capability permissions.Capability
		expected   bool
	}{
		{
			name:       "receptionist can change room status",
			role:       permissions.RoleReceptionist,
			capability: permissions.CapChangeRoomStatus,
			expected:   true,
		},
		{
			name:       "receptionist cannot manage rooms",
			role:       permissions.RoleReceptionist,
			capability: permissions.CapManageRooms,
			expected:   false,
		},
		{
			name:       "receptionist cannot manage room types",
			role:       permissions.RoleReceptionist,
			capability: permissions.CapManageRoomTypes,
			expected:   false,
		},
		{
			name:       "receptionist can manage inventory",
			role:       permissions.RoleReceptionist,
			capability: permissions.CapManageInventory,
			expected:   true,
		},
		{
			name:       "admin can manage rooms",
			role:       permissions.RoleAdmin,
			capability: permissions.CapManageRooms,
			expected:   true,
		},
		{
			name:       "super_admin can manage users",
			role:       permissions.RoleSuperAdmin,
			capability: permissions.CapManageUsers,
			expected:   true,
		},
		{
			name:       "unknown capability is denied",
			role:       permissions.RoleSuperAdmin,
			capability: permissions.Capability("launch_rockets"),
			expected:   false,
		},
		{
			name:       "unknown role is denied",
			role:       permissions.Role("guest"),
			capability: permissions.CapViewRooms,
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := permissions.Can(tt.role, tt.capability); got != tt.expected {
				t.Errorf("expected Can to be %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRole_CanManage(t *testing.T) {
	tests := []struct {
		name     string
		role     permissions.Role
		target   permissions.Role
		expected bool
	}{
		{"super_admin manages super_admin", permissions.RoleSuperAdmin, permissions.RoleSuperAdmin, true},
		{"super_admin manages admin", permissions.RoleSuperAdmin, permissions.RoleAdmin, true},
		{"super_admin manages receptionist", permissions.RoleSuperAdmin, permissions.RoleReceptionist, true},
		{"admin cannot manage admin", permissions.RoleAdmin, permissions.RoleAdmin, false},
		{"admin cannot manage super_admin", permissions.RoleAdmin, permissions.RoleSuperAdmin, false},
		{"admin manages receptionist", permissions.RoleAdmin, permissions.RoleReceptionist, true},
		{"receptionist manages nobody", permissions.RoleReceptionist, permissions.RoleReceptionist, false},
		{"super_admin cannot manage unknown role", permissions.RoleSuperAdmin, permissions.Role("guest"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.CanManage(tt.target); got != tt.expected {
				t.Errorf("expected CanManage to be %v, got %v", tt.expected, got)
			}
		})
	}
}
