package permissions

// Role is the three-tier actor role. Tiers form a total order:
// super_admin > admin > receptionist.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
)

var roleTiers = map[Role]int{
	RoleSuperAdmin:   3,
	RoleAdmin:        2,
	RoleReceptionist: 1,
}

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	_, ok := roleTiers[r]

	return ok
}

// Tier returns the ordering rank of the role. Unknown roles rank below every
// valid role.
func (r Role) Tier() int {
	return roleTiers[r]
}

// AtLeast reports whether the role ranks at or above the given role.
// Unknown roles never satisfy any tier.
func (r Role) AtLeast(other Role) bool {
	if !r.Valid() {
		return false
	}

	return r.Tier() >= other.Tier()
}

// CanManage reports whether an actor with this role may create, modify or
// delete a user holding the target role. Super admins manage everyone,
// admins manage receptionists only.
func (r Role) CanManage(target Role) bool {
	switch r {
	case RoleSuperAdmin:
		return target.Valid()
	case RoleAdmin:
		return target == RoleReceptionist
	default:
		return false
	}
}

// Capability names a single guarded operation class.
type Capability string

const (
	CapManageRoomTypes    Capability = "manage_room_types"
	CapManageRooms        Capability = "manage_rooms"
	CapChangeRoomStatus   Capability = "change_room_status"
	CapViewRooms          Capability = "view_rooms"
	CapManageInventory    Capability = "manage_inventory"
	CapManageUsers        Capability = "manage_users"
	CapManageReservations Capability = "manage_reservations"
)

// capabilityTable is the single source of truth for role-based authorization.
// Every mutating service operation consults it through Can; there are no
// per-endpoint role lists anywhere else.
var capabilityTable = map[Capability]Role{
	CapManageRoomTypes:    RoleAdmin,
	CapManageRooms:        RoleAdmin,
	CapChangeRoomStatus:   RoleReceptionist,
	CapViewRooms:          RoleReceptionist,
	CapManageInventory:    RoleReceptionist,
	CapManageUsers:        RoleAdmin,
	CapManageReservations: RoleReceptionist,
}

// Can reports whether the role holds the capability.
func Can(role Role, capability Capability) bool {
	tier, ok := capabilityTable[capability]
	if !ok {
		return false
	}

	return role.AtLeast(tier)
}
