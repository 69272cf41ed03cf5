package domain

// Role is a named bundle of permissions assigned to a staff user. Roles are
// static configuration; they are not editable at runtime.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleSales  Role = "SALES"
	RoleVendor Role = "VENDOR"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleSales, RoleVendor:
		return Role(s), true
	default:
		return "", false
	}
}

// RoleGrants returns the permission bundle a role carries on its own, before
// any per-user explicit grants. OWNER and ADMIN are resolved by Can directly
// and return nil here; their access does not depend on a stored list.
func RoleGrants(r Role) []Permission {
	switch r {
	case RoleSales:
		return []Permission{
			PermDashboardView,
			PermPackagesView,
			PermReservationsView,
			PermReservationsManage,
			PermPricesView,
		}
	case RoleVendor:
		return []Permission{
			PermDashboardView,
			PermPackagesView,
			PermStatsPersonalView,
		}
	default:
		return nil
	}
}
