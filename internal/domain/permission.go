package domain

// Permission is an atomic, named capability a principal may or may not hold.
// The set of valid permissions is closed; anything outside the catalog below
// fails Valid() and is rejected at construction time rather than silently
// denied at check time.
type Permission string

const (
	// Super permission, never granted outside the OWNER role
	PermOwnerAccess Permission = "owner.access"

	// Finance (CEO level)
	PermFinanceView Permission = "finance.dashboard.view"

	// Dashboard & access
	PermDashboardView Permission = "dashboard.view"

	// Users & roles
	PermUsersManage Permission = "users.manage"
	PermUsersView   Permission = "users.view"
	PermRolesManage Permission = "roles.manage"

	// Packages
	PermPackagesView   Permission = "packages.view"
	PermPackagesCreate Permission = "packages.create"
	PermPackagesEdit   Permission = "packages.edit"
	PermPackagesDelete Permission = "packages.delete"

	// Pricing & analytics
	PermPricesView        Permission = "prices.view"
	PermPricesEdit        Permission = "prices.edit"
	PermStatsGlobalView   Permission = "stats.global.view"
	PermStatsPersonalView Permission = "stats.personal.view"
	PermAuditLogsView     Permission = "audit.logs.view"

	// Destinations
	PermDestinationsManage Permission = "destinations.manage"

	// Reservations
	PermReservationsView   Permission = "reservations.view"
	PermReservationsManage Permission = "reservations.manage"
)

// AllPermissions returns the full catalog. Order is stable.
func AllPermissions() []Permission {
	return []Permission{
		PermOwnerAccess,
		PermFinanceView,
		PermDashboardView,
		PermUsersManage,
		PermUsersView,
		PermRolesManage,
		PermPackagesView,
		PermPackagesCreate,
		PermPackagesEdit,
		PermPackagesDelete,
		PermPricesView,
		PermPricesEdit,
		PermStatsGlobalView,
		PermStatsPersonalView,
		PermAuditLogsView,
		PermDestinationsManage,
		PermReservationsView,
		PermReservationsManage,
	}
}

func (p Permission) Valid() bool {
	for _, known := range AllPermissions() {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePermission validates a raw identifier against the catalog.
func ParsePermission(s string) (Permission, bool) {
	p := Permission(s)
	return p, p.Valid()
}

// ParsePermissions filters a raw list down to catalog members, dropping
// anything unknown. Used when rebuilding a principal from token claims so a
// stale or tampered claim cannot smuggle in identifiers outside the catalog.
func ParsePermissions(raw []string) []Permission {
	perms := make([]Permission, 0, len(raw))
	for _, s := range raw {
		if p, ok := ParsePermission(s); ok {
			perms = append(perms, p)
		}
	}
	return perms
}

// PermissionStrings converts a permission list for transport (JWT claims,
// JSON responses).
func PermissionStrings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
