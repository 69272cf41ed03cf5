package domain_test

import (
	"testing"

	"github.com/floripafacil/backend/internal/domain"
)

func TestCanNilPrincipalDenies(t *testing.T) {
	for _, perm := range domain.AllPermissions() {
		if domain.Can(nil, perm) {
			t.Errorf("nil principal must be denied %q", perm)
		}
	}
}

func TestCanOwnerBypassesEverything(t *testing.T) {
	owner := &domain.Principal{UserID: 1, Role: domain.RoleOwner}

	for _, perm := range domain.AllPermissions() {
		if !domain.Can(owner, perm) {
			t.Errorf("owner must be allowed %q", perm)
		}
	}

	// The bypass holds even for identifiers outside the catalog.
	if !domain.Can(owner, domain.Permission("garbage.not.a.permission")) {
		t.Error("owner bypass must not depend on catalog membership")
	}
}

func TestCanAdminAllowedAllButOwnerAccess(t *testing.T) {
	admin := &domain.Principal{UserID: 2, Role: domain.RoleAdmin}

	for _, perm := range domain.AllPermissions() {
		got := domain.Can(admin, perm)
		want := perm != domain.PermOwnerAccess
		if got != want {
			t.Errorf("admin Can(%q) = %v, want %v", perm, got, want)
		}
	}
}

func TestCanExplicitListGovernsOtherRoles(t *testing.T) {
	held := []domain.Permission{domain.PermPackagesView, domain.PermReservationsManage}
	sales := &domain.Principal{UserID: 3, Role: domain.RoleSales, Permissions: held}

	for _, perm := range domain.AllPermissions() {
		want := false
		for _, h := range held {
			if h == perm {
				want = true
			}
		}
		if got := domain.Can(sales, perm); got != want {
			t.Errorf("sales Can(%q) = %v, want %v", perm, got, want)
		}
	}
}

func TestCanUnknownRoleFallsToExplicitList(t *testing.T) {
	p := &domain.Principal{
		UserID:      4,
		Role:        domain.Role("CONTRACTOR"),
		Permissions: []domain.Permission{domain.PermPackagesView},
	}

	if !domain.Can(p, domain.PermPackagesView) {
		t.Error("unknown role with explicit grant must be allowed that grant")
	}
	if domain.Can(p, domain.PermUsersManage) {
		t.Error("unknown role must be denied anything outside its explicit list")
	}
}

func TestCanEmptyPermissionsDenies(t *testing.T) {
	p := &domain.Principal{UserID: 5, Role: domain.RoleVendor}
	if domain.Can(p, domain.PermDashboardView) {
		t.Error("principal with empty explicit list must be denied")
	}
}

func TestCanIsDeterministic(t *testing.T) {
	p := &domain.Principal{UserID: 6, Role: domain.RoleSales, Permissions: []domain.Permission{domain.PermPricesView}}
	first := domain.Can(p, domain.PermPricesView)
	for i := 0; i < 100; i++ {
		if domain.Can(p, domain.PermPricesView) != first {
			t.Fatal("Can must be deterministic for identical inputs")
		}
	}
}

func TestPermissionCatalogIsClosed(t *testing.T) {
	seen := make(map[domain.Permission]bool)
	for _, p := range domain.AllPermissions() {
		if seen[p] {
			t.Errorf("duplicate catalog entry %q", p)
		}
		seen[p] = true
		if !p.Valid() {
			t.Errorf("catalog entry %q must validate", p)
		}
	}

	if _, ok := domain.ParsePermission("users.manage"); !ok {
		t.Error("known identifier must parse")
	}
	if _, ok := domain.ParsePermission("users.mangle"); ok {
		t.Error("typo identifier must not parse")
	}
}

func TestParsePermissionsDropsUnknown(t *testing.T) {
	got := domain.ParsePermissions([]string{"packages.view", "not.a.permission", "stats.global.view"})
	want := []domain.Permission{domain.PermPackagesView, domain.PermStatsGlobalView}
	if len(got) != len(want) {
		t.Fatalf("got %d permissions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRoleGrantsAreCatalogMembers(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleOwner, domain.RoleAdmin, domain.RoleSales, domain.RoleVendor} {
		for _, p := range domain.RoleGrants(role) {
			if !p.Valid() {
				t.Errorf("role %s grants unknown permission %q", role, p)
			}
		}
	}
}

func TestRoleGrantSets(t *testing.T) {
	cases := []struct {
		role domain.Role
		want []domain.Permission
	}{
		// OWNER and ADMIN carry no stored list; Can resolves them directly.
		{domain.RoleOwner, nil},
		{domain.RoleAdmin, nil},
		{domain.RoleSales, []domain.Permission{
			domain.PermDashboardView,
			domain.PermPackagesView,
			domain.PermReservationsView,
			domain.PermReservationsManage,
			domain.PermPricesView,
		}},
		{domain.RoleVendor, []domain.Permission{
			domain.PermDashboardView,
			domain.PermPackagesView,
			domain.PermStatsPersonalView,
		}},
	}

	for _, tc := range cases {
		got := domain.RoleGrants(tc.role)
		if len(got) != len(tc.want) {
			t.Errorf("RoleGrants(%s) = %v, want %v", tc.role, got, tc.want)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("RoleGrants(%s)[%d] = %q, want %q", tc.role, i, got[i], tc.want[i])
			}
		}
	}
}

func TestEffectivePermissions(t *testing.T) {
	t.Run("owner holds full catalog regardless of explicit list", func(t *testing.T) {
		got := domain.EffectivePermissions(domain.RoleOwner, []domain.Permission{domain.PermPackagesView})
		if len(got) != len(domain.AllPermissions()) {
			t.Fatalf("owner effective set has %d entries, want %d", len(got), len(domain.AllPermissions()))
		}
	})

	t.Run("admin holds everything but owner.access", func(t *testing.T) {
		got := domain.EffectivePermissions(domain.RoleAdmin, nil)
		for _, p := range got {
			if p == domain.PermOwnerAccess {
				t.Fatal("admin effective set must not contain owner.access")
			}
		}
		if len(got) != len(domain.AllPermissions())-1 {
			t.Fatalf("admin effective set has %d entries, want %d", len(got), len(domain.AllPermissions())-1)
		}
	})

	t.Run("union of role grants and explicit list without duplicates", func(t *testing.T) {
		got := domain.EffectivePermissions(domain.RoleSales, []domain.Permission{
			domain.PermPackagesView, // already granted by role
			domain.PermAuditLogsView,
		})
		seen := make(map[domain.Permission]int)
		for _, p := range got {
			seen[p]++
		}
		if seen[domain.PermPackagesView] != 1 {
			t.Error("duplicate grant must be deduplicated")
		}
		if seen[domain.PermAuditLogsView] != 1 {
			t.Error("explicit grant missing from effective set")
		}
		if seen[domain.PermUsersManage] != 0 {
			t.Error("effective set leaked an ungranted permission")
		}
	})
}
