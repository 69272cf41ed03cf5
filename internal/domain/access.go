package domain

// Principal is the authenticated party whose permissions are being checked.
// It is rebuilt per request from session claims; Can never touches storage.
type Principal struct {
	UserID      int64
	Name        string
	Role        Role
	Permissions []Permission
}

// Can decides whether the principal may perform the action guarded by perm.
//
// Decision order:
//  1. nil principal denies (fail closed).
//  2. OWNER is allowed everything unconditionally.
//  3. ADMIN is allowed everything except the owner-only permission.
//  4. Any other role falls through to the explicit permission list.
//
// A denial is an ordinary false, never an error: callers render nothing or
// reply 403, they do not recover from anything.
func Can(p *Principal, perm Permission) bool {
	if p == nil {
		return false
	}

	switch p.Role {
	case RoleOwner:
		return true
	case RoleAdmin:
		return perm != PermOwnerAccess
	}

	for _, held := range p.Permissions {
		if held == perm {
			return true
		}
	}
	return false
}

// EffectivePermissions is the union of role grants and explicit per-user
// grants, deduplicated in catalog order. OWNER holds the entire catalog
// regardless of the explicit list.
func EffectivePermissions(role Role, explicit []Permission) []Permission {
	if role == RoleOwner {
		return AllPermissions()
	}

	held := make(map[Permission]bool)
	if role == RoleAdmin {
		for _, p := range AllPermissions() {
			if p != PermOwnerAccess {
				held[p] = true
			}
		}
	}
	for _, p := range RoleGrants(role) {
		held[p] = true
	}
	for _, p := range explicit {
		held[p] = true
	}

	out := make([]Permission, 0, len(held))
	for _, p := range AllPermissions() {
		if held[p] {
			out = append(out, p)
		}
	}
	return out
}
