// Package rbac holds the role hierarchy and the tenant scoping guard.
//
// A request's identity is captured once in an AuthContext and passed by
// value to every service call. The guard functions are pure: they look only
// at the AuthContext and the tenant that owns the target, so they can be
// tested without any HTTP plumbing.
//
//	ac := rbac.NewAuthContext(principal) // nil principal = anonymous
//	if err := rbac.AuthorizeResource(ac, order.StoreID); err != nil {
//	    return err // 401, 403 or 400 via apperr
//	}
package rbac

import "strings"

// Role is a principal's privilege level.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleCustomer   Role = "CUSTOMER"
)

// ParseRole normalises a role claim. Unknown values are kept verbatim and
// carry no capability.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// capabilities is the single table every check reads from.
var capabilities = map[Role]struct {
	admin bool
	super bool
}{
	RoleSuperAdmin: {admin: true, super: true},
	RoleAdmin:      {admin: true},
	RoleStaff:      {admin: true},
	RoleCustomer:   {},
}

// Principal is a verified identity. StoreID is nil only for SUPER_ADMIN.
type Principal struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Role    Role    `json:"role"`
	StoreID *string `json:"storeId"`
}

// Tenant returns the bound store id, or "" when the principal has none.
func (p *Principal) Tenant() string {
	if p == nil || p.StoreID == nil {
		return ""
	}
	return *p.StoreID
}

// HasAdminCapability reports whether p may use back-office operations.
func HasAdminCapability(p *Principal) bool {
	if p == nil {
		return false
	}
	return capabilities[p.Role].admin
}

// HasSuperCapability reports whether p has cross-tenant reach.
func HasSuperCapability(p *Principal) bool {
	if p == nil {
		return false
	}
	return capabilities[p.Role].super
}

// AuthContext is the per-request identity. The zero value is anonymous.
type AuthContext struct {
	principal *Principal
}

// NewAuthContext freezes a copy of p. Passing nil yields an anonymous context.
func NewAuthContext(p *Principal) AuthContext {
	if p == nil {
		return AuthContext{}
	}
	cp := *p
	if p.StoreID != nil {
		id := *p.StoreID
		cp.StoreID = &id
	}
	return AuthContext{principal: &cp}
}

// Anonymous is the context of a request without a verified credential.
func Anonymous() AuthContext { return AuthContext{} }

// Authenticated reports whether a principal is present.
func (ac AuthContext) Authenticated() bool { return ac.principal != nil }

// Principal returns a copy of the principal, or nil when anonymous.
func (ac AuthContext) Principal() *Principal {
	if ac.principal == nil {
		return nil
	}
	cp := *ac.principal
	return &cp
}

// Role returns the principal's role, or "" when anonymous.
func (ac AuthContext) Role() Role {
	if ac.principal == nil {
		return ""
	}
	return ac.principal.Role
}

// UserID returns the principal's id, or "" when anonymous.
func (ac AuthContext) UserID() string {
	if ac.principal == nil {
		return ""
	}
	return ac.principal.ID
}

// Tenant returns the principal's bound store id, or "".
func (ac AuthContext) Tenant() string { return ac.principal.Tenant() }

// IsAdmin is HasAdminCapability for the context's principal.
func (ac AuthContext) IsAdmin() bool { return HasAdminCapability(ac.principal) }

// IsSuper is HasSuperCapability for the context's principal.
func (ac AuthContext) IsSuper() bool { return HasSuperCapability(ac.principal) }
