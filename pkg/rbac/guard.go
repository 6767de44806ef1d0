package rbac

import (
	"strings"

	"github.com/shashiranjanraj/storehub/pkg/apperr"
)

// Messages are generic on purpose: a denial never describes the other
// tenant's data.
const (
	msgUnauthenticated = "Authentication required"
	msgAdminRequired   = "Admin access required"
	msgNotOwner        = "You do not own this resource or store"
	msgNoTenant        = "Account is not linked to a store"
	msgTargetRequired  = "A target storeId is required for this operation"
)

// RequireAdmin passes for SUPER_ADMIN, ADMIN and STAFF. An anonymous context
// is Unauthenticated; any other principal is Forbidden.
func RequireAdmin(ac AuthContext) error {
	if !ac.Authenticated() {
		return apperr.New(apperr.Unauthenticated, msgUnauthenticated)
	}
	if !ac.IsAdmin() {
		return apperr.New(apperr.Forbidden, msgAdminRequired)
	}
	return nil
}

// AuthorizeResource decides whether ac may read or mutate one record owned
// by resourceStoreID.
func AuthorizeResource(ac AuthContext, resourceStoreID string) error {
	if err := RequireAdmin(ac); err != nil {
		return err
	}
	if ac.IsSuper() {
		return nil
	}
	tenant := ac.Tenant()
	if tenant == "" {
		return apperr.New(apperr.Configuration, msgNoTenant)
	}
	if tenant != resourceStoreID {
		return apperr.New(apperr.Forbidden, msgNotOwner)
	}
	return nil
}

// ListingTenant returns the store filter for a listing. An empty result with
// a nil error means "all stores" and is only produced for SUPER_ADMIN.
// For everyone else the requested store is ignored.
func ListingTenant(ac AuthContext, requested string) (string, error) {
	if err := RequireAdmin(ac); err != nil {
		return "", err
	}
	if ac.IsSuper() {
		return strings.TrimSpace(requested), nil
	}
	tenant := ac.Tenant()
	if tenant == "" {
		return "", apperr.New(apperr.Configuration, msgNoTenant)
	}
	return tenant, nil
}

// CreationTenant returns the store a new record must be written to.
// SUPER_ADMIN must name it; everyone else always gets their own store, no
// matter what the payload says.
func CreationTenant(ac AuthContext, requested string) (string, error) {
	if err := RequireAdmin(ac); err != nil {
		return "", err
	}
	if ac.IsSuper() {
		target := strings.TrimSpace(requested)
		if target == "" {
			return "", apperr.New(apperr.Configuration, msgTargetRequired)
		}
		return target, nil
	}
	tenant := ac.Tenant()
	if tenant == "" {
		return "", apperr.New(apperr.Configuration, msgNoTenant)
	}
	return tenant, nil
}
