package authz

import (
	"fmt"

	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx"
)

// RequirePermission checks claims for an exact, case-sensitive permission.
// A token with no permissions claim at all is reported separately from one
// that simply lacks this permission.
func RequirePermission(claims *jwtx.Claims, permission string) error {
	if claims == nil || !claims.HasPermissionsClaim() {
		return NewError(KindPermissionsClaimMissing, nil)
	}
	if !claims.HasPermission(permission) {
		return NewError(KindPermissionNotGranted, fmt.Errorf("missing %q", permission))
	}
	return nil
}
