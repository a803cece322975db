package domain

import (
	"fmt"
	"strconv"
)

// Policy lists the roles an operation requires. An empty policy is public.
type Policy struct {
	Roles []string
}

// Public returns a policy without role restrictions.
func Public() Policy {
	return Policy{}
}

// RequireRoles returns a policy satisfied by any of the given roles. When a
// request also carries a resource id, the resource owner is let through.
func RequireRoles(roles ...string) Policy {
	return Policy{Roles: roles}
}

// IsPublic reports whether the policy requires no role at all.
func (p Policy) IsPublic() bool {
	return len(p.Roles) == 0
}

func (p Policy) allows(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Reason names the single rule that produced a Decision.
type Reason string

const (
	ReasonPublic            Reason = "public"
	ReasonRoleMatch         Reason = "role_match"
	ReasonOwnershipMatch    Reason = "ownership_match"
	ReasonUnauthenticated   Reason = "unauthenticated"
	ReasonInvalidResourceID Reason = "invalid_resource_id"
	ReasonNoMatch           Reason = "no_match_no_ownership"
)

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err returns nil for allowed decisions and an error wrapping ErrForbidden
// otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
}

func allow(r Reason) Decision { return Decision{Allowed: true, Reason: r} }
func deny(r Reason) Decision  { return Decision{Allowed: false, Reason: r} }

// Authorize decides whether principal may run an operation guarded by
// policy. resourceID is the raw identifier taken from the request path; an
// empty string means the request targets no specific resource.
//
// Rules are evaluated in order and the first one that applies wins:
//
//	public policy           -> allow
//	no principal or role    -> deny
//	role in policy          -> allow
//	resource id present     -> allow only if it parses and equals the principal id
//	otherwise               -> deny
func Authorize(policy Policy, principal *Principal, resourceID string) Decision {
	if policy.IsPublic() {
		return allow(ReasonPublic)
	}
	if principal == nil || principal.Role == "" {
		return deny(ReasonUnauthenticated)
	}
	if policy.allows(principal.Role) {
		return allow(ReasonRoleMatch)
	}
	if resourceID == "" {
		return deny(ReasonNoMatch)
	}

	id, err := strconv.ParseInt(resourceID, 10, 64)
	if err != nil {
		return deny(ReasonInvalidResourceID)
	}
	if id == principal.UserID {
		return allow(ReasonOwnershipMatch)
	}
	return deny(ReasonNoMatch)
}
