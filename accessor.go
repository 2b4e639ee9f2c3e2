package bankgate

import (
	"github.com/goliatone/go-router"
)

// CurrentPrincipal returns the Principal the access guard published for this
// request. Absence means the route was registered without the guard, which is
// a misconfiguration; it surfaces as Unauthenticated rather than a panic.
func CurrentPrincipal(c router.Context) (*Principal, error) {
	principal, ok := RouterPrincipal(c)
	if !ok || principal == nil {
		return nil, ErrUnauthenticated
	}
	return principal, nil
}

// CurrentToken returns the raw bearer token the guard published.
func CurrentToken(c router.Context) (string, error) {
	token, ok := RouterToken(c)
	if !ok || token == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}

// RequirePrincipal narrows the request principal by sub-role. With no role it
// behaves like CurrentPrincipal. For regular accounts the sub-role must equal
// the requirement; for agents the role set must contain it.
func RequirePrincipal(c router.Context, role string) (*Principal, error) {
	principal, err := CurrentPrincipal(c)
	if err != nil {
		return nil, err
	}

	if role == "" {
		return principal, nil
	}

	if !principal.HasRole(role) {
		return nil, ErrGuardForbidden
	}

	return principal, nil
}

// RequireUser returns the regular account behind the request, optionally
// narrowed by sub-role.
func RequireUser(c router.Context, role SubRole) (*User, error) {
	principal, err := RequirePrincipal(c, role)
	if err != nil {
		return nil, err
	}
	if principal.User == nil {
		return nil, ErrGuardForbidden
	}
	return principal.User, nil
}

// RequireAgent returns the agent behind the request, optionally narrowed by
// an agent role grant.
func RequireAgent(c router.Context, role AgentRole) (*Agent, error) {
	principal, err := RequirePrincipal(c, role)
	if err != nil {
		return nil, err
	}
	if principal.Agent == nil {
		return nil, ErrGuardForbidden
	}
	return principal.Agent, nil
}
