package bankgate

// Principal is the resolved identity of an inbound request: a regular user or
// an agent, plus role data. It is constructed per request by the access guard
// and discarded at request end; it is never persisted.
type Principal struct {
	Type  AccountType
	User  *User
	Agent *Agent
}

// NewUserPrincipal projects a regular account.
func NewUserPrincipal(u *User) *Principal {
	return &Principal{Type: AccountTypeRegular, User: u}
}

// NewAgentPrincipal projects an agent account.
func NewAgentPrincipal(a *Agent) *Principal {
	return &Principal{Type: AccountTypeAgent, Agent: a}
}

// Email returns the account email regardless of type.
func (p *Principal) Email() string {
	switch {
	case p == nil:
		return ""
	case p.User != nil:
		return p.User.Email
	case p.Agent != nil:
		return p.Agent.Email
	}
	return ""
}

// ProviderID returns the external subject identifier.
func (p *Principal) ProviderID() string {
	switch {
	case p == nil:
		return ""
	case p.User != nil:
		return p.User.ProviderID
	case p.Agent != nil:
		return p.Agent.ProviderID
	}
	return ""
}

// SubRole returns the regular account's sub-role, empty for agents.
func (p *Principal) SubRole() SubRole {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.SubRole
}

// HasAgentRole reports whether an agent principal carries the grant.
func (p *Principal) HasAgentRole(role AgentRole) bool {
	if p == nil || p.Agent == nil {
		return false
	}
	return p.Agent.HasRole(role)
}

// HasRole narrows the principal by sub-role: scalar equality for users, set
// membership for agents.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	if p.User != nil {
		return p.User.SubRole == role
	}
	return p.HasAgentRole(role)
}
