package bankgate

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountType is the structural classification of an account: which store
// holds the row. It is never a client-settable column.
type AccountType = string

const (
	// AccountTypeRegular is an end-user account.
	AccountTypeRegular AccountType = "regular"
	// AccountTypeAgent is an administrative back-office account.
	AccountTypeAgent AccountType = "agent"
)

// SubRole is the finer-grained classification of a regular account.
type SubRole = string

const (
	// SubRoleIndividual is a personal account.
	SubRoleIndividual SubRole = "individual"
	// SubRoleBusiness is an account allowed to own a business profile.
	SubRoleBusiness SubRole = "business"
)

// AgentRole is one grant inside an agent's role set.
type AgentRole = string

const (
	// AgentRoleAdmin allows administrative operations such as force-confirm.
	AgentRoleAdmin AgentRole = "admin"
	// AgentRoleAgent is the baseline back-office grant.
	AgentRoleAgent AgentRole = "agent"
)

// BusinessPosition is the declarant's position inside the business.
type BusinessPosition = string

const (
	PositionDirector BusinessPosition = "director"
	PositionEmployee BusinessPosition = "employee"
	PositionOwner    BusinessPosition = "owner"
)

// User is a regular account. The provider owns credentials; this row mirrors
// the provider subject plus local profile data and confirmation flags.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID                uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ProviderID        string    `bun:"provider_id" json:"provider_id,omitempty"`
	Email             string    `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone             string    `bun:"phone_number,unique,nullzero" json:"phone_number,omitempty"`
	ConfirmationEmail bool      `bun:"confirmation_email" json:"confirmation_email"`
	ConfirmationPhone bool      `bun:"confirmation_phone" json:"confirmation_phone"`
	SubRole           SubRole   `bun:"sub_role,notnull,default:'individual'" json:"sub_role,omitempty"`

	FirstName   string     `bun:"first_name" json:"first_name,omitempty"`
	MiddleName  string     `bun:"middle_name" json:"middle_name,omitempty"`
	LastName    string     `bun:"last_name" json:"last_name,omitempty"`
	DateOfBirth *time.Time `bun:"date_of_birth,nullzero" json:"date_of_birth,omitempty"`
	Region      string     `bun:"region" json:"region,omitempty"`
	Country     string     `bun:"country" json:"country,omitempty"`
	City        string     `bun:"city" json:"city,omitempty"`
	Postcode    string     `bun:"postcode" json:"postcode,omitempty"`

	BusinessProfile *BusinessProfile `bun:"rel:has-one,join:id=user_id" json:"business_profile,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// FullName joins the non-empty name parts.
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// FullyConfirmed reports whether both contact channels are verified.
func (u *User) FullyConfirmed() bool {
	return u.ConfirmationEmail && u.ConfirmationPhone
}

// Agent is an administrative account. Its role set is multi-valued.
type Agent struct {
	bun.BaseModel `bun:"table:agents,alias:agt"`

	ID         uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ProviderID string      `bun:"provider_id,unique" json:"provider_id,omitempty"`
	Email      string      `bun:"email,notnull,unique" json:"email,omitempty"`
	Name       string      `bun:"name" json:"name,omitempty"`
	Enabled    bool        `bun:"enabled,default:true" json:"enabled"`
	Roles      []AgentRole `bun:"roles" json:"roles,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasRole reports whether the agent's role set contains the grant.
func (a *Agent) HasRole(role AgentRole) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// BusinessProfile is owned one-to-one by a business sub-role user.
type BusinessProfile struct {
	bun.BaseModel `bun:"table:business_profiles,alias:biz"`

	ID     uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID uuid.UUID `bun:"user_id,notnull,unique,type:uuid" json:"user_id,omitempty"`
	User   *User     `bun:"rel:belongs-to,join:user_id=id" json:"-"`

	LegalType string           `bun:"legal_type" json:"legal_type,omitempty"`
	Name      string           `bun:"name,notnull" json:"name,omitempty"`
	Position  BusinessPosition `bun:"position" json:"position,omitempty"`
	Region    string           `bun:"region" json:"region,omitempty"`
	Address   string           `bun:"address" json:"address,omitempty"`
	City      string           `bun:"city" json:"city,omitempty"`
	Postcode  string           `bun:"postcode" json:"postcode,omitempty"`
	Industry  string           `bun:"industry" json:"industry,omitempty"`
	Website   string           `bun:"website" json:"website,omitempty"`
	Size      string           `bun:"size" json:"size,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
