package cognito

import (
	"fmt"
)

// Config configures the Cognito identity provider adapter.
type Config struct {
	// Region hosts the user pool, e.g. "eu-west-1".
	Region string
	// UserPoolID is the pool identifier, e.g. "eu-west-1_Abc123".
	UserPoolID string
	// ClientID is the app client the backend authenticates through.
	ClientID string
	// ClientSecret enables SECRET_HASH computation when the app client has a
	// secret. Empty means the client has no secret.
	ClientSecret string
	// Endpoint overrides the service URL, for local pool emulators.
	Endpoint string
	// AgentTemporaryPassword seeds provisioned accounts; holders must rotate
	// it through the new-password challenge on first sign-in.
	AgentTemporaryPassword string
}

// Validate reports whether the adapter can operate with this configuration.
func (c Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("cognito: region is required")
	}
	if c.UserPoolID == "" {
		return fmt.Errorf("cognito: user pool id is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("cognito: client id is required")
	}
	return nil
}

// IssuerURL is the token issuer for this pool.
func (c Config) IssuerURL() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

// JWKSURL is where the pool publishes its signing keys.
func (c Config) JWKSURL() string {
	return c.IssuerURL() + "/.well-known/jwks.json"
}
