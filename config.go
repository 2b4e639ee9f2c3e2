package bankgate

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Config is the process configuration, loaded from the environment by
// cmd/server.
type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"3000"`

	Database DatabaseConfig `envPrefix:""`
	Admin    AdminConfig    `envPrefix:"ADMIN_"`
	Cognito  CognitoConfig  `envPrefix:"COGNITO_"`
}

// DatabaseConfig selects the backing store.
type DatabaseConfig struct {
	DSN string `env:"DATABASE_URL"`
}

// AdminConfig feeds the startup agent bootstrap.
type AdminConfig struct {
	Email             string `env:"EMAIL"`
	TemporaryPassword string `env:"TEMPORARY_PASSWORD"`
}

// CognitoConfig configures the identity provider adapter.
type CognitoConfig struct {
	Region       string `env:"REGION"`
	UserPoolID   string `env:"USER_POOL_ID"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	// Endpoint overrides the service URL, for local pool emulators.
	Endpoint string `env:"ENDPOINT"`
}

// Validate rejects configurations that cannot produce a working process.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Database),
		validation.Field(&c.Admin),
		validation.Field(&c.Cognito),
	)
}

func (d DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.DSN, validation.Required),
	)
}

func (a AdminConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Email, validation.Required, is.Email),
		validation.Field(&a.TemporaryPassword, validation.Required, validation.Length(8, 100)),
	)
}

func (c CognitoConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Region, validation.Required),
		validation.Field(&c.UserPoolID, validation.Required),
		validation.Field(&c.ClientID, validation.Required),
	)
}
