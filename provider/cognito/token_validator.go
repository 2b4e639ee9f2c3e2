package cognito

import (
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	bankgate "github.com/goliatone/bankgate"
)

// TokenValidator screens bearer tokens against the pool's published signing
// keys before the guard pays for a provider round trip. It checks signature,
// expiry, and issuer; full principal resolution still happens afterwards.
type TokenValidator struct {
	config Config
	jwks   *keyfunc.JWKS
}

var _ bankgate.TokenScreener = (*TokenValidator)(nil)

// NewTokenValidator fetches the pool JWKS and keeps it refreshed in the
// background.
func NewTokenValidator(cfg Config) (*TokenValidator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	jwks, err := keyfunc.Get(cfg.JWKSURL(), keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			log.Printf("failed to do a background refresh of the pool JWK set: %s", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cognito: failed to fetch JWK set: %w", err)
	}

	return &TokenValidator{config: cfg, jwks: jwks}, nil
}

// Screen implements the token screener.
func (v *TokenValidator) Screen(tokenString string) error {
	token, err := jwt.Parse(tokenString, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.config.IssuerURL()),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("cognito: token rejected: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("cognito: token rejected")
	}
	return nil
}

// Close stops the background JWKS refresh.
func (v *TokenValidator) Close() {
	v.jwks.EndBackground()
}
