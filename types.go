package bankgate

import (
	"context"
	"fmt"
	"strings"
)

// Logger is the minimal structured logging surface used across the package:
// a message followed by alternating key-value pairs, slog style. The default
// implementation prints to stdout; injected loggers forward to slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// AttributeEmail and AttributePhone are the provider-side attribute names for
// the two verifiable contact channels.
const (
	AttributeEmail = "email"
	AttributePhone = "phone_number"
)

// AccountTypeAttribute is the provider user attribute that routes a subject to
// the regular or agent store during principal resolution.
const AccountTypeAttribute = "custom:account_type"

// ChallengeNewPasswordRequired is the only auth challenge the resolver
// forwards to the provider. Any other challenge name is returned to the
// caller unhandled.
const ChallengeNewPasswordRequired = "NEW_PASSWORD_REQUIRED"

// AuthTokens is a completed authentication result issued by the provider.
type AuthTokens struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
}

// SignInResult is the outcome of a provider sign-in attempt: either a set of
// tokens or a named challenge plus the opaque session needed to answer it.
type SignInResult struct {
	Tokens        *AuthTokens
	ChallengeName string
	Session       string
}

// Completed reports whether the provider finished authentication in one step.
func (r *SignInResult) Completed() bool {
	return r != nil && r.Tokens != nil && r.Tokens.AccessToken != ""
}

// SignUpResult is the outcome of provider-side account creation.
type SignUpResult struct {
	SubjectID string
	// Confirmed is set when the provider confirmed the account immediately,
	// without a verification code round trip.
	Confirmed bool
}

// ProviderUser is the provider's view of the subject behind a token.
type ProviderUser struct {
	SubjectID  string
	Attributes map[string]string
}

// Attribute returns a named user attribute and whether it was present.
func (u *ProviderUser) Attribute(name string) (string, bool) {
	if u == nil || u.Attributes == nil {
		return "", false
	}
	v, ok := u.Attributes[name]
	return v, ok
}

// ChallengeInput carries the challenge-specific payload for
// RespondToAuthChallenge. Only the new-password challenge is populated today.
type ChallengeInput struct {
	Email       string
	NewPassword string
}

// ContactUpdate is a partial update of the two verifiable contact attributes.
type ContactUpdate struct {
	Email string
	Phone string
}

// Empty reports whether the update carries no attribute at all.
func (c ContactUpdate) Empty() bool {
	return c.Email == "" && c.Phone == ""
}

// PasswordResetInput finalizes a forgotten-password flow.
type PasswordResetInput struct {
	Email       string
	Code        string
	NewPassword string
}

// IdentityProvider is the external capability boundary for every credential
// operation. Implementations must not be wrapped in retries; failures
// propagate to the caller as-is.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	RespondToAuthChallenge(ctx context.Context, challengeName, session string, input ChallengeInput) (*SignInResult, error)

	CreateUserByEmail(ctx context.Context, email string) (*SignUpResult, error)
	CreateAgentUser(ctx context.Context, email string, suppressNotification bool) (string, error)

	ConfirmSignUp(ctx context.Context, email, code string) error
	ResendConfirmationCode(ctx context.Context, email string) error
	AdminConfirmUser(ctx context.Context, email string) error

	ChangePassword(ctx context.Context, token, newPassword, oldPassword string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ConfirmForgotPassword(ctx context.Context, input PasswordResetInput) error

	UpdateUserAttributes(ctx context.Context, token string, update ContactUpdate) error
	AttributeVerificationCode(ctx context.Context, token, attributeName string) error
	VerifyUserAttribute(ctx context.Context, token, code, attributeName string) error

	GetUser(ctx context.Context, token string) (*ProviderUser, error)

	Logout(ctx context.Context, token string) error
	LogoutForUser(ctx context.Context, email string) error
}

// TokenScreener optionally pre-validates a bearer token before the guard pays
// for a provider round trip. It is advisory: a passing token still goes
// through full principal resolution.
type TokenScreener interface {
	Screen(tokenString string) error
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println("[ERR] BANKGATE " + formatLogLine(msg, args...))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println("[INF] BANKGATE " + formatLogLine(msg, args...))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println("[DBG] BANKGATE " + formatLogLine(msg, args...))
}

// formatLogLine renders a message plus alternating key-value pairs as
// "msg k=v k=v". A trailing odd argument is appended as-is.
func formatLogLine(msg string, args ...any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		b.WriteString(" ")
		if i+1 < len(args) {
			fmt.Fprintf(&b, "%v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, "%v", args[i])
		}
	}
	return b.String()
}
